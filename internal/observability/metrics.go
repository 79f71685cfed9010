package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutriai",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nutriai",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	mealsLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutriai",
		Name:      "meals_logged_total",
		Help:      "Meals created, by meal type.",
	}, []string{"meal_type"})
	recalculations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nutriai",
		Name:      "daily_log_recalculations_total",
		Help:      "Daily log recomputations from meals.",
	})
	authAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutriai",
		Name:      "auth_attempts_total",
		Help:      "Telegram sign-in and token refresh attempts by result.",
	}, []string{"kind", "result"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpLatency, mealsLogged, recalculations, authAttempts)
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func MealLogged(mealType string) {
	mealsLogged.WithLabelValues(mealType).Inc()
}

func DailyLogRecalculated() {
	recalculations.Inc()
}

// AuthAttempt counts a sign-in ("telegram") or "refresh" with result "ok" or "rejected".
func AuthAttempt(kind, result string) {
	authAttempts.WithLabelValues(kind, result).Inc()
}
