package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(mealsLogged.WithLabelValues("lunch"))
	MealLogged("lunch")
	assert.Equal(t, before+1, testutil.ToFloat64(mealsLogged.WithLabelValues("lunch")))

	before = testutil.ToFloat64(recalculations)
	DailyLogRecalculated()
	assert.Equal(t, before+1, testutil.ToFloat64(recalculations))

	before = testutil.ToFloat64(authAttempts.WithLabelValues("telegram", "ok"))
	AuthAttempt("telegram", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(authAttempts.WithLabelValues("telegram", "ok")))
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/summary", "200"))
	ObserveRequest("GET", "/api/summary", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/summary", "200")))
}
