package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/nutriai/backend/internal/config"
	"github.com/nutriai/backend/internal/handlers"
	"github.com/nutriai/backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	mealHandler *handlers.MealHandler,
	statsHandler *handlers.StatsHandler,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limit per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth: stricter limit on the public endpoints
	auth := api.Group("/auth")
	authLimit := limiter.New(limiter.Config{
		Max:               cfg.AuthRateLimitPerMin,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	auth.Post("/telegram", authLimit, authHandler.Telegram)
	auth.Post("/refresh", authLimit, authHandler.Refresh)

	// JWT is attached per route so the public endpoints above stay open.
	jwt := middleware.JWTProtected(cfg)
	protected := &guarded{router: api, mw: jwt}
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Delete("/auth/account", authHandler.DeleteAccount)

	protected.Get("/profile", profileHandler.Get)
	protected.Patch("/profile", profileHandler.Update)
	protected.Get("/profile/overview", profileHandler.Overview)
	protected.Post("/profile/weight", profileHandler.AddWeight)
	protected.Get("/profile/weight/history", profileHandler.WeightHistory)
	protected.Post("/profile/water", profileHandler.AddWater)
	protected.Post("/profile/sleep", profileHandler.SetSleep)

	protected.Get("/meals", mealHandler.List)
	protected.Post("/meals", mealHandler.Create)
	protected.Patch("/meals/:id", mealHandler.Update)
	protected.Delete("/meals/:id", mealHandler.Delete)
	protected.Post("/analyze/photo", mealHandler.AnalyzePhoto)

	protected.Get("/summary", statsHandler.Summary)
	protected.Get("/history/:days", statsHandler.History)
	protected.Get("/stats/weekly", statsHandler.Weekly)
	protected.Get("/forecast/weight", statsHandler.Forecast)
	protected.Get("/goals/macros", statsHandler.Macros)
}

type guarded struct {
	router fiber.Router
	mw     fiber.Handler
}

func (g *guarded) Get(path string, h fiber.Handler)    { g.router.Get(path, g.mw, h) }
func (g *guarded) Post(path string, h fiber.Handler)   { g.router.Post(path, g.mw, h) }
func (g *guarded) Patch(path string, h fiber.Handler)  { g.router.Patch(path, g.mw, h) }
func (g *guarded) Delete(path string, h fiber.Handler) { g.router.Delete(path, g.mw, h) }
