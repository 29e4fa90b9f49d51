package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/ws"
)

// Dependencies wires the status server. Archive and Hub are optional; their
// routes are only mounted when set.
type Dependencies struct {
	Sampler handler.SamplerView
	Archive handler.ArchiveReader
	Hub     *ws.Hub
	Checks  map[string]handler.ReadinessCheck
	// RateLimit caps /v1 requests per client IP per minute; zero disables it.
	RateLimit int
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(logger),
		AppName:               "Moodwatch Sampler",
		DisableStartupMessage: true,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger, "/health", "/ready"))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(r.deps.Checks)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	v1 := r.app.Group("/v1")

	if r.deps.RateLimit > 0 {
		cfg := middleware.DefaultRateLimiterConfig()
		cfg.Max = r.deps.RateLimit
		r.rateLimiter = middleware.NewRateLimiter(cfg)
		v1.Use(r.rateLimiter.Handler())
	}

	if r.deps.Sampler != nil {
		samplerHandler := handler.NewSamplerHandler(r.deps.Sampler)
		v1.Get("/stats", samplerHandler.Stats)
		v1.Get("/readings", samplerHandler.Readings)
	}

	if r.deps.Archive != nil {
		archiveHandler := handler.NewArchiveHandler(r.deps.Archive, r.logger)
		archiveGroup := v1.Group("/archive")
		archiveGroup.Get("/recent", archiveHandler.Recent)
		archiveGroup.Post("/similar", archiveHandler.Similar)
		archiveGroup.Get("/distribution", archiveHandler.Distribution)
	}

	if r.deps.Hub != nil {
		v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown stops accepting connections. The hub is owned by the caller.
func (r *Router) Shutdown() error {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}
	return r.app.Shutdown()
}
