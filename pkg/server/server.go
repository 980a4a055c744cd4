// Package server exposes the classification pipeline over HTTP using
// Fiber. All decision logic lives in pkg/ml; this layer only binds
// requests, maps errors to statuses, and carries cross-cutting
// middleware (CORS, recovery, API key, version/latency headers).
package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/truthscan/truthscan/pkg/config"
	"github.com/truthscan/truthscan/pkg/history"
	"github.com/truthscan/truthscan/pkg/ml"
)

// Server bundles the Fiber app with its collaborators.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	analyzer *ml.Analyzer
	oracle   ml.Oracle
	store    history.Store
}

// New assembles the HTTP surface. store may be nil when history is
// disabled; the history endpoint then reports 503.
func New(cfg *config.Config, analyzer *ml.Analyzer, oracle ml.Oracle, store history.Store) *Server {
	app := fiber.New(fiber.Config{
		AppName:      config.ServiceName,
		ErrorHandler: errorHandler,
	})

	s := &Server{
		app:      app,
		cfg:      cfg,
		analyzer: analyzer,
		oracle:   oracle,
		store:    store,
	}

	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	app.Use(versionMiddleware)
	app.Use(latencyMiddleware)
	if cfg.APIKey != "" {
		app.Use(apiKeyMiddleware(cfg.APIKey))
	}

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)
	app.Post("/analyze", s.handleAnalyze)
	app.Get("/history", s.handleHistory)
	app.Post("/related", s.handleRelated)

	return s
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or is shut down.
func (s *Server) Listen() error {
	log.Printf("%s listening on %s", config.ServiceName, s.cfg.ListenAddr)
	return s.app.Listen(s.cfg.ListenAddr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler converts unhandled errors into the JSON error shape.
// Handlers normally map domain errors themselves; this is the backstop
// for panics recovered by middleware and Fiber-internal errors.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	detail := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		detail = fiberErr.Message
	} else {
		log.Printf("Unhandled error: %v", err)
	}

	return c.Status(code).JSON(fiber.Map{"detail": detail})
}
