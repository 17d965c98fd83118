// Package server exposes the partner experience over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/valweek/internal/auth"
	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/kv"
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/metrics"
	"github.com/julianstephens/valweek/internal/storage"
	"github.com/julianstephens/valweek/internal/unlock"
)

const localSessionID = "session"

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
}

// Deps are the collaborators the handlers use. Sessions holds per-viewer
// preview slots; Global holds the admin override and may be the same store.
type Deps struct {
	Store    storage.Provider
	Resolver *unlock.Resolver
	Sessions kv.Store
	Global   kv.Store
	Metrics  *metrics.Metrics
}

// Server exposes the Fiber application.
type Server struct {
	app      *fiber.App
	cfg      Config
	deps     Deps
	validate *auth.Validator
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, deps Deps) *Server {
	if deps.Global == nil {
		deps.Global = deps.Sessions
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewMetrics()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{ExposeHeaders: constants.SessionHeader}))
	app.Use(requestLogger)
	app.Use(metrics.Middleware(deps.Metrics))

	srv := &Server{app: app, cfg: cfg, deps: deps, validate: auth.NewValidator()}
	srv.registerRoutes()
	return srv
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	logger.Info("Partner API listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.deps.Metrics.Registry, promhttp.HandlerOpts{})))

	api := s.app.Group("/api/v1")
	api.Get("/days", s.handleListDays)

	api.Get("/partners/:userId", session, s.handleGetPartner)
	api.Post("/partners/:userId/confessions", session, s.handleSaveConfession)
}

// session reuses the caller's session id or issues a new one, and echoes it.
func session(c *fiber.Ctx) error {
	id := c.Get(constants.SessionHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Locals(localSessionID, id)
	c.Set(constants.SessionHeader, id)
	return c.Next()
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	keyvals := []interface{}{
		"method", c.Method(),
		"path", c.Path(),
		"latency", time.Since(start),
	}
	if err != nil {
		keyvals = append(keyvals, "error", err)
	} else {
		keyvals = append(keyvals, "status", c.Response().StatusCode())
	}
	logger.Debug("HTTP request", keyvals...)
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		logger.Error("Unhandled request error", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
