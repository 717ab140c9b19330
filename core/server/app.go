// Package server exposes the webhook HTTP surface: inbound message ingestion,
// the verification handshake, health, and a small session administration API.
package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"log/slog"

	coreconfig "github.com/dvaldes/warouter/core/config"
	"github.com/dvaldes/warouter/core/dispatch"
	"github.com/dvaldes/warouter/core/logger"
	"github.com/dvaldes/warouter/core/router"
	"github.com/dvaldes/warouter/core/session"
)

// Server wires the routing engine and dispatcher behind the webhook endpoints.
type Server struct {
	app         *fiber.App
	engine      *router.Engine
	dispatcher  *dispatch.Dispatcher
	store       session.Store
	verifyToken string
}

// New builds the fiber application with its middleware and routes.
func New(cfg coreconfig.ServerConfig, engine *router.Engine, disp *dispatch.Dispatcher, store session.Store) *Server {
	s := &Server{
		engine:      engine,
		dispatcher:  disp,
		store:       store,
		verifyToken: cfg.VerifyToken,
	}

	app := fiber.New(fiber.Config{
		AppName:               "warouter",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	app.Use(recover.New())
	app.Use(s.requestContext)

	app.Get("/health", s.handleHealth)
	app.Get("/webhook", s.handleVerify)
	app.Post("/webhook", s.handleWebhook)
	app.Get("/sessions/:id", s.handleSessionGet)
	app.Delete("/sessions/:id", s.handleSessionReset)

	s.app = app
	return s
}

// App exposes the underlying fiber app, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on the configured address.
func (s *Server) Listen(listen string, port int) error {
	addr := fmt.Sprintf("%s:%d", listen, port)
	logger.HTTP.Info("listening",
		slog.String("event", "http.listen"),
		slog.String("listen", addr),
	)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requestContext assigns each request a correlation id and a context carrying
// it, so every downstream log line shares the same rid.
func (s *Server) requestContext(c *fiber.Ctx) error {
	rid := c.Get("X-Request-ID")
	if rid == "" {
		rid = logger.NewRID()
	}
	c.Locals("rid", rid)
	c.SetUserContext(logger.WithRID(c.UserContext(), rid))
	c.Set("X-Request-ID", rid)
	return c.Next()
}
