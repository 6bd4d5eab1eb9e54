package web

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/purevision/purevision/pkg/device"
)

// Server exposes a small monitoring API over HTTP plus a websocket stream
// of pulse readings. Callbacks are supplied by the caller so the server
// stays decoupled from the pipeline.
type Server struct {
	app  *fiber.App
	hub  *hub
	port int
	log  *slog.Logger

	// StatusFunc returns the current pipeline status for GET /api/status.
	StatusFunc func() interface{}

	// DevicesFunc returns the managed device list for GET /api/devices.
	DevicesFunc func() []device.Info

	// ConfigureFunc applies runtime parameter changes from POST /api/config.
	ConfigureFunc func(params map[string]interface{}) error

	// RestartFunc restarts bpm tracking for POST /api/restart.
	RestartFunc func()
}

// NewServer builds the server but does not start listening.
func NewServer(port int, logger *slog.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
		}),
		hub:  newHub("status", logger),
		port: port,
		log:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api.Get("/status", func(c *fiber.Ctx) error {
		if s.StatusFunc == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "status unavailable"})
		}
		return c.JSON(s.StatusFunc())
	})

	api.Get("/devices", func(c *fiber.Ctx) error {
		if s.DevicesFunc == nil {
			return c.JSON([]device.Info{})
		}
		return c.JSON(s.DevicesFunc())
	})

	api.Post("/config", func(c *fiber.Ctx) error {
		if s.ConfigureFunc == nil {
			return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "configuration not supported"})
		}
		var params map[string]interface{}
		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err := s.ConfigureFunc(params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "applied"})
	})

	api.Post("/restart", func(c *fiber.Ctx) error {
		if s.RestartFunc != nil {
			s.RestartFunc()
		}
		return c.JSON(fiber.Map{"status": "restarted"})
	})

	// Websocket upgrade gate.
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/ws/status", websocket.New(func(conn *websocket.Conn) {
		s.hub.serveClient(conn)
	}))
}

// StartAsync begins serving in a background goroutine.
func (s *Server) StartAsync() {
	go s.hub.run()
	go func() {
		addr := fmt.Sprintf(":%d", s.port)
		s.log.Info("monitor server listening", "addr", addr)
		if err := s.app.Listen(addr); err != nil {
			s.log.Error("monitor server stopped", "error", err)
		}
	}()
}

// Publish pushes a status update to all websocket subscribers.
func (s *Server) Publish(v interface{}) {
	s.hub.broadcastJSON(v)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
