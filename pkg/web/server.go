// Package web provides the HTTP command and status surface for dancebot.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-dancebot/internal/log"
	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/hub"
	"github.com/teslashibe/go-dancebot/pkg/session"
)

// Server exposes the scheduler over REST plus a websocket event stream.
type Server struct {
	app       *fiber.App
	port      string
	scheduler *session.Scheduler
	store     *catalog.Store
	eventHub  *hub.Hub
}

// NewServer wires the routes. The scheduler should publish its events to
// the returned server via EventListener.
func NewServer(port string, scheduler *session.Scheduler, store *catalog.Store) *Server {
	s := &Server{
		port:      port,
		scheduler: scheduler,
		store:     store,
		eventHub:  hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "dancebot",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/actions", s.handleListActions)
	api.Post("/dance", s.handleDance)
	api.Post("/action/:label", s.handleSingleAction)
	api.Post("/stop", s.handleStop)
	api.Post("/intent", s.handleIntent)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// EventListener returns the session listener that feeds the websocket
// event stream.
func (s *Server) EventListener() session.Listener {
	return func(ev session.Event) {
		if err := s.eventHub.BroadcastJSON(ev); err != nil {
			log.Warn("event broadcast failed", "error", err)
		}
	}
}

// Start runs the hub and serves HTTP. Blocks.
func (s *Server) Start() error {
	go s.eventHub.Run()
	log.Info("web surface listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleEventsWS(conn *websocket.Conn) {
	client := hub.NewClient(s.eventHub, conn)
	client.Run()
}
