// Package server exposes tubetracker's state and user intents as a small
// JSON API over HTTP: profile and channel management, preference updates,
// feed retrieval with filters, and scan triggers.
package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog"

	"tubetracker/config"
	"tubetracker/profile"
	"tubetracker/scheduler"
)

// Options wires the server to the rest of the application.
type Options struct {
	Profiles *profile.Store
	Config   *config.Store
	Runner   *scheduler.Runner
	// Pin is the shared-secret gate; empty disables authentication.
	Pin string
	// CORSOrigins is the allowed origin list, "*" by default.
	CORSOrigins string
	Log         zerolog.Logger
}

// Server is the HTTP API surface.
type Server struct {
	app      *fiber.App
	profiles *profile.Store
	cfg      *config.Store
	runner   *scheduler.Runner
	log      zerolog.Logger
}

// New builds the fiber app with middleware and routes.
func New(opts Options) *Server {
	s := &Server{
		app:      fiber.New(fiber.Config{AppName: "tubetracker"}),
		profiles: opts.Profiles,
		cfg:      opts.Config,
		runner:   opts.Runner,
		log:      opts.Log.With().Str("component", "server").Logger(),
	}

	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{AllowOrigins: []string{origins}}))
	s.app.Use(NewRequestLogger(s.log))

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)

	api.Use(NewPinAuth(opts.Pin))
	api.Get("/auth/validate", s.handleValidatePin)

	api.Get("/state", s.handleState)
	api.Get("/feed", s.handleFeed)

	api.Post("/profiles", s.handleCreateProfile)
	api.Delete("/profiles/:id", s.handleDeleteProfile)
	api.Post("/profiles/:id/activate", s.handleActivateProfile)

	api.Post("/channels", s.handleAddChannel)
	api.Delete("/channels/:id", s.handleRemoveChannel)

	api.Patch("/config", s.handleUpdateConfig)

	api.Post("/scan", s.handleScan)
	api.Post("/scan/all", s.handleScanAll)

	return s
}

// Listen serves the API on addr, blocking until shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
