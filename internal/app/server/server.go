package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/portside/portside/internal/app/service"
	"github.com/portside/portside/internal/http/handler"
	"github.com/portside/portside/internal/http/middleware"
	"github.com/portside/portside/internal/infra/assets"
	"github.com/portside/portside/internal/infra/docker"
	"github.com/portside/portside/internal/infra/tailscale"
)

// Dependencies bundles everything the HTTP server needs. A nil Redis client
// simply disables rate limiting.
type Dependencies struct {
	Logger     *zap.Logger
	Redis      *redis.Client
	Shortcuts  service.ShortcutService
	Sections   service.SectionService
	Projection *service.Projection
	Runtime    docker.Runtime
	Assets     *assets.Store
	Tailscale  *tailscale.Lookup
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	app := fiber.New(fiber.Config{
		// Icon uploads ride along shortcut create/update requests.
		BodyLimit: 10 << 20,
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.CORS())
	s.app.Use(middleware.Metrics())
	s.app.Use(middleware.RateLimit(s.deps.Redis, middleware.DefaultRateLimitConfig(), s.deps.Logger))
}

func (s *Server) registerRoutes() {
	handler.NewShortcutHandler(handler.ShortcutDeps{
		Logger:    s.deps.Logger,
		Shortcuts: s.deps.Shortcuts,
		Assets:    s.deps.Assets,
	}).Register(s.app)

	handler.NewSectionHandler(handler.SectionDeps{
		Logger:   s.deps.Logger,
		Sections: s.deps.Sections,
	}).Register(s.app)

	handler.NewContainerHandler(handler.ContainerDeps{
		Logger:  s.deps.Logger,
		Runtime: s.deps.Runtime,
	}).Register(s.app)

	handler.NewSystemHandler(handler.SystemDeps{
		Logger:     s.deps.Logger,
		Projection: s.deps.Projection,
		Tailscale:  s.deps.Tailscale,
	}).Register(s.app)

	if s.deps.Assets != nil {
		s.app.Static("/uploads", s.deps.Assets.Dir())
	}
}
