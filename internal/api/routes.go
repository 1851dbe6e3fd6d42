package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citelink/citelink/internal/api/handlers"
	"github.com/citelink/citelink/internal/api/middleware"
	"github.com/citelink/citelink/internal/async"
	"github.com/citelink/citelink/internal/cache"
	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/internal/events"
	"github.com/citelink/citelink/internal/graph"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/internal/queue"
	"github.com/citelink/citelink/pkg/citation"
)

// Server represents the HTTP server and everything its routes are
// wired against.
type Server struct {
	app *fiber.App

	store   corpus.Store
	cache   cache.Cache
	queue   queue.Queue
	service *citation.Service
	runner  *async.Runner
	graph   *graph.Graph
	bus     *events.Bus
	hooks   *events.WebhookManager

	logger     *observability.Logger
	metrics    *observability.Metrics
	authConfig *middleware.AuthConfig
}

// NewServer creates a new API server. cache, queue, runner, graph, bus
// and hooks may be nil when the corresponding backend isn't
// configured; routes that depend on them are skipped in that case.
func NewServer(
	store corpus.Store,
	c cache.Cache,
	q queue.Queue,
	service *citation.Service,
	runner *async.Runner,
	g *graph.Graph,
	bus *events.Bus,
	hooks *events.WebhookManager,
	logger *observability.Logger,
	metrics *observability.Metrics,
	authConfig *middleware.AuthConfig,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Citelink API",
		ServerHeader: "Citelink",
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	return &Server{
		app:        app,
		store:      store,
		cache:      c,
		queue:      q,
		service:    service,
		runner:     runner,
		graph:      g,
		bus:        bus,
		hooks:      hooks,
		logger:     logger,
		metrics:    metrics,
		authConfig: authConfig,
	}
}

// SetupRoutes configures all API routes.
func (s *Server) SetupRoutes() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Metrics(s.metrics))

	s.app.Get("/health", handlers.HealthCheck())
	s.app.Get("/ready", handlers.ReadinessCheck(s.store))
	s.app.Get("/metrics", handlers.MetricsHandler(s.metrics))

	authHandler := handlers.NewAuthHandler(s.logger, s.authConfig)
	auth := s.app.Group("/v1/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", middleware.JWTAuth(s.authConfig, s.logger), authHandler.RefreshToken)
	auth.Post("/validate", middleware.JWTAuth(s.authConfig, s.logger), authHandler.ValidateToken)
	auth.Post("/api-key", middleware.JWTAuth(s.authConfig, s.logger), authHandler.GenerateAPIKey)

	v1 := s.app.Group("/v1", middleware.JWTAuth(s.authConfig, s.logger))

	citationHandler := handlers.NewCitationHandler(s.service, s.runner, s.bus, s.logger)
	v1.Post("/extract", citationHandler.Extract)
	if s.runner != nil {
		v1.Post("/extract/async", citationHandler.ExtractAsync)
		v1.Get("/jobs/:id", citationHandler.GetJob)
	}

	annotateHandler := handlers.NewAnnotateHandler(s.service, s.logger)
	v1.Post("/annotate", annotateHandler.Annotate)

	if s.store != nil {
		documentHandler := handlers.NewDocumentHandler(s.store, s.service, s.bus, s.logger)
		documents := v1.Group("/documents")
		documents.Post("/", documentHandler.Create)
		documents.Get("/", documentHandler.List)
		documents.Get("/:id", documentHandler.Get)
		documents.Delete("/:id", documentHandler.Delete)
		documents.Get("/:id/citations", documentHandler.Citations)
	}

	if s.hooks != nil {
		webhookHandler := handlers.NewWebhookHandler(s.hooks, s.logger)
		webhooks := v1.Group("/webhooks")
		webhooks.Post("/", webhookHandler.Create)
		webhooks.Get("/", webhookHandler.List)
		webhooks.Get("/:id", webhookHandler.Get)
		webhooks.Delete("/:id", webhookHandler.Delete)
		webhooks.Post("/:id/enable", webhookHandler.Enable)
		webhooks.Post("/:id/disable", webhookHandler.Disable)
	}

	if s.graph != nil {
		graphHandler := handlers.NewGraphHandler(s.graph, s.logger)
		graphGroup := v1.Group("/graph")
		graphGroup.Get("/authority", graphHandler.Authority)
		graphGroup.Get("/chain", graphHandler.Chain)
		graphGroup.Get("/depth/:id", graphHandler.Depth)
	}

	if s.store != nil {
		statsHandler := handlers.NewStatsHandler(s.store, s.cache, s.queue, s.graph, s.logger)
		stats := v1.Group("/stats")
		stats.Get("/", statsHandler.GetStats)
		stats.Get("/graph", statsHandler.GetGraphStats)
	}

	s.app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resource not found",
			"path":  c.Path(),
		})
	})
}

// GetApp returns the Fiber app.
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Start starts the HTTP server.
func (s *Server) Start(address string) error {
	return s.app.Listen(address)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
