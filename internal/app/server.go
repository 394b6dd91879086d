package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/tbouchet/plume/internal/api/handlers"
	appMiddleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/config"
	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, store core.Store, gen core.Generator, logger zerolog.Logger) *Server {
	authService := services.NewAuthService(store, cfg)
	pageService := services.NewPageService(store)
	blockService := services.NewBlockService(store)
	taskService := services.NewTaskService(store)
	linkService := services.NewLinkService(store)
	searchService := services.NewSearchService(store)
	aiService := services.NewAIService(store, gen, cfg.AIModel, logger)

	authHandler := handlers.NewAuthHandler(authService)
	pageHandler := handlers.NewPageHandler(pageService)
	blockHandler := handlers.NewBlockHandler(blockService)
	taskHandler := handlers.NewTaskHandler(taskService)
	linkHandler := handlers.NewLinkHandler(linkService)
	searchHandler := handlers.NewSearchHandler(searchService)
	analyzeHandler := handlers.NewAnalyzeHandler(aiService)
	traceHandler := handlers.NewTraceHandler(aiService)
	healthHandler := handlers.NewHealthHandler(store, aiService)

	secret := []byte(cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// public endpoints
	r.Group(func(public chi.Router) {
		public.Use(chimiddleware.Timeout(60 * time.Second))
		public.Post("/auth/signup", authHandler.Signup)
		public.Post("/auth/login", authHandler.Login)
		public.Post("/auth/refresh", authHandler.Refresh)
		public.Get("/health/z", healthHandler.Healthz)
		public.Get("/health/ai", healthHandler.HealthAI)
	})

	// protected endpoints
	r.Group(func(protected chi.Router) {
		protected.Use(chimiddleware.Timeout(60 * time.Second))
		protected.Use(appMiddleware.JWTMiddleware(secret))

		protected.Post("/pages", pageHandler.Create)
		protected.Get("/pages", pageHandler.List)
		protected.Get("/pages/{pageID}", pageHandler.Get)
		protected.Put("/pages/{pageID}", pageHandler.Update)
		protected.Delete("/pages/{pageID}", pageHandler.Delete)

		protected.Post("/pages/{pageID}/blocks", blockHandler.Create)
		protected.Get("/pages/{pageID}/blocks", blockHandler.ListByPage)
		protected.Get("/blocks/{blockID}", blockHandler.Get)
		protected.Put("/blocks/{blockID}", blockHandler.Update)
		protected.Delete("/blocks/{blockID}", blockHandler.Delete)
		protected.Post("/blocks/{blockID}/reorder", blockHandler.Reorder)

		protected.Post("/tasks", taskHandler.Create)
		protected.Get("/tasks", taskHandler.List)
		protected.Get("/tasks/today", taskHandler.Today)
		protected.Get("/tasks/overdue", taskHandler.Overdue)
		protected.Get("/tasks/this-week", taskHandler.ThisWeek)
		protected.Get("/tasks/{taskID}", taskHandler.Get)
		protected.Put("/tasks/{taskID}", taskHandler.Update)
		protected.Delete("/tasks/{taskID}", taskHandler.Delete)
		protected.Post("/tasks/{taskID}/status", taskHandler.UpdateStatus)

		protected.Post("/links", linkHandler.Create)
		protected.Get("/links", linkHandler.List)
		protected.Get("/links/{linkID}", linkHandler.Get)
		protected.Delete("/links/{linkID}", linkHandler.Delete)
		protected.Get("/pages/{pageID}/links", linkHandler.Outlinks)
		protected.Get("/pages/{pageID}/backlinks", linkHandler.Backlinks)

		protected.Get("/search", searchHandler.Search)

		protected.Get("/ai-traces", traceHandler.List)
		protected.Get("/ai-traces/pages/{pageID}", traceHandler.ListByPage)
		protected.Get("/ai-traces/{traceID}", traceHandler.Get)
	})

	// analyze endpoints run without the router timeout; the model call
	// carries its own deadline.
	r.Group(func(analyze chi.Router) {
		analyze.Use(appMiddleware.JWTMiddleware(secret))
		analyze.Post("/ai-analyze/summarize", analyzeHandler.Summarize)
		analyze.Post("/ai-analyze/extract-actions", analyzeHandler.ExtractActions)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: logger}
}

// Handler exposes the routed mux so tests can drive the full stack
// without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
