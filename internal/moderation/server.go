// Package moderation exposes internal/detect over HTTP and WebSocket,
// adapted from the teacher's internal/proxy reverse-proxy server: the same
// gorilla/mux router and graceful-shutdown shape, pointed at a detection
// pipeline instead of upstream LLM providers (SPEC_FULL.md §4.12).
package moderation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/yourusername/wordguard/internal/audit"
	"github.com/yourusername/wordguard/internal/cache"
	"github.com/yourusername/wordguard/internal/config"
	"github.com/yourusername/wordguard/internal/detect"
	"github.com/yourusername/wordguard/internal/logger"
	"github.com/yourusername/wordguard/internal/ratelimit"
	"github.com/yourusername/wordguard/internal/web"
	"github.com/yourusername/wordguard/internal/wsfeed"
	"go.uber.org/zap"
)

// Server is the moderation HTTP+WebSocket service.
type Server struct {
	config   *config.Config
	logger   *logger.Logger
	detector *detect.Detector
	cache    *cache.DetectionCache // nil if caching is disabled
	audit    *audit.ParquetSink    // nil if auditing is disabled
	limiter  *ratelimit.Limiter
	router   *mux.Router
	server   *http.Server
	wsHub    *wsfeed.Hub
}

// Deps carries the already-constructed collaborators New wires together;
// Cache and AuditSink may be nil when their config sections are disabled.
type Deps struct {
	Detector  *detect.Detector
	Cache     *cache.DetectionCache
	AuditSink *audit.ParquetSink
}

// New creates a new moderation server instance.
func New(cfg *config.Config, log *logger.Logger, deps Deps) *Server {
	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMin)

	wsHub := wsfeed.NewHub(&wsfeed.HubConfig{
		BroadcastDetections:  cfg.WebSocket.Enabled,
		BroadcastConnections: cfg.WebSocket.Enabled,
	}, log.WithComponent("wsfeed").Logger)

	router := mux.NewRouter()

	s := &Server{
		config:   cfg,
		logger:   log.WithComponent("moderation"),
		detector: deps.Detector,
		cache:    deps.Cache,
		audit:    deps.AuditSink,
		limiter:  limiter,
		router:   router,
		wsHub:    wsHub,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/", web.ServeDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard", web.ServeDashboard).Methods("GET")

	if s.config.WebSocket.Enabled {
		s.router.HandleFunc(s.config.WebSocket.Path, s.handleWebSocket).Methods("GET")
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)

	guarded := api.NewRoute().Subrouter()
	guarded.Use(s.rateLimitMiddleware)
	guarded.HandleFunc("/detect", s.handleDetect).Methods("POST")
	guarded.HandleFunc("/sanitize", s.handleSanitize).Methods("POST")

	api.HandleFunc("/languages", s.handleLanguages).Methods("GET")
}

// Start starts the HTTP server and the WebSocket hub's run loop.
func (s *Server) Start(stop <-chan struct{}) error {
	s.logger.Info("starting wordguard moderation server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("websocket_enabled", s.config.WebSocket.Enabled),
		zap.Bool("cache_enabled", s.cache != nil),
		zap.Bool("audit_enabled", s.audit != nil),
	)

	go s.wsHub.Run(stop)

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping wordguard moderation server")
	return s.server.Shutdown(ctx)
}

// GetWebSocketHub returns the WebSocket hub for broadcasting events.
func (s *Server) GetWebSocketHub() *wsfeed.Hub {
	return s.wsHub
}
