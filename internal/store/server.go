package store

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vaidashi/order-admin/internal/config"
	"github.com/vaidashi/order-admin/pkg/logger"
	"github.com/vaidashi/order-admin/pkg/ratelimit"
)

// Server is the reference order store: the REST resource the admin
// consumes. It speaks the plain wire contract — GET /orders returns a
// bare array, PUT and DELETE address /orders/{id} — rather than the
// admin API's response envelope.
type Server struct {
	config     *config.Config
	logger     logger.Logger
	router     *mux.Router
	httpServer *http.Server
	repo       OrderRepository
	publisher  *EventPublisher
	limiter    *ratelimit.TokenBucket
}

// NewServer creates the store server on top of the given repository.
func NewServer(cfg *config.Config, repo OrderRepository, publisher *EventPublisher, logger logger.Logger) *Server {
	r := mux.NewRouter()

	server := &Server{
		config: cfg,
		logger: logger,
		router: r,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.StorePort),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		repo:      repo,
		publisher: publisher,
		limiter:   ratelimit.NewTokenBucket(cfg.RateLimit.MaxTokens, cfg.RateLimit.RefillRate),
	}

	server.setupRoutes()
	return server
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler, mainly for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.rateLimitMiddleware)

	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders", s.listOrdersHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/orders/{id}", s.getOrderHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/{id}", s.updateOrderHandler).Methods(http.MethodPut)
	s.router.HandleFunc("/orders/{id}", s.deleteOrderHandler).Methods(http.MethodDelete)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.logger.Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"remoteAddr", r.RemoteAddr,
		)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.logger.Warn("Rate limit exceeded", "path", r.URL.Path, "remoteAddr", r.RemoteAddr)
			s.respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
