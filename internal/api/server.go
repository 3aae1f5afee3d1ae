package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vaidashi/order-admin/internal/cache"
	"github.com/vaidashi/order-admin/internal/client"
	"github.com/vaidashi/order-admin/internal/config"
	"github.com/vaidashi/order-admin/internal/session"
	"github.com/vaidashi/order-admin/pkg/logger"
)

// Server is the admin service: the HTTP surface over the order
// collection cache and the edit session. It owns both explicitly — they
// are constructed here, live for the life of the server, and are never
// reachable as package globals.
type Server struct {
	config      *config.Config
	logger      logger.Logger
	router      *mux.Router
	httpServer  *http.Server
	storeClient *client.OrderStoreClient
	collection  *cache.Collection
	editSession *session.EditSession
}

// NewServer creates the admin server and performs the initial order
// load. A failed initial load is logged and left for a later refresh;
// the admin must come up even when the store is down.
func NewServer(cfg *config.Config, logger logger.Logger) *Server {
	r := mux.NewRouter()

	storeClient := client.NewOrderStoreClient(cfg.StoreURL, logger)
	collection := cache.NewCollection(storeClient, logger)
	editSession := session.NewEditSession(storeClient, collection, logger)

	server := &Server{
		config: cfg,
		logger: logger,
		router: r,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		storeClient: storeClient,
		collection:  collection,
		editSession: editSession,
	}

	server.setupRoutes()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := collection.Load(ctx); err != nil {
		logger.Warn("Initial order load failed", "error", err)
	}

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

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)

	api.HandleFunc("/orders", s.getOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/orders/refresh", s.refreshOrdersHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", s.deleteOrderHandler).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id}/edit", s.beginEditHandler).Methods(http.MethodPost)

	api.HandleFunc("/edit", s.getDraftHandler).Methods(http.MethodGet)
	api.HandleFunc("/edit/field", s.setFieldHandler).Methods(http.MethodPut)
	api.HandleFunc("/edit/commit", s.commitHandler).Methods(http.MethodPost)
	api.HandleFunc("/edit/cancel", s.cancelHandler).Methods(http.MethodPost)
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
