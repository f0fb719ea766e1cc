// Package api exposes the storefront REST surface: metadata scraping,
// catalog CRUD, site settings, session carts, and the admin gate.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lucedivina/storefront/internal/auth"
	"github.com/lucedivina/storefront/internal/cart"
	"github.com/lucedivina/storefront/internal/catalog"
	"github.com/lucedivina/storefront/internal/config"
	"github.com/lucedivina/storefront/internal/observability"
	"github.com/lucedivina/storefront/internal/scraper"
	"github.com/lucedivina/storefront/internal/settings"
)

// Server provides the storefront REST API.
type Server struct {
	mux    *http.ServeMux
	cfg    config.ServerConfig
	logger *slog.Logger

	extractor *scraper.Extractor
	catalog   *catalog.Service
	settings  *settings.Service
	cart      *cart.Service
	auth      *auth.Manager
	metrics   *observability.Metrics

	httpSrv *http.Server
}

// Deps bundles the services the API fronts.
type Deps struct {
	Extractor *scraper.Extractor
	Catalog   *catalog.Service
	Settings  *settings.Service
	Cart      *cart.Service
	Auth      *auth.Manager
	Metrics   *observability.Metrics
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg config.ServerConfig, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		logger:    logger.With("component", "api_server"),
		extractor: deps.Extractor,
		catalog:   deps.Catalog,
		settings:  deps.Settings,
		cart:      deps.Cart,
		auth:      deps.Auth,
		metrics:   deps.Metrics,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Metadata extraction
	s.mux.HandleFunc("POST /api/scrape", s.handleScrape)

	// Catalog
	s.mux.HandleFunc("GET /api/products", s.handleListProducts)
	s.mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	s.mux.HandleFunc("POST /api/products", s.requireAdmin(s.handleCreateProduct))
	s.mux.HandleFunc("PUT /api/products/{id}", s.requireAdmin(s.handleUpdateProduct))
	s.mux.HandleFunc("DELETE /api/products/{id}", s.requireAdmin(s.handleDeleteProduct))
	s.mux.HandleFunc("POST /api/products/reset", s.requireAdmin(s.handleResetProducts))

	// Site settings
	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings/brand", s.requireAdmin(s.handleUpdateBrand))
	s.mux.HandleFunc("PUT /api/settings/contact", s.requireAdmin(s.handleUpdateContact))
	s.mux.HandleFunc("PUT /api/settings/social", s.requireAdmin(s.handleUpdateSocial))
	s.mux.HandleFunc("PUT /api/settings/hero", s.requireAdmin(s.handleUpdateHero))
	s.mux.HandleFunc("PUT /api/settings/fonts", s.requireAdmin(s.handleUpdateFonts))
	s.mux.HandleFunc("POST /api/settings/reset", s.requireAdmin(s.handleResetSettings))

	// Session cart
	s.mux.HandleFunc("GET /api/cart", s.handleGetCart)
	s.mux.HandleFunc("POST /api/cart/items", s.handleAddCartItem)
	s.mux.HandleFunc("PUT /api/cart/items/{id}", s.handleSetCartQuantity)
	s.mux.HandleFunc("DELETE /api/cart/items/{id}", s.handleRemoveCartItem)
	s.mux.HandleFunc("DELETE /api/cart", s.handleClearCart)

	// Admin gate
	s.mux.HandleFunc("POST /api/admin/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/admin/logout", s.handleLogout)
	s.mux.HandleFunc("POST /api/admin/password", s.requireAdmin(s.handleChangePassword))
}

// Handler returns the full middleware-wrapped handler, used directly by
// tests.
func (s *Server) Handler() http.Handler {
	return s.cors(s.mux)
}

// Start runs the HTTP server until the context is canceled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("API server shutting down")
	return s.httpSrv.Shutdown(shutdownCtx)
}

// cors answers preflight requests and stamps the configured origin on
// every response.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates a handler behind a valid bearer token.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" || !s.auth.Verify(token) {
			s.jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// sessionID returns the cart session identifier, or writes a 400 and
// returns empty.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get("X-Session-ID"))
	if id == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
	}
	return id
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
