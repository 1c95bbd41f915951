package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/multierr"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

// Server represents the kiosk web server
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	navigator  *kiosk.Navigator
	gateway    handlers.Gateway
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, nav *kiosk.Navigator, gw handlers.Gateway) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:    cfg,
		router:    r,
		navigator: nav,
		gateway:   gw,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No write timeout: SSE streams stay open for the whole kiosk session.
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("web_server_starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and releases the camera.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("web_server_stopping")

	var err error
	if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
		err = multierr.Append(err, fmt.Errorf("shutting down server: %w", shutdownErr))
	}
	if closeErr := s.navigator.Close(); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("closing kiosk screen: %w", closeErr))
	}
	return err
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
