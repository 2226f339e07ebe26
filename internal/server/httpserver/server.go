// Package httpserver is the JSON/HTTP API of the server, built on echo.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the part of services.AuthService the API calls.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, raw string) (*services.TokenPair, error)
	Logout(ctx context.Context, raw string) error
	Authenticate(access string) (string, error)
}

type NotesService interface {
	Save(ctx context.Context, note *models.Note) (*models.Note, error)
	List(ctx context.Context, ownerID string) ([]*models.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// ReadinessProbe reports whether storage is reachable.
type ReadinessProbe func(ctx context.Context) error

type Server struct {
	address string
	logger  logging.Logger
	auth    AuthService
	notes   NotesService
	ready   ReadinessProbe
	echo    *echo.Echo
}

func New(address string, l logging.Logger, auth AuthService, notes NotesService, ready ReadinessProbe) *Server {
	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		auth:    auth,
		notes:   notes,
		ready:   ready,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), RequestLogger(s.logger))

	s.echo = e
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health/live", s.live)
	s.echo.GET("/health/ready", s.readiness)

	a := s.echo.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/refresh", s.refresh)
	a.POST("/logout", s.logout)

	n := s.echo.Group("/notes", s.requireAuth)
	n.GET("", s.listNotes)
	n.POST("", s.saveNote)
	n.DELETE("/:id", s.deleteNote)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.echo,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) live(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) readiness(c echo.Context) error {
	if err := s.ready(c.Request().Context()); err != nil {
		logging.FromContext(c.Request().Context(), s.logger).Warn(c.Request().Context(), "readiness probe failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
