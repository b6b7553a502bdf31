// Package server assembles the HTTP server: routing middleware, health and
// metrics endpoints, and the v1 API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/yyvop9/modify-final-project/internal/metrics"
	"github.com/yyvop9/modify-final-project/internal/profile"
	apiv1 "github.com/yyvop9/modify-final-project/server/router/api/v1"
	"github.com/yyvop9/modify-final-project/server/service/search"
	"github.com/yyvop9/modify-final-project/store"
)

// Server is the HTTP server.
type Server struct {
	echo    *echo.Echo
	profile *profile.Profile
	store   *store.Store
}

// NewServer creates the server and mounts all routes.
func NewServer(
	p *profile.Profile,
	s *store.Store,
	searchService *search.Service,
	m *metrics.Metrics,
) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 60 * time.Second,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	apiv1.NewAPIV1Service(searchService, s).Register(e.Group(""))

	return &Server{
		echo:    e,
		profile: p,
		store:   s,
	}, nil
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	slog.Info("server started", "address", address, "mode", s.profile.Mode)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(address)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "start server")
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown server")
	}
	slog.Info("server stopped")
	return nil
}
