// Package web serves the feed over HTTP: a JSON API for the feed
// operations, an Atom rendering of the feed and Prometheus metrics.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theoremoon/articlefeed/internal/feed"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr    string
	echo    *echo.Echo
	logger  *slog.Logger
	metrics *Metrics
}

func NewServer(addr string, f feed.Feed, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		addr:    addr,
		echo:    e,
		logger:  logger,
		metrics: NewMetrics(f),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:     true,
		LogURI:        true,
		LogError:      true,
		LogMethod:     true,
		LogLatency:    true,
		LogRequestID:  true,
		HandleError:   true,
		LogValuesFunc: s.logRequest,
	}))

	NewHandler(f).Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	f.Subscribe(func(ev feed.Event) {
		logger.Debug("feed changed",
			"kind", ev.Kind,
			"article_id", ev.ArticleID,
			"comment_id", ev.CommentID)
	})

	return s
}

func (s *Server) logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	ctx := c.Request().Context()
	if v.Error == nil {
		s.logger.InfoContext(ctx, "request completed",
			"request_id", v.RequestID,
			"method", v.Method,
			"uri", v.URI,
			"status", v.Status,
			"latency_ms", v.Latency.Milliseconds())
	} else {
		s.logger.ErrorContext(ctx, "request failed",
			"request_id", v.RequestID,
			"method", v.Method,
			"uri", v.URI,
			"status", v.Status,
			"latency_ms", v.Latency.Milliseconds(),
			"error", v.Error.Error())
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled and then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
