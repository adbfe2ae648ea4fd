// Package server exposes analytics reports over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blackwell-systems/eventwatch/internal/analyzer"
	"github.com/blackwell-systems/eventwatch/internal/report"
)

// UserIDHeader identifies the authenticated requester. An upstream gateway
// is expected to set it after authentication.
const UserIDHeader = "X-User-ID"

// requestTimeout bounds a single analytics request.
const requestTimeout = 10 * time.Second

// Analytics produces reports. *report.Service satisfies it.
type Analytics interface {
	GetAnalytics(ctx context.Context, eventID string, requesterID int64) (*analyzer.Report, error)
}

// Server is the HTTP surface of the analytics engine.
type Server struct {
	analytics Analytics
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *Metrics
	router    *gin.Engine
}

// New builds a Server with its routes registered.
func New(analytics Analytics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		analytics: analytics,
		logger:    logger,
		registry:  registry,
		metrics:   NewMetrics(registry),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(s.logger))
	router.Use(s.metrics.Handler())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	router.GET("/v1/events/:id/analytics", s.handleAnalytics)
	return router
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleAnalytics(c *gin.Context) {
	requester, err := strconv.ParseInt(strings.TrimSpace(c.GetHeader(UserIDHeader)), 10, 64)
	if err != nil || requester <= 0 {
		s.metrics.Reports.WithLabelValues("unauthenticated").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + UserIDHeader})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rep, err := s.analytics.GetAnalytics(ctx, c.Param("id"), requester)
	if err != nil {
		status, outcome, msg := classify(err)
		s.metrics.Reports.WithLabelValues(outcome).Inc()
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	s.metrics.Reports.WithLabelValues("ok").Inc()
	c.Header("Cache-Control", "private, no-store")
	c.JSON(http.StatusOK, rep)
}

// classify maps an engine error to an HTTP status, a metric outcome and a
// client-safe message. Internal details never reach the response body.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, report.ErrInvalidInput):
		return http.StatusBadRequest, "invalid", report.ErrInvalidInput.Error()
	case errors.Is(err, report.ErrNotFound):
		return http.StatusNotFound, "not_found", report.ErrNotFound.Error()
	case errors.Is(err, report.ErrForbidden):
		return http.StatusForbidden, "forbidden", report.ErrForbidden.Error()
	case errors.Is(err, report.ErrPreconditionFailed):
		return http.StatusPreconditionFailed, "precondition_failed", report.ErrPreconditionFailed.Error()
	default:
		return http.StatusInternalServerError, "internal", report.ErrInternal.Error()
	}
}
