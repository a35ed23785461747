// Package server serves the report operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/sirupsen/logrus"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Service is the set of operations exposed over HTTP.
type Service interface {
	GenerateCommitReport(ctx context.Context, startDate, endDate string, useCache bool) ([]schema.CommitRecord, error)
	CorrelateTasks(ctx context.Context, startDate, endDate string) ([]schema.TaskEffortRecord, error)
	SummarizeByDeveloper(ctx context.Context, startDate, endDate string) (map[string]schema.DeveloperSummary, error)
	TaskSummary(ctx context.Context) (schema.TaskSummary, error)
	DeveloperPerformance(ctx context.Context, startDate, endDate string) (schema.PerformanceReport, error)
	ReloadWorkItems(ctx context.Context) (int, error)
	ReloadRepos(ctx context.Context) map[string]string
	ReloadAll(ctx context.Context) (schema.ReloadResult, error)
}

// Server is the HTTP front end.
type Server struct {
	svc       Service
	addr      string
	metrics   *Metrics
	scheduler *Scheduler
	validate  *validator.Validate
	log       logrus.FieldLogger

	mu         sync.Mutex
	httpServer *http.Server
}

// New returns a Server for svc listening on addr. A non-empty reloadSchedule
// runs ReloadAll on that cron schedule while the server is up.
func New(svc Service, addr, reloadSchedule string) (*Server, error) {
	if addr == "" {
		addr = contract.DefaultServeAddr
	}
	metrics := NewMetrics(prometheus.NewRegistry())
	s := &Server{
		svc:      svc,
		addr:     addr,
		metrics:  metrics,
		validate: validator.New(),
		log:      contract.ComponentLogger("server"),
	}
	if reloadSchedule != "" {
		scheduler, err := NewScheduler(reloadSchedule, s.scheduledReload)
		if err != nil {
			return nil, err
		}
		s.scheduler = scheduler
	}
	return s, nil
}

// Handler returns the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()
	handler = corsMiddleware(handler)
	handler = loggingMiddleware(s.log)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.log)(handler)
	return gzhttp.GzipHandler(handler)
}

// Run serves until ctx is canceled or SIGINT/SIGTERM arrives, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	if s.scheduler != nil {
		s.scheduler.Start()
		defer s.scheduler.Stop()
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.log.Info("context canceled, shutting down")
	case sig := <-sigChan:
		s.log.WithField("signal", sig.String()).Info("received shutdown signal")
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}
	return s.Shutdown(context.Background())
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) scheduledReload(ctx context.Context) {
	result, err := s.svc.ReloadAll(ctx)
	if err != nil {
		s.metrics.reloads.WithLabelValues("scheduled", "error").Inc()
		s.log.WithError(err).Error("scheduled reload failed")
		return
	}
	s.metrics.reloads.WithLabelValues("scheduled", "ok").Inc()
	s.log.WithFields(logrus.Fields{
		"cache_cleared": len(result.CacheCleared),
		"tasks":         result.TasksReloaded,
	}).Info("scheduled reload finished")
}
