package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs a job on a standard five-field cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	log      logrus.FieldLogger

	mu      sync.Mutex
	running bool

	ctxMu  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler validates schedule and registers job. Runs never overlap.
func NewScheduler(schedule string, job func(ctx context.Context)) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	s := &Scheduler{
		schedule: schedule,
		log:      contract.ComponentLogger("scheduler"),
	}
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := s.cron.AddFunc(schedule, func() { job(s.jobContext()) }); err != nil {
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}
	return s, nil
}

// Start begins running the job. A stopped scheduler can be started again.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.ctxMu.Lock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.ctxMu.Unlock()
	s.cron.Start()
	s.running = true
	s.log.WithField("schedule", s.schedule).Info("scheduler started")
}

// Stop cancels a running job and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.ctxMu.Lock()
	s.cancel()
	s.ctxMu.Unlock()
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) jobContext() context.Context {
	s.ctxMu.Lock()
	defer s.ctxMu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}
