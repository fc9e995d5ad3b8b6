package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 2 * time.Minute

// Scheduler runs the reconciler on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *Reconciler
	spec       string
	pages      int
	logger     *zap.Logger

	mu   sync.Mutex
	last *Report
}

// NewScheduler parses the timezone; spec is a standard 5-field cron expression.
func NewScheduler(r *Reconciler, spec string, pages int, timezone string, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := time.Local
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
		loc = l
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		reconciler: r,
		spec:       spec,
		pages:      pages,
		logger:     logger,
	}, nil
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return fmt.Errorf("schedule reconciliation %q: %w", s.spec, err)
	}
	s.logger.Info("starting scheduler", zap.String("spec", s.spec), zap.Int("pages", s.pages))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// LastReport returns the most recent report, or nil before the first run.
func (s *Scheduler) LastReport() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	rep, err := s.reconciler.Run(ctx, s.pages)
	if rep != nil {
		s.mu.Lock()
		s.last = rep
		s.mu.Unlock()
	}
	if err != nil {
		s.logger.Error("reconciliation failed", zap.Error(err))
		return
	}

	s.logger.Info("reconciliation finished",
		zap.Int("pages", rep.Pages),
		zap.Int("checked", rep.Checked),
		zap.Int("skipped", rep.SkippedTotal()),
		zap.Int("mismatches", len(rep.Mismatches)))
	for _, m := range rep.Mismatches {
		s.logger.Warn("collection mismatch",
			zap.Int64("collection_id", m.CollectionID),
			zap.String("field", m.Field),
			zap.String("stored", m.Stored),
			zap.String("computed", m.Computed))
	}
}
