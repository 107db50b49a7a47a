package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner removes cached files older than maxAge.
type Pruner interface {
	Prune(maxAge time.Duration) (int, error)
}

// CoverPruneConfig controls the cover cache cleanup job.
type CoverPruneConfig struct {
	Enabled  bool
	Schedule string
	MaxAge   time.Duration
}

// CoverPruneScheduler periodically evicts unused covers from the local cache.
type CoverPruneScheduler struct {
	pruner Pruner
	config CoverPruneConfig
	logger *slog.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule checks a five-field cron expression or descriptor such as "@daily".
func ValidateSchedule(schedule string) error {
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

func NewCoverPruneScheduler(pruner Pruner, config CoverPruneConfig, logger *slog.Logger) *CoverPruneScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoverPruneScheduler{
		pruner: pruner,
		config: config,
		logger: logger.With("component", "cover_prune"),
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the job if enabled and stops it when ctx is cancelled.
func (s *CoverPruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		s.logger.Info("cover prune scheduler disabled")
		return nil
	}
	if err := ValidateSchedule(s.config.Schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("cover prune scheduler started",
		"schedule", s.config.Schedule,
		"max_age", s.config.MaxAge,
		"next_run", s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *CoverPruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.logger.Info("cover prune scheduler stopped")
}

func (s *CoverPruneScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the job will next fire, or nil when not running.
func (s *CoverPruneScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow prunes synchronously.
func (s *CoverPruneScheduler) RunNow() {
	start := time.Now()
	removed, err := s.pruner.Prune(s.config.MaxAge)
	if err != nil {
		s.logger.Error("cover prune failed", "removed", removed, "error", err)
		return
	}
	s.logger.Info("cover prune finished", "removed", removed, "duration", time.Since(start).Round(time.Millisecond))
}
