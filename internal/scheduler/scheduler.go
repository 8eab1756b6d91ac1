// Package scheduler provides cron-based triggering for the notification
// delivery and cleanup jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/michel-reyes/coin-copilot/internal/logger"
	"github.com/michel-reyes/coin-copilot/internal/model"
)

// JobConfig describes one periodic job.
type JobConfig struct {
	// Schedule is a standard 5-field cron expression (e.g., "0 * * * *").
	Schedule string
	// Timeout bounds a single run.
	Timeout time.Duration
	// Enabled determines whether the job is registered at all.
	Enabled bool
}

// Config holds the scheduler configuration for both jobs.
type Config struct {
	Notifier JobConfig
	Cleanup  JobConfig
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Notifier: JobConfig{Schedule: "0 * * * *", Timeout: 2 * time.Minute, Enabled: true},
		Cleanup:  JobConfig{Schedule: "30 3 * * *", Timeout: 2 * time.Minute, Enabled: true},
	}
}

// NotifierRunner executes one notification delivery cycle.
type NotifierRunner interface {
	Run(ctx context.Context, now time.Time) (*model.NotifierReport, error)
}

// CleanupRunner executes one cleanup sweep.
type CleanupRunner interface {
	Run(ctx context.Context, now time.Time) (*model.CleanupReport, error)
}

// Scheduler manages the periodic notification and cleanup jobs.
type Scheduler struct {
	cron     *cron.Cron
	notifier NotifierRunner
	cleanup  CleanupRunner
	config   Config
	logger   *slog.Logger

	notifierEntry cron.EntryID
	cleanupEntry  cron.EntryID
}

// New creates a new Scheduler instance.
func New(cfg Config, notifier NotifierRunner, cleanup CleanupRunner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		notifier: notifier,
		cleanup:  cleanup,
		config:   cfg,
		logger:   logger,
	}
}

// Start registers the enabled jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	if s.config.Notifier.Enabled {
		// Convert standard cron (5 fields) to cron with seconds (6 fields)
		entryID, err := s.cron.AddFunc("0 "+s.config.Notifier.Schedule, s.runNotifierJob)
		if err != nil {
			return err
		}
		s.notifierEntry = entryID
	}

	if s.config.Cleanup.Enabled {
		entryID, err := s.cron.AddFunc("0 "+s.config.Cleanup.Schedule, s.runCleanupJob)
		if err != nil {
			return err
		}
		s.cleanupEntry = entryID
	}

	if s.notifierEntry == 0 && s.cleanupEntry == 0 {
		s.logger.Info("All scheduled jobs disabled, scheduler idle")
		return nil
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		slog.String("notifier_schedule", s.config.Notifier.Schedule),
		slog.Bool("notifier_enabled", s.config.Notifier.Enabled),
		slog.String("cleanup_schedule", s.config.Cleanup.Schedule),
		slog.Bool("cleanup_enabled", s.config.Cleanup.Enabled),
	)
	return nil
}

// Stop gracefully stops the scheduler. The returned context is done when
// in-flight jobs have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunNotifierNow triggers an immediate delivery run off-schedule.
func (s *Scheduler) RunNotifierNow() {
	go s.runNotifierJob()
}

// RunCleanupNow triggers an immediate cleanup run off-schedule.
func (s *Scheduler) RunCleanupNow() {
	go s.runCleanupJob()
}

func (s *Scheduler) runNotifierJob() {
	ctx, cancel := context.WithTimeout(logger.WithJob(context.Background(), "notifier"), s.config.Notifier.Timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Info("Starting scheduled notification run", slog.Time("start_time", startTime))

	report, err := s.notifier.Run(ctx, startTime)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Notification run failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return
	}

	s.logger.Info("Notification run completed",
		slog.Int("pending", report.TotalPending),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Int("skipped", report.Skipped),
		slog.Duration("duration", duration),
	)
}

func (s *Scheduler) runCleanupJob() {
	ctx, cancel := context.WithTimeout(logger.WithJob(context.Background(), "cleanup"), s.config.Cleanup.Timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Info("Starting scheduled cleanup run", slog.Time("start_time", startTime))

	report, err := s.cleanup.Run(ctx, startTime)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Cleanup run failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return
	}

	s.logger.Info("Cleanup run completed",
		slog.Int("deactivated", report.Deactivated),
		slog.Int("deleted_events", report.DeletedEvents),
		slog.Int("deleted_schedules", report.DeletedSchedules),
		slog.Int("errors", len(report.Errors)),
		slog.Duration("duration", duration),
	)
}

// NextNotifierRun returns the next scheduled delivery run time.
func (s *Scheduler) NextNotifierRun() time.Time {
	if s.notifierEntry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.notifierEntry).Next
}

// NextCleanupRun returns the next scheduled cleanup run time.
func (s *Scheduler) NextCleanupRun() time.Time {
	if s.cleanupEntry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.cleanupEntry).Next
}

// IsRunning returns true if any job is registered.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
