package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/internal/logger"
	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

// CleanupEventRepo is the event maintenance surface used by the sweeper.
type CleanupEventRepo interface {
	DeactivatePastOneTime(ctx context.Context, today datetime.Date) (int64, error)
	ListInactiveOneTimeIDs(ctx context.Context) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// CleanupScheduleRepo is the schedule maintenance surface used by the sweeper.
type CleanupScheduleRepo interface {
	DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

// CleanupLogRepo is the log maintenance surface used by the sweeper.
type CleanupLogRepo interface {
	DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupService retires expired one-time events and prunes dependent rows.
// Each step tolerates failure independently; a failed step is recorded in the
// report and the sweep moves on.
type CleanupService struct {
	eventRepo     CleanupEventRepo
	scheduleRepo  CleanupScheduleRepo
	logRepo       CleanupLogRepo
	loc           *time.Location
	retentionDays int
}

func NewCleanupService(eventRepo CleanupEventRepo, scheduleRepo CleanupScheduleRepo, logRepo CleanupLogRepo, loc *time.Location, retentionDays int) *CleanupService {
	if loc == nil {
		loc = time.UTC
	}
	if retentionDays <= 0 {
		retentionDays = 45
	}
	return &CleanupService{
		eventRepo:     eventRepo,
		scheduleRepo:  scheduleRepo,
		logRepo:       logRepo,
		loc:           loc,
		retentionDays: retentionDays,
	}
}

// Run executes one sweep at now.
func (s *CleanupService) Run(ctx context.Context, now time.Time) (*model.CleanupReport, error) {
	log := logger.FromContext(ctx)
	report := &model.CleanupReport{}
	today := datetime.FromTime(now.In(s.loc))

	// Step 1: deactivate one-time events already past their due date.
	deactivated, err := s.eventRepo.DeactivatePastOneTime(ctx, today)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("deactivating past one-time events: %v", err))
	} else {
		report.Deactivated = int(deactivated)
	}

	// Steps 2-3: hard-delete inactive one-time events, children first so log
	// entries and schedules never outlive their event.
	ids, err := s.eventRepo.ListInactiveOneTimeIDs(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("collecting inactive one-time events: %v", err))
	} else if len(ids) > 0 {
		abort := false

		n, err := s.logRepo.DeleteByEventIDs(ctx, ids)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("deleting notification log entries: %v", err))
			abort = true
		} else {
			report.DeletedNotifications = int(n)
		}

		if !abort {
			n, err := s.scheduleRepo.DeleteByEventIDs(ctx, ids)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("deleting schedules: %v", err))
				abort = true
			} else {
				report.DeletedSchedules = int(n)
			}
		}

		if !abort {
			n, err := s.eventRepo.DeleteByIDs(ctx, ids)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("deleting events: %v", err))
			} else {
				report.DeletedEvents = int(n)
			}
		}
	}

	// Step 4: orphaned schedules, independent of the cascade above.
	orphans, err := s.scheduleRepo.DeleteOrphans(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("deleting orphaned schedules: %v", err))
	} else {
		report.DeletedSchedules += int(orphans)
	}

	// Step 5: retention cutoff on the notification log.
	cutoff := now.AddDate(0, 0, -s.retentionDays)
	old, err := s.logRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("pruning old notification log entries: %v", err))
	} else {
		report.DeletedOldNotifications = int(old)
	}

	log.Info("cleanup run complete",
		"deactivated", report.Deactivated,
		"deleted_events", report.DeletedEvents,
		"deleted_schedules", report.DeletedSchedules,
		"deleted_notifications", report.DeletedNotifications,
		"deleted_old_notifications", report.DeletedOldNotifications,
		"errors", len(report.Errors),
	)
	return report, nil
}
