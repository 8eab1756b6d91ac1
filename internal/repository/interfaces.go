package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

type EventRepositoryInterface interface {
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Event, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Event, error)
	ListActive(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, ev *model.Event) error
	SetActive(ctx context.Context, id, userID uuid.UUID, active bool) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeactivatePastOneTime(ctx context.Context, today datetime.Date) (int64, error)
	ListInactiveOneTimeIDs(ctx context.Context) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, s *model.NotificationSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationSchedule, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]model.NotificationSchedule, error)
	ListActiveByEventIDs(ctx context.Context, eventIDs []uuid.UUID) ([]model.NotificationSchedule, error)
	Update(ctx context.Context, s *model.NotificationSchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

type NotificationLogRepositoryInterface interface {
	Insert(ctx context.Context, e *model.NotificationLogEntry) error
	HasEntryForDay(ctx context.Context, userID, eventID uuid.UUID, day time.Time) (bool, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.NotificationLogEntry, error)
	DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PushTokenRepositoryInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*string, error)
	Upsert(ctx context.Context, userID uuid.UUID, token string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type AnomalyRepositoryInterface interface {
	Insert(ctx context.Context, rec *model.AnomalyRecord) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.AnomalyRecord, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteBefore(ctx context.Context, cutoff datetime.Date) (int64, error)
}
