package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/internal/service"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

// EventServiceInterface defines the event operations used by HTTP handlers.
type EventServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input service.CreateEventInput) (*model.EventWithSchedules, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.EventWithSchedules, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.EventWithSchedules, error)
	Update(ctx context.Context, userID, id uuid.UUID, input service.UpdateEventInput) (*model.Event, error)
	Deactivate(ctx context.Context, userID, id uuid.UUID) error
	Reactivate(ctx context.Context, userID, id uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	AddSchedule(ctx context.Context, userID, eventID uuid.UUID, input service.CreateScheduleInput) (*model.NotificationSchedule, error)
	UpdateSchedule(ctx context.Context, userID, scheduleID uuid.UUID, input service.UpdateScheduleInput) (*model.NotificationSchedule, error)
	DeleteSchedule(ctx context.Context, userID, scheduleID uuid.UUID) error
}

// PushTokenStore is the registration surface for device push tokens.
type PushTokenStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, token string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// AnomalyServiceInterface defines the anomaly operations used by HTTP handlers.
type AnomalyServiceInterface interface {
	CheckTransaction(ctx context.Context, userID uuid.UUID, date datetime.Date, amount decimal.Decimal, history []decimal.Decimal) (*model.AnomalyRecord, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.AnomalyRecord, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	PurgeBefore(ctx context.Context, cutoff datetime.Date) (int64, error)
}

// NotifierJob runs one delivery cycle on demand.
type NotifierJob interface {
	Run(ctx context.Context, now time.Time) (*model.NotifierReport, error)
}

// CleanupJob runs one cleanup sweep on demand.
type CleanupJob interface {
	Run(ctx context.Context, now time.Time) (*model.CleanupReport, error)
}
