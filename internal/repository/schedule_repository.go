package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/michel-reyes/coin-copilot/internal/apperror"
	"github.com/michel-reyes/coin-copilot/internal/model"
)

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *model.NotificationSchedule) error {
	query := `
		INSERT INTO event_notification_schedules (id, event_id, notification_time, days_before, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`

	s.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		s.ID, s.EventID, s.NotificationTime, s.DaysBefore, s.IsActive,
	).Scan(&s.CreatedAt)
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationSchedule, error) {
	var s model.NotificationSchedule
	query := `SELECT * FROM event_notification_schedules WHERE id = $1`
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	return &s, err
}

func (r *ScheduleRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]model.NotificationSchedule, error) {
	var schedules []model.NotificationSchedule
	query := `SELECT * FROM event_notification_schedules WHERE event_id = $1 ORDER BY days_before ASC, notification_time ASC`
	err := r.db.SelectContext(ctx, &schedules, query, eventID)
	return schedules, err
}

// ListActiveByEventIDs returns active schedules for the given events, for
// delivery planning.
func (r *ScheduleRepository) ListActiveByEventIDs(ctx context.Context, eventIDs []uuid.UUID) ([]model.NotificationSchedule, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	var schedules []model.NotificationSchedule
	query := `SELECT * FROM event_notification_schedules WHERE event_id = ANY($1) AND is_active = true`
	err := r.db.SelectContext(ctx, &schedules, query, pq.Array(eventIDs))
	return schedules, err
}

func (r *ScheduleRepository) Update(ctx context.Context, s *model.NotificationSchedule) error {
	query := `
		UPDATE event_notification_schedules
		SET notification_time = $2, days_before = $3, is_active = $4
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, s.ID, s.NotificationTime, s.DaysBefore, s.IsActive)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM event_notification_schedules WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepository) DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	query := `DELETE FROM event_notification_schedules WHERE event_id = ANY($1)`
	res, err := r.db.ExecContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOrphans removes schedules whose owning event no longer exists.
func (r *ScheduleRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM event_notification_schedules s
		WHERE NOT EXISTS (SELECT 1 FROM events e WHERE e.id = s.event_id)`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
