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
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, ev *model.Event) error {
	query := `
		INSERT INTO events (id, user_id, event_type, title, description, due_date,
			recurrence_type, recurrence_interval, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at`

	ev.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		ev.ID, ev.UserID, ev.EventType, ev.Title, ev.Description, ev.DueDate,
		ev.RecurrenceType, ev.RecurrenceInterval, ev.IsActive,
	).Scan(&ev.CreatedAt, &ev.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Event, error) {
	var ev model.Event
	query := `SELECT * FROM events WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &ev, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	return &ev, err
}

func (r *EventRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	query := `SELECT * FROM events WHERE user_id = $1 ORDER BY due_date ASC, created_at ASC`
	err := r.db.SelectContext(ctx, &events, query, userID)
	return events, err
}

// ListActive returns active events across all users, for delivery planning.
func (r *EventRepository) ListActive(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	query := `SELECT * FROM events WHERE is_active = true ORDER BY user_id, due_date ASC`
	err := r.db.SelectContext(ctx, &events, query)
	return events, err
}

func (r *EventRepository) Update(ctx context.Context, ev *model.Event) error {
	query := `
		UPDATE events
		SET event_type = $3, title = $4, description = $5, due_date = $6,
			recurrence_type = $7, recurrence_interval = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		ev.ID, ev.UserID, ev.EventType, ev.Title, ev.Description, ev.DueDate,
		ev.RecurrenceType, ev.RecurrenceInterval, ev.IsActive,
	).Scan(&ev.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.ErrNotFound
	}
	return err
}

func (r *EventRepository) SetActive(ctx context.Context, id, userID uuid.UUID, active bool) error {
	query := `UPDATE events SET is_active = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID, active)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// DeactivatePastOneTime deactivates one-time events whose due date is
// strictly before today.
func (r *EventRepository) DeactivatePastOneTime(ctx context.Context, today datetime.Date) (int64, error) {
	query := `
		UPDATE events
		SET is_active = false, updated_at = NOW()
		WHERE recurrence_type = 'one_time' AND is_active = true AND due_date < $1`
	res, err := r.db.ExecContext(ctx, query, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListInactiveOneTimeIDs returns one-time events eligible for hard deletion.
func (r *EventRepository) ListInactiveOneTimeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT id FROM events WHERE recurrence_type = 'one_time' AND is_active = false`
	err := r.db.SelectContext(ctx, &ids, query)
	return ids, err
}

func (r *EventRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM events WHERE id = ANY($1)`
	res, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
