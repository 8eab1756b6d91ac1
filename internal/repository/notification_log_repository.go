package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/michel-reyes/coin-copilot/internal/model"
)

type NotificationLogRepository struct {
	db *sqlx.DB
}

func NewNotificationLogRepository(db *sqlx.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

func (r *NotificationLogRepository) Insert(ctx context.Context, e *model.NotificationLogEntry) error {
	query := `
		INSERT INTO notification_log (id, user_id, event_id, scheduled_for, sent_at, status, error_message, receipt_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at`

	e.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		e.ID, e.UserID, e.EventID, e.ScheduledFor, e.SentAt, e.Status, e.ErrorMessage, e.ReceiptID,
	).Scan(&e.CreatedAt)
}

// HasEntryForDay reports whether a sent or pending entry exists for the
// (user, event) pair whose scheduled_for falls within the UTC calendar day
// containing day. This is the dedup key for delivery runs.
func (r *NotificationLogRepository) HasEntryForDay(ctx context.Context, userID, eventID uuid.UUID, day time.Time) (bool, error) {
	dayUTC := day.UTC()
	start := time.Date(dayUTC.Year(), dayUTC.Month(), dayUTC.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var count int
	query := `
		SELECT COUNT(*) FROM notification_log
		WHERE user_id = $1
		AND event_id = $2
		AND scheduled_for >= $3 AND scheduled_for < $4
		AND status IN ('sent', 'pending')`

	err := r.db.GetContext(ctx, &count, query, userID, eventID, start, end)
	return count > 0, err
}

func (r *NotificationLogRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.NotificationLogEntry, error) {
	var entries []model.NotificationLogEntry
	query := `SELECT * FROM notification_log WHERE user_id = $1 ORDER BY sent_at DESC LIMIT $2`
	err := r.db.SelectContext(ctx, &entries, query, userID, limit)
	return entries, err
}

func (r *NotificationLogRepository) DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	query := `DELETE FROM notification_log WHERE event_id = ANY($1)`
	res, err := r.db.ExecContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOlderThan prunes entries past the retention cutoff regardless of
// event status.
func (r *NotificationLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM notification_log WHERE sent_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
