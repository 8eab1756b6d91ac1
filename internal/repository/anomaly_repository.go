package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

type AnomalyRepository struct {
	db *sqlx.DB
}

func NewAnomalyRepository(db *sqlx.DB) *AnomalyRepository {
	return &AnomalyRepository{db: db}
}

func (r *AnomalyRepository) Insert(ctx context.Context, rec *model.AnomalyRecord) error {
	query := `
		INSERT INTO anomalies (id, user_id, date, message, anomaly_type, score, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at`

	rec.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		rec.ID, rec.UserID, rec.Date, rec.Message, rec.AnomalyType, rec.Score, rec.Read,
	).Scan(&rec.CreatedAt)
}

func (r *AnomalyRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.AnomalyRecord, error) {
	var records []model.AnomalyRecord
	query := `SELECT * FROM anomalies WHERE user_id = $1 ORDER BY date DESC, created_at DESC`
	err := r.db.SelectContext(ctx, &records, query, userID)
	return records, err
}

func (r *AnomalyRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE anomalies SET read = true WHERE user_id = $1 AND read = false`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AnomalyRepository) DeleteBefore(ctx context.Context, cutoff datetime.Date) (int64, error) {
	query := `DELETE FROM anomalies WHERE date < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
