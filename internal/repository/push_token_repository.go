package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michel-reyes/coin-copilot/internal/model"
)

type PushTokenRepository struct {
	db *sqlx.DB
}

func NewPushTokenRepository(db *sqlx.DB) *PushTokenRepository {
	return &PushTokenRepository{db: db}
}

// Get returns the user's registered token, or nil when the user has no row
// or a cleared token.
func (r *PushTokenRepository) Get(ctx context.Context, userID uuid.UUID) (*string, error) {
	var pt model.PushToken
	query := `SELECT * FROM push_tokens WHERE user_id = $1`
	err := r.db.GetContext(ctx, &pt, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pt.Token, nil
}

func (r *PushTokenRepository) Upsert(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO push_tokens (user_id, token, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			token = EXCLUDED.token,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	return err
}

// Clear nulls the token so future delivery runs skip the user until they
// re-register.
func (r *PushTokenRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE push_tokens SET token = NULL, updated_at = NOW() WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
