package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/michel-reyes/coin-copilot/internal/logger"
	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
	"github.com/michel-reyes/coin-copilot/pkg/stats"
)

const anomalyTypeSpendingSpike = "spending_spike"

// AnomalyRepoInterface defines the contract for anomaly record data access.
type AnomalyRepoInterface interface {
	Insert(ctx context.Context, rec *model.AnomalyRecord) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.AnomalyRecord, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteBefore(ctx context.Context, cutoff datetime.Date) (int64, error)
}

// AnomalyService flags unusually large transaction amounts against a user's
// spending history and keeps the resulting records.
type AnomalyService struct {
	repo AnomalyRepoInterface
}

func NewAnomalyService(repo AnomalyRepoInterface) *AnomalyService {
	return &AnomalyService{repo: repo}
}

// CheckTransaction runs the robust outlier check on amount against history.
// A positive is recorded and returned; a negative returns (nil, nil). An
// empty history never flags.
func (s *AnomalyService) CheckTransaction(ctx context.Context, userID uuid.UUID, date datetime.Date, amount decimal.Decimal, history []decimal.Decimal) (*model.AnomalyRecord, error) {
	values := make([]float64, len(history))
	for i, d := range history {
		values[i] = d.InexactFloat64()
	}

	result := stats.FlagAnomalyHuber(amount.InexactFloat64(), values, stats.DefaultDelta, stats.DefaultK)
	if !result.IsAnomaly {
		return nil, nil
	}

	rec := &model.AnomalyRecord{
		UserID:      userID,
		Date:        date,
		Message:     fmt.Sprintf("Unusually large transaction: %s (typical is around %.2f)", amount.StringFixed(2), result.Average),
		AnomalyType: anomalyTypeSpendingSpike,
		Score:       amount.InexactFloat64(),
		Read:        false,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("recording anomaly for user %s: %w", userID, err)
	}

	logger.FromContext(ctx).Info("recorded spending anomaly",
		"user_id", userID, "date", date.String(), "amount", amount.String())
	return rec, nil
}

func (s *AnomalyService) List(ctx context.Context, userID uuid.UUID) ([]model.AnomalyRecord, error) {
	records, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing anomalies for user %s: %w", userID, err)
	}
	return records, nil
}

func (s *AnomalyService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("marking anomalies read for user %s: %w", userID, err)
	}
	return n, nil
}

func (s *AnomalyService) PurgeBefore(ctx context.Context, cutoff datetime.Date) (int64, error) {
	n, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging anomalies before %s: %w", cutoff, err)
	}
	return n, nil
}
