package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/michel-reyes/coin-copilot/internal/apperror"
	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

// Helper to create a mock DB
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestEventRepository_Create(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewEventRepository(db)

	ctx := context.Background()
	ev := &model.Event{
		UserID:         uuid.New(),
		EventType:      model.EventTypeBill,
		Title:          "Electricity",
		DueDate:        datetime.NewDate(2024, time.June, 10),
		RecurrenceType: model.RecurrenceMonthly,
		IsActive:       true,
	}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(sqlmock.AnyArg(), ev.UserID, ev.EventType, ev.Title, ev.Description,
			ev.DueDate, ev.RecurrenceType, ev.RecurrenceInterval, ev.IsActive).
		WillReturnRows(rows)

	err := repo.Create(ctx, ev)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewEventRepository(db)

	id := uuid.New()
	userID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM events WHERE id = \$1 AND user_id = \$2`).
		WithArgs(id, userID).
		WillReturnError(sql.ErrNoRows)

	ev, err := repo.GetByID(context.Background(), id, userID)

	assert.Nil(t, ev)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeactivatePastOneTime(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewEventRepository(db)

	today := datetime.NewDate(2024, time.June, 10)
	mock.ExpectExec(`UPDATE events`).
		WithArgs(today).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeactivatePastOneTime(context.Background(), today)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeleteByIDs_Empty(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewEventRepository(db)

	// No query should be issued for an empty id set.
	n, err := repo.DeleteByIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_SetActive_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewEventRepository(db)

	id := uuid.New()
	userID := uuid.New()
	mock.ExpectExec(`UPDATE events SET is_active`).
		WithArgs(id, userID, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), id, userID, false)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
