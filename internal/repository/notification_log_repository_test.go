package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/michel-reyes/coin-copilot/internal/model"
)

func TestNotificationLogRepository_Insert(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewNotificationLogRepository(db)

	entry := &model.NotificationLogEntry{
		UserID:       uuid.New(),
		EventID:      uuid.New(),
		ScheduledFor: time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC),
		SentAt:       time.Date(2024, time.June, 10, 9, 0, 12, 0, time.UTC),
		Status:       model.NotificationStatusSent,
	}

	rows := sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now())
	mock.ExpectQuery(`INSERT INTO notification_log`).
		WithArgs(sqlmock.AnyArg(), entry.UserID, entry.EventID, entry.ScheduledFor,
			entry.SentAt, entry.Status, entry.ErrorMessage, entry.ReceiptID).
		WillReturnRows(rows)

	err := repo.Insert(context.Background(), entry)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationLogRepository_HasEntryForDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{name: "existing entry suppresses", count: 1, want: true},
		{name: "no entry", count: 0, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			defer func() { _ = db.Close() }()
			repo := NewNotificationLogRepository(db)

			userID := uuid.New()
			eventID := uuid.New()
			// Mid-afternoon local instant; the query must use the UTC day bounds.
			day := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)
			wantStart := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
			wantEnd := time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC)

			rows := sqlmock.NewRows([]string{"count"}).AddRow(tt.count)
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notification_log`).
				WithArgs(userID, eventID, wantStart, wantEnd).
				WillReturnRows(rows)

			got, err := repo.HasEntryForDay(context.Background(), userID, eventID, day)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationLogRepository_DeleteOlderThan(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewNotificationLogRepository(db)

	cutoff := time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM notification_log WHERE sent_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 17))

	n, err := repo.DeleteOlderThan(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(17), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationLogRepository_DeleteByEventIDs_Empty(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	defer func() { _ = db.Close() }()
	repo := NewNotificationLogRepository(db)

	n, err := repo.DeleteByEventIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
