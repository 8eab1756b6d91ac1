package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

type EventType string

const (
	EventTypeBill         EventType = "bill"
	EventTypeCreditCard   EventType = "credit_card"
	EventTypeBudgetReview EventType = "budget_review"
)

type RecurrenceType string

const (
	RecurrenceOneTime RecurrenceType = "one_time"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceCustom  RecurrenceType = "custom"
)

// Event is a recurring or one-time financial obligation. DueDate anchors the
// recurrence pattern; RecurrenceInterval is set only for custom recurrence
// (every N days).
type Event struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	UserID             uuid.UUID      `db:"user_id" json:"userId"`
	EventType          EventType      `db:"event_type" json:"eventType"`
	Title              string         `db:"title" json:"title"`
	Description        *string        `db:"description" json:"description,omitempty"`
	DueDate            datetime.Date  `db:"due_date" json:"dueDate"`
	RecurrenceType     RecurrenceType `db:"recurrence_type" json:"recurrenceType"`
	RecurrenceInterval *int           `db:"recurrence_interval" json:"recurrenceInterval,omitempty"`
	IsActive           bool           `db:"is_active" json:"isActive"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

// NotificationSchedule is one alert rule attached to an Event: notify
// DaysBefore days ahead of each occurrence, at NotificationTime (HH:MM:SS).
type NotificationSchedule struct {
	ID               uuid.UUID `db:"id" json:"id"`
	EventID          uuid.UUID `db:"event_id" json:"eventId"`
	NotificationTime string    `db:"notification_time" json:"notificationTime"`
	DaysBefore       int       `db:"days_before" json:"daysBefore"`
	IsActive         bool      `db:"is_active" json:"isActive"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// EventWithSchedules bundles an event with its notification schedules for
// API responses.
type EventWithSchedules struct {
	Event
	Schedules []NotificationSchedule `json:"notificationSchedules"`
}

type NotificationStatus string

const (
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusPending NotificationStatus = "pending"
)

// NotificationLogEntry records one dispatch attempt. Entries double as the
// dedup key: a sent/pending entry for (user, event) on a calendar day
// suppresses further sends for that day.
type NotificationLogEntry struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	UserID       uuid.UUID          `db:"user_id" json:"userId"`
	EventID      uuid.UUID          `db:"event_id" json:"eventId"`
	ScheduledFor time.Time          `db:"scheduled_for" json:"scheduledFor"`
	SentAt       time.Time          `db:"sent_at" json:"sentAt"`
	Status       NotificationStatus `db:"status" json:"status"`
	ErrorMessage *string            `db:"error_message" json:"errorMessage,omitempty"`
	ReceiptID    *string            `db:"receipt_id" json:"receiptId,omitempty"`
	CreatedAt    time.Time          `db:"created_at" json:"createdAt"`
}

// PushToken maps a user to their current push delivery address.
// A nil Token means the user has no registered device.
type PushToken struct {
	UserID    uuid.UUID  `db:"user_id" json:"userId"`
	Token     *string    `db:"token" json:"token"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// AnomalyRecord flags a statistically unusual transaction amount.
type AnomalyRecord struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	UserID      uuid.UUID     `db:"user_id" json:"userId"`
	Date        datetime.Date `db:"date" json:"date"`
	Message     string        `db:"message" json:"message"`
	AnomalyType string        `db:"anomaly_type" json:"anomalyType"`
	Score       float64       `db:"score" json:"score"`
	Read        bool          `db:"read" json:"read"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
}

// NotifierReport summarizes one delivery run. Individual failures land in
// Errors; the run itself still reports success.
type NotifierReport struct {
	TotalPending  int      `json:"totalPending"`
	Sent          int      `json:"sent"`
	Failed        int      `json:"failed"`
	InvalidTokens int      `json:"invalidTokens"`
	Skipped       int      `json:"skipped"`
	Errors        []string `json:"errors"`
}

// CleanupReport summarizes one sweep run with per-step counts.
type CleanupReport struct {
	Deactivated             int      `json:"deactivatedCount"`
	DeletedEvents           int      `json:"deletedEventsCount"`
	DeletedSchedules        int      `json:"deletedSchedulesCount"`
	DeletedNotifications    int      `json:"deletedNotificationsCount"`
	DeletedOldNotifications int      `json:"deletedOldNotificationsCount"`
	Errors                  []string `json:"errors"`
}
