package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

// Service-level errors for events and their notification schedules.
var (
	ErrInvalidEventType        = errors.New("event type must be 'bill', 'credit_card', or 'budget_review'")
	ErrInvalidRecurrence       = errors.New("invalid recurrence type")
	ErrMissingInterval         = errors.New("custom recurrence requires a positive interval in days")
	ErrInvalidNotificationTime = errors.New("notification time must be HH:MM:SS")
	ErrInvalidDaysBefore       = errors.New("days before must be zero or greater")
	ErrEventNotFound           = errors.New("event not found")
	ErrScheduleNotFound        = errors.New("notification schedule not found")
)

// EventRepositoryInterface defines the contract for event data access.
// Implementations must be safe for concurrent use.
type EventRepositoryInterface interface {
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Event, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Event, error)
	Update(ctx context.Context, ev *model.Event) error
	SetActive(ctx context.Context, id, userID uuid.UUID, active bool) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ScheduleRepositoryInterface defines the contract for notification schedule
// data access.
type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, s *model.NotificationSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationSchedule, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]model.NotificationSchedule, error)
	Update(ctx context.Context, s *model.NotificationSchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error)
}

// LogDeleter removes notification log entries when their events are deleted.
type LogDeleter interface {
	DeleteByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int64, error)
}

// EventService handles business logic for events and their notification
// schedules.
type EventService struct {
	eventRepo    EventRepositoryInterface
	scheduleRepo ScheduleRepositoryInterface
	logRepo      LogDeleter
}

func NewEventService(eventRepo EventRepositoryInterface, scheduleRepo ScheduleRepositoryInterface, logRepo LogDeleter) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		scheduleRepo: scheduleRepo,
		logRepo:      logRepo,
	}
}

type CreateScheduleInput struct {
	NotificationTime string `json:"notificationTime"`
	DaysBefore       int    `json:"daysBefore"`
}

type CreateEventInput struct {
	EventType          model.EventType       `json:"eventType"`
	Title              string                `json:"title"`
	Description        *string               `json:"description"`
	DueDate            datetime.Date         `json:"dueDate"`
	RecurrenceType     model.RecurrenceType  `json:"recurrenceType"`
	RecurrenceInterval *int                  `json:"recurrenceInterval"`
	Schedules          []CreateScheduleInput `json:"notificationSchedules"`
}

type UpdateEventInput struct {
	EventType          *model.EventType      `json:"eventType"`
	Title              *string               `json:"title"`
	Description        *string               `json:"description"`
	DueDate            *datetime.Date        `json:"dueDate"`
	RecurrenceType     *model.RecurrenceType `json:"recurrenceType"`
	RecurrenceInterval *int                  `json:"recurrenceInterval"`
}

// Create creates an event and any notification schedules supplied with it.
func (s *EventService) Create(ctx context.Context, userID uuid.UUID, input CreateEventInput) (*model.EventWithSchedules, error) {
	if !isValidEventType(input.EventType) {
		return nil, ErrInvalidEventType
	}
	if !isValidRecurrence(input.RecurrenceType) {
		return nil, ErrInvalidRecurrence
	}
	if input.RecurrenceType == model.RecurrenceCustom &&
		(input.RecurrenceInterval == nil || *input.RecurrenceInterval <= 0) {
		return nil, ErrMissingInterval
	}
	for _, sched := range input.Schedules {
		if err := validateScheduleInput(sched); err != nil {
			return nil, err
		}
	}

	ev := &model.Event{
		UserID:             userID,
		EventType:          input.EventType,
		Title:              input.Title,
		Description:        input.Description,
		DueDate:            input.DueDate,
		RecurrenceType:     input.RecurrenceType,
		RecurrenceInterval: input.RecurrenceInterval,
		IsActive:           true,
	}
	if ev.RecurrenceType != model.RecurrenceCustom {
		ev.RecurrenceInterval = nil
	}

	if err := s.eventRepo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	result := &model.EventWithSchedules{Event: *ev}
	for _, in := range input.Schedules {
		sched := &model.NotificationSchedule{
			EventID:          ev.ID,
			NotificationTime: in.NotificationTime,
			DaysBefore:       in.DaysBefore,
			IsActive:         true,
		}
		if err := s.scheduleRepo.Create(ctx, sched); err != nil {
			return nil, fmt.Errorf("creating schedule for event %s: %w", ev.ID, err)
		}
		result.Schedules = append(result.Schedules, *sched)
	}

	return result, nil
}

// List retrieves all of a user's events with their schedules.
func (s *EventService) List(ctx context.Context, userID uuid.UUID) ([]model.EventWithSchedules, error) {
	events, err := s.eventRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing events for user %s: %w", userID, err)
	}

	result := make([]model.EventWithSchedules, 0, len(events))
	for _, ev := range events {
		schedules, err := s.scheduleRepo.ListByEventID(ctx, ev.ID)
		if err != nil {
			return nil, fmt.Errorf("listing schedules for event %s: %w", ev.ID, err)
		}
		result = append(result, model.EventWithSchedules{Event: ev, Schedules: schedules})
	}
	return result, nil
}

func (s *EventService) Get(ctx context.Context, userID, id uuid.UUID) (*model.EventWithSchedules, error) {
	ev, err := s.eventRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	schedules, err := s.scheduleRepo.ListByEventID(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("listing schedules for event %s: %w", id, err)
	}
	return &model.EventWithSchedules{Event: *ev, Schedules: schedules}, nil
}

// Update modifies an existing event. The recurrence invariant is re-validated
// against the merged state.
func (s *EventService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateEventInput) (*model.Event, error) {
	ev, err := s.eventRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching event %s for update: %w", id, err)
	}

	if input.EventType != nil {
		if !isValidEventType(*input.EventType) {
			return nil, ErrInvalidEventType
		}
		ev.EventType = *input.EventType
	}
	if input.Title != nil {
		ev.Title = *input.Title
	}
	if input.Description != nil {
		ev.Description = input.Description
	}
	if input.DueDate != nil {
		ev.DueDate = *input.DueDate
	}
	if input.RecurrenceType != nil {
		if !isValidRecurrence(*input.RecurrenceType) {
			return nil, ErrInvalidRecurrence
		}
		ev.RecurrenceType = *input.RecurrenceType
	}
	if input.RecurrenceInterval != nil {
		ev.RecurrenceInterval = input.RecurrenceInterval
	}

	if ev.RecurrenceType == model.RecurrenceCustom {
		if ev.RecurrenceInterval == nil || *ev.RecurrenceInterval <= 0 {
			return nil, ErrMissingInterval
		}
	} else {
		ev.RecurrenceInterval = nil
	}

	if err := s.eventRepo.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("updating event %s: %w", id, err)
	}
	return ev, nil
}

// Deactivate soft-deletes an event; its schedules stay but planning skips it.
func (s *EventService) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.eventRepo.SetActive(ctx, id, userID, false); err != nil {
		return fmt.Errorf("deactivating event %s: %w", id, err)
	}
	return nil
}

func (s *EventService) Reactivate(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.eventRepo.SetActive(ctx, id, userID, true); err != nil {
		return fmt.Errorf("reactivating event %s: %w", id, err)
	}
	return nil
}

// Delete hard-deletes an event with its log entries and schedules, in
// dependency order.
func (s *EventService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.eventRepo.GetByID(ctx, id, userID); err != nil {
		return fmt.Errorf("fetching event %s for deletion: %w", id, err)
	}

	ids := []uuid.UUID{id}
	if _, err := s.logRepo.DeleteByEventIDs(ctx, ids); err != nil {
		return fmt.Errorf("deleting notification log for event %s: %w", id, err)
	}
	if _, err := s.scheduleRepo.DeleteByEventIDs(ctx, ids); err != nil {
		return fmt.Errorf("deleting schedules for event %s: %w", id, err)
	}
	if err := s.eventRepo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return nil
}

// AddSchedule attaches a notification schedule to an existing event owned by
// the user.
func (s *EventService) AddSchedule(ctx context.Context, userID, eventID uuid.UUID, input CreateScheduleInput) (*model.NotificationSchedule, error) {
	if err := validateScheduleInput(input); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID, userID); err != nil {
		return nil, fmt.Errorf("fetching event %s: %w", eventID, err)
	}

	sched := &model.NotificationSchedule{
		EventID:          eventID,
		NotificationTime: input.NotificationTime,
		DaysBefore:       input.DaysBefore,
		IsActive:         true,
	}
	if err := s.scheduleRepo.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("creating schedule for event %s: %w", eventID, err)
	}
	return sched, nil
}

type UpdateScheduleInput struct {
	NotificationTime *string `json:"notificationTime"`
	DaysBefore       *int    `json:"daysBefore"`
	IsActive         *bool   `json:"isActive"`
}

func (s *EventService) UpdateSchedule(ctx context.Context, userID, scheduleID uuid.UUID, input UpdateScheduleInput) (*model.NotificationSchedule, error) {
	sched, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule %s: %w", scheduleID, err)
	}
	if _, err := s.eventRepo.GetByID(ctx, sched.EventID, userID); err != nil {
		return nil, ErrScheduleNotFound
	}

	if input.NotificationTime != nil {
		if _, err := time.Parse("15:04:05", *input.NotificationTime); err != nil {
			return nil, ErrInvalidNotificationTime
		}
		sched.NotificationTime = *input.NotificationTime
	}
	if input.DaysBefore != nil {
		if *input.DaysBefore < 0 {
			return nil, ErrInvalidDaysBefore
		}
		sched.DaysBefore = *input.DaysBefore
	}
	if input.IsActive != nil {
		sched.IsActive = *input.IsActive
	}

	if err := s.scheduleRepo.Update(ctx, sched); err != nil {
		return nil, fmt.Errorf("updating schedule %s: %w", scheduleID, err)
	}
	return sched, nil
}

func (s *EventService) DeleteSchedule(ctx context.Context, userID, scheduleID uuid.UUID) error {
	sched, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("fetching schedule %s for deletion: %w", scheduleID, err)
	}
	if _, err := s.eventRepo.GetByID(ctx, sched.EventID, userID); err != nil {
		return ErrScheduleNotFound
	}
	if err := s.scheduleRepo.Delete(ctx, scheduleID); err != nil {
		return fmt.Errorf("deleting schedule %s: %w", scheduleID, err)
	}
	return nil
}

func isValidEventType(t model.EventType) bool {
	switch t {
	case model.EventTypeBill, model.EventTypeCreditCard, model.EventTypeBudgetReview:
		return true
	}
	return false
}

func isValidRecurrence(r model.RecurrenceType) bool {
	switch r {
	case model.RecurrenceOneTime, model.RecurrenceWeekly, model.RecurrenceMonthly, model.RecurrenceCustom:
		return true
	}
	return false
}

func validateScheduleInput(in CreateScheduleInput) error {
	if _, err := time.Parse("15:04:05", in.NotificationTime); err != nil {
		return ErrInvalidNotificationTime
	}
	if in.DaysBefore < 0 {
		return ErrInvalidDaysBefore
	}
	return nil
}
