package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/internal/logger"
	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/internal/notify"
	"github.com/michel-reyes/coin-copilot/internal/push"
)

// ActiveEventLister provides the planning read path over events.
type ActiveEventLister interface {
	ListActive(ctx context.Context) ([]model.Event, error)
}

// ActiveScheduleLister provides the planning read path over schedules.
type ActiveScheduleLister interface {
	ListActiveByEventIDs(ctx context.Context, eventIDs []uuid.UUID) ([]model.NotificationSchedule, error)
}

// NotificationLogInterface is the dedup and audit store for delivery runs.
type NotificationLogInterface interface {
	Insert(ctx context.Context, e *model.NotificationLogEntry) error
	HasEntryForDay(ctx context.Context, userID, eventID uuid.UUID, day time.Time) (bool, error)
}

// PushTokenInterface resolves and invalidates users' push addresses.
type PushTokenInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*string, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// PushSender dispatches message batches, returning one ticket per message in
// input order.
type PushSender interface {
	Send(ctx context.Context, messages []push.Message) []push.Ticket
}

// NotifierService plans and delivers due event notifications. One Run is one
// complete delivery cycle; overlapping runs are kept safe only by the
// notification log dedup, so the backing store should enforce uniqueness on
// (user, event, day).
type NotifierService struct {
	eventRepo    ActiveEventLister
	scheduleRepo ActiveScheduleLister
	logRepo      NotificationLogInterface
	tokenRepo    PushTokenInterface
	pushClient   PushSender

	loc       *time.Location
	lookback  time.Duration
	lookahead time.Duration
}

func NewNotifierService(
	eventRepo ActiveEventLister,
	scheduleRepo ActiveScheduleLister,
	logRepo NotificationLogInterface,
	tokenRepo PushTokenInterface,
	pushClient PushSender,
	loc *time.Location,
	lookback, lookahead time.Duration,
) *NotifierService {
	if loc == nil {
		loc = time.UTC
	}
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	if lookahead <= 0 {
		lookahead = time.Hour
	}
	return &NotifierService{
		eventRepo:    eventRepo,
		scheduleRepo: scheduleRepo,
		logRepo:      logRepo,
		tokenRepo:    tokenRepo,
		pushClient:   pushClient,
		loc:          loc,
		lookback:     lookback,
		lookahead:    lookahead,
	}
}

// Run executes one delivery cycle at now. It returns an error only when the
// initial event/schedule reads fail; everything after that degrades into the
// report's counters and error list.
func (s *NotifierService) Run(ctx context.Context, now time.Time) (*model.NotifierReport, error) {
	log := logger.FromContext(ctx)
	report := &model.NotifierReport{}

	events, err := s.eventRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active events: %w", err)
	}

	eventIDs := make([]uuid.UUID, 0, len(events))
	for _, ev := range events {
		eventIDs = append(eventIDs, ev.ID)
	}
	schedules, err := s.scheduleRepo.ListActiveByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("listing active schedules: %w", err)
	}

	windowStart := now.Add(-s.lookback)
	windowEnd := now.Add(s.lookahead)
	pending := notify.Plan(events, schedules, windowStart, windowEnd, s.loc)
	report.TotalPending = len(pending)

	if len(pending) == 0 {
		log.Debug("notifier run found nothing to send", "window_start", windowStart, "window_end", windowEnd)
		return report, nil
	}

	// Resolve tokens once per user within the run.
	tokens := make(map[uuid.UUID]*string)

	var candidates []notify.PendingNotification
	var messages []push.Message
	for _, p := range pending {
		userID := p.Event.UserID

		suppressed, err := s.logRepo.HasEntryForDay(ctx, userID, p.Event.ID, p.SendAt)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("dedup check for event %s: %v", p.Event.ID, err))
			report.Skipped++
			continue
		}
		if suppressed {
			log.Debug("suppressing duplicate notification", "event_id", p.Event.ID, "send_at", p.SendAt)
			report.Skipped++
			continue
		}

		token, ok := tokens[userID]
		if !ok {
			token, err = s.tokenRepo.Get(ctx, userID)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("token lookup for user %s: %v", userID, err))
				report.Skipped++
				continue
			}
			tokens[userID] = token
		}
		if token == nil {
			log.Debug("user has no push token", "user_id", userID, "event_id", p.Event.ID)
			report.Skipped++
			continue
		}

		title, body := notify.FormatMessage(p.Event, p.Schedule, p.TargetDate)
		log.Debug("queueing notification",
			"event_id", p.Event.ID,
			"schedule", notify.DescribeSchedule(p.Schedule.DaysBefore, p.Schedule.NotificationTime),
			"send_at", p.SendAt,
		)
		messages = append(messages, push.NewMessage(*token, title, body, map[string]interface{}{
			"event_id":    p.Event.ID.String(),
			"schedule_id": p.Schedule.ID.String(),
			"target_date": p.TargetDate.String(),
		}))
		candidates = append(candidates, p)
	}

	if len(messages) == 0 {
		return report, nil
	}

	tickets := s.pushClient.Send(ctx, messages)
	sentAt := time.Now()

	for i, ticket := range tickets {
		p := candidates[i]
		entry := &model.NotificationLogEntry{
			UserID:       p.Event.UserID,
			EventID:      p.Event.ID,
			ScheduledFor: p.SendAt,
			SentAt:       sentAt,
		}

		if ticket.OK() {
			entry.Status = model.NotificationStatusSent
			if ticket.ID != "" {
				receiptID := ticket.ID
				entry.ReceiptID = &receiptID
			}
			report.Sent++
		} else {
			entry.Status = model.NotificationStatusFailed
			errMsg := ticket.ErrorMessage()
			entry.ErrorMessage = &errMsg
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("event %s: %s", p.Event.ID, errMsg))

			if ticket.IsDeviceNotRegistered() {
				if err := s.tokenRepo.Clear(ctx, p.Event.UserID); err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("clearing token for user %s: %v", p.Event.UserID, err))
				} else {
					report.InvalidTokens++
				}
			}
		}

		if err := s.logRepo.Insert(ctx, entry); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("logging notification for event %s: %v", p.Event.ID, err))
		}
	}

	log.Info("notifier run complete",
		"pending", report.TotalPending,
		"sent", report.Sent,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"invalid_tokens", report.InvalidTokens,
	)
	return report, nil
}
