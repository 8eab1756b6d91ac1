package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

// PendingNotification is one concrete send decision: notify for this event's
// occurrence on TargetDate, at SendAt, per this schedule. Transient; never
// persisted as such.
type PendingNotification struct {
	Event      model.Event
	Schedule   model.NotificationSchedule
	TargetDate datetime.Date
	SendAt     time.Time
}

// Plan computes every notification due in the half-open window
// [windowStart, windowEnd). Inactive events and schedules are ignored, as
// are events with no occurrence within a year of the window start. Only the
// single next occurrence per event is considered, so a backlog of missed
// occurrences of a fast-recurring event collapses to the nearest one.
func Plan(events []model.Event, schedules []model.NotificationSchedule, windowStart, windowEnd time.Time, loc *time.Location) []PendingNotification {
	byEvent := make(map[uuid.UUID][]model.NotificationSchedule)
	for _, sched := range schedules {
		if !sched.IsActive {
			continue
		}
		byEvent[sched.EventID] = append(byEvent[sched.EventID], sched)
	}

	if loc == nil {
		loc = time.UTC
	}
	fromDate := datetime.FromTime(windowStart.In(loc))

	var pending []PendingNotification
	for _, ev := range events {
		if !ev.IsActive {
			continue
		}

		eventSchedules := byEvent[ev.ID]
		if len(eventSchedules) == 0 {
			continue
		}

		target, ok := NextOccurrence(ev, fromDate)
		if !ok {
			continue
		}

		for _, sched := range eventSchedules {
			sendAt, err := SendInstant(target, sched.DaysBefore, sched.NotificationTime, loc)
			if err != nil {
				// Malformed schedule; inert, not fatal.
				continue
			}

			if !sendAt.Before(windowStart) && sendAt.Before(windowEnd) {
				pending = append(pending, PendingNotification{
					Event:      ev,
					Schedule:   sched,
					TargetDate: target,
					SendAt:     sendAt,
				})
			}
		}
	}

	return pending
}
