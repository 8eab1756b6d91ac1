package notify

import (
	"fmt"
	"time"

	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

// SendInstant computes the exact instant to send a notification: daysBefore
// whole days ahead of targetDate, at timeOfDay ("HH:MM:SS"), in loc. No
// timezone conversion happens beyond placing the clock time in loc; the
// deployment is expected to configure a single timezone for all users.
func SendInstant(targetDate datetime.Date, daysBefore int, timeOfDay string, loc *time.Location) (time.Time, error) {
	clock, err := time.Parse("15:04:05", timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing notification time %q: %w", timeOfDay, err)
	}

	day := targetDate.AddDays(-daysBefore)
	return day.At(clock.Hour(), clock.Minute(), clock.Second(), loc), nil
}

// DescribeSchedule renders a schedule's timing for display, e.g.
// "3 days before at 09:00:00".
func DescribeSchedule(daysBefore int, timeOfDay string) string {
	switch daysBefore {
	case 0:
		return fmt.Sprintf("On the day at %s", timeOfDay)
	case 1:
		return fmt.Sprintf("1 day before at %s", timeOfDay)
	default:
		return fmt.Sprintf("%d days before at %s", daysBefore, timeOfDay)
	}
}

// FormatMessage builds the push title and body for one pending notification.
func FormatMessage(ev model.Event, sched model.NotificationSchedule, targetDate datetime.Date) (title, body string) {
	dateStr := targetDate.Format(datetime.DisplayDateFormat)

	switch sched.DaysBefore {
	case 0:
		body = fmt.Sprintf("Due today - %s", dateStr)
	case 1:
		body = fmt.Sprintf("Due tomorrow - %s", dateStr)
	default:
		body = fmt.Sprintf("Due in %d days - %s", sched.DaysBefore, dateStr)
	}

	if ev.Description != nil && *ev.Description != "" {
		body += "\n" + *ev.Description
	}

	return ev.Title, body
}
