// Package notify holds the pure scheduling core: deciding when recurring
// events occur and which notifications are due in a time window. Nothing in
// this package performs I/O.
package notify

import (
	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

// maxScanDays bounds the forward scan in NextOccurrence. Misconfigured data
// (e.g. a custom event whose interval was nulled out) must not loop forever.
const maxScanDays = 365

// OccursOn reports whether the event's recurrence pattern fires on date.
// Comparison is at day granularity. Malformed configuration (custom
// recurrence without a positive interval) yields false, never an error.
func OccursOn(ev model.Event, date datetime.Date) bool {
	// No pattern fires before its anchor.
	if date.Before(ev.DueDate.Time) {
		return false
	}

	switch ev.RecurrenceType {
	case model.RecurrenceOneTime:
		return date.Equal(ev.DueDate.Time)

	case model.RecurrenceMonthly:
		// Same day-of-month as the anchor. Anchors on day 29-31 never
		// match in months lacking that day; see DESIGN.md.
		return date.Day() == ev.DueDate.Day()

	case model.RecurrenceWeekly:
		return date.Weekday() == ev.DueDate.Weekday()

	case model.RecurrenceCustom:
		if ev.RecurrenceInterval == nil || *ev.RecurrenceInterval <= 0 {
			return false
		}
		return date.DaysSince(ev.DueDate)%*ev.RecurrenceInterval == 0

	default:
		return false
	}
}

// NextOccurrence returns the first date on or after from on which the event
// occurs, scanning at most a year ahead. The second return value is false
// when no occurrence exists within that bound.
func NextOccurrence(ev model.Event, from datetime.Date) (datetime.Date, bool) {
	if ev.RecurrenceType == model.RecurrenceOneTime {
		if from.After(ev.DueDate.Time) {
			return datetime.Date{}, false
		}
		return ev.DueDate, true
	}

	date := from
	for i := 0; i < maxScanDays; i++ {
		if OccursOn(ev, date) {
			return date, true
		}
		date = date.AddDays(1)
	}
	return datetime.Date{}, false
}
