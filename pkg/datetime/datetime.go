// Package datetime provides day-granularity date handling for recurrence
// and retention logic. Dates are normalized to midnight UTC and serialize
// as "YYYY-MM-DD"; instants stay plain time.Time values.
package datetime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Standard formats used throughout the application.
const (
	// DateFormat is the standard date-only format (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// DisplayDateFormat is for human-readable dates in notifications.
	DisplayDateFormat = "Monday, January 2"
)

// Date represents a calendar date with no time component.
// The zero value is the zero Date.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an instant to its calendar date.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns today's date in the given location (UTC if nil).
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(time.Now().In(loc))
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysSince returns the whole-day difference d - other.
func (d Date) DaysSince(other Date) int {
	return int(d.Time.Sub(other.Time).Hours() / 24)
}

// At combines the date with a clock time in the given location.
func (d Date) At(hour, minute, second int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, second, 0, loc)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateFormat))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if s == "" || s == "null" {
		return nil
	}

	// Try date-only format first
	t, err := time.Parse(DateFormat, s)
	if err == nil {
		d.Time = t
		return nil
	}

	// Fall back to RFC3339 (extract date portion)
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	}

	return err
}

// Value of d in YYYY-MM-DD form; empty for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		d.Time = parsed.Time
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		d.Time = parsed.Time
		return nil
	default:
		return fmt.Errorf("cannot scan %T into datetime.Date", value)
	}
}

// Value implements driver.Valuer for DATE columns.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// StartOfDay returns the instant at 00:00:00 UTC of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the instant at 23:59:59.999999999 UTC of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
}
