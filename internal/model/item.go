package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TodoItem is the domain model for a todo entry.
// ID is assigned once at creation and never changes.
type TodoItem struct {
	ID   uuid.UUID
	Text string
	Date int64 // ms since epoch, UTC
}

// Time returns the due date as a time.Time in UTC.
func (it TodoItem) Time() time.Time { return time.UnixMilli(it.Date).UTC() }

// Label is the row text shown by every backend: "<text> - YYYY-MM-DD" (local date).
func (it TodoItem) Label() string {
	return fmt.Sprintf("%s - %s", it.Text, time.UnixMilli(it.Date).Local().Format(DateLayout))
}

// DateLayout is the day format used in rows and date inputs.
const DateLayout = "2006-01-02"

// DayMillis returns local midnight of t's day in ms since epoch, the same
// granularity a calendar picker yields.
func DayMillis(t time.Time) int64 {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local).UnixMilli()
}

// ParseDay parses a YYYY-MM-DD string as local midnight.
func ParseDay(s string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.UnixMilli(), nil
}

// FormatDay renders ms since epoch as a local YYYY-MM-DD string.
func FormatDay(ms int64) string {
	return time.UnixMilli(ms).Local().Format(DateLayout)
}
