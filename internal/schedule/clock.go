package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidClock is returned for values that are not zero-padded "HH:MM".
	ErrInvalidClock = errors.New("schedule: invalid HH:MM time")
	// ErrStartAfterEnd is returned when a range ends before it starts.
	ErrStartAfterEnd = errors.New("schedule: start after end")
	// ErrInvalidDate is returned for dates that cannot be read as a calendar day.
	ErrInvalidDate = errors.New("schedule: invalid date")
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// ValidClock reports whether value is a zero-padded 24h "HH:MM" string.
func ValidClock(value string) bool {
	if len(value) != len(clockLayout) {
		return false
	}
	_, err := time.Parse(clockLayout, value)
	return err == nil
}

// ClockOf renders the wall-clock time of t as "HH:MM".
func ClockOf(t time.Time) string {
	return t.Format(clockLayout)
}

// CheckTimeRange accepts start == end and rejects start > end. An empty end
// means the item has a single start time.
func CheckTimeRange(start, end string) error {
	if !ValidClock(start) {
		return fmt.Errorf("%w: %q", ErrInvalidClock, start)
	}
	if end == "" {
		return nil
	}
	if !ValidClock(end) {
		return fmt.Errorf("%w: %q", ErrInvalidClock, end)
	}
	if start > end {
		return ErrStartAfterEnd
	}
	return nil
}

// NormalizeDate returns value as "YYYY-MM-DD". Full RFC 3339 timestamps are
// reduced to their UTC calendar date.
func NormalizeDate(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, trimmed); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.UTC().Format(dateLayout), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// FormatDisplayDate renders "YYYY-MM-DD" as "DD/MM/YYYY". Unparseable input
// is returned unchanged.
func FormatDisplayDate(value string) string {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return value
	}
	return t.Format("02/01/2006")
}
