// Package scalar holds the typed coercion rules between raw form input and
// the values stored in applicant documents. The rules live apart from the
// document engine so they can be tested on their own.
package scalar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Well-known scalar keys within a question's answer object.
const (
	EntityName = "entity_name"
	FirstName  = "first_name"
	MiddleName = "middle_name"
	LastName   = "last_name"
	Date       = "date"
	ID         = "id"
	Text       = "text"
)

// DateLayout is the only accepted raw date format.
const DateLayout = "2006-01-02"

// ParseDate parses a raw date string in yyyy-MM-dd form. Any other form is
// a parse error, surfaced to the caller for form-level validation.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in yyyy-MM-dd format: %q", raw)
	}
	return t, nil
}

// DateToEpochMillis converts a civil date to the stored representation:
// milliseconds since the epoch at UTC midnight.
func DateToEpochMillis(t time.Time) int64 {
	utc := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return utc.UnixMilli()
}

// DateFromEpochMillis converts a stored timestamp back to a UTC civil date.
func DateFromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC().Truncate(24 * time.Hour)
}

// ParseLong parses a raw integer string.
func ParseLong(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", raw)
	}
	return n, nil
}

// FormatLongList renders a list of longs the way the engine reports list
// answers as a single string, e.g. "[1, 2, 3]".
func FormatLongList(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
