package model

import (
	"strings"
	"time"
)

const (
	// DateLayout is the stored layout of entry and service dates.
	DateLayout = "2006-01-02"

	// MonthLayout is the layout of a report period.
	MonthLayout = "2006-01"
)

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatMonth renders t in MonthLayout.
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseDate validates a YYYY-MM-DD string and returns it trimmed.
// field names the input in the returned validation error.
func ParseDate(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := time.Parse(DateLayout, value); err != nil {
		return "", NewValidationError(field, "must be a date in YYYY-MM-DD form")
	}
	return value, nil
}

// ParseMonth validates a YYYY-MM string and returns it trimmed.
func ParseMonth(value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := time.Parse(MonthLayout, value); err != nil {
		return "", NewValidationError("month", "must be a month in YYYY-MM form")
	}
	return value, nil
}

// DateOrToday returns today's date for an empty value and the validated
// value otherwise.
func DateOrToday(field, value string, now time.Time) (string, error) {
	if strings.TrimSpace(value) == "" {
		return FormatDate(now), nil
	}
	return ParseDate(field, value)
}
