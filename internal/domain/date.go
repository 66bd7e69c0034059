package domain

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the layout every exported file uses for the Date column.
const ISODate = "2006-01-02"

// dayMonthLayout covers the DD/Mon/YYYY form some gauge spreadsheets use.
const dayMonthLayout = "02/Jan/2006"

// ParseDate standardises an input date string to UTC midnight. ISO-8601 is
// tried first, then DD/Mon/YYYY. Loaders treat a failure here as a skipped
// row, counted for the audit trail.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(ISODate, s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dayMonthLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FormatDate renders a day in the exported ISO-8601 form.
func FormatDate(t time.Time) string {
	return t.UTC().Format(ISODate)
}

// Midnight truncates t to UTC midnight of the same calendar day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
