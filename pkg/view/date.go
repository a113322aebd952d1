package view

import (
	"strings"
	"time"
)

const (
	notAvailable = "N/A"
	invalidDate  = "Invalid Date"
	invalidTime  = "Invalid Time"

	dateLayout = "Jan 2, 2006, 03:04 PM"
	timeLayout = "03:04 PM"
)

// inputLayouts are tried in order; the first that parses wins.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate accepts the timestamp shapes the campus API emits. Inputs without
// an offset are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s as "Mar 5, 2024, 02:30 PM" in the local zone.
func FormatDate(s string) string {
	return FormatDateIn(s, time.Local)
}

func FormatDateIn(s string, loc *time.Location) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	t, ok := ParseDate(s)
	if !ok {
		return invalidDate
	}
	return t.In(loc).Format(dateLayout)
}

// FormatTime renders only the wall-clock part, e.g. "02:30 PM".
func FormatTime(s string) string {
	return FormatTimeIn(s, time.Local)
}

func FormatTimeIn(s string, loc *time.Location) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	t, ok := ParseDate(s)
	if !ok {
		return invalidTime
	}
	return t.In(loc).Format(timeLayout)
}
