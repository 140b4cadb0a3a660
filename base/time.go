package base

import (
	"strconv"
	"strings"
	"time"
)

// Timestamps are int64 microseconds since the Unix epoch, UTC.  Dates are
// int32 day numbers since the Unix epoch.  Both are by-value datums.

const (
	// UsecsPerDay is the length of a day in timestamp units.
	UsecsPerDay = int64(24 * time.Hour / time.Microsecond)
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05.999999Z07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999Z07:00",
	"2006-01-02T15:04:05.999999Z07",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04Z07",
	"2006-01-02 15:04",
	"2006-01-02Z07",
	"2006-01-02",
}

// ParseTimestampTz converts an ISO-8601 timestamp with optional time zone
// offset.  A missing zone means UTC; a missing time of day means
// midnight.
func ParseTimestampTz(s string) (int64, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, TextErrorf("Could not parse timestamp: empty input")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UnixMicro(), nil
		}
	}
	return 0, TextErrorf("Could not parse timestamp: %q", s)
}

// FormatTimestampTz renders a timestamp the way the database does:
// space-separated date and time with a +00 zone marker, fractional
// seconds only when present.
func FormatTimestampTz(usec int64) string {
	t := time.UnixMicro(usec).UTC()
	var sb strings.Builder
	sb.WriteString(t.Format("2006-01-02 15:04:05"))
	if frac := usec % 1e6; frac != 0 {
		if frac < 0 {
			frac += 1e6
		}
		digits := strconv.FormatInt(frac+1e6, 10)[1:]
		digits = strings.TrimRight(digits, "0")
		sb.WriteByte('.')
		sb.WriteString(digits)
	}
	sb.WriteString("+00")
	return sb.String()
}

// ParseDate converts a `YYYY-MM-DD` literal to a day number.
func ParseDate(s string) (int32, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return 0, TextErrorf("Could not parse date: %q", s)
	}
	return int32(t.Unix() / 86400), nil
}

// FormatDate renders a day number as `YYYY-MM-DD`.
func FormatDate(days int32) string {
	return time.Unix(int64(days)*86400, 0).UTC().Format("2006-01-02")
}

// DateToTimestampTz promotes a date to midnight UTC of that day.
func DateToTimestampTz(days int32) int64 {
	return int64(days) * UsecsPerDay
}

// TimestampTzToDate truncates a timestamp to its UTC day number.
func TimestampTzToDate(usec int64) int32 {
	d := usec / UsecsPerDay
	if usec < 0 && usec%UsecsPerDay != 0 {
		d--
	}
	return int32(d)
}
