package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	// ClockLayout is the HH:MM format of the booking form's time pickers.
	ClockLayout = "15:04"
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)(?::([0-5]\d))?$`)
)

// naiveLayouts are accepted for timestamps that carry no zone designator.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Normalize converts t to UTC and drops sub-second precision, the form in which
// booking times are stored and compared.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// ParseTimestamp parses an ISO-8601 timestamp. Values with an offset or a trailing Z
// are taken as-is; values without one are interpreted in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Normalize(t), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", raw)
}

// ParseDate parses a YYYY-MM-DD date and returns midnight of that day in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if !dateRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("unable to parse date: %q", raw)
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", raw, err)
	}
	return t, nil
}

// CombineDateTime joins the booking form's date and HH:MM fields into one instant.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	m := clockRe.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return time.Time{}, fmt.Errorf("unable to parse time of day: %q", clock)
	}
	// The regexp guarantees the groups are in range.
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, day.Location())
	return Normalize(t), nil
}
