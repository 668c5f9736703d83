// Package hours parses the free-text opening-hours field carried on museum
// records into a queryable "open on weekday" predicate.
//
// The format is semicolon-separated entries of the form "<DayToken> <times>",
// where DayToken is a single three-letter abbreviation ("Mon") or a range
// ("Fri-Sun"). Ranges may wrap across the week boundary ("Sat-Tue" covers
// Sat, Sun, Mon, Tue). The time portion is display text only and is not
// interpreted here.
package hours

import (
	"strings"
	"time"
)

// Status classifies a museum's open state for a given day.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusUnknown Status = "unknown"
)

// DayStatus pairs a Status with a display note (the raw hours text).
type DayStatus struct {
	Status Status `json:"status"`
	Note   string `json:"note,omitempty"`
}

var dayIndex = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// IsOpenOnDay reports whether hoursText asserts the museum open on the given
// weekday. A false result means "not asserted open": callers that need to
// distinguish closed from unknown should use StatusOn, or check whether
// hoursText is empty.
func IsOpenOnDay(hoursText string, day time.Weekday) bool {
	open, _ := parse(hoursText)
	return open[day]
}

// IsOpenToday reports whether hoursText asserts the museum open on now's
// weekday.
func IsOpenToday(hoursText string, now time.Time) bool {
	return IsOpenOnDay(hoursText, now.Weekday())
}

// StatusOn returns the open/closed/unknown status for the given weekday.
// Empty or entirely unparseable hours text yields StatusUnknown, never
// StatusClosed.
func StatusOn(hoursText string, day time.Weekday) DayStatus {
	if strings.TrimSpace(hoursText) == "" {
		return DayStatus{Status: StatusUnknown}
	}
	open, parsed := parse(hoursText)
	if !parsed {
		return DayStatus{Status: StatusUnknown, Note: hoursText}
	}
	if open[day] {
		return DayStatus{Status: StatusOpen, Note: hoursText}
	}
	return DayStatus{Status: StatusClosed, Note: hoursText}
}

// parse expands hoursText into a per-weekday open set. The second return
// value reports whether at least one entry parsed; unparseable entries are
// skipped silently.
func parse(hoursText string) (map[time.Weekday]bool, bool) {
	open := make(map[time.Weekday]bool, 7)
	parsedAny := false

	for _, entry := range strings.Split(hoursText, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Fields(entry)
		days, ok := expandDayToken(fields[0])
		if !ok {
			continue
		}
		parsedAny = true
		for _, d := range days {
			open[d] = true
		}
	}
	return open, parsedAny
}

// expandDayToken resolves "Mon" or "Fri-Sun" (wrap permitted) into weekdays.
func expandDayToken(token string) ([]time.Weekday, bool) {
	token = strings.ToLower(strings.TrimSpace(token))

	if start, end, found := strings.Cut(token, "-"); found {
		from, ok := dayIndex[start]
		if !ok {
			return nil, false
		}
		to, ok := dayIndex[end]
		if !ok {
			return nil, false
		}
		days := []time.Weekday{from}
		for d := from; d != to; {
			d = (d + 1) % 7
			days = append(days, d)
		}
		return days, true
	}

	d, ok := dayIndex[token]
	if !ok {
		return nil, false
	}
	return []time.Weekday{d}, true
}
