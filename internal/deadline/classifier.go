package deadline

import (
	"fmt"
	"time"
)

// Status is the urgency bucket derived from days remaining until a deadline.
type Status string

const (
	StatusExpired Status = "expired"
	StatusUrgent  Status = "urgent"
	StatusWarning Status = "warning"
	StatusNormal  Status = "normal"
)

var statusColors = map[Status]string{
	StatusExpired: "red",
	StatusUrgent:  "orange",
	StatusWarning: "yellow",
	StatusNormal:  "green",
}

// Color returns the display color tag for the status.
func (s Status) Color() string {
	return statusColors[s]
}

// Classification is the result of bucketing a deadline against a
// reference time. Unknown marks an unparseable deadline: display fields
// hold neutral defaults and Err carries the parse failure, so callers
// can never mistake a bad date for a real same-day deadline.
type Classification struct {
	DaysUntil int
	Status    Status
	Color     string
	Unknown   bool
	Err       error
}

const day = 24 * time.Hour

// DaysUntil reports calendar days remaining, rounding up toward the
// deadline: a deadline any fraction of a day away still counts as 1.
func DaysUntil(deadline, now time.Time) int {
	diff := deadline.Sub(now)
	days := diff / day
	if diff%day > 0 {
		days++
	}
	return int(days)
}

// Classify buckets a deadline relative to now. First match wins:
// past deadlines are expired, then urgent within 3 days, warning
// within 7, normal beyond that. Both inputs are explicit so the
// result is deterministic.
func Classify(deadline, now time.Time) Classification {
	days := DaysUntil(deadline, now)

	var status Status
	switch {
	case days < 0:
		status = StatusExpired
	case days <= 3:
		status = StatusUrgent
	case days <= 7:
		status = StatusWarning
	default:
		status = StatusNormal
	}

	return Classification{
		DaysUntil: days,
		Status:    status,
		Color:     status.Color(),
	}
}

// IsUrgent reports whether the deadline is within thresholdDays.
// Expired deadlines are not urgent: urgency means "due soon", which is
// a distinct state from "already missed".
func IsUrgent(deadline, now time.Time, thresholdDays int) bool {
	days := DaysUntil(deadline, now)
	return days >= 0 && days <= thresholdDays
}

var deadlineLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDeadline parses a deadline string as served by the backend
// (plain date or ISO datetime). It never falls back to a zero value.
func ParseDeadline(raw string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable deadline %q", raw)
}

// ClassifyString parses and classifies a raw deadline string. A parse
// failure yields an Unknown classification with a non-nil Err.
func ClassifyString(raw string, now time.Time) Classification {
	t, err := ParseDeadline(raw)
	if err != nil {
		return Classification{
			Status:  StatusNormal,
			Color:   StatusNormal.Color(),
			Unknown: true,
			Err:     err,
		}
	}
	return Classify(t, now)
}
