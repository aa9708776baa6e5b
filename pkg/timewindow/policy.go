// Package timewindow restricts when an operation may be initiated based on
// the time of day in a fixed-offset timezone.
package timewindow

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides whether an action is permitted at a given instant.
// The window is a half-open interval [StartMinute, EndMinute) of minutes
// since midnight, evaluated in a fixed UTC offset.
//
// Known limitation: the offset is fixed, so deployments in zones with
// daylight-saving transitions will see the window drift by the DST delta.
type Policy struct {
	offset      time.Duration
	startMinute int
	endMinute   int
}

// New creates a policy allowing [startMinute, endMinute) minutes-of-day,
// evaluated at UTC+offset.
func New(offset time.Duration, startMinute, endMinute int) Policy {
	return Policy{
		offset:      offset,
		startMinute: startMinute,
		endMinute:   endMinute,
	}
}

// Allowed reports whether now falls inside the window. The end minute
// itself is excluded.
func (p Policy) Allowed(now time.Time) bool {
	local := now.UTC().Add(p.offset)
	minute := local.Hour()*60 + local.Minute()
	return minute >= p.startMinute && minute < p.endMinute
}

// String renders the window as "HH:MM-HH:MM" for user-facing messages.
func (p Policy) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d",
		p.startMinute/60, p.startMinute%60,
		p.endMinute/60, p.endMinute%60)
}

// Parse builds a policy from a "HH:MM-HH:MM" window spec and a fixed offset,
// e.g. Parse("10:00-13:00", 330*time.Minute) for 10 AM to 1 PM IST.
func Parse(spec string, offset time.Duration) (Policy, error) {
	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return Policy{}, fmt.Errorf("invalid time window %q, expected HH:MM-HH:MM", spec)
	}

	start, err := parseMinuteOfDay(parts[0])
	if err != nil {
		return Policy{}, fmt.Errorf("invalid time window %q: %w", spec, err)
	}
	end, err := parseMinuteOfDay(parts[1])
	if err != nil {
		return Policy{}, fmt.Errorf("invalid time window %q: %w", spec, err)
	}
	if end <= start {
		return Policy{}, fmt.Errorf("invalid time window %q: end must be after start", spec)
	}

	return New(offset, start, end), nil
}

func parseMinuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
