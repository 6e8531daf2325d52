package availability

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Hour is an hour of the day on an exact hour boundary.
type Hour int

const (
	MinHour Hour = 0
	MaxHour Hour = 23
)

// Valid reports whether h is within 0-23.
func (h Hour) Valid() bool { return h >= MinHour && h <= MaxHour }

// String renders the hour the way clients send it, e.g. "9:00".
func (h Hour) String() string { return strconv.Itoa(int(h)) + ":00" }

func (h Hour) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHour, int(h))
	}
	return []byte(h.String()), nil
}

func (h *Hour) UnmarshalText(b []byte) error {
	v, err := ParseHour(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// ParseHour parses "H:00", "HH:00" or "HH:00:00" (the form postgres renders TIME values in).
// Values with minutes or seconds, or outside 0-23, are rejected rather than rounded.
func ParseHour(s string) (Hour, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, s)
	}
	if len(parts[0]) == 0 || len(parts[0]) > 2 || !allDigits(parts[0]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, s)
	}
	for _, p := range parts[1:] {
		if p != "00" {
			return 0, fmt.Errorf("%w: %q is not on an hour boundary", ErrInvalidHour, s)
		}
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, s)
	}
	h := Hour(n)
	if !h.Valid() {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidHour, s)
	}
	return h, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HourSet is a set of hours of one day, one bit per hour.
type HourSet uint32

// Has reports whether h is in the set.
func (s HourSet) Has(h Hour) bool {
	return h.Valid() && s&(1<<uint(h)) != 0
}

// AddRange returns s with every hour in [start, end) added. Out-of-range hours are ignored.
func (s HourSet) AddRange(start, end Hour) HourSet {
	for h := max(start, MinHour); h < end && h <= MaxHour; h++ {
		s |= 1 << uint(h)
	}
	return s
}

// Len returns the number of hours in the set.
func (s HourSet) Len() int { return bits.OnesCount32(uint32(s)) }

// Hours lists the set in ascending order.
func (s HourSet) Hours() []Hour {
	out := make([]Hour, 0, s.Len())
	for h := MinHour; h <= MaxHour; h++ {
		if s.Has(h) {
			out = append(out, h)
		}
	}
	return out
}
