package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHour is returned by ParseHour for anything that is not a whole hour in 0-23.
	ErrInvalidHour = errors.New("invalid hour")
	// ErrMalformedAvailability marks weekly opening hours that cannot be interpreted safely.
	ErrMalformedAvailability = errors.New("malformed availability")
	// ErrMalformedInterval marks a booked interval that was skipped when computing occupancy.
	ErrMalformedInterval = errors.New("malformed booked interval")

	ErrDayClosed        = errors.New("court is closed on the selected day")
	ErrInvalidStartHour = errors.New("start hour is outside opening hours")
	ErrInvalidDuration  = errors.New("duration must be at least one hour")
	ErrSlotUnavailable  = errors.New("requested hours are not available")
)

// MalformedAvailabilityError reports a weekday entry that could not be parsed.
type MalformedAvailabilityError struct {
	Day    string
	Reason string
}

func (e *MalformedAvailabilityError) Error() string {
	if e.Day == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedAvailability, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedAvailability, e.Day, e.Reason)
}

func (e *MalformedAvailabilityError) Unwrap() error { return ErrMalformedAvailability }

// MalformedIntervalError reports a booked interval that contributed no hours.
type MalformedIntervalError struct {
	Interval BookedInterval
	Reason   string
}

func (e *MalformedIntervalError) Error() string {
	return fmt.Sprintf("%s [%q, %q): %s", ErrMalformedInterval, e.Interval.StartTime, e.Interval.EndTime, e.Reason)
}

func (e *MalformedIntervalError) Unwrap() error { return ErrMalformedInterval }
