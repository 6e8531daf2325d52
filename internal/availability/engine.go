// Package availability computes a court's hourly occupancy for a date from its weekly opening
// hours and the intervals already booked on that date. Every function is pure: results depend
// only on the arguments and nothing is cached between calls.
package availability

import "time"

// SlotStatus tags one hour of an OccupancyRow.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// Slot is one hour-wide unit of an OccupancyRow.
type Slot struct {
	Hour   Hour       `json:"hour"`
	Status SlotStatus `json:"status"`
}

// OccupancyRow is the hours from open to close (exclusive), ascending.
type OccupancyRow []Slot

// Available counts the free slots in the row.
func (r OccupancyRow) Available() int {
	n := 0
	for _, s := range r {
		if s.Status == SlotAvailable {
			n++
		}
	}
	return n
}

// IsDayOpen reports whether date falls on a weekday with a usable opening window.
func IsDayOpen(w WeeklyAvailability, date time.Time) bool {
	_, _, ok := w.Hours(date)
	return ok
}

// BuildOccupancyRow classifies every opening hour of date as booked or available.
// A closed day yields an empty row.
func BuildOccupancyRow(w WeeklyAvailability, booked []BookedInterval, date time.Time) OccupancyRow {
	open, closing, ok := w.Hours(date)
	if !ok {
		return OccupancyRow{}
	}
	occupied, _ := OccupiedHours(booked)
	row := make(OccupancyRow, 0, int(closing-open))
	for h := open; h < closing; h++ {
		status := SlotAvailable
		if occupied.Has(h) {
			status = SlotBooked
		}
		row = append(row, Slot{Hour: h, Status: status})
	}
	return row
}

// ListValidStartTimes returns the available hours of date in ascending order.
func ListValidStartTimes(w WeeklyAvailability, booked []BookedInterval, date time.Time) []Hour {
	row := BuildOccupancyRow(w, booked, date)
	out := make([]Hour, 0, len(row))
	for _, s := range row {
		if s.Status == SlotAvailable {
			out = append(out, s.Hour)
		}
	}
	return out
}

// MaxDuration is the number of contiguous free hours starting exactly at start, stopping at the
// first booked hour or at closing. It is 0 when start is not a valid start time.
func MaxDuration(w WeeklyAvailability, booked []BookedInterval, date time.Time, start Hour) int {
	open, closing, ok := w.Hours(date)
	if !ok || start < open || start >= closing {
		return 0
	}
	occupied, _ := OccupiedHours(booked)
	n := 0
	for h := start; h < closing && !occupied.Has(h); h++ {
		n++
	}
	return n
}

// ListDurationOptions returns 1..MaxDuration, or an empty slice.
func ListDurationOptions(w WeeklyAvailability, booked []BookedInterval, date time.Time, start Hour) []int {
	n := MaxDuration(w, booked, date, start)
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// CheckBooking applies the same rules to a booking request before it is stored.
func CheckBooking(w WeeklyAvailability, booked []BookedInterval, date time.Time, start Hour, duration int) error {
	open, closing, ok := w.Hours(date)
	if !ok {
		return ErrDayClosed
	}
	if start < open || start >= closing {
		return ErrInvalidStartHour
	}
	if duration < 1 {
		return ErrInvalidDuration
	}
	if duration > MaxDuration(w, booked, date, start) {
		return ErrSlotUnavailable
	}
	return nil
}

// Price is hourlyRate x duration, in the same minor currency unit as hourlyRate.
func Price(hourlyRate int64, duration int) int64 {
	if duration < 0 {
		return 0
	}
	return hourlyRate * int64(duration)
}
