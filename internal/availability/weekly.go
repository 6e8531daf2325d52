package availability

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayStatus distinguishes a weekday with no entry from one whose entry cannot be used.
type DayStatus int

const (
	// DayMissing means the weekday has no entry: closed.
	DayMissing DayStatus = iota
	// DayInvalid means the entry exists but open or close is missing, or open >= close: closed.
	DayInvalid
	// DayOpen means the court is open over [Open, Close).
	DayOpen
)

func (s DayStatus) String() string {
	switch s {
	case DayOpen:
		return "open"
	case DayInvalid:
		return "invalid"
	default:
		return "missing"
	}
}

// DayHours is the opening window of one weekday.
type DayHours struct {
	Status DayStatus
	Open   Hour
	Close  Hour
}

// OpenBetween returns the window [open, close). A zero-length or inverted window is DayInvalid.
func OpenBetween(open, closing Hour) DayHours {
	d := DayHours{Status: DayOpen, Open: open, Close: closing}
	if open >= closing {
		d.Status = DayInvalid
	}
	return d
}

// IsOpen reports whether the window can be booked at all.
func (d DayHours) IsOpen() bool {
	return d.Status == DayOpen && d.Open.Valid() && d.Close.Valid() && d.Open < d.Close
}

// WeeklyAvailability maps a weekday to its opening window. Weekdays absent from the map are closed.
type WeeklyAvailability map[time.Weekday]DayHours

// Day returns the entry for wd, or a DayMissing value.
func (w WeeklyAvailability) Day(wd time.Weekday) DayHours {
	if d, ok := w[wd]; ok {
		return d
	}
	return DayHours{Status: DayMissing}
}

// Hours returns the opening window for the weekday of date. ok is false whenever the day
// cannot be booked, including a zero date.
func (w WeeklyAvailability) Hours(date time.Time) (open, closing Hour, ok bool) {
	if date.IsZero() {
		return 0, 0, false
	}
	d := w.Day(date.Weekday())
	if !d.IsOpen() {
		return 0, 0, false
	}
	return d.Open, d.Close, true
}

// Validate reports entries built in code that would otherwise be silently treated as closed
// because their hours are outside 0-23.
func (w WeeklyAvailability) Validate() error {
	for wd, d := range w {
		if wd < time.Sunday || wd > time.Saturday {
			return &MalformedAvailabilityError{Reason: fmt.Sprintf("unknown weekday %d", int(wd))}
		}
		if d.Status == DayMissing {
			continue
		}
		if !d.Open.Valid() || !d.Close.Valid() {
			return &MalformedAvailabilityError{Day: wd.String(), Reason: "hour out of range"}
		}
	}
	return nil
}

// OpenDays returns the number of weekdays that can be booked.
func (w WeeklyAvailability) OpenDays() int {
	n := 0
	for _, d := range w {
		if d.IsOpen() {
			n++
		}
	}
	return n
}

var weekdayByName = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		m[wd.String()] = wd
	}
	return m
}()

type rawDayHours struct {
	Open  *string `json:"open,omitempty"`
	Close *string `json:"close,omitempty"`
}

// ParseWeeklyAvailability decodes {"Monday": {"open": "9:00", "close": "17:00"}, ...}.
func ParseWeeklyAvailability(b []byte) (WeeklyAvailability, error) {
	var w WeeklyAvailability
	if err := w.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *WeeklyAvailability) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return &MalformedAvailabilityError{Reason: err.Error()}
	}
	out := make(WeeklyAvailability, len(raw))
	for name, msg := range raw {
		wd, ok := weekdayByName[name]
		if !ok {
			return &MalformedAvailabilityError{Day: name, Reason: "unknown weekday"}
		}
		var rd *rawDayHours
		if err := json.Unmarshal(msg, &rd); err != nil {
			return &MalformedAvailabilityError{Day: name, Reason: "expected an object with open and close"}
		}
		d, err := parseDay(name, rd)
		if err != nil {
			return err
		}
		out[wd] = d
	}
	*w = out
	return nil
}

func parseDay(name string, rd *rawDayHours) (DayHours, error) {
	if rd == nil || rd.Open == nil || rd.Close == nil || *rd.Open == "" || *rd.Close == "" {
		return DayHours{Status: DayInvalid}, nil
	}
	open, err := ParseHour(*rd.Open)
	if err != nil {
		return DayHours{}, &MalformedAvailabilityError{Day: name, Reason: err.Error()}
	}
	closing, err := ParseHour(*rd.Close)
	if err != nil {
		return DayHours{}, &MalformedAvailabilityError{Day: name, Reason: err.Error()}
	}
	return OpenBetween(open, closing), nil
}

// MarshalJSON emits only the days that are open.
func (w WeeklyAvailability) MarshalJSON() ([]byte, error) {
	out := make(map[string]rawDayHours, len(w))
	for wd, d := range w {
		if !d.IsOpen() {
			continue
		}
		open, closing := d.Open.String(), d.Close.String()
		out[wd.String()] = rawDayHours{Open: &open, Close: &closing}
	}
	return json.Marshal(out)
}
