package availability

// BookedInterval is one confirmed reservation on the queried date, as "H:00" strings.
type BookedInterval struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// NewBookedInterval renders [start, end) in the wire format.
func NewBookedInterval(start, end Hour) BookedInterval {
	return BookedInterval{StartTime: start.String(), EndTime: end.String()}
}

// Hours parses the interval. Unparsable strings or start >= end give a *MalformedIntervalError.
func (b BookedInterval) Hours() (start, end Hour, err error) {
	start, err = ParseHour(b.StartTime)
	if err != nil {
		return 0, 0, &MalformedIntervalError{Interval: b, Reason: "start: " + err.Error()}
	}
	end, err = ParseHour(b.EndTime)
	if err != nil {
		return 0, 0, &MalformedIntervalError{Interval: b, Reason: "end: " + err.Error()}
	}
	if start >= end {
		return 0, 0, &MalformedIntervalError{Interval: b, Reason: "start is not before end"}
	}
	return start, end, nil
}

// OccupiedHours is the union of [start, end) over all intervals. Overlapping intervals are
// fine. Malformed intervals are skipped and returned as errors so the caller can report them.
func OccupiedHours(booked []BookedInterval) (HourSet, []error) {
	var set HourSet
	var skipped []error
	for _, b := range booked {
		start, end, err := b.Hours()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		set = set.AddRange(start, end)
	}
	return set, skipped
}
