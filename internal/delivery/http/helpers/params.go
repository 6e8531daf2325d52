package helpers

import (
	"errors"
	"net/http"
	"time"

	"courtfind/internal/availability"
	"courtfind/internal/domain"
)

// ParseDate parses a YYYY-MM-DD value as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return d, nil
}

// DateQuery reads the required date query parameter. On failure it writes a
// 400 and returns false.
func DateQuery(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	d, err := ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return time.Time{}, false
	}
	return d, true
}

// HourQuery reads a required H:00 query parameter. On failure it writes a 400
// and returns false.
func HourQuery(w http.ResponseWriter, r *http.Request, name string) (availability.Hour, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, name+" is required")
		return 0, false
	}
	h, err := availability.ParseHour(s)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a whole hour like 9:00")
		return 0, false
	}
	return h, true
}

// PathParam reads a required path value. On failure it writes a 400 and
// returns false.
func PathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	return v, true
}
