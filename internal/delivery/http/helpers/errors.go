package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"courtfind/internal/availability"
	"courtfind/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Ordered: ErrSlotUnavailable and availability.ErrSlotUnavailable are the same value.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrWeakPassword, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrIncorrectPassword, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrInvalidResetToken, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrPastDate, http.StatusBadRequest, ErrCodeBadRequest},
	{availability.ErrMalformedAvailability, http.StatusBadRequest, ErrCodeBadRequest},
	{availability.ErrDayClosed, http.StatusBadRequest, ErrCodeBadRequest},
	{availability.ErrInvalidStartHour, http.StatusBadRequest, ErrCodeBadRequest},
	{availability.ErrInvalidDuration, http.StatusBadRequest, ErrCodeBadRequest},
	{availability.ErrInvalidHour, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrDuplicateEmail, http.StatusConflict, ErrCodeConflict},
	{domain.ErrSlotUnavailable, http.StatusConflict, ErrCodeConflict},
	{domain.ErrBookingLocked, http.StatusConflict, ErrCodeConflict},
	{domain.ErrBookingCancelled, http.StatusConflict, ErrCodeConflict},
	{domain.ErrAlreadyPaid, http.StatusConflict, ErrCodeConflict},
	{domain.ErrPaymentNotCompleted, http.StatusPaymentRequired, ErrCodePaymentRequired},
}

// WriteServiceError maps a service error onto the API envelope. Unknown errors
// are logged and answered with 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			WriteJSONError(w, m.status, m.code, err.Error())
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
