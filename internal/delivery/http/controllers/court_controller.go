package controllers

import (
	"log/slog"
	"net/http"

	"courtfind/internal/availability"
	h "courtfind/internal/delivery/http/helpers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"
)

// UpdateCourtRequest is the request body for PATCH /courts/{courtID}. Omitted fields are unchanged;
// a provided availability replaces the whole week.
type UpdateCourtRequest struct {
	Name         *string                         `json:"name"`
	HourlyRate   *int64                          `json:"hourly_rate"`
	Availability availability.WeeklyAvailability `json:"availability" swaggertype:"object"`
}

// Validate implements Validator.
func (u UpdateCourtRequest) Validate() []string {
	var errs []string
	if u.HourlyRate != nil && *u.HourlyRate <= 0 {
		errs = append(errs, "hourly_rate must be greater than 0")
	}
	return errs
}

// BookedTimesResponse is the response body for GET /courts/{courtID}/booked-times.
type BookedTimesResponse struct {
	CourtID string                        `json:"court_id"`
	Date    string                        `json:"date"`
	Booked  []availability.BookedInterval `json:"booked"`
}

// BookedTimesSuccessResponse is the success envelope for GET /courts/{courtID}/booked-times (200).
type BookedTimesSuccessResponse struct {
	Data  BookedTimesResponse `json:"data"`
	Error *h.APIError         `json:"error"`
}

// DayAvailabilitySuccessResponse is the success envelope for GET /courts/{courtID}/availability (200).
type DayAvailabilitySuccessResponse struct {
	Data  *domain.CourtDayAvailability `json:"data"`
	Error *h.APIError                  `json:"error"`
}

// DurationOptionsSuccessResponse is the success envelope for GET /courts/{courtID}/availability/durations (200).
type DurationOptionsSuccessResponse struct {
	Data  *domain.DurationOptions `json:"data"`
	Error *h.APIError             `json:"error"`
}

// CourtController serves court details and the public availability calendar.
type CourtController struct {
	Logger   *slog.Logger
	Courts   domain.ArenaService
	Bookings domain.BookingService
}

func NewCourtController(logger *slog.Logger, courts domain.ArenaService, bookings domain.BookingService) *CourtController {
	return &CourtController{
		Logger:   logger,
		Courts:   courts,
		Bookings: bookings,
	}
}

// GetCourt godoc
// @Summary Get a court
// @Tags courts
// @Produce json
// @Param courtID path string true "Court ID (UUID)"
// @Success 200 {object} controllers.CourtSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request (stored availability is malformed)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /courts/{courtID} [get]
func (c *CourtController) GetCourt(w http.ResponseWriter, r *http.Request) {
	courtID, ok := h.PathParam(w, r, "courtID")
	if !ok {
		return
	}
	court, err := c.Courts.GetCourt(r.Context(), courtID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, court)
}

// UpdateCourt godoc
// @Summary Update a court
// @Description Updates name, hourly rate and weekly availability. Only the arena owner can update.
// @Tags courts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courtID path string true "Court ID (UUID)"
// @Param body body UpdateCourtRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.CourtSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /courts/{courtID} [patch]
func (c *CourtController) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	courtID, ok := h.PathParam(w, r, "courtID")
	if !ok {
		return
	}
	var req UpdateCourtRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	upd := domain.CourtUpdate{Name: req.Name, HourlyRate: req.HourlyRate, Availability: req.Availability}
	court, err := c.Courts.UpdateCourt(r.Context(), courtID, ownerID, upd)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, court)
}

// DeleteCourt godoc
// @Summary Delete a court
// @Tags courts
// @Security BearerAuth
// @Param courtID path string true "Court ID (UUID)"
// @Success 204 "No Content"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /courts/{courtID} [delete]
func (c *CourtController) DeleteCourt(w http.ResponseWriter, r *http.Request) {
	courtID, ok := h.PathParam(w, r, "courtID")
	if !ok {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Courts.DeleteCourt(r.Context(), courtID, ownerID); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BookedTimes godoc
// @Summary Booked intervals of a court
// @Description Non-cancelled bookings on the date as start_time/end_time pairs ("H:00").
// @Tags availability
// @Produce json
// @Param courtID path string true "Court ID (UUID)"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} controllers.BookedTimesSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /courts/{courtID}/booked-times [get]
func (c *CourtController) BookedTimes(w http.ResponseWriter, r *http.Request) {
	courtID, ok := h.PathParam(w, r, "courtID")
	if !ok {
		return
	}
	date, ok := h.DateQuery(w, r)
	if !ok {
		return
	}
	booked, err := c.Bookings.GetBookedIntervals(r.Context(), courtID, date)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if booked == nil {
		booked = []availability.BookedInterval{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, BookedTimesResponse{CourtID: courtID, Date: date.Format(domain.DateLayout), Booked: booked})
}

// DayAvailability godoc
// @Summary Hourly occupancy of a court
// @Description The opening hours of the date as booked/available slots, plus the hours a booking may start at. A closed day has no slots.
// @Tags availability
// @Produce json
// @Param courtID path string true "Court ID (UUID)"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} controllers.DayAvailabilitySuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /courts/{courtID}/availability [get]
func (c *CourtController) DayAvailability(w http.ResponseWriter, r *http.Request) {
	courtID, ok := h.PathParam(w, r, "courtID")
	if !ok {
		return
	}
	date, ok := h.DateQuery(w, r)
	if !ok {
		return
	}
	day, err := c.Bookings.GetDayAvailability(r.Context(), courtID, date)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, day)
}

// DurationOptions godoc
// @Summary Bookable durations from a start hour
// @Description Durations of 1..max hours that fit before closing and the next booking, each with its price. An unusable start hour yields no options.
// @Tags availability
// @Produce json
// @Param courtID path string true "Court ID (UUID)"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start query string true "Start hour (H:00)"
// @Success 200 {object} controllers.DurationOptionsSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /courts/{courtID}/availability/durations [get]
func (c *CourtController) DurationOptions(w http.ResponseWriter, r *http.Request) {
	courtID, ok := h.PathParam(w, r, "courtID")
	if !ok {
		return
	}
	date, ok := h.DateQuery(w, r)
	if !ok {
		return
	}
	start, ok := h.HourQuery(w, r, "start")
	if !ok {
		return
	}
	opts, err := c.Bookings.GetDurationOptions(r.Context(), courtID, date, start)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, opts)
}
