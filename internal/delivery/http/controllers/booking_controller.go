package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"courtfind/internal/availability"
	h "courtfind/internal/delivery/http/helpers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"
)

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	CourtID   string `json:"court_id"`
	Date      string `json:"date" example:"2025-03-03"`
	StartTime string `json:"start_time" example:"9:00"`
	Duration  int    `json:"duration" example:"2"`

	date  time.Time
	start availability.Hour
}

// Validate implements Validator. It also parses date and start_time for the handler.
func (c *CreateBookingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.CourtID) == "" {
		errs = append(errs, "court_id is required")
	}
	d, err := h.ParseDate(c.Date)
	if err != nil {
		errs = append(errs, err.Error())
	}
	c.date = d
	if c.StartTime == "" {
		errs = append(errs, "start_time is required")
	} else if start, err := availability.ParseHour(c.StartTime); err != nil {
		errs = append(errs, "start_time must be a whole hour like 9:00")
	} else {
		c.start = start
	}
	if c.Duration < 1 {
		errs = append(errs, "duration must be at least 1 hour")
	}
	return errs
}

// BookingSuccessResponse is the success envelope for endpoints returning one booking.
type BookingSuccessResponse struct {
	Data  *domain.Booking `json:"data"`
	Error *h.APIError     `json:"error"`
}

// ListBookingsResponse is the response body for paginated booking lists.
type ListBookingsResponse struct {
	Items      []*domain.Booking `json:"items"`
	Pagination h.PaginationMeta  `json:"pagination"`
}

// ListBookingsSuccessResponse is the success envelope for paginated booking lists (200).
type ListBookingsSuccessResponse struct {
	Data  ListBookingsResponse `json:"data"`
	Error *h.APIError          `json:"error"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book a court
// @Description Books duration whole hours from start_time on date. The day must be open, the start hour a valid start and every hour free.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateBookingRequest true "Booking request"
// @Success 201 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request (closed day, invalid start, past date)"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not a player)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 409 {object} h.APIResponse "error.code: conflict (slot unavailable or booking in progress)"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	booking, err := c.Service.CreateBooking(r.Context(), playerID, strings.TrimSpace(req.CourtID), req.date, req.start, req.Duration)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// ListMyBookings godoc
// @Summary List my bookings
// @Description Bookings of the authenticated player, newest date first.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListBookingsSuccessResponse
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /bookings/me [get]
func (c *BookingController) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := h.ParsePagination(r)
	list, total, err := c.Service.ListMyBookings(r.Context(), playerID, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	writeBookingPage(w, list, params, total)
}

// ListOwnerBookings godoc
// @Summary List bookings of my arenas
// @Description Bookings on courts of the authenticated owner's arenas, optionally for one arena.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param arena_id query string false "Arena ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListBookingsSuccessResponse
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /owner/bookings [get]
func (c *BookingController) ListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := h.ParsePagination(r)
	arenaID := strings.TrimSpace(r.URL.Query().Get("arena_id"))
	list, total, err := c.Service.ListOwnerBookings(r.Context(), ownerID, arenaID, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	writeBookingPage(w, list, params, total)
}

// CancelBookingRequest is the optional body of a cancel. Owners cancelling a player's booking must give a reason.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description The player who booked or the court owner may cancel an unpaid booking. The hours become available again. The body is optional for the player; an owner must send a reason.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID (UUID)"
// @Param body body controllers.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request (missing or too long reason)"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 409 {object} h.APIResponse "error.code: conflict (already cancelled or paid)"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID}/cancel [post]
func (c *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.PathParam(w, r, "bookingID")
	if !ok {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CancelBookingRequest
	if r.ContentLength != 0 {
		if !h.DecodeAndValidate(w, r, &req) {
			return
		}
	}
	booking, err := c.Service.CancelBooking(r.Context(), bookingID, callerID, req.Reason)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, booking)
}

func writeBookingPage(w http.ResponseWriter, list []*domain.Booking, params domain.PaginationParams, total int) {
	if list == nil {
		list = []*domain.Booking{}
	}
	meta := h.NewPaginationMeta(params.Page, params.PageSize, total)
	h.WriteJSONSuccess(w, http.StatusOK, ListBookingsResponse{Items: list, Pagination: meta})
}
