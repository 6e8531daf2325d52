package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "courtfind/internal/delivery/http/helpers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"
)

// ConfirmPaymentRequest is the request body for POST /bookings/{bookingID}/confirm-payment.
type ConfirmPaymentRequest struct {
	SessionID string `json:"session_id"`
}

// Validate implements Validator.
func (c ConfirmPaymentRequest) Validate() []string {
	if strings.TrimSpace(c.SessionID) == "" {
		return []string{"session_id is required"}
	}
	return nil
}

// CheckoutSuccessResponse is the success envelope for POST /bookings/{bookingID}/checkout (201).
type CheckoutSuccessResponse struct {
	Data  *domain.CheckoutSession `json:"data"`
	Error *h.APIError             `json:"error"`
}

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// StartCheckout godoc
// @Summary Start checkout for a booking
// @Description Opens a hosted checkout session for the booking's total price. Redirect the player to data.url.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID (UUID)"
// @Success 201 {object} controllers.CheckoutSuccessResponse
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not your booking)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 409 {object} h.APIResponse "error.code: conflict (cancelled or already paid)"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID}/checkout [post]
func (c *PaymentController) StartCheckout(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.PathParam(w, r, "bookingID")
	if !ok {
		return
	}
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sess, err := c.Service.StartCheckout(r.Context(), bookingID, playerID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, sess)
}

// ConfirmPayment godoc
// @Summary Confirm a booking payment
// @Description Checks the checkout session with the payment provider and marks the booking paid. Confirming a paid booking returns it unchanged.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID (UUID)"
// @Param body body ConfirmPaymentRequest true "Checkout session"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 402 {object} h.APIResponse "error.code: payment_required (session not paid)"
// @Failure 403 {object} h.APIResponse "error.code: forbidden"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 409 {object} h.APIResponse "error.code: conflict (booking cancelled)"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID}/confirm-payment [post]
func (c *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.PathParam(w, r, "bookingID")
	if !ok {
		return
	}
	var req ConfirmPaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	booking, err := c.Service.ConfirmPayment(r.Context(), bookingID, strings.TrimSpace(req.SessionID), playerID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, booking)
}
