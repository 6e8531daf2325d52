package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"courtfind/internal/delivery/http/helpers"
	"courtfind/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingPath(id string) map[string]string { return map[string]string{"bookingID": id} }

func TestPaymentController_StartCheckout(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", principal: player, wantStatus: http.StatusCreated},
		{name: "not your booking", principal: player, fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "already paid", principal: player, fakeErr: domain.ErrAlreadyPaid, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "gateway down", principal: player, fakeErr: errors.New("stripe: timeout"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
		{name: "no user in context", wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePaymentService{err: tt.fakeErr, session: &domain.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"}}
			ctrl := NewPaymentController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.StartCheckout(rr, newRequest(http.MethodPost, "/bookings/b-1/checkout", "", tt.principal, bookingPath("b-1")))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var sess domain.CheckoutSession
			decodeData(t, rr, &sess)
			assert.Equal(t, "https://checkout.example/cs_1", sess.URL)
			assert.Equal(t, "b-1", fake.lastBooking)
			assert.Equal(t, "player-1", fake.lastPlayer)
		})
	}
}

func TestPaymentController_ConfirmPayment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"session_id":" cs_1 "}`, wantStatus: http.StatusOK},
		{name: "missing session", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "not paid yet", body: `{"session_id":"cs_1"}`, fakeErr: domain.ErrPaymentNotCompleted, wantStatus: http.StatusPaymentRequired, wantCode: helpers.ErrCodePaymentRequired},
		{name: "session of another booking", body: `{"session_id":"cs_2"}`, fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "booking cancelled", body: `{"session_id":"cs_1"}`, fakeErr: domain.ErrBookingCancelled, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePaymentService{err: tt.fakeErr}
			ctrl := NewPaymentController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.ConfirmPayment(rr, newRequest(http.MethodPost, "/bookings/b-1/confirm-payment", tt.body, player, bookingPath("b-1")))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var booking domain.Booking
			decodeData(t, rr, &booking)
			assert.Equal(t, domain.PaymentStatusPaid, booking.PaymentStatus)
			assert.Equal(t, "cs_1", fake.lastSession)
		})
	}
}
