package payment

import (
	"context"
	"fmt"
	"strings"

	"courtfind/internal/domain"
)

const fakeSessionPrefix = "fake_cs_"

type fakeGateway struct{}

// NewFakeGateway returns a gateway for local development. Its sessions are always paid.
func NewFakeGateway() domain.PaymentGateway {
	return fakeGateway{}
}

func (fakeGateway) CreateCheckout(_ context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("create checkout: amount must be positive: %w", domain.ErrInvalidInput)
	}
	id := fakeSessionPrefix + req.BookingID
	return &domain.CheckoutSession{ID: id, URL: "about:blank#" + id}, nil
}

func (fakeGateway) IsPaid(_ context.Context, sessionID, bookingID string) (bool, error) {
	if !strings.HasPrefix(sessionID, fakeSessionPrefix) {
		return false, domain.ErrNotFound
	}
	if strings.TrimPrefix(sessionID, fakeSessionPrefix) != bookingID {
		return false, domain.ErrForbidden
	}
	return true, nil
}
