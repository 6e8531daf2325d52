package domain

import (
	"context"
	"time"
)

// Payment records a settled booking payment.
// swagger:model Payment
type Payment struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	OwnerID     string    `json:"owner_id"`
	ArenaID     string    `json:"arena_id"`
	Amount      int64     `json:"amount"`
	ProviderRef string    `json:"provider_ref"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckoutRequest is what the payment gateway needs to open a hosted checkout.
type CheckoutRequest struct {
	BookingID      string
	Description    string
	Amount         int64
	CustomerEmail  string
	IdempotencyKey string
}

// CheckoutSession is a hosted checkout the player is redirected to.
// swagger:model CheckoutSession
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway is the external payment provider.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// IsPaid reports whether the session was paid and belongs to bookingID.
	IsPaid(ctx context.Context, sessionID, bookingID string) (bool, error)
}

// PaymentRepository defines the interface for payment storage
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByBookingID(ctx context.Context, bookingID string) (*Payment, error)
}

// PaymentService starts and confirms booking payments.
type PaymentService interface {
	StartCheckout(ctx context.Context, bookingID, playerID string) (*CheckoutSession, error)
	ConfirmPayment(ctx context.Context, bookingID, sessionID, playerID string) (*Booking, error)
}
