package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"

	"courtfind/internal/domain"
)

// StripeConfig holds configuration for Stripe Checkout.
type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Currency   string
}

// GatewayConfig selects and configures the payment provider.
type GatewayConfig struct {
	Provider string
	Stripe   StripeConfig
}

// NewGateway returns the Stripe gateway when a secret key is configured and a fake gateway otherwise.
func NewGateway(config GatewayConfig, logger *slog.Logger) (domain.PaymentGateway, error) {
	switch config.Provider {
	case "fake":
		logger.Warn("using fake payment gateway, every checkout counts as paid")
		return NewFakeGateway(), nil
	case "stripe", "":
		if strings.TrimSpace(config.Stripe.SecretKey) == "" {
			if config.Provider == "stripe" {
				return nil, errors.New("stripe gateway: secret key is required")
			}
			logger.Warn("STRIPE_SECRET_KEY not set, using fake payment gateway")
			return NewFakeGateway(), nil
		}
		return NewStripeGateway(config.Stripe), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", config.Provider)
	}
}

type stripeGateway struct {
	successURL string
	cancelURL  string
	currency   string

	newSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getSession func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeGateway returns a PaymentGateway backed by Stripe Checkout in payment mode.
func NewStripeGateway(config StripeConfig) domain.PaymentGateway {
	stripe.Key = strings.TrimSpace(config.SecretKey)
	currency := strings.ToLower(strings.TrimSpace(config.Currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &stripeGateway{
		successURL: config.SuccessURL,
		cancelURL:  config.CancelURL,
		currency:   currency,
		newSession: checkoutsession.New,
		getSession: checkoutsession.Get,
	}
}

func (g *stripeGateway) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("create checkout: amount must be positive: %w", domain.ErrInvalidInput)
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(withBookingID(g.successURL, req.BookingID)),
		CancelURL:         stripe.String(withBookingID(g.cancelURL, req.BookingID)),
		ClientReferenceID: stripe.String(req.BookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{"booking_id": req.BookingID},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	params.Context = ctx

	sess, err := g.newSession(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session create: %w", err)
	}
	return &domain.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) IsPaid(ctx context.Context, sessionID, bookingID string) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := g.getSession(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("stripe checkout session get: %w", err)
	}
	if sess.ClientReferenceID != bookingID {
		return false, fmt.Errorf("checkout session %s does not belong to booking: %w", sessionID, domain.ErrForbidden)
	}
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}

// withBookingID fills a {BOOKING_ID} placeholder so the SPA knows which booking to confirm.
// Stripe itself replaces {CHECKOUT_SESSION_ID}.
func withBookingID(url, bookingID string) string {
	return strings.ReplaceAll(url, "{BOOKING_ID}", bookingID)
}
