package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtfind/internal/domain"
)

func TestFakeGateway(t *testing.T) {
	ctx := context.Background()
	g := NewFakeGateway()

	t.Run("checkout then paid", func(t *testing.T) {
		s, err := g.CreateCheckout(ctx, domain.CheckoutRequest{BookingID: "b-1", Amount: 2500})
		require.NoError(t, err)
		assert.Equal(t, "fake_cs_b-1", s.ID)

		paid, err := g.IsPaid(ctx, s.ID, "b-1")
		require.NoError(t, err)
		assert.True(t, paid)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := g.CreateCheckout(ctx, domain.CheckoutRequest{BookingID: "b-1"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := g.IsPaid(ctx, "cs_live_123", "b-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("session for another booking", func(t *testing.T) {
		_, err := g.IsPaid(ctx, "fake_cs_b-2", "b-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
