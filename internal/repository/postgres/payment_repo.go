package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courtfind/internal/domain"
)

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{DB: db}
}

// Create records a payment once per booking. A second call for the same booking loads
// the existing row into p.
func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (booking_id, owner_id, arena_id, amount, provider_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (booking_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.BookingID, p.OwnerID, p.ArenaID, p.Amount, p.ProviderRef, p.CreatedAt).Scan(&p.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("insert payment: %w", err)
	}
	existing, err := r.GetByBookingID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	*p = *existing
	return nil
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `
		SELECT id, booking_id, owner_id, arena_id, amount, provider_ref, created_at
		FROM payments
		WHERE booking_id = $1
	`
	p := &domain.Payment{}
	err := r.DB.QueryRowContext(ctx, query, bookingID).Scan(&p.ID, &p.BookingID, &p.OwnerID, &p.ArenaID, &p.Amount, &p.ProviderRef, &p.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
