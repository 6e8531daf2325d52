package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtfind/internal/availability"
	"courtfind/internal/domain"
)

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

const bookingColumns = `
	b.id, b.court_id, c.arena_id, b.player_id, a.owner_id, b.booking_date, b.start_hour, b.end_hour,
	b.total_price, b.status, b.payment_status, b.cancel_reason, c.name, a.name, b.created_at, b.updated_at`

const bookingFrom = `
	FROM bookings b
	JOIN courts c ON c.id = b.court_id
	JOIN arenas a ON a.id = c.arena_id
`

const bookingSelect = `SELECT ` + bookingColumns + bookingFrom

func scanBooking(s rowScanner, extra ...any) (*domain.Booking, error) {
	b := &domain.Booking{}
	var start, end int
	dest := append([]any{
		&b.ID, &b.CourtID, &b.ArenaID, &b.PlayerID, &b.OwnerID, &b.Date, &start, &end,
		&b.TotalPrice, &b.Status, &b.PaymentStatus, &b.CancelReason, &b.CourtName, &b.ArenaName, &b.CreatedAt, &b.UpdatedAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	b.StartHour, b.EndHour = availability.Hour(start), availability.Hour(end)
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (court_id, player_id, booking_date, start_hour, end_hour, total_price, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		b.CourtID, b.PlayerID, b.Date, int(b.StartHour), int(b.EndHour), b.TotalPrice, b.Status, b.PaymentStatus, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		if pgCode(err) == codeExclusionViolation {
			return domain.ErrSlotUnavailable
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListActiveByCourtAndDate(ctx context.Context, courtID string, date time.Time) ([]*domain.Booking, error) {
	query := bookingSelect + `
		WHERE b.court_id = $1 AND b.booking_date = $2 AND b.status = $3
		ORDER BY b.start_hour
	`
	rows, err := r.DB.QueryContext(ctx, query, courtID, date.Format(domain.DateLayout), domain.BookingStatusBooked)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListByPlayerID(ctx context.Context, playerID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	query := `SELECT ` + bookingColumns + `, COUNT(*) OVER()` + bookingFrom + `
		WHERE b.player_id = $1
		ORDER BY b.booking_date DESC, b.start_hour DESC
		LIMIT $2 OFFSET $3
	`
	return r.listPage(ctx, query, playerID, params.PageSize, params.Offset())
}

// ListByOwnerID lists bookings across the owner's arenas, or one arena when arenaID is set.
func (r *bookingRepository) ListByOwnerID(ctx context.Context, ownerID, arenaID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	query := `SELECT ` + bookingColumns + `, COUNT(*) OVER()` + bookingFrom + `
		WHERE a.owner_id = $1 AND ($2 = '' OR a.id::text = $2)
		ORDER BY b.booking_date DESC, b.start_hour DESC
		LIMIT $3 OFFSET $4
	`
	return r.listPage(ctx, query, ownerID, arenaID, params.PageSize, params.Offset())
}

func (r *bookingRepository) listPage(ctx context.Context, query string, args ...any) ([]*domain.Booking, int, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	bookings := make([]*domain.Booking, 0)
	total := 0
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

// Cancel cancels an active unpaid booking. A payment landing first wins: the row is left
// alone and ErrAlreadyPaid is returned.
func (r *bookingRepository) Cancel(ctx context.Context, id, reason string) (*domain.Booking, error) {
	query := `
		UPDATE bookings SET status = $2, cancel_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND payment_status = $5
	`
	result, err := r.DB.ExecContext(ctx, query,
		id, domain.BookingStatusCancelled, reason, domain.BookingStatusBooked, domain.PaymentStatusPending,
	)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if b.Status == domain.BookingStatusCancelled {
			return nil, domain.ErrBookingCancelled
		}
		return nil, domain.ErrAlreadyPaid
	}
	return b, nil
}

// MarkPaid only touches active bookings so a cancel racing a payment cannot be overwritten.
func (r *bookingRepository) MarkPaid(ctx context.Context, id string) (*domain.Booking, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		id, domain.PaymentStatusPaid, domain.BookingStatusBooked,
	)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		b, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.Status == domain.BookingStatusCancelled {
			return nil, domain.ErrBookingCancelled
		}
		return b, nil
	}
	return r.GetByID(ctx, id)
}
