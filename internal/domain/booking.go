package domain

import (
	"context"
	"time"

	"courtfind/internal/availability"
)

// Booking statuses.
const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Booking is a reservation of [StartHour, EndHour) on Date for one court.
// swagger:model Booking
type Booking struct {
	ID            string            `json:"id"`
	CourtID       string            `json:"court_id"`
	ArenaID       string            `json:"arena_id"`
	PlayerID      string            `json:"player_id"`
	OwnerID       string            `json:"owner_id"`
	Date          time.Time         `json:"booking_date"`
	StartHour     availability.Hour `json:"start_time" swaggertype:"string" example:"9:00"`
	EndHour       availability.Hour `json:"end_time" swaggertype:"string" example:"11:00"`
	TotalPrice    int64             `json:"total_price"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	CancelReason  string            `json:"cancel_reason,omitempty"`
	CourtName     string            `json:"court_name,omitempty"`
	ArenaName     string            `json:"arena_name,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewBooking returns a pending booking of duration hours from start. ID is set on create.
func NewBooking(court *Court, playerID string, date time.Time, start availability.Hour, duration int, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		CourtID:       court.ID,
		ArenaID:       court.ArenaID,
		PlayerID:      playerID,
		OwnerID:       court.OwnerID,
		Date:          date,
		StartHour:     start,
		EndHour:       start + availability.Hour(duration),
		TotalPrice:    availability.Price(court.HourlyRate, duration),
		Status:        BookingStatusBooked,
		PaymentStatus: PaymentStatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// Duration is the booked length in hours.
func (b *Booking) Duration() int { return int(b.EndHour - b.StartHour) }

// Interval is the booking as the engine sees it.
func (b *Booking) Interval() availability.BookedInterval {
	return availability.NewBookedInterval(b.StartHour, b.EndHour)
}

// CourtDayAvailability is a court's occupancy for one date.
// swagger:model CourtDayAvailability
type CourtDayAvailability struct {
	CourtID    string                    `json:"court_id"`
	Date       string                    `json:"date"`
	Open       bool                      `json:"open"`
	Slots      availability.OccupancyRow `json:"slots"`
	StartTimes []availability.Hour       `json:"start_times" swaggertype:"array,string"`
}

// DurationOption is one selectable duration with its price.
type DurationOption struct {
	Hours int   `json:"hours"`
	Price int64 `json:"price"`
}

// DurationOptions lists the durations bookable from a start hour.
// swagger:model DurationOptions
type DurationOptions struct {
	CourtID     string            `json:"court_id"`
	Date        string            `json:"date"`
	Start       availability.Hour `json:"start_time" swaggertype:"string"`
	MaxDuration int               `json:"max_duration"`
	Options     []DurationOption  `json:"options"`
}

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListActiveByCourtAndDate(ctx context.Context, courtID string, date time.Time) ([]*Booking, error)
	ListByPlayerID(ctx context.Context, playerID string, params PaginationParams) ([]*Booking, int, error)
	ListByOwnerID(ctx context.Context, ownerID, arenaID string, params PaginationParams) ([]*Booking, int, error)
	// Cancel returns ErrBookingCancelled or ErrAlreadyPaid when the booking is no longer cancellable.
	Cancel(ctx context.Context, id, reason string) (*Booking, error)
	MarkPaid(ctx context.Context, id string) (*Booking, error)
}

// BookingLocker serialises booking attempts on the same key across processes.
// Acquire returns ErrBookingLocked when the key is already held.
type BookingLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// BookingService computes availability and creates and manages bookings.
type BookingService interface {
	GetBookedIntervals(ctx context.Context, courtID string, date time.Time) ([]availability.BookedInterval, error)
	GetDayAvailability(ctx context.Context, courtID string, date time.Time) (*CourtDayAvailability, error)
	GetDurationOptions(ctx context.Context, courtID string, date time.Time, start availability.Hour) (*DurationOptions, error)
	CreateBooking(ctx context.Context, playerID, courtID string, date time.Time, start availability.Hour, duration int) (*Booking, error)
	ListMyBookings(ctx context.Context, playerID string, params PaginationParams) ([]*Booking, int, error)
	ListOwnerBookings(ctx context.Context, ownerID, arenaID string, params PaginationParams) ([]*Booking, int, error)
	CancelBooking(ctx context.Context, bookingID, callerID, reason string) (*Booking, error)
}
