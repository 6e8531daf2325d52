package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courtfind/internal/availability"
	"courtfind/internal/domain"
)

// maxCancelReasonLen bounds the reason stored with a cancelled booking.
const maxCancelReasonLen = 500

type bookingService struct {
	courtRepo      domain.CourtRepository
	bookingRepo    domain.BookingRepository
	locker         domain.BookingLocker
	lockTTL        time.Duration
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewBookingService creates a BookingService. The locker serialises CreateBooking per court and date.
func NewBookingService(
	courtRepo domain.CourtRepository,
	bookingRepo domain.BookingRepository,
	locker domain.BookingLocker,
	lockTTL time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		courtRepo:      courtRepo,
		bookingRepo:    bookingRepo,
		locker:         locker,
		lockTTL:        lockTTL,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *bookingService) GetBookedIntervals(ctx context.Context, courtID string, date time.Time) ([]availability.BookedInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := getCourt(ctx, s.courtRepo, courtID); err != nil {
		return nil, err
	}
	return s.bookedIntervals(ctx, courtID, date)
}

func (s *bookingService) GetDayAvailability(ctx context.Context, courtID string, date time.Time) (*domain.CourtDayAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	court, booked, err := s.courtDay(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	return &domain.CourtDayAvailability{
		CourtID:    court.ID,
		Date:       date.Format(domain.DateLayout),
		Open:       availability.IsDayOpen(court.Availability, date),
		Slots:      availability.BuildOccupancyRow(court.Availability, booked, date),
		StartTimes: availability.ListValidStartTimes(court.Availability, booked, date),
	}, nil
}

func (s *bookingService) GetDurationOptions(ctx context.Context, courtID string, date time.Time, start availability.Hour) (*domain.DurationOptions, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	court, booked, err := s.courtDay(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	hours := availability.ListDurationOptions(court.Availability, booked, date, start)
	options := make([]domain.DurationOption, len(hours))
	for i, h := range hours {
		options[i] = domain.DurationOption{Hours: h, Price: availability.Price(court.HourlyRate, h)}
	}
	return &domain.DurationOptions{
		CourtID:     court.ID,
		Date:        date.Format(domain.DateLayout),
		Start:       start,
		MaxDuration: len(hours),
		Options:     options,
	}, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, playerID, courtID string, date time.Time, start availability.Hour, duration int) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if playerID == "" {
		return nil, fmt.Errorf("player is required: %w", domain.ErrInvalidInput)
	}
	date = truncateDay(date)
	if date.Before(truncateDay(s.now())) {
		return nil, domain.ErrPastDate
	}

	court, err := getCourt(ctx, s.courtRepo, courtID)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lockKey(courtID, date), s.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrBookingLocked) {
			return nil, domain.ErrBookingLocked
		}
		return nil, fmt.Errorf("acquire booking lock: %w", err)
	}
	defer release()

	booked, err := s.bookedIntervals(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	if err := availability.CheckBooking(court.Availability, booked, date, start, duration); err != nil {
		return nil, err
	}

	now := s.now()
	booking := domain.NewBooking(court, playerID, date, start, duration, now, now)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			return nil, domain.ErrSlotUnavailable
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	booking.CourtName = court.Name
	s.logger.InfoContext(ctx, "booking created",
		"booking_id", booking.ID, "court_id", courtID, "date", date.Format(domain.DateLayout),
		"start", start.String(), "duration", duration)
	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, playerID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	bookings, total, err := s.bookingRepo.ListByPlayerID(ctx, playerID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, total, nil
}

func (s *bookingService) ListOwnerBookings(ctx context.Context, ownerID, arenaID string, params domain.PaginationParams) ([]*domain.Booking, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	bookings, total, err := s.bookingRepo.ListByOwnerID(ctx, ownerID, arenaID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list owner bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, total, nil
}

// CancelBooking is allowed for the player who booked and the court owner, while unpaid.
// An owner cancelling someone else's booking must give a reason, which the player sees.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, callerID, reason string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := getBooking(ctx, s.bookingRepo, bookingID)
	if err != nil {
		return nil, err
	}
	if callerID != booking.PlayerID && callerID != booking.OwnerID {
		return nil, domain.ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > maxCancelReasonLen {
		return nil, fmt.Errorf("reason must be at most %d characters: %w", maxCancelReasonLen, domain.ErrInvalidInput)
	}
	switch {
	case booking.Status == domain.BookingStatusCancelled:
		return nil, domain.ErrBookingCancelled
	case booking.PaymentStatus == domain.PaymentStatusPaid:
		return nil, domain.ErrAlreadyPaid
	case callerID != booking.PlayerID && reason == "":
		return nil, fmt.Errorf("reason is required when the owner cancels: %w", domain.ErrInvalidInput)
	}
	booking, err = s.bookingRepo.Cancel(ctx, bookingID, reason)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyPaid) || errors.Is(err, domain.ErrBookingCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	s.logger.InfoContext(ctx, "booking cancelled", "booking_id", bookingID, "by", callerID, "reason", reason)
	return booking, nil
}

// courtDay loads the court and its booked intervals for date, logging intervals the engine skips.
func (s *bookingService) courtDay(ctx context.Context, courtID string, date time.Time) (*domain.Court, []availability.BookedInterval, error) {
	court, err := getCourt(ctx, s.courtRepo, courtID)
	if err != nil {
		return nil, nil, err
	}
	booked, err := s.bookedIntervals(ctx, courtID, date)
	if err != nil {
		return nil, nil, err
	}
	_, skipped := availability.OccupiedHours(booked)
	for _, err := range skipped {
		s.logger.WarnContext(ctx, "skipping malformed booked interval", "court_id", courtID, "err", err)
	}
	return court, booked, nil
}

func (s *bookingService) bookedIntervals(ctx context.Context, courtID string, date time.Time) ([]availability.BookedInterval, error) {
	bookings, err := s.bookingRepo.ListActiveByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked intervals: %w", err)
	}
	intervals := make([]availability.BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, b.Interval())
	}
	return intervals, nil
}

func getBooking(ctx context.Context, repo domain.BookingRepository, bookingID string) (*domain.Booking, error) {
	booking, err := repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

func lockKey(courtID string, date time.Time) string {
	return "booking:" + courtID + ":" + date.Format(domain.DateLayout)
}

// truncateDay keeps the calendar date of t in its own location, at UTC midnight.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
