package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"courtfind/internal/domain"
)

type paymentService struct {
	bookingRepo    domain.BookingRepository
	paymentRepo    domain.PaymentRepository
	userRepo       domain.UserRepository
	gateway        domain.PaymentGateway
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewPaymentService creates a PaymentService that settles bookings through the gateway.
func NewPaymentService(
	bookingRepo domain.BookingRepository,
	paymentRepo domain.PaymentRepository,
	userRepo domain.UserRepository,
	gateway domain.PaymentGateway,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.PaymentService {
	return &paymentService{
		bookingRepo:    bookingRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *paymentService) StartCheckout(ctx context.Context, bookingID, playerID string) (*domain.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := s.payableBooking(ctx, bookingID, playerID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == domain.PaymentStatusPaid {
		return nil, domain.ErrAlreadyPaid
	}
	req := domain.CheckoutRequest{
		BookingID:      booking.ID,
		Description:    fmt.Sprintf("%s, %s %s-%s", courtLabel(booking), booking.Date.Format(domain.DateLayout), booking.StartHour, booking.EndHour),
		Amount:         booking.TotalPrice,
		IdempotencyKey: uuid.NewString(),
	}
	if player, err := s.userRepo.GetByID(ctx, playerID); err == nil {
		req.CustomerEmail = player.Email
	}
	sess, err := s.gateway.CreateCheckout(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}
	s.logger.InfoContext(ctx, "checkout started", "booking_id", booking.ID, "session_id", sess.ID, "amount", booking.TotalPrice)
	return sess, nil
}

// ConfirmPayment marks the booking paid once the gateway reports the session as paid and
// records the payment. A paid booking with its payment on record is returned unchanged. A paid
// booking without one, left by a failed earlier confirm, gets the record and the email now.
func (s *paymentService) ConfirmPayment(ctx context.Context, bookingID, sessionID, playerID string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if sessionID == "" {
		return nil, fmt.Errorf("session id is required: %w", domain.ErrInvalidInput)
	}
	booking, err := s.payableBooking(ctx, bookingID, playerID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == domain.PaymentStatusPaid {
		_, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load payment: %w", err)
		}
		s.logger.WarnContext(ctx, "paid booking has no payment record", "booking_id", bookingID)
	}

	paid, err := s.gateway.IsPaid(ctx, sessionID, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("check payment: %w", err)
	}
	if !paid {
		return nil, domain.ErrPaymentNotCompleted
	}

	booking, err = s.bookingRepo.MarkPaid(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingCancelled) {
			return nil, domain.ErrBookingCancelled
		}
		return nil, fmt.Errorf("mark booking paid: %w", err)
	}
	payment := &domain.Payment{
		BookingID:   booking.ID,
		OwnerID:     booking.OwnerID,
		ArenaID:     booking.ArenaID,
		Amount:      booking.TotalPrice,
		ProviderRef: sessionID,
		CreatedAt:   time.Now(),
	}
	// The booking stays paid on failure; the next confirm finds no record and retries.
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	s.logger.InfoContext(ctx, "booking paid", "booking_id", booking.ID, "payment_id", payment.ID, "amount", payment.Amount)

	s.sendConfirmation(ctx, booking)
	return booking, nil
}

func (s *paymentService) payableBooking(ctx context.Context, bookingID, playerID string) (*domain.Booking, error) {
	booking, err := getBooking(ctx, s.bookingRepo, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PlayerID != playerID {
		return nil, domain.ErrForbidden
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrBookingCancelled
	}
	return booking, nil
}

func (s *paymentService) sendConfirmation(ctx context.Context, booking *domain.Booking) {
	if s.emailService == nil {
		return
	}
	player, err := s.userRepo.GetByID(ctx, booking.PlayerID)
	if err != nil {
		s.logger.WarnContext(ctx, "confirmation email skipped", "booking_id", booking.ID, "err", err)
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:     player.Email,
		Name:      player.Name,
		BookingID: booking.ID,
		ArenaName: booking.ArenaName,
		CourtName: booking.CourtName,
		Date:      booking.Date.Format(domain.DateLayout),
		StartTime: booking.StartHour.String(),
		EndTime:   booking.EndHour.String(),
		Amount:    booking.TotalPrice,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "booking_id", booking.ID, "err", err)
	}
}

func courtLabel(b *domain.Booking) string {
	switch {
	case b.CourtName != "" && b.ArenaName != "":
		return b.CourtName + " at " + b.ArenaName
	case b.CourtName != "":
		return b.CourtName
	default:
		return "Court booking"
	}
}
