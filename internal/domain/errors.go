package domain

import (
	"errors"

	"courtfind/internal/availability"
)

// Sentinel errors shared by services, repositories and controllers.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrWeakPassword        = errors.New("password is too weak")
	ErrIncorrectPassword   = errors.New("current password is incorrect")
	ErrInvalidResetToken   = errors.New("reset link is invalid or has expired")
	ErrPastDate            = errors.New("date is in the past")
	ErrBookingLocked       = errors.New("another booking for this court and date is in progress")
	ErrBookingCancelled    = errors.New("booking is cancelled")
	ErrAlreadyPaid         = errors.New("booking is already paid")
	ErrPaymentNotCompleted = errors.New("payment has not been completed")

	// ErrSlotUnavailable is the engine's error so errors.Is works across layers.
	ErrSlotUnavailable = availability.ErrSlotUnavailable
)
