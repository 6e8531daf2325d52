package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courtfind/internal/domain"
)

const (
	resetTokenBytes = 32
	maxNameLen      = 100
	maxPhoneLen     = 30
)

type userService struct {
	userRepo       domain.UserRepository
	resetRepo      domain.PasswordResetRepository
	hasher         domain.PasswordHasher
	scorer         domain.PasswordScorer
	emailService   domain.EmailService
	resetURL       string
	resetTTL       time.Duration
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewUserService creates a UserService. resetURL is the page the emailed token is appended to.
func NewUserService(
	userRepo domain.UserRepository,
	resetRepo domain.PasswordResetRepository,
	hasher domain.PasswordHasher,
	scorer domain.PasswordScorer,
	emailService domain.EmailService,
	resetURL string,
	resetTTL time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		resetRepo:      resetRepo,
		hasher:         hasher,
		scorer:         scorer,
		emailService:   emailService,
		resetURL:       resetURL,
		resetTTL:       resetTTL,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.get(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id string, name, phone *string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var newName, newPhone string
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", domain.ErrInvalidInput)
		}
		if len(newName) > maxNameLen {
			return nil, fmt.Errorf("name must be at most %d characters: %w", maxNameLen, domain.ErrInvalidInput)
		}
	}
	if phone != nil {
		newPhone = strings.TrimSpace(*phone)
		if len(newPhone) > maxPhoneLen {
			return nil, fmt.Errorf("phone must be at most %d characters: %w", maxPhoneLen, domain.ErrInvalidInput)
		}
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		user.Name = newName
	}
	if phone != nil {
		user.Phone = newPhone
	}
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, currentPassword); err != nil {
		return domain.ErrIncorrectPassword
	}
	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "password changed", "user_id", user.ID)
	return nil
}

func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.DebugContext(ctx, "password reset for unknown email")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.resetRepo.Create(ctx, user.ID, hashResetToken(token), s.now().Add(s.resetTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if s.emailService != nil {
		data := &domain.PasswordResetEmailData{
			Email:            user.Email,
			Name:             user.Name,
			ResetURL:         s.resetURL + token,
			ExpiresInMinutes: int(s.resetTTL / time.Minute),
		}
		if err := s.emailService.SendPasswordReset(ctx, data); err != nil {
			return fmt.Errorf("send reset email: %w", err)
		}
	}
	s.logger.InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword checks the new password before spending the token, so a rejected password
// leaves the link usable.
func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrInvalidResetToken
	}
	if s.scorer.Score(newPassword).Score < minStrengthScore {
		return domain.ErrWeakPassword
	}
	userID, err := s.resetRepo.Consume(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	if err := s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "password reset", "user_id", userID)
	return nil
}

func (s *userService) get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) setPassword(ctx context.Context, userID, password string) error {
	if s.scorer.Score(password).Score < minStrengthScore {
		return domain.ErrWeakPassword
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash, salt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
