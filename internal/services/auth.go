package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"courtfind/internal/domain"
)

// minStrengthScore is the lowest Moderate score accepted at sign-up.
const minStrengthScore = 3

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	scorer         domain.PasswordScorer
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService with the given repository and auth ports.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	scorer domain.PasswordScorer,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		scorer:         scorer,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, name, phone, role string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	switch role = strings.TrimSpace(strings.ToLower(role)); role {
	case "":
		role = domain.RolePlayer
	case domain.RolePlayer, domain.RoleOwner:
	default:
		return nil, fmt.Errorf("role must be %q or %q: %w", domain.RolePlayer, domain.RoleOwner, domain.ErrInvalidInput)
	}
	if s.scorer.Score(password).Score < minStrengthScore {
		return nil, domain.ErrWeakPassword
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.NewUser(email, name, strings.TrimSpace(phone), role, now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeEmailData{Email: user.Email, Name: user.Name, Role: user.Role}
		if err := s.emailService.SendWelcome(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
		}
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) PasswordStrength(password string) domain.PasswordStrength {
	return s.scorer.Score(password)
}
