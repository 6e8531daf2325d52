package domain

import (
	"context"
	"time"
)

// Roles a user can hold.
const (
	RolePlayer = "player"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

// User represents a registered player, arena owner or admin.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name, phone, role string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		Phone:     phone,
		Role:      role,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Principal is the authenticated caller, as carried by a verified token.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// PasswordStrength is the score shown next to a password field.
// swagger:model PasswordStrength
type PasswordStrength struct {
	Score   int    `json:"score"`
	Label   string `json:"label"`
	Variant string `json:"variant"`
	Percent int    `json:"percent"`
}

// Password strength labels, weakest first.
const (
	StrengthWeak     = "Weak"
	StrengthModerate = "Moderate"
	StrengthStrong   = "Strong"
)

// PasswordScorer rates a candidate password.
type PasswordScorer interface {
	Score(password string) PasswordStrength
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the caller it was issued to.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// Update saves name, phone and updated_at.
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, hash, salt string) error
}

// PasswordResetRepository stores hashed, expiring, single-use password reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// Consume deletes an unexpired token and returns the user it was issued to.
	// It returns ErrNotFound when there is no such token.
	Consume(ctx context.Context, tokenHash string) (userID string, err error)
}

// AuthService defines sign-up and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name, phone, role string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	PasswordStrength(password string) PasswordStrength
}

// UserService manages the profile and password of an existing account.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// UpdateProfile changes the fields that are not nil.
	UpdateProfile(ctx context.Context, id string, name, phone *string) (*User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	// RequestPasswordReset emails a reset link when the address belongs to an account.
	// Unknown addresses succeed silently.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
