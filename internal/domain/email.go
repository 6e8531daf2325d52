package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the welcome email.
type WelcomeEmailData struct {
	Email string
	Name  string
	Role  string
}

// BookingConfirmationEmailData holds data for the paid-booking confirmation email.
type BookingConfirmationEmailData struct {
	Email     string
	Name      string
	BookingID string
	ArenaName string
	CourtName string
	Date      string
	StartTime string
	EndTime   string
	Amount    int64
}

// PasswordResetEmailData holds data for the password reset email.
type PasswordResetEmailData struct {
	Email            string
	Name             string
	ResetURL         string
	ExpiresInMinutes int
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
	SendBookingConfirmation(ctx context.Context, data *BookingConfirmationEmailData) error
	SendPasswordReset(ctx context.Context, data *PasswordResetEmailData) error
}
