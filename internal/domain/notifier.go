package domain

import "context"

// EmailSender defines the interface for sending verification emails.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, code string) error
	SendPasswordResetEmail(ctx context.Context, email, code string) error
}

// SMSSender defines the interface for sending verification codes by SMS.
// Implementations return a *DeliveryError carrying the provider message when
// the provider answers with anything but its success sentinel.
type SMSSender interface {
	SendCode(ctx context.Context, mobile, code string) error
}
