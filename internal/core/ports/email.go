package ports

import (
	"context"

	"github.com/lettermill/newsletter-api/internal/core/domain/subscriber"
)

// EmailClient defines the interface for outbound email delivery. Recipients
// are validated addresses; each call performs exactly one send attempt.
type EmailClient interface {
	SendEmail(ctx context.Context, to subscriber.Email, subject, htmlBody, textBody string) error
	SendConfirmationEmail(ctx context.Context, to subscriber.Email, token string) error
}
