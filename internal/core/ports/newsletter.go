package ports

import (
	"context"

	"github.com/lettermill/newsletter-api/internal/core/domain/newsletter"
)

// NewsletterService defines the interface for broadcasting an issue to every
// confirmed subscriber.
type NewsletterService interface {
	Publish(ctx context.Context, issue *newsletter.Issue) error
}
