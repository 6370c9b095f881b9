package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/lettermill/newsletter-api/internal/core/domain/subscriber"
)

// ConfirmedRecipient is one row from the confirmed-subscriber scan. Exactly
// one of Email or Err is meaningful: Err is set when the stored address no
// longer passes validation, with Raw carrying the offending value.
type ConfirmedRecipient struct {
	Email subscriber.Email
	Raw   string
	Err   error
}

// SubscriptionTx is an open unit of atomic work against the subscription
// store. Callers must Commit explicitly and should defer Rollback so an
// abandoned transaction never leaves partial writes visible. Rollback after
// a successful Commit is a no-op.
type SubscriptionTx interface {
	InsertSubscriber(ctx context.Context, sub *subscriber.NewSubscriber) (uuid.UUID, error)
	StoreToken(ctx context.Context, subscriberID uuid.UUID, token string) error
	Commit() error
	Rollback() error
}

// SubscriptionRepository defines the interface for subscriber persistence.
type SubscriptionRepository interface {
	BeginTx(ctx context.Context) (SubscriptionTx, error)
	// GetSubscriberIDFromToken returns nil (no error) when the token is
	// unknown, so callers can tell a bad link apart from a storage failure.
	GetSubscriberIDFromToken(ctx context.Context, token string) (*uuid.UUID, error)
	// ConfirmSubscriber is idempotent; an update matching zero rows is
	// still a success.
	ConfirmSubscriber(ctx context.Context, id uuid.UUID) error
	GetConfirmedSubscribers(ctx context.Context) ([]ConfirmedRecipient, error)
}

// SubscriptionService defines the interface for the signup and confirmation
// flows.
type SubscriptionService interface {
	Subscribe(ctx context.Context, email, name string) error
	Confirm(ctx context.Context, token string) error
}
