package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/lettermill/newsletter-api/internal/core/domain/subscriber"
	"github.com/lettermill/newsletter-api/internal/core/ports"
	"github.com/lettermill/newsletter-api/internal/infrastructure/db"
)

// SubscriptionRepository implements the subscription store on Postgres.
type SubscriptionRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(database *db.Database, logger *logrus.Logger) ports.SubscriptionRepository {
	return &SubscriptionRepository{
		db:     database,
		logger: logger,
	}
}

// BeginTx opens a transaction for the subscriber-plus-token write pair.
func (r *SubscriptionRepository) BeginTx(ctx context.Context) (ports.SubscriptionTx, error) {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to begin transaction")
		}
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &subscriptionTx{tx: tx, logger: r.logger}, nil
}

// GetSubscriberIDFromToken resolves a confirmation token to its owner.
// A missing token returns (nil, nil).
func (r *SubscriptionRepository) GetSubscriberIDFromToken(ctx context.Context, token string) (*uuid.UUID, error) {
	var id uuid.UUID
	query := `SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`

	err := r.db.DB.GetContext(ctx, &id, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		if r.logger != nil {
			r.logger.Debug("db: subscription token not found")
		}
		return nil, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to resolve subscription token")
		}
		return nil, fmt.Errorf("failed to resolve subscription token: %w", err)
	}

	return &id, nil
}

// ConfirmSubscriber flips the subscriber to confirmed. The update is
// unconditional: an id matching zero rows (already handled or never issued)
// still counts as success.
func (r *SubscriptionRepository) ConfirmSubscriber(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE subscriptions SET status = $2 WHERE id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, id, subscriber.StatusConfirmed)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": id}).WithError(err).Error("db: failed to confirm subscriber")
		}
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}

	return nil
}

// GetConfirmedSubscribers scans every confirmed row and re-parses the stored
// email through the domain validator, yielding one result per row. Rows
// written before stricter validation existed come back as defects instead of
// poisoning the whole scan.
func (r *SubscriptionRepository) GetConfirmedSubscribers(ctx context.Context) ([]ports.ConfirmedRecipient, error) {
	var stored []string
	query := `SELECT email FROM subscriptions WHERE status = $1`

	err := r.db.DB.SelectContext(ctx, &stored, query, subscriber.StatusConfirmed)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list confirmed subscribers")
		}
		return nil, fmt.Errorf("failed to list confirmed subscribers: %w", err)
	}

	recipients := make([]ports.ConfirmedRecipient, 0, len(stored))
	for _, raw := range stored {
		email, err := subscriber.ParseEmail(raw)
		if err != nil {
			recipients = append(recipients, ports.ConfirmedRecipient{Raw: raw, Err: err})
			continue
		}
		recipients = append(recipients, ports.ConfirmedRecipient{Email: email, Raw: raw})
	}

	return recipients, nil
}

// subscriptionTx wraps a sqlx transaction behind the SubscriptionTx port.
type subscriptionTx struct {
	tx     *sqlx.Tx
	logger *logrus.Logger
}

// InsertSubscriber allocates a fresh time-sortable id and writes the
// subscriber row in pending_confirmation state.
func (t *subscriptionTx) InsertSubscriber(ctx context.Context, sub *subscriber.NewSubscriber) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to allocate subscriber id: %w", err)
	}

	query := `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = t.tx.ExecContext(ctx, query,
		id, sub.Email.String(), sub.Name.String(), time.Now().UTC(), subscriber.StatusPendingConfirmation)
	if err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"email": sub.Email.String()}).WithError(err).Error("db: failed to insert subscriber")
		}
		return uuid.Nil, fmt.Errorf("failed to insert subscriber: %w", err)
	}

	return id, nil
}

// StoreToken writes the confirmation token row inside the same transaction
// as its subscriber.
func (t *subscriptionTx) StoreToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	query := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)`

	_, err := t.tx.ExecContext(ctx, query, token, subscriberID)
	if err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"subscriber_id": subscriberID}).WithError(err).Error("db: failed to store subscription token")
		}
		return fmt.Errorf("failed to store subscription token: %w", err)
	}

	return nil
}

func (t *subscriptionTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the transaction. Rolling back after Commit is the normal
// deferred-cleanup path and is not an error.
func (t *subscriptionTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}
