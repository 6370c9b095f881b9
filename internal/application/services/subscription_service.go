package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lettermill/newsletter-api/internal/core/domain/subscriber"
	"github.com/lettermill/newsletter-api/internal/core/ports"
)

// SubscriptionService coordinates the signup and confirmation flows.
type SubscriptionService struct {
	repo        ports.SubscriptionRepository
	emailClient ports.EmailClient
	logger      *logrus.Logger
}

func NewSubscriptionService(repo ports.SubscriptionRepository, emailClient ports.EmailClient, logger *logrus.Logger) ports.SubscriptionService {
	return &SubscriptionService{
		repo:        repo,
		emailClient: emailClient,
		logger:      logger,
	}
}

// Subscribe validates the signup fields, persists the subscriber together
// with a fresh confirmation token in one transaction, and only after the
// commit sends the confirmation email. A failed send leaves the subscriber
// durably pending with an undelivered token; that inconsistency is accepted
// and surfaced to the caller rather than retried.
func (s *SubscriptionService) Subscribe(ctx context.Context, email, name string) error {
	sub, err := subscriber.NewSubscriberFromForm(email, name)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return &ports.StorageError{Op: "begin subscription transaction", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	id, err := tx.InsertSubscriber(ctx, sub)
	if err != nil {
		return &ports.StorageError{Op: "insert subscriber", Err: err}
	}

	token, err := generateSubscriptionToken()
	if err != nil {
		return err
	}

	if err := tx.StoreToken(ctx, id, token); err != nil {
		return &ports.StorageError{Op: "store subscription token", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &ports.StorageError{Op: "commit subscription transaction", Err: err}
	}

	if err := s.emailClient.SendConfirmationEmail(ctx, sub.Email, token); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"subscriber_id": id,
				"email":         sub.Email.String(),
			}).WithError(err).Error("failed to send confirmation email")
		}
		return &ports.TransportError{Recipient: sub.Email.String(), Err: err}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"subscriber_id": id,
			"email":         sub.Email.String(),
		}).Info("new subscriber pending confirmation")
	}

	return nil
}

// Confirm redeems a subscription token. Re-confirming an already confirmed
// subscriber succeeds; there is no distinction between first-time and repeat
// redemption.
func (s *SubscriptionService) Confirm(ctx context.Context, token string) error {
	id, err := s.repo.GetSubscriberIDFromToken(ctx, token)
	if err != nil {
		return &ports.StorageError{Op: "resolve subscription token", Err: err}
	}
	if id == nil {
		return ports.ErrUnknownToken
	}

	if err := s.repo.ConfirmSubscriber(ctx, *id); err != nil {
		return &ports.StorageError{Op: "confirm subscriber", Err: err}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"subscriber_id": *id}).Info("subscriber confirmed")
	}

	return nil
}
