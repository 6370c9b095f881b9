package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lettermill/newsletter-api/internal/core/domain/newsletter"
	"github.com/lettermill/newsletter-api/internal/core/ports"
)

// NewsletterService broadcasts issues to confirmed subscribers. It keeps no
// delivery ledger: a publish that fails midway has already emailed the
// recipients before the failing one, and re-invoking Publish resends the
// issue to every confirmed subscriber.
type NewsletterService struct {
	repo        ports.SubscriptionRepository
	emailClient ports.EmailClient
	logger      *logrus.Logger
}

func NewNewsletterService(repo ports.SubscriptionRepository, emailClient ports.EmailClient, logger *logrus.Logger) ports.NewsletterService {
	return &NewsletterService{
		repo:        repo,
		emailClient: emailClient,
		logger:      logger,
	}
}

// Publish sends the issue to every confirmed subscriber in the order the
// store yields them. Rows whose stored address no longer validates are
// logged and skipped; the first transport failure aborts the remaining
// deliveries.
func (s *NewsletterService) Publish(ctx context.Context, issue *newsletter.Issue) error {
	recipients, err := s.repo.GetConfirmedSubscribers(ctx)
	if err != nil {
		return &ports.StorageError{Op: "list confirmed subscribers", Err: err}
	}

	sent := 0
	for _, recipient := range recipients {
		if recipient.Err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"stored_email": recipient.Raw,
				}).WithError(recipient.Err).Warn("skipping a confirmed subscriber: stored contact details are invalid")
			}
			continue
		}

		if err := s.emailClient.SendEmail(ctx, recipient.Email, issue.Title, issue.Content.HTML, issue.Content.Text); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"email": recipient.Email.String(),
					"title": issue.Title,
				}).WithError(err).Error("failed to send newsletter issue")
			}
			return &ports.TransportError{Recipient: recipient.Email.String(), Err: err}
		}
		sent++
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"title":      issue.Title,
			"recipients": sent,
		}).Info("newsletter issue published")
	}

	return nil
}
