package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lettermill/newsletter-api/internal/core/domain/newsletter"
	"github.com/lettermill/newsletter-api/internal/core/domain/subscriber"
	"github.com/lettermill/newsletter-api/internal/core/ports"
)

// SubscriptionTxMock is a lightweight mock for SubscriptionTx
type SubscriptionTxMock struct {
	InsertSubscriberFn func(ctx context.Context, sub *subscriber.NewSubscriber) (uuid.UUID, error)
	StoreTokenFn       func(ctx context.Context, subscriberID uuid.UUID, token string) error
	CommitFn           func() error
	RollbackFn         func() error

	Committed  bool
	RolledBack bool
}

func (m *SubscriptionTxMock) InsertSubscriber(ctx context.Context, sub *subscriber.NewSubscriber) (uuid.UUID, error) {
	if m.InsertSubscriberFn != nil {
		return m.InsertSubscriberFn(ctx, sub)
	}
	return uuid.New(), nil
}

func (m *SubscriptionTxMock) StoreToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	if m.StoreTokenFn != nil {
		return m.StoreTokenFn(ctx, subscriberID, token)
	}
	return nil
}

func (m *SubscriptionTxMock) Commit() error {
	m.Committed = true
	if m.CommitFn != nil {
		return m.CommitFn()
	}
	return nil
}

func (m *SubscriptionTxMock) Rollback() error {
	if !m.Committed {
		m.RolledBack = true
	}
	if m.RollbackFn != nil {
		return m.RollbackFn()
	}
	return nil
}

// SubscriptionRepositoryMock is a lightweight mock for SubscriptionRepository
type SubscriptionRepositoryMock struct {
	BeginTxFn                  func(ctx context.Context) (ports.SubscriptionTx, error)
	GetSubscriberIDFromTokenFn func(ctx context.Context, token string) (*uuid.UUID, error)
	ConfirmSubscriberFn        func(ctx context.Context, id uuid.UUID) error
	GetConfirmedSubscribersFn  func(ctx context.Context) ([]ports.ConfirmedRecipient, error)
}

func (m *SubscriptionRepositoryMock) BeginTx(ctx context.Context) (ports.SubscriptionTx, error) {
	if m.BeginTxFn != nil {
		return m.BeginTxFn(ctx)
	}
	return &SubscriptionTxMock{}, nil
}

func (m *SubscriptionRepositoryMock) GetSubscriberIDFromToken(ctx context.Context, token string) (*uuid.UUID, error) {
	if m.GetSubscriberIDFromTokenFn != nil {
		return m.GetSubscriberIDFromTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *SubscriptionRepositoryMock) ConfirmSubscriber(ctx context.Context, id uuid.UUID) error {
	if m.ConfirmSubscriberFn != nil {
		return m.ConfirmSubscriberFn(ctx, id)
	}
	return nil
}

func (m *SubscriptionRepositoryMock) GetConfirmedSubscribers(ctx context.Context) ([]ports.ConfirmedRecipient, error) {
	if m.GetConfirmedSubscribersFn != nil {
		return m.GetConfirmedSubscribersFn(ctx)
	}
	return nil, nil
}

// EmailClientMock is a lightweight mock for EmailClient
type EmailClientMock struct {
	SendEmailFn             func(ctx context.Context, to subscriber.Email, subject, htmlBody, textBody string) error
	SendConfirmationEmailFn func(ctx context.Context, to subscriber.Email, token string) error
}

func (m *EmailClientMock) SendEmail(ctx context.Context, to subscriber.Email, subject, htmlBody, textBody string) error {
	if m.SendEmailFn != nil {
		return m.SendEmailFn(ctx, to, subject, htmlBody, textBody)
	}
	return nil
}

func (m *EmailClientMock) SendConfirmationEmail(ctx context.Context, to subscriber.Email, token string) error {
	if m.SendConfirmationEmailFn != nil {
		return m.SendConfirmationEmailFn(ctx, to, token)
	}
	return nil
}

// SubscriptionServiceMock is a lightweight mock for SubscriptionService
type SubscriptionServiceMock struct {
	SubscribeFn func(ctx context.Context, email, name string) error
	ConfirmFn   func(ctx context.Context, token string) error
}

func (m *SubscriptionServiceMock) Subscribe(ctx context.Context, email, name string) error {
	if m.SubscribeFn != nil {
		return m.SubscribeFn(ctx, email, name)
	}
	return nil
}

func (m *SubscriptionServiceMock) Confirm(ctx context.Context, token string) error {
	if m.ConfirmFn != nil {
		return m.ConfirmFn(ctx, token)
	}
	return nil
}

// NewsletterServiceMock is a lightweight mock for NewsletterService
type NewsletterServiceMock struct {
	PublishFn func(ctx context.Context, issue *newsletter.Issue) error
}

func (m *NewsletterServiceMock) Publish(ctx context.Context, issue *newsletter.Issue) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, issue)
	}
	return nil
}

// CacheMock is an in-memory Cache for tests
type CacheMock struct {
	GetFn    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFn func(ctx context.Context, key string) error

	Entries map[string][]byte
}

func (m *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	v, ok := m.Entries[key]
	return v, ok, nil
}

func (m *CacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	if m.Entries == nil {
		m.Entries = make(map[string][]byte)
	}
	m.Entries[key] = value
	return nil
}

func (m *CacheMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key)
	}
	delete(m.Entries, key)
	return nil
}
