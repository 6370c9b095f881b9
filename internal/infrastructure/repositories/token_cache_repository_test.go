package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lettermill/newsletter-api/internal/core/ports"
	"github.com/lettermill/newsletter-api/internal/infrastructure/repositories"
	tmocks "github.com/lettermill/newsletter-api/test/mocks"
)

func TestCachingRepo_ResolvesThroughAndCaches(t *testing.T) {
	id := uuid.New()
	baseCalls := 0
	base := &tmocks.SubscriptionRepositoryMock{
		GetSubscriberIDFromTokenFn: func(ctx context.Context, token string) (*uuid.UUID, error) {
			baseCalls++
			return &id, nil
		},
	}
	cache := &tmocks.CacheMock{}
	repo := repositories.NewCachingSubscriptionRepository(base, cache, time.Minute, logrus.New())

	for i := 0; i < 3; i++ {
		got, err := repo.GetSubscriberIDFromToken(context.Background(), "valid-token")
		if err != nil {
			t.Fatalf("lookup %d failed: %v", i+1, err)
		}
		if got == nil || *got != id {
			t.Fatalf("lookup %d returned %v, want %s", i+1, got, id)
		}
	}
	if baseCalls != 1 {
		t.Fatalf("expected one base lookup, got %d", baseCalls)
	}
}

func TestCachingRepo_UnknownTokensAreNotCached(t *testing.T) {
	baseCalls := 0
	base := &tmocks.SubscriptionRepositoryMock{
		GetSubscriberIDFromTokenFn: func(ctx context.Context, token string) (*uuid.UUID, error) {
			baseCalls++
			return nil, nil
		},
	}
	cache := &tmocks.CacheMock{}
	repo := repositories.NewCachingSubscriptionRepository(base, cache, time.Minute, logrus.New())

	for i := 0; i < 2; i++ {
		got, err := repo.GetSubscriberIDFromToken(context.Background(), "does-not-exist")
		if err != nil {
			t.Fatalf("lookup %d failed: %v", i+1, err)
		}
		if got != nil {
			t.Fatalf("expected nil for unknown token, got %v", got)
		}
	}
	if baseCalls != 2 {
		t.Fatalf("unknown tokens must hit the base store every time, got %d calls", baseCalls)
	}
	if len(cache.Entries) != 0 {
		t.Fatalf("unknown tokens must not be cached, found %d entries", len(cache.Entries))
	}
}

func TestCachingRepo_CacheFailureFallsBackToBase(t *testing.T) {
	id := uuid.New()
	base := &tmocks.SubscriptionRepositoryMock{
		GetSubscriberIDFromTokenFn: func(ctx context.Context, token string) (*uuid.UUID, error) {
			return &id, nil
		},
	}
	cache := &tmocks.CacheMock{
		GetFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, errors.New("redis down")
		},
		SetFn: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			return errors.New("redis down")
		},
	}
	repo := repositories.NewCachingSubscriptionRepository(base, cache, time.Minute, logrus.New())

	got, err := repo.GetSubscriberIDFromToken(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("cache outage must not fail the lookup: %v", err)
	}
	if got == nil || *got != id {
		t.Fatalf("expected %s, got %v", id, got)
	}
}

func TestCachingRepo_StorageErrorsPropagate(t *testing.T) {
	base := &tmocks.SubscriptionRepositoryMock{
		GetSubscriberIDFromTokenFn: func(ctx context.Context, token string) (*uuid.UUID, error) {
			return nil, errors.New("connection refused")
		},
	}
	repo := repositories.NewCachingSubscriptionRepository(base, &tmocks.CacheMock{}, time.Minute, logrus.New())

	if _, err := repo.GetSubscriberIDFromToken(context.Background(), "any"); err == nil {
		t.Fatal("expected the storage error to propagate")
	}
}

var _ ports.SubscriptionRepository = (*tmocks.SubscriptionRepositoryMock)(nil)
