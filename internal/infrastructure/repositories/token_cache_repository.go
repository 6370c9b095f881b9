package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lettermill/newsletter-api/internal/core/ports"
)

// CachingSubscriptionRepository decorates a SubscriptionRepository with a
// read-through cache on token resolution. Token rows are written once and
// never updated or deleted, so cached resolutions can never go stale; the
// TTL only bounds memory. Cache failures fall back to the base store.
type CachingSubscriptionRepository struct {
	base   ports.SubscriptionRepository
	cache  ports.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachingSubscriptionRepository(base ports.SubscriptionRepository, cache ports.Cache, ttl time.Duration, logger *logrus.Logger) ports.SubscriptionRepository {
	return &CachingSubscriptionRepository{
		base:   base,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachingSubscriptionRepository) BeginTx(ctx context.Context) (ports.SubscriptionTx, error) {
	return r.base.BeginTx(ctx)
}

func (r *CachingSubscriptionRepository) ConfirmSubscriber(ctx context.Context, id uuid.UUID) error {
	return r.base.ConfirmSubscriber(ctx, id)
}

func (r *CachingSubscriptionRepository) GetConfirmedSubscribers(ctx context.Context) ([]ports.ConfirmedRecipient, error) {
	return r.base.GetConfirmedSubscribers(ctx)
}

func (r *CachingSubscriptionRepository) GetSubscriberIDFromToken(ctx context.Context, token string) (*uuid.UUID, error) {
	key := "subscription_token:" + token

	if raw, ok, err := r.cache.Get(ctx, key); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Warn("cache: token lookup failed, falling back to database")
		}
	} else if ok {
		if id, err := uuid.ParseBytes(raw); err == nil {
			return &id, nil
		}
		// Unparseable entry: drop it and resolve from the base store.
		_ = r.cache.Delete(ctx, key)
	}

	id, err := r.base.GetSubscriberIDFromToken(ctx, token)
	if err != nil || id == nil {
		// Unknown tokens are not cached; they stay distinguishable from
		// outages on every lookup.
		return id, err
	}

	if err := r.cache.Set(ctx, key, []byte(id.String()), r.ttl); err != nil && r.logger != nil {
		r.logger.WithError(err).Debug("cache: failed to store token resolution")
	}

	return id, nil
}
