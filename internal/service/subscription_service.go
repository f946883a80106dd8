package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"skoolife/backend/config"
	"skoolife/backend/internal/dto"
)

// BillingStatus is what the billing provider reports for one user.
type BillingStatus struct {
	Subscribed bool       `json:"subscribed"`
	Tier       string     `json:"tier"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// BillingProvider is the external billing collaborator.
type BillingProvider interface {
	Lookup(ctx context.Context, userID string) (*BillingStatus, error)
}

// SubscriptionCache memoizes billing lookups per user for a bounded time.
// *redis.Client satisfies it; tests inject a map-backed fake.
type SubscriptionCache interface {
	SetJSON(ctx context.Context, userID string, v interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, userID string, v interface{}) (bool, error)
	DeleteJSON(ctx context.Context, userID string) error
}

// SubscriptionService reports and caches subscription status.
type SubscriptionService interface {
	// Status serves from the per-user cache when fresh, otherwise asks the
	// billing provider and refills the cache.
	Status(ctx context.Context, userID string) (*dto.SubscriptionResponse, error)
	// Invalidate drops the cached status, forcing the next Status call to
	// hit the provider. Called after billing-relevant changes.
	Invalidate(ctx context.Context, userID string) error
	PortalURL(ctx context.Context, userID string) (*dto.PortalResponse, error)
}

type subscriptionService struct {
	cfg     *config.Config
	billing BillingProvider
	cache   SubscriptionCache
	logger  *zap.Logger
}

// NewSubscriptionService creates the SubscriptionService. The cache is an
// injected collaborator, never package state.
func NewSubscriptionService(cfg *config.Config, billing BillingProvider, cache SubscriptionCache, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{cfg: cfg, billing: billing, cache: cache, logger: logger}
}

func (s *subscriptionService) Status(ctx context.Context, userID string) (*dto.SubscriptionResponse, error) {
	if s.cache != nil {
		var cached BillingStatus
		found, err := s.cache.GetJSON(ctx, userID, &cached)
		if err != nil {
			// a broken cache degrades to a provider lookup
			s.logger.Warn("subscription cache read failed", zap.Error(err))
		}
		if found {
			return toSubscriptionResponse(&cached, true), nil
		}
	}

	status, err := s.billing.Lookup(ctx, userID)
	if err != nil {
		s.logger.Error("billing lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, userID, status, s.cfg.Subscription.CacheTTL); err != nil {
			s.logger.Warn("subscription cache write failed", zap.Error(err))
		}
	}
	return toSubscriptionResponse(status, false), nil
}

func (s *subscriptionService) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteJSON(ctx, userID)
}

func (s *subscriptionService) PortalURL(ctx context.Context, userID string) (*dto.PortalResponse, error) {
	return &dto.PortalResponse{URL: s.cfg.Billing.PortalURL}, nil
}

func toSubscriptionResponse(status *BillingStatus, cached bool) *dto.SubscriptionResponse {
	resp := &dto.SubscriptionResponse{
		Subscribed: status.Subscribed,
		Tier:       status.Tier,
		Cached:     cached,
	}
	if status.ExpiresAt != nil {
		resp.ExpiresAt = status.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}

// staticBillingProvider reports the configured default tier for everyone.
// Stands in until a real billing integration is wired.
type staticBillingProvider struct {
	tier string
}

// NewStaticBillingProvider creates the config-backed default provider.
func NewStaticBillingProvider(cfg *config.BillingConfig) BillingProvider {
	return &staticBillingProvider{tier: cfg.DefaultTier}
}

func (p *staticBillingProvider) Lookup(ctx context.Context, userID string) (*BillingStatus, error) {
	return &BillingStatus{Subscribed: false, Tier: p.tier}, nil
}
