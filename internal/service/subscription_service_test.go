package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"skoolife/backend/config"
)

type fakeBilling struct {
	status  *BillingStatus
	err     error
	lookups int
}

func (f *fakeBilling) Lookup(ctx context.Context, userID string) (*BillingStatus, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

type fakeCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) SetJSON(ctx context.Context, userID string, v interface{}, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[userID] = b
	return nil
}

func (c *fakeCache) GetJSON(ctx context.Context, userID string, v interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.entries[userID]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, v)
}

func (c *fakeCache) DeleteJSON(ctx context.Context, userID string) error {
	delete(c.entries, userID)
	return nil
}

func subscriptionTestConfig() *config.Config {
	return &config.Config{
		Billing:      config.BillingConfig{PortalURL: "https://billing.example.test/portal"},
		Subscription: config.SubscriptionConfig{CacheTTL: 5 * time.Minute},
	}
}

func TestSubscriptionStatusCacheMissThenHit(t *testing.T) {
	billing := &fakeBilling{status: &BillingStatus{Subscribed: true, Tier: "premium"}}
	cache := newFakeCache()
	svc := NewSubscriptionService(subscriptionTestConfig(), billing, cache, zap.NewNop())

	first, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if first.Cached || first.Tier != "premium" || !first.Subscribed {
		t.Fatalf("cache miss must hit the provider, got %+v", first)
	}

	second, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second call must be served from the cache")
	}
	if billing.lookups != 1 {
		t.Fatalf("provider consulted %d times, want 1", billing.lookups)
	}
}

func TestSubscriptionStatusPerUserIsolation(t *testing.T) {
	billing := &fakeBilling{status: &BillingStatus{Tier: "free"}}
	cache := newFakeCache()
	svc := NewSubscriptionService(subscriptionTestConfig(), billing, cache, zap.NewNop())

	if _, err := svc.Status(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.Status(context.Background(), "u2")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Fatal("u2 must not be served from u1's cache entry")
	}
	if billing.lookups != 2 {
		t.Fatalf("provider consulted %d times, want 2", billing.lookups)
	}
}

func TestSubscriptionInvalidateForcesRefresh(t *testing.T) {
	billing := &fakeBilling{status: &BillingStatus{Tier: "premium"}}
	cache := newFakeCache()
	svc := NewSubscriptionService(subscriptionTestConfig(), billing, cache, zap.NewNop())

	if _, err := svc.Status(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Invalidate(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Fatal("invalidation must force a provider lookup")
	}
	if billing.lookups != 2 {
		t.Fatalf("provider consulted %d times, want 2", billing.lookups)
	}
}

func TestSubscriptionDegradesWhenCacheBroken(t *testing.T) {
	billing := &fakeBilling{status: &BillingStatus{Tier: "free"}}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	svc := NewSubscriptionService(subscriptionTestConfig(), billing, cache, zap.NewNop())

	resp, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatalf("broken cache must not fail the call: %v", err)
	}
	if resp.Cached || resp.Tier != "free" {
		t.Fatalf("got %+v, want fresh provider answer", resp)
	}
}

func TestSubscriptionProviderErrorSurfaces(t *testing.T) {
	billing := &fakeBilling{err: errors.New("billing unreachable")}
	svc := NewSubscriptionService(subscriptionTestConfig(), billing, newFakeCache(), zap.NewNop())

	if _, err := svc.Status(context.Background(), "u1"); err == nil {
		t.Fatal("provider failure must surface when nothing is cached")
	}
}

func TestSubscriptionPortalURLFromConfig(t *testing.T) {
	svc := NewSubscriptionService(subscriptionTestConfig(), &fakeBilling{status: &BillingStatus{}}, newFakeCache(), zap.NewNop())

	resp, err := svc.PortalURL(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.URL != "https://billing.example.test/portal" {
		t.Fatalf("portal URL %q", resp.URL)
	}
}

func TestStaticBillingProviderReportsDefaultTier(t *testing.T) {
	provider := NewStaticBillingProvider(&config.BillingConfig{DefaultTier: "free"})
	status, err := provider.Lookup(context.Background(), "anyone")
	if err != nil {
		t.Fatal(err)
	}
	if status.Subscribed || status.Tier != "free" {
		t.Fatalf("got %+v, want unsubscribed free tier", status)
	}
}
