package dto

// ── subscription DTOs ──

// SubscriptionResponse reports the caller's subscription status.
type SubscriptionResponse struct {
	Subscribed bool   `json:"subscribed"`
	Tier       string `json:"tier"`
	ExpiresAt  string `json:"expires_at,omitempty"`
	Cached     bool   `json:"cached"` // served from the per-user cache
}

// PortalResponse carries the customer portal redirect.
type PortalResponse struct {
	URL string `json:"url"`
}
