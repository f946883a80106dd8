package dto

// ── session invite DTOs ──

// CreateInviteRequest issues an invite for a revision session.
type CreateInviteRequest struct {
	MeetingFormat  *string `json:"meeting_format"  binding:"omitempty,oneof=online in_person"`
	MeetingAddress *string `json:"meeting_address" binding:"omitempty,max=255"`
	MeetingLink    *string `json:"meeting_link"    binding:"omitempty,max=255,url"`
}

// InviteResponse is returned to the inviter.
type InviteResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	InviteURL string `json:"invite_url"` // {origin}/invite/{token}
	ExpiresAt string `json:"expires_at"`
}

// InviteDetailResponse backs the public token lookup.
// Status is one of pending | accepted | expired.
type InviteDetailResponse struct {
	Status         string           `json:"status"`
	ExpiresAt      string           `json:"expires_at"`
	InvitedByName  string           `json:"invited_by_name"`
	Session        *SessionResponse `json:"session,omitempty"`
	MeetingFormat  *string          `json:"meeting_format,omitempty"`
	MeetingAddress *string          `json:"meeting_address,omitempty"`
	MeetingLink    *string          `json:"meeting_link,omitempty"`
}

// AcceptInviteResponse reports the acceptance outcome.
// Outcome is one of accepted | already_used | expired. already_used and
// expired are domain states, not errors: the handler returns 200 for all
// three and the client renders the state.
type AcceptInviteResponse struct {
	Outcome   string           `json:"outcome"`
	Session   *SessionResponse `json:"session,omitempty"`
	InviterID string           `json:"inviter_id,omitempty"`
}
