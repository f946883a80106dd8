package dto

// ── school DTOs ──

// CreateSchoolRequest creates a tenant; the caller becomes its admin.
type CreateSchoolRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
}

// SchoolResponse is the school payload.
type SchoolResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateCohortRequest adds a cohort to a school.
type CreateCohortRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CohortResponse is the cohort payload.
type CohortResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateClassRequest adds a class to a cohort.
type CreateClassRequest struct {
	CohortID string `json:"cohort_id" binding:"required,uuid"`
	Name     string `json:"name"      binding:"required,min=1,max=100"`
}

// ClassResponse is the class payload.
type ClassResponse struct {
	ID       string `json:"id"`
	CohortID string `json:"cohort_id"`
	Name     string `json:"name"`
}

// MemberResponse is one school member.
type MemberResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	CohortID *string `json:"cohort_id,omitempty"`
	ClassID  *string `json:"class_id,omitempty"`
}

// CreateAccessCodeRequest issues a code gating self-service membership.
type CreateAccessCodeRequest struct {
	Role        string  `json:"role"         binding:"required,oneof=admin_school teacher student"`
	CohortID    *string `json:"cohort_id"    binding:"omitempty,uuid"`
	ClassID     *string `json:"class_id"     binding:"omitempty,uuid"`
	MaxUses     int     `json:"max_uses"     binding:"required,min=1,max=10000"`
	ExpiresDays int     `json:"expires_days" binding:"omitempty,min=1,max=365"` // default 30
}

// AccessCodeResponse is the issued code payload.
type AccessCodeResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Role      string `json:"role"`
	MaxUses   int    `json:"max_uses"`
	UsesCount int    `json:"uses_count"`
	ExpiresAt string `json:"expires_at"`
}

// RedeemAccessCodeRequest joins a school through an access code.
type RedeemAccessCodeRequest struct {
	Code string `json:"code" binding:"required,min=4,max=32"`
}

// ImportMembersResponse reports a member-email import.
type ImportMembersResponse struct {
	Emails   []string `json:"emails"`   // valid, trimmed, lowercased, deduplicated
	Invited  int      `json:"invited"`  // emails matched to existing accounts and enrolled
	Unknown  []string `json:"unknown"`  // emails with no account yet
	Rejected int      `json:"rejected"` // tokens dropped by validation
}

// SchoolAnalyticsResponse aggregates per-tenant usage.
type SchoolAnalyticsResponse struct {
	MemberTotal    int64            `json:"member_total"`
	MembersByRole  map[string]int64 `json:"members_by_role"`
	CohortCount    int64            `json:"cohort_count"`
	ClassCount     int64            `json:"class_count"`
	SessionsTotal  int64            `json:"sessions_total"`
	SessionsDone   int64            `json:"sessions_done"`
	DoneRatePct    float64          `json:"done_rate_pct"`
	ActiveSubjects int64            `json:"active_subjects"`
}
