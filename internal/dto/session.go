package dto

// ── revision session DTOs ──

// CreateSessionRequest plans a revision session.
type CreateSessionRequest struct {
	SubjectID string `json:"subject_id" binding:"required,uuid"`
	Date      string `json:"date"       binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   binding:"required,datetime=15:04"`
}

// UpdateSessionRequest reschedules a session. The date never changes; only
// subject and time window do.
type UpdateSessionRequest struct {
	SubjectID *string `json:"subject_id" binding:"omitempty,uuid"`
	StartTime *string `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time"   binding:"omitempty,datetime=15:04"`
}

// UpdateSessionStatusRequest marks a session done/skipped/planned.
type UpdateSessionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=planned done skipped"`
}

// SessionListRequest filters sessions.
type SessionListRequest struct {
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
	From      string `form:"from"       binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to"         binding:"omitempty,datetime=2006-01-02"`
}

// SessionResponse is the revision session payload.
type SessionResponse struct {
	ID        string           `json:"id"`
	SubjectID string           `json:"subject_id"`
	Date      string           `json:"date"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Status    string           `json:"status"`
	Subject   *SubjectResponse `json:"subject,omitempty"`
}

// ── planner DTOs ──

// GeneratePlanRequest triggers revision plan generation.
type GeneratePlanRequest struct {
	DailyStartTime string `json:"daily_start_time" binding:"omitempty,datetime=15:04"` // default 17:00
	DailyEndTime   string `json:"daily_end_time"   binding:"omitempty,datetime=15:04"` // default 20:00
	SlotMinutes    int    `json:"slot_minutes"     binding:"omitempty,oneof=30 45 60 90"`
	IncludeWeekend bool   `json:"include_weekend"`
}

// GeneratePlanResponse summarizes a generation run.
type GeneratePlanResponse struct {
	Created  int               `json:"created"`
	Removed  int               `json:"removed"` // future planned sessions wiped before regeneration
	Sessions []SessionResponse `json:"sessions"`
}
