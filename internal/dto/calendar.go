package dto

// ── calendar DTOs ──

// Mutation scopes for recurring occurrences.
const (
	ScopeSingle = "single"
	ScopeSeries = "series"
)

// CreateEventRequest creates a standalone calendar event.
type CreateEventRequest struct {
	Title         string `json:"title"          binding:"required,min=1,max=200"`
	EventType     string `json:"event_type"     binding:"omitempty,oneof=course exam revision personal other"`
	StartDatetime string `json:"start_datetime" binding:"required"` // RFC 3339
	EndDatetime   string `json:"end_datetime"   binding:"required"`
	IsBlocking    bool   `json:"is_blocking"`
}

// CreateRecurringEventRequest expands a weekly rule into occurrences sharing
// one recurrence group id.
type CreateRecurringEventRequest struct {
	Title         string `json:"title"          binding:"required,min=1,max=200"`
	EventType     string `json:"event_type"     binding:"omitempty,oneof=course exam revision personal other"`
	StartDatetime string `json:"start_datetime" binding:"required"` // first occurrence, RFC 3339
	EndDatetime   string `json:"end_datetime"   binding:"required"`
	IsBlocking    bool   `json:"is_blocking"`
	Until         string `json:"until"          binding:"required,datetime=2006-01-02"` // last occurrence date, inclusive
}

// UpdateEventRequest edits one occurrence or an entire series.
// Scope is mandatory for recurring occurrences; the service rejects a bare
// update on one with ErrScopeRequired.
type UpdateEventRequest struct {
	Title      string  `json:"title"       binding:"required,min=1,max=200"`
	EventType  string  `json:"event_type"  binding:"omitempty,oneof=course exam revision personal other"`
	StartTime  string  `json:"start_time"  binding:"required,datetime=15:04"` // new time of day
	EndTime    string  `json:"end_time"    binding:"required,datetime=15:04"`
	Date       *string `json:"date"        binding:"omitempty,datetime=2006-01-02"` // single scope only
	IsBlocking bool    `json:"is_blocking"`
	Scope      string  `json:"scope"       binding:"omitempty,oneof=single series"`
}

// DeleteEventRequest selects the deletion scope.
type DeleteEventRequest struct {
	Scope string `form:"scope" binding:"omitempty,oneof=single series"`
}

// EventResponse is the calendar event payload.
type EventResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	EventType         string  `json:"event_type"`
	StartDatetime     string  `json:"start_datetime"`
	EndDatetime       string  `json:"end_datetime"`
	IsBlocking        bool    `json:"is_blocking"`
	RecurrenceGroupID *string `json:"recurrence_group_id,omitempty"`
}

// EventListRequest filters the calendar by range.
type EventListRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// FanOutResponse reports a series-scoped mutation.
// Partial failure carries both counters; there is no rollback.
type FanOutResponse struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
