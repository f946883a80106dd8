package model

import "time"

// Calendar event types.
const (
	EventTypeCourse   = "course"
	EventTypeExam     = "exam"
	EventTypeRevision = "revision"
	EventTypePersonal = "personal"
	EventTypeOther    = "other"
)

// CalendarEvent — calendar_events table.
// RecurrenceGroupID is nil for standalone events; occurrences generated from
// one recurrence rule share a group id and are fanned out together on
// series-scoped mutations.
type CalendarEvent struct {
	EventID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	UserID            string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Title             string    `gorm:"type:varchar(200);not null"                     json:"title"`
	EventType         string    `gorm:"type:varchar(30);not null;default:'other'"      json:"event_type"`
	StartDatetime     time.Time `gorm:"not null"                                       json:"start_datetime"`
	EndDatetime       time.Time `gorm:"not null"                                       json:"end_datetime"`
	IsBlocking        bool      `gorm:"not null;default:false"                         json:"is_blocking"`
	RecurrenceGroupID *string   `gorm:"type:uuid;index"                                json:"recurrence_group_id,omitempty"`
	BaseModel
}

func (CalendarEvent) TableName() string { return "calendar_events" }

// IsRecurring reports whether the event belongs to a recurrence group.
func (e *CalendarEvent) IsRecurring() bool {
	return e.RecurrenceGroupID != nil && *e.RecurrenceGroupID != ""
}
