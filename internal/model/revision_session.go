package model

import "time"

// Revision session statuses.
const (
	SessionStatusPlanned = "planned"
	SessionStatusDone    = "done"
	SessionStatusSkipped = "skipped"
)

// RevisionSession — revision_sessions table. The date is fixed at creation;
// only time, subject and status mutate.
type RevisionSession struct {
	SessionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	UserID    string    `gorm:"type:uuid;not null"                             json:"user_id"`
	SubjectID string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime string    `gorm:"type:varchar(5);not null"                       json:"start_time"` // "HH:MM"
	EndTime   string    `gorm:"type:varchar(5);not null"                       json:"end_time"`   // "HH:MM"
	Status    string    `gorm:"type:varchar(10);not null;default:'planned'"    json:"status"`
	BaseModel

	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

func (RevisionSession) TableName() string { return "revision_sessions" }

// StartAt combines the session date with its start time of day.
func (s *RevisionSession) StartAt() time.Time {
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return s.Date
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), t.Hour(), t.Minute(), 0, 0, s.Date.Location())
}
