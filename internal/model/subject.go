package model

import "time"

// Subject statuses.
const (
	SubjectStatusActive     = "active"
	SubjectStatusArchived   = "archived"
	SubjectStatusTerminated = "terminated"
)

// Subject — subjects table. A subject owns zero or more revision sessions;
// the database cascades session deletion.
type Subject struct {
	SubjectID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	UserID      string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Name        string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Color       string     `gorm:"type:varchar(20);not null;default:'#6366f1'"    json:"color"`
	ExamDate    *time.Time `gorm:"type:date"                                      json:"exam_date,omitempty"`
	ExamType    *string    `gorm:"type:varchar(50)"                               json:"exam_type,omitempty"`
	TargetHours *int       `json:"target_hours,omitempty"`
	ExamWeight  int        `gorm:"type:smallint;not null;default:3"               json:"exam_weight"` // 1..5 priority
	Notes       *string    `gorm:"type:text"                                      json:"notes,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	Version     int        `gorm:"not null;default:1"                             json:"version"`
	BaseModel
}

func (Subject) TableName() string { return "subjects" }
