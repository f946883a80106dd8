package model

import "time"

// PomodoroRun — pomodoro_runs table. The countdown itself runs client-side;
// the backend only records completed runs for statistics.
type PomodoroRun struct {
	RunID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"run_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	SubjectID    *string   `gorm:"type:uuid"                                      json:"subject_id,omitempty"`
	StartedAt    time.Time `gorm:"not null"                                       json:"started_at"`
	WorkSeconds  int       `gorm:"not null"                                       json:"work_seconds"`
	BreakSeconds int       `gorm:"not null;default:0"                             json:"break_seconds"`
	Cycles       int       `gorm:"not null;default:1"                             json:"cycles"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (PomodoroRun) TableName() string { return "pomodoro_runs" }
