package dto

// ── pomodoro DTOs ──

// RecordPomodoroRequest records a completed run.
type RecordPomodoroRequest struct {
	SubjectID    *string `json:"subject_id"    binding:"omitempty,uuid"`
	StartedAt    string  `json:"started_at"    binding:"required"` // RFC 3339
	WorkSeconds  int     `json:"work_seconds"  binding:"required,min=60,max=14400"`
	BreakSeconds int     `json:"break_seconds" binding:"omitempty,min=0,max=7200"`
	Cycles       int     `json:"cycles"        binding:"omitempty,min=1,max=20"`
}

// PomodoroRunResponse is the recorded run payload.
type PomodoroRunResponse struct {
	ID           string  `json:"id"`
	SubjectID    *string `json:"subject_id,omitempty"`
	StartedAt    string  `json:"started_at"`
	WorkSeconds  int     `json:"work_seconds"`
	BreakSeconds int     `json:"break_seconds"`
	Cycles       int     `json:"cycles"`
}

// PomodoroStatsRequest bounds the statistics window.
type PomodoroStatsRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// PomodoroStatsResponse aggregates focus time.
type PomodoroStatsResponse struct {
	TotalWorkSeconds int64                `json:"total_work_seconds"`
	TotalRuns        int64                `json:"total_runs"`
	BySubject        []PomodoroSubjectAgg `json:"by_subject"`
}

// PomodoroSubjectAgg is the per-subject slice of the stats.
type PomodoroSubjectAgg struct {
	SubjectID   *string `json:"subject_id,omitempty"`
	WorkSeconds int64   `json:"work_seconds"`
	Runs        int64   `json:"runs"`
}
