package dto

// ── subject DTOs ──

// CreateSubjectRequest creates a subject.
type CreateSubjectRequest struct {
	Name        string  `json:"name"         binding:"required,min=1,max=100"`
	Color       string  `json:"color"        binding:"omitempty,max=20"`
	ExamDate    *string `json:"exam_date"    binding:"omitempty,datetime=2006-01-02"`
	ExamType    *string `json:"exam_type"    binding:"omitempty,max=50"`
	TargetHours *int    `json:"target_hours" binding:"omitempty,min=1,max=500"`
	ExamWeight  int     `json:"exam_weight"  binding:"omitempty,min=1,max=5"`
	Notes       *string `json:"notes"`
}

// UpdateSubjectRequest patches a subject; nil fields are left untouched.
// Version is required: the write is guarded against concurrent edits.
type UpdateSubjectRequest struct {
	Name        *string `json:"name"         binding:"omitempty,min=1,max=100"`
	Color       *string `json:"color"        binding:"omitempty,max=20"`
	ExamDate    *string `json:"exam_date"    binding:"omitempty,datetime=2006-01-02"`
	ExamType    *string `json:"exam_type"    binding:"omitempty,max=50"`
	TargetHours *int    `json:"target_hours" binding:"omitempty,min=1,max=500"`
	ExamWeight  *int    `json:"exam_weight"  binding:"omitempty,min=1,max=5"`
	Notes       *string `json:"notes"`
	Version     int     `json:"version"      binding:"required,min=1"`
}

// UpdateSubjectStatusRequest archives/terminates/reactivates a subject.
type UpdateSubjectStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active archived terminated"`
}

// SubjectResponse is the subject payload.
type SubjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	ExamDate    *string `json:"exam_date,omitempty"`
	ExamType    *string `json:"exam_type,omitempty"`
	TargetHours *int    `json:"target_hours,omitempty"`
	ExamWeight  int     `json:"exam_weight"`
	Notes       *string `json:"notes,omitempty"`
	Status      string  `json:"status"`
	Version     int     `json:"version"`
}
