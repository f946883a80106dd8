package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
)

// PomodoroSubjectAgg is a per-subject aggregation row.
type PomodoroSubjectAgg struct {
	SubjectID   *string `gorm:"column:subject_id"`
	WorkSeconds int64   `gorm:"column:work_seconds"`
	Runs        int64   `gorm:"column:runs"`
}

// PomodoroRepository is the pomodoro data-access interface.
type PomodoroRepository interface {
	Create(ctx context.Context, run *model.PomodoroRun) error
	// Aggregate sums focus time within [from, to) grouped by subject.
	Aggregate(ctx context.Context, userID string, from, to time.Time) ([]PomodoroSubjectAgg, error)
}

type pomodoroRepo struct {
	db *gorm.DB
}

// NewPomodoroRepo creates the GORM-backed PomodoroRepository.
func NewPomodoroRepo(db *gorm.DB) PomodoroRepository {
	return &pomodoroRepo{db: db}
}

func (r *pomodoroRepo) Create(ctx context.Context, run *model.PomodoroRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *pomodoroRepo) Aggregate(ctx context.Context, userID string, from, to time.Time) ([]PomodoroSubjectAgg, error) {
	var aggs []PomodoroSubjectAgg
	err := r.db.WithContext(ctx).
		Model(&model.PomodoroRun{}).
		Select("subject_id, SUM(work_seconds) AS work_seconds, COUNT(*) AS runs").
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, from, to).
		Group("subject_id").
		Scan(&aggs).Error
	return aggs, err
}
