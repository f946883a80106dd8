package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/repository"
)

// PomodoroService records completed focus runs and aggregates them.
type PomodoroService interface {
	Record(ctx context.Context, userID string, req *dto.RecordPomodoroRequest) (*dto.PomodoroRunResponse, error)
	Stats(ctx context.Context, userID string, req *dto.PomodoroStatsRequest) (*dto.PomodoroStatsResponse, error)
}

type pomodoroService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPomodoroService creates the PomodoroService.
func NewPomodoroService(repo *repository.Repository, logger *zap.Logger) PomodoroService {
	return &pomodoroService{repo: repo, logger: logger}
}

func (s *pomodoroService) Record(ctx context.Context, userID string, req *dto.RecordPomodoroRequest) (*dto.PomodoroRunResponse, error) {
	startedAt, err := time.Parse(time.RFC3339, req.StartedAt)
	if err != nil {
		return nil, err
	}

	if req.SubjectID != nil {
		subject, err := s.repo.Subject.GetByID(ctx, *req.SubjectID)
		if err != nil || subject.UserID != userID {
			return nil, ErrSubjectNotFound
		}
	}

	cycles := req.Cycles
	if cycles <= 0 {
		cycles = 1
	}
	run := &model.PomodoroRun{
		UserID:       userID,
		SubjectID:    req.SubjectID,
		StartedAt:    startedAt,
		WorkSeconds:  req.WorkSeconds,
		BreakSeconds: req.BreakSeconds,
		Cycles:       cycles,
	}
	if err := s.repo.Pomodoro.Create(ctx, run); err != nil {
		s.logger.Error("record pomodoro run failed", zap.Error(err))
		return nil, err
	}

	return &dto.PomodoroRunResponse{
		ID:           run.RunID,
		SubjectID:    run.SubjectID,
		StartedAt:    run.StartedAt.Format(time.RFC3339),
		WorkSeconds:  run.WorkSeconds,
		BreakSeconds: run.BreakSeconds,
		Cycles:       run.Cycles,
	}, nil
}

func (s *pomodoroService) Stats(ctx context.Context, userID string, req *dto.PomodoroStatsRequest) (*dto.PomodoroStatsResponse, error) {
	// default window: the current week up to now
	to := time.Now()
	from := to.AddDate(0, 0, -7)
	if req.From != "" {
		d, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return nil, err
		}
		from = d
	}
	if req.To != "" {
		d, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return nil, err
		}
		to = d.AddDate(0, 0, 1) // inclusive end date
	}

	aggs, err := s.repo.Pomodoro.Aggregate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.PomodoroStatsResponse{
		BySubject: make([]dto.PomodoroSubjectAgg, 0, len(aggs)),
	}
	for _, a := range aggs {
		resp.TotalWorkSeconds += a.WorkSeconds
		resp.TotalRuns += a.Runs
		resp.BySubject = append(resp.BySubject, dto.PomodoroSubjectAgg{
			SubjectID:   a.SubjectID,
			WorkSeconds: a.WorkSeconds,
			Runs:        a.Runs,
		})
	}
	return resp, nil
}
