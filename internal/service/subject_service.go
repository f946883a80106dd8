package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/repository"
)

var ErrSubjectNotFound = errors.New("subject not found")

// SubjectService is the subject business interface.
type SubjectService interface {
	Create(ctx context.Context, userID string, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	Get(ctx context.Context, userID, subjectID string) (*dto.SubjectResponse, error)
	List(ctx context.Context, userID string, statuses []string) ([]dto.SubjectResponse, error)
	// Update is version-guarded; a stale version yields ErrOptimisticLock.
	Update(ctx context.Context, userID, subjectID string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	UpdateStatus(ctx context.Context, userID, subjectID, status string) error
	// Delete removes the subject and, by cascade, its revision sessions.
	Delete(ctx context.Context, userID, subjectID string) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService creates the SubjectService.
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

func (s *subjectService) Create(ctx context.Context, userID string, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	subject := &model.Subject{
		UserID:      userID,
		Name:        req.Name,
		ExamType:    req.ExamType,
		TargetHours: req.TargetHours,
		Notes:       req.Notes,
		Status:      model.SubjectStatusActive,
		Version:     1,
	}
	if req.Color != "" {
		subject.Color = req.Color
	} else {
		subject.Color = "#6366f1"
	}
	if req.ExamWeight > 0 {
		subject.ExamWeight = req.ExamWeight
	} else {
		subject.ExamWeight = 3
	}
	if req.ExamDate != nil {
		d, err := time.Parse("2006-01-02", *req.ExamDate)
		if err != nil {
			return nil, err
		}
		subject.ExamDate = &d
	}

	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("create subject failed", zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) Get(ctx context.Context, userID, subjectID string) (*dto.SubjectResponse, error) {
	subject, err := s.ownedSubject(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) List(ctx context.Context, userID string, statuses []string) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.ListByUser(ctx, userID, statuses)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		out = append(out, *toSubjectResponse(&subjects[i]))
	}
	return out, nil
}

func (s *subjectService) Update(ctx context.Context, userID, subjectID string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.ownedSubject(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Color != nil {
		subject.Color = *req.Color
	}
	if req.ExamDate != nil {
		d, err := time.Parse("2006-01-02", *req.ExamDate)
		if err != nil {
			return nil, err
		}
		subject.ExamDate = &d
	}
	if req.ExamType != nil {
		subject.ExamType = req.ExamType
	}
	if req.TargetHours != nil {
		subject.TargetHours = req.TargetHours
	}
	if req.ExamWeight != nil {
		subject.ExamWeight = *req.ExamWeight
	}
	if req.Notes != nil {
		subject.Notes = req.Notes
	}

	// the write is guarded by the version the client saw, not the one we
	// just loaded
	subject.Version = req.Version
	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) UpdateStatus(ctx context.Context, userID, subjectID, status string) error {
	if _, err := s.ownedSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	return s.repo.Subject.UpdateStatus(ctx, subjectID, status)
}

func (s *subjectService) Delete(ctx context.Context, userID, subjectID string) error {
	if _, err := s.ownedSubject(ctx, userID, subjectID); err != nil {
		return err
	}
	return s.repo.Subject.Delete(ctx, subjectID)
}

// ownedSubject loads a subject and hides other users' rows behind not-found.
func (s *subjectService) ownedSubject(ctx context.Context, userID, subjectID string) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if subject.UserID != userID {
		return nil, ErrSubjectNotFound
	}
	return subject, nil
}

func toSubjectResponse(subject *model.Subject) *dto.SubjectResponse {
	resp := &dto.SubjectResponse{
		ID:          subject.SubjectID,
		Name:        subject.Name,
		Color:       subject.Color,
		ExamType:    subject.ExamType,
		TargetHours: subject.TargetHours,
		ExamWeight:  subject.ExamWeight,
		Notes:       subject.Notes,
		Status:      subject.Status,
		Version:     subject.Version,
	}
	if subject.ExamDate != nil {
		d := subject.ExamDate.Format("2006-01-02")
		resp.ExamDate = &d
	}
	return resp
}
