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

var ErrSessionNotFound = errors.New("revision session not found")

// SessionService is the revision-session business interface.
type SessionService interface {
	Create(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	List(ctx context.Context, userID string, req *dto.SessionListRequest) ([]dto.SessionResponse, error)
	// Update reschedules a session within its day; the date never changes.
	Update(ctx context.Context, userID, sessionID string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	UpdateStatus(ctx context.Context, userID, sessionID, status string) error
	Delete(ctx context.Context, userID, sessionID string) error
}

type sessionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSessionService creates the SessionService.
func NewSessionService(repo *repository.Repository, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, logger: logger}
}

func (s *sessionService) Create(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if subject.UserID != userID {
		return nil, ErrSubjectNotFound
	}

	if err := validateTimeWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	session := &model.RevisionSession{
		UserID:    userID,
		SubjectID: req.SubjectID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.SessionStatusPlanned,
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("create session failed", zap.Error(err))
		return nil, err
	}
	session.Subject = subject
	return toSessionResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) List(ctx context.Context, userID string, req *dto.SessionListRequest) ([]dto.SessionResponse, error) {
	filters := &repository.SessionListFilters{SubjectID: req.SubjectID}
	if req.From != "" {
		d, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return nil, err
		}
		filters.From = &d
	}
	if req.To != "" {
		d, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return nil, err
		}
		filters.To = &d
	}

	sessions, err := s.repo.Session.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *toSessionResponse(&sessions[i]))
	}
	return out, nil
}

func (s *sessionService) Update(ctx context.Context, userID, sessionID string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if req.SubjectID != nil {
		subject, err := s.repo.Subject.GetByID(ctx, *req.SubjectID)
		if err != nil || subject.UserID != userID {
			return nil, ErrSubjectNotFound
		}
		session.SubjectID = *req.SubjectID
		session.Subject = subject
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = *req.EndTime
	}
	if err := validateTimeWindow(session.StartTime, session.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.Session.Update(ctx, session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) UpdateStatus(ctx context.Context, userID, sessionID, status string) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.repo.Session.UpdateStatus(ctx, sessionID, status)
}

func (s *sessionService) Delete(ctx context.Context, userID, sessionID string) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.repo.Session.Delete(ctx, sessionID)
}

func (s *sessionService) ownedSession(ctx context.Context, userID, sessionID string) (*model.RevisionSession, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func validateTimeWindow(startTime, endTime string) error {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return err
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

func toSessionResponse(session *model.RevisionSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:        session.SessionID,
		SubjectID: session.SubjectID,
		Date:      session.Date.Format("2006-01-02"),
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Status:    session.Status,
	}
	if session.Subject != nil {
		resp.Subject = toSubjectResponse(session.Subject)
	}
	return resp
}
