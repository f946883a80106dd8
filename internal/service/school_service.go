package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/repository"
)

var (
	ErrSchoolNotFound = errors.New("school not found")
	ErrNotSchoolAdmin = errors.New("caller is not a school admin")
	ErrAlreadyMember  = errors.New("user is already a member of this school")
	// ErrAccessCodeInvalid covers unknown, expired and exhausted codes; the
	// caller cannot tell which, on purpose.
	ErrAccessCodeInvalid = errors.New("access code invalid")
)

const accessCodeDefaultExpiryDays = 30

// SchoolService is the B2B portal business interface.
type SchoolService interface {
	// CreateSchool is privileged: the caller becomes the school's admin in
	// the same transaction that creates the tenant.
	CreateSchool(ctx context.Context, userID string, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error)
	GetSchool(ctx context.Context, userID, schoolID string) (*dto.SchoolResponse, error)

	CreateCohort(ctx context.Context, userID, schoolID string, req *dto.CreateCohortRequest) (*dto.CohortResponse, error)
	ListCohorts(ctx context.Context, userID, schoolID string) ([]dto.CohortResponse, error)
	CreateClass(ctx context.Context, userID, schoolID string, req *dto.CreateClassRequest) (*dto.ClassResponse, error)
	ListClasses(ctx context.Context, userID, schoolID string) ([]dto.ClassResponse, error)

	ListMembers(ctx context.Context, userID, schoolID string, page *dto.PaginationRequest) ([]dto.MemberResponse, int64, error)
	RemoveMember(ctx context.Context, userID, schoolID, memberID string) error

	CreateAccessCode(ctx context.Context, userID, schoolID string, req *dto.CreateAccessCodeRequest) (*dto.AccessCodeResponse, error)
	// RedeemAccessCode consumes one use atomically and enrolls the caller.
	RedeemAccessCode(ctx context.Context, userID, code string) (*dto.SchoolResponse, error)

	// ImportMembers parses an email list (.csv/.txt/.xlsx/.xls) and enrolls
	// every address that maps to an existing account.
	ImportMembers(ctx context.Context, userID, schoolID, filename string, r io.Reader) (*dto.ImportMembersResponse, error)
	Analytics(ctx context.Context, userID, schoolID string) (*dto.SchoolAnalyticsResponse, error)
}

type schoolService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSchoolService creates the SchoolService.
func NewSchoolService(repo *repository.Repository, logger *zap.Logger) SchoolService {
	return &schoolService{repo: repo, logger: logger}
}

func (s *schoolService) CreateSchool(ctx context.Context, userID string, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	school := &model.School{
		Name:     req.Name,
		Settings: datatypes.JSON([]byte("{}")),
	}
	if err := s.repo.School.Create(ctx, school, userID); err != nil {
		s.logger.Error("create school failed", zap.Error(err))
		return nil, err
	}
	return &dto.SchoolResponse{ID: school.SchoolID, Name: school.Name}, nil
}

func (s *schoolService) GetSchool(ctx context.Context, userID, schoolID string) (*dto.SchoolResponse, error) {
	if _, err := s.membership(ctx, userID, schoolID); err != nil {
		return nil, err
	}
	school, err := s.repo.School.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return &dto.SchoolResponse{ID: school.SchoolID, Name: school.Name}, nil
}

func (s *schoolService) CreateCohort(ctx context.Context, userID, schoolID string, req *dto.CreateCohortRequest) (*dto.CohortResponse, error) {
	if err := s.requireAdmin(ctx, userID, schoolID); err != nil {
		return nil, err
	}
	cohort := &model.Cohort{SchoolID: schoolID, Name: req.Name}
	if err := s.repo.Cohort.Create(ctx, cohort); err != nil {
		return nil, err
	}
	return &dto.CohortResponse{ID: cohort.CohortID, Name: cohort.Name}, nil
}

func (s *schoolService) ListCohorts(ctx context.Context, userID, schoolID string) ([]dto.CohortResponse, error) {
	if _, err := s.membership(ctx, userID, schoolID); err != nil {
		return nil, err
	}
	cohorts, err := s.repo.Cohort.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CohortResponse, 0, len(cohorts))
	for _, c := range cohorts {
		out = append(out, dto.CohortResponse{ID: c.CohortID, Name: c.Name})
	}
	return out, nil
}

func (s *schoolService) CreateClass(ctx context.Context, userID, schoolID string, req *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	if err := s.requireAdmin(ctx, userID, schoolID); err != nil {
		return nil, err
	}
	cohort, err := s.repo.Cohort.GetByID(ctx, req.CohortID)
	if err != nil || cohort.SchoolID != schoolID {
		return nil, ErrSchoolNotFound
	}
	class := &model.Class{SchoolID: schoolID, CohortID: req.CohortID, Name: req.Name}
	if err := s.repo.Class.Create(ctx, class); err != nil {
		return nil, err
	}
	return &dto.ClassResponse{ID: class.ClassID, CohortID: class.CohortID, Name: class.Name}, nil
}

func (s *schoolService) ListClasses(ctx context.Context, userID, schoolID string) ([]dto.ClassResponse, error) {
	if _, err := s.membership(ctx, userID, schoolID); err != nil {
		return nil, err
	}
	classes, err := s.repo.Class.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClassResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, dto.ClassResponse{ID: c.ClassID, CohortID: c.CohortID, Name: c.Name})
	}
	return out, nil
}

func (s *schoolService) ListMembers(ctx context.Context, userID, schoolID string, page *dto.PaginationRequest) ([]dto.MemberResponse, int64, error) {
	if _, err := s.membership(ctx, userID, schoolID); err != nil {
		return nil, 0, err
	}
	members, total, err := s.repo.Member.ListBySchool(ctx, schoolID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		m := &members[i]
		resp := dto.MemberResponse{
			ID:       m.MemberID,
			UserID:   m.UserID,
			Role:     m.Role,
			CohortID: m.CohortID,
			ClassID:  m.ClassID,
		}
		if m.User != nil {
			resp.Email = m.User.Email
			resp.Name = m.User.Name
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func (s *schoolService) RemoveMember(ctx context.Context, userID, schoolID, memberID string) error {
	if err := s.requireAdmin(ctx, userID, schoolID); err != nil {
		return err
	}
	return s.repo.Member.Delete(ctx, memberID)
}

func (s *schoolService) CreateAccessCode(ctx context.Context, userID, schoolID string, req *dto.CreateAccessCodeRequest) (*dto.AccessCodeResponse, error) {
	if err := s.requireAdmin(ctx, userID, schoolID); err != nil {
		return nil, err
	}

	expiryDays := req.ExpiresDays
	if expiryDays <= 0 {
		expiryDays = accessCodeDefaultExpiryDays
	}
	code := &model.AccessCode{
		SchoolID:  schoolID,
		Code:      strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12]),
		Role:      req.Role,
		CohortID:  req.CohortID,
		ClassID:   req.ClassID,
		MaxUses:   req.MaxUses,
		ExpiresAt: time.Now().AddDate(0, 0, expiryDays),
	}
	if err := s.repo.AccessCode.Create(ctx, code); err != nil {
		s.logger.Error("create access code failed", zap.Error(err))
		return nil, err
	}
	return toAccessCodeResponse(code), nil
}

func (s *schoolService) RedeemAccessCode(ctx context.Context, userID, code string) (*dto.SchoolResponse, error) {
	ac, err := s.repo.AccessCode.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessCodeInvalid
		}
		return nil, err
	}

	if _, err := s.repo.Member.GetBySchoolAndUser(ctx, ac.SchoolID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	claimed, err := s.repo.AccessCode.Redeem(ctx, code, time.Now())
	if err != nil {
		return nil, err
	}
	if !claimed {
		// exhausted or expired; the conditional update can't tell and
		// neither can the caller
		return nil, ErrAccessCodeInvalid
	}

	member := &model.SchoolMember{
		SchoolID: ac.SchoolID,
		UserID:   userID,
		Role:     ac.Role,
		CohortID: ac.CohortID,
		ClassID:  ac.ClassID,
	}
	if err := s.repo.Member.Create(ctx, member); err != nil {
		// the use is already burned; surface the failure rather than retry
		s.logger.Error("enroll after redeem failed",
			zap.String("school_id", ac.SchoolID), zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	school, err := s.repo.School.GetByID(ctx, ac.SchoolID)
	if err != nil {
		return nil, err
	}
	return &dto.SchoolResponse{ID: school.SchoolID, Name: school.Name}, nil
}

func (s *schoolService) ImportMembers(ctx context.Context, userID, schoolID, filename string, r io.Reader) (*dto.ImportMembersResponse, error) {
	if err := s.requireAdmin(ctx, userID, schoolID); err != nil {
		return nil, err
	}

	var (
		emails   []string
		rejected int
		err      error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		emails, rejected, err = ParseEmailWorkbook(r)
		if err != nil {
			return nil, err
		}
	default:
		raw, readErr := io.ReadAll(r)
		if readErr != nil {
			return nil, readErr
		}
		emails, rejected = ParseEmailList(string(raw))
	}

	resp := &dto.ImportMembersResponse{
		Emails:   emails,
		Unknown:  []string{},
		Rejected: rejected,
	}
	for _, email := range emails {
		user, err := s.repo.User.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp.Unknown = append(resp.Unknown, email)
				continue
			}
			return nil, err
		}
		if _, err := s.repo.Member.GetBySchoolAndUser(ctx, schoolID, user.UserID); err == nil {
			continue // already enrolled
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		member := &model.SchoolMember{
			SchoolID: schoolID,
			UserID:   user.UserID,
			Role:     model.SchoolRoleStudent,
		}
		if err := s.repo.Member.Create(ctx, member); err != nil {
			s.logger.Error("enroll imported member failed",
				zap.String("email", email), zap.Error(err))
			continue
		}
		resp.Invited++
	}
	return resp, nil
}

func (s *schoolService) Analytics(ctx context.Context, userID, schoolID string) (*dto.SchoolAnalyticsResponse, error) {
	if err := s.requireAdmin(ctx, userID, schoolID); err != nil {
		return nil, err
	}

	byRole, err := s.repo.Member.CountByRole(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byRole {
		total += n
	}

	cohorts, err := s.repo.Cohort.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	classes, err := s.repo.Class.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	userIDs, err := s.repo.Member.UserIDsBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	sessionsTotal, sessionsDone, err := s.repo.Session.CountByUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	activeSubjects, err := s.repo.Subject.CountActiveBySchoolUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	doneRate := 0.0
	if sessionsTotal > 0 {
		doneRate = float64(sessionsDone) / float64(sessionsTotal) * 100
	}

	return &dto.SchoolAnalyticsResponse{
		MemberTotal:    total,
		MembersByRole:  byRole,
		CohortCount:    int64(len(cohorts)),
		ClassCount:     int64(len(classes)),
		SessionsTotal:  sessionsTotal,
		SessionsDone:   sessionsDone,
		DoneRatePct:    doneRate,
		ActiveSubjects: activeSubjects,
	}, nil
}

// membership loads the caller's membership, hiding foreign schools behind
// not-found.
func (s *schoolService) membership(ctx context.Context, userID, schoolID string) (*model.SchoolMember, error) {
	member, err := s.repo.Member.GetBySchoolAndUser(ctx, schoolID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return member, nil
}

func (s *schoolService) requireAdmin(ctx context.Context, userID, schoolID string) error {
	member, err := s.membership(ctx, userID, schoolID)
	if err != nil {
		return err
	}
	if member.Role != model.SchoolRoleAdmin {
		return ErrNotSchoolAdmin
	}
	return nil
}

func toAccessCodeResponse(code *model.AccessCode) *dto.AccessCodeResponse {
	return &dto.AccessCodeResponse{
		ID:        code.AccessCodeID,
		Code:      code.Code,
		Role:      code.Role,
		MaxUses:   code.MaxUses,
		UsesCount: code.UsesCount,
		ExpiresAt: code.ExpiresAt.Format(time.RFC3339),
	}
}
