package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
)

func seedSchoolWithAdmin(t *testing.T, repo *mockSchoolRepo, adminID string) string {
	t.Helper()
	school := &model.School{Name: "Lycée Test"}
	if err := repo.Create(context.Background(), school, adminID); err != nil {
		t.Fatalf("seed school: %v", err)
	}
	return school.SchoolID
}

func TestSchoolCreateMakesCallerAdmin(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())

	created, err := svc.CreateSchool(context.Background(), "founder", &dto.CreateSchoolRequest{Name: "Lycée Hugo"})
	if err != nil {
		t.Fatalf("CreateSchool: %v", err)
	}

	member, err := repo.Member.GetBySchoolAndUser(context.Background(), created.ID, "founder")
	if err != nil {
		t.Fatalf("founder must be enrolled: %v", err)
	}
	if member.Role != model.SchoolRoleAdmin {
		t.Fatalf("founder role %q, want admin", member.Role)
	}
}

func TestSchoolAdminGate(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	student := &model.SchoolMember{SchoolID: schoolID, UserID: "student", Role: model.SchoolRoleStudent}
	if err := repo.Member.Create(context.Background(), student); err != nil {
		t.Fatal(err)
	}

	// a plain member can read but not administer
	if _, err := svc.GetSchool(context.Background(), "student", schoolID); err != nil {
		t.Fatalf("member read: %v", err)
	}
	_, err := svc.CreateCohort(context.Background(), "student", schoolID, &dto.CreateCohortRequest{Name: "Terminale"})
	if !errors.Is(err, ErrNotSchoolAdmin) {
		t.Fatalf("got %v, want ErrNotSchoolAdmin", err)
	}

	// a stranger sees nothing at all
	if _, err := svc.GetSchool(context.Background(), "stranger", schoolID); !errors.Is(err, ErrSchoolNotFound) {
		t.Fatalf("got %v, want ErrSchoolNotFound", err)
	}
}

func TestSchoolClassRequiresCohortOfSameSchool(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")
	otherID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	foreign, err := svc.CreateCohort(context.Background(), "admin", otherID, &dto.CreateCohortRequest{Name: "Seconde"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.CreateClass(context.Background(), "admin", schoolID, &dto.CreateClassRequest{
		CohortID: foreign.ID,
		Name:     "2A",
	})
	if !errors.Is(err, ErrSchoolNotFound) {
		t.Fatalf("cross-school cohort must be rejected, got %v", err)
	}
}

func TestAccessCodeRedeemEnrolls(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	code, err := svc.CreateAccessCode(context.Background(), "admin", schoolID, &dto.CreateAccessCodeRequest{
		Role:    model.SchoolRoleStudent,
		MaxUses: 2,
	})
	if err != nil {
		t.Fatalf("CreateAccessCode: %v", err)
	}
	if len(code.Code) != 12 || code.Code != strings.ToUpper(code.Code) {
		t.Fatalf("code format wrong: %q", code.Code)
	}

	school, err := svc.RedeemAccessCode(context.Background(), "newbie", code.Code)
	if err != nil {
		t.Fatalf("RedeemAccessCode: %v", err)
	}
	if school.ID != schoolID {
		t.Fatalf("redeemed into %q, want %q", school.ID, schoolID)
	}
	member, err := repo.Member.GetBySchoolAndUser(context.Background(), schoolID, "newbie")
	if err != nil || member.Role != model.SchoolRoleStudent {
		t.Fatalf("newbie must be a student member, got %+v err=%v", member, err)
	}
}

func TestAccessCodeRedeemRejectsExistingMember(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	code, err := svc.CreateAccessCode(context.Background(), "admin", schoolID, &dto.CreateAccessCodeRequest{
		Role:    model.SchoolRoleStudent,
		MaxUses: 5,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RedeemAccessCode(context.Background(), "admin", code.Code); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("got %v, want ErrAlreadyMember", err)
	}
}

func TestAccessCodeUnknownAndExpiredLookAlike(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	if _, err := svc.RedeemAccessCode(context.Background(), "u1", "NOSUCHCODE"); !errors.Is(err, ErrAccessCodeInvalid) {
		t.Fatalf("unknown code: got %v, want ErrAccessCodeInvalid", err)
	}

	expired := &model.AccessCode{
		SchoolID:  schoolID,
		Code:      "EXPIREDCODE1",
		Role:      model.SchoolRoleStudent,
		MaxUses:   10,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := repo.AccessCode.Create(context.Background(), expired); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RedeemAccessCode(context.Background(), "u1", expired.Code); !errors.Is(err, ErrAccessCodeInvalid) {
		t.Fatalf("expired code: got %v, want ErrAccessCodeInvalid", err)
	}
}

func TestAccessCodeConcurrentRedeemStopsAtMaxUses(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	const maxUses = 3
	code, err := svc.CreateAccessCode(context.Background(), "admin", schoolID, &dto.CreateAccessCodeRequest{
		Role:    model.SchoolRoleStudent,
		MaxUses: maxUses,
	})
	if err != nil {
		t.Fatal(err)
	}

	const redeemers = 12
	errs := make([]error, redeemers)
	var wg sync.WaitGroup
	for i := 0; i < redeemers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.RedeemAccessCode(context.Background(), fmt.Sprintf("student-%d", n), code.Code)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrAccessCodeInvalid):
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if won != maxUses {
		t.Fatalf("%d redeems succeeded, want exactly %d", won, maxUses)
	}

	stored, _ := repo.AccessCode.GetByCode(context.Background(), code.Code)
	if stored.UsesCount != maxUses {
		t.Fatalf("uses_count %d, want %d", stored.UsesCount, maxUses)
	}
}

func TestImportMembersParsesAndEnrolls(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	known := &model.User{Email: "a@b.com", Name: "Alice", PasswordHash: "x"}
	if err := repo.User.Create(context.Background(), known); err != nil {
		t.Fatal(err)
	}

	raw := "a@b.com, BAD, c@d.com;  e@f.com "
	resp, err := svc.ImportMembers(context.Background(), "admin", schoolID, "students.csv", strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ImportMembers: %v", err)
	}

	wantEmails := []string{"a@b.com", "c@d.com", "e@f.com"}
	if len(resp.Emails) != len(wantEmails) {
		t.Fatalf("got emails %v, want %v", resp.Emails, wantEmails)
	}
	for i, e := range wantEmails {
		if resp.Emails[i] != e {
			t.Fatalf("got emails %v, want %v", resp.Emails, wantEmails)
		}
	}
	if resp.Rejected != 1 {
		t.Fatalf("rejected %d, want 1", resp.Rejected)
	}
	if resp.Invited != 1 {
		t.Fatalf("invited %d, want 1 (only a@b.com has an account)", resp.Invited)
	}
	if len(resp.Unknown) != 2 {
		t.Fatalf("unknown %v, want the two unregistered addresses", resp.Unknown)
	}

	if _, err := repo.Member.GetBySchoolAndUser(context.Background(), schoolID, known.UserID); err != nil {
		t.Fatal("known address must be enrolled")
	}
}

func TestImportMembersSkipsExistingMembers(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	user := &model.User{Email: "dup@b.com", Name: "Dup", PasswordHash: "x"}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	if err := repo.Member.Create(context.Background(), &model.SchoolMember{
		SchoolID: schoolID, UserID: user.UserID, Role: model.SchoolRoleStudent,
	}); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.ImportMembers(context.Background(), "admin", schoolID, "list.txt", strings.NewReader("dup@b.com"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Invited != 0 {
		t.Fatalf("invited %d, want 0: already enrolled", resp.Invited)
	}
}

func TestSchoolAnalyticsDoneRate(t *testing.T) {
	repo := newMockRepository()
	svc := NewSchoolService(repo, zap.NewNop())
	schoolID := seedSchoolWithAdmin(t, repo.School.(*mockSchoolRepo), "admin")

	if err := repo.Member.Create(context.Background(), &model.SchoolMember{
		SchoolID: schoolID, UserID: "s1", Role: model.SchoolRoleStudent,
	}); err != nil {
		t.Fatal(err)
	}

	sessions := repo.Session.(*mockSessionRepo)
	for i, status := range []string{model.SessionStatusDone, model.SessionStatusDone, model.SessionStatusPlanned, model.SessionStatusSkipped} {
		err := sessions.Create(context.Background(), &model.RevisionSession{
			UserID:    "s1",
			SubjectID: newID(),
			Date:      time.Date(2025, 2, 1+i, 0, 0, 0, 0, time.UTC),
			StartTime: "17:00",
			EndTime:   "18:00",
			Status:    status,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	analytics, err := svc.Analytics(context.Background(), "admin", schoolID)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if analytics.MemberTotal != 2 {
		t.Fatalf("member total %d, want 2", analytics.MemberTotal)
	}
	if analytics.SessionsTotal != 4 || analytics.SessionsDone != 2 {
		t.Fatalf("sessions %d/%d, want 4 total 2 done", analytics.SessionsTotal, analytics.SessionsDone)
	}
	if analytics.DoneRatePct != 50 {
		t.Fatalf("done rate %.1f, want 50", analytics.DoneRatePct)
	}
}
