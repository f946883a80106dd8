package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skoolife/backend/internal/model"
	"skoolife/backend/internal/repository"
	pkgerrors "skoolife/backend/pkg/errors"
)

// Map-backed repository fakes. They mirror the conditional-update semantics
// of the real store (version guards, single-use claims) so concurrency
// invariants can be exercised without a database.

func newMockRepository() *repository.Repository {
	users := newMockUserRepo()
	members := newMockMemberRepo()
	members.users = users
	schools := newMockSchoolRepo()
	schools.members = members
	return &repository.Repository{
		User:       users,
		Subject:    newMockSubjectRepo(),
		Event:      newMockEventRepo(),
		Session:    newMockSessionRepo(),
		Invite:     newMockInviteRepo(),
		File:       newMockFileRepo(),
		Pomodoro:   newMockPomodoroRepo(),
		School:     schools,
		Cohort:     newMockCohortRepo(),
		Class:      newMockClassRepo(),
		Member:     members,
		AccessCode: newMockAccessCodeRepo(),
	}
}

func newID() string { return uuid.New().String() }

// ── users ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (r *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.UserID == "" {
		user.UserID = newID()
	}
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

// ── subjects ──

type mockSubjectRepo struct {
	mu       sync.Mutex
	subjects map[string]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (r *mockSubjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subject.SubjectID == "" {
		subject.SubjectID = newID()
	}
	if subject.Version == 0 {
		subject.Version = 1
	}
	if subject.Status == "" {
		subject.Status = model.SubjectStatusActive
	}
	cp := *subject
	r.subjects[subject.SubjectID] = &cp
	return nil
}

func (r *mockSubjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *mockSubjectRepo) ListByUser(ctx context.Context, userID string, statuses []string) ([]model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Subject
	for _, s := range r.subjects {
		if s.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			ok := false
			for _, st := range statuses {
				if s.Status == st {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (r *mockSubjectRepo) Update(ctx context.Context, subject *model.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.subjects[subject.SubjectID]
	if !ok || stored.Version != subject.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cp := *subject
	cp.Version = stored.Version + 1
	r.subjects[subject.SubjectID] = &cp
	subject.Version = cp.Version
	return nil
}

func (r *mockSubjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subjects[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *mockSubjectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subjects, id)
	return nil
}

func (r *mockSubjectRepo) CountActiveBySchoolUsers(ctx context.Context, userIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.subjects {
		if s.Status != model.SubjectStatusActive {
			continue
		}
		for _, id := range userIDs {
			if s.UserID == id {
				n++
				break
			}
		}
	}
	return n, nil
}

// ── calendar events ──

type mockEventRepo struct {
	mu     sync.Mutex
	events map[string]*model.CalendarEvent
	// failUpdates makes UpdateOccurrence fail for the listed event ids,
	// to exercise the no-rollback fan-out report.
	failUpdates map[string]error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{
		events:      make(map[string]*model.CalendarEvent),
		failUpdates: make(map[string]error),
	}
}

func (r *mockEventRepo) Create(ctx context.Context, event *model.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.EventID == "" {
		event.EventID = newID()
	}
	cp := *event
	r.events[event.EventID] = &cp
	return nil
}

func (r *mockEventRepo) BatchCreate(ctx context.Context, events []model.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range events {
		if events[i].EventID == "" {
			events[i].EventID = newID()
		}
		cp := events[i]
		r.events[cp.EventID] = &cp
	}
	return nil
}

func (r *mockEventRepo) GetByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *mockEventRepo) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CalendarEvent
	for _, e := range r.events {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.StartDatetime.Before(*from) {
			continue
		}
		if to != nil && !e.StartDatetime.Before(*to) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartDatetime.Before(out[b].StartDatetime) })
	return out, nil
}

func (r *mockEventRepo) ListByGroup(ctx context.Context, groupID string) ([]model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CalendarEvent
	for _, e := range r.events {
		if e.RecurrenceGroupID != nil && *e.RecurrenceGroupID == groupID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartDatetime.Before(out[b].StartDatetime) })
	return out, nil
}

func (r *mockEventRepo) UpdateOccurrence(ctx context.Context, id string, content repository.EventContentUpdate, start, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failUpdates[id]; ok {
		return err
	}
	e, ok := r.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Title = content.Title
	e.EventType = content.EventType
	e.IsBlocking = content.IsBlocking
	e.StartDatetime = start
	e.EndDatetime = end
	return nil
}

func (r *mockEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *mockEventRepo) DeleteByGroup(ctx context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.events {
		if e.RecurrenceGroupID != nil && *e.RecurrenceGroupID == groupID {
			delete(r.events, id)
		}
	}
	return nil
}

// ── revision sessions ──

type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.RevisionSession
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.RevisionSession)}
}

func (r *mockSessionRepo) Create(ctx context.Context, session *model.RevisionSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.SessionID == "" {
		session.SessionID = newID()
	}
	if session.Status == "" {
		session.Status = model.SessionStatusPlanned
	}
	cp := *session
	r.sessions[session.SessionID] = &cp
	return nil
}

func (r *mockSessionRepo) BatchCreate(ctx context.Context, sessions []model.RevisionSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range sessions {
		if sessions[i].SessionID == "" {
			sessions[i].SessionID = newID()
		}
		cp := sessions[i]
		r.sessions[cp.SessionID] = &cp
	}
	return nil
}

func (r *mockSessionRepo) GetByID(ctx context.Context, id string) (*model.RevisionSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *mockSessionRepo) ListByUser(ctx context.Context, userID string, filters *repository.SessionListFilters) ([]model.RevisionSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.RevisionSession
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.SubjectID != "" && s.SubjectID != filters.SubjectID {
				continue
			}
			if filters.From != nil && s.Date.Before(*filters.From) {
				continue
			}
			if filters.To != nil && s.Date.After(*filters.To) {
				continue
			}
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Date.Equal(out[b].Date) {
			return out[a].Date.Before(out[b].Date)
		}
		return out[a].StartTime < out[b].StartTime
	})
	return out, nil
}

func (r *mockSessionRepo) Update(ctx context.Context, session *model.RevisionSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[session.SessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.SubjectID = session.SubjectID
	stored.StartTime = session.StartTime
	stored.EndTime = session.EndTime
	return nil
}

func (r *mockSessionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *mockSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *mockSessionRepo) DeleteFuturePlanned(ctx context.Context, userID string, from time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.UserID == userID && s.Status == model.SessionStatusPlanned && !s.Date.Before(from) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *mockSessionRepo) CountByUsers(ctx context.Context, userIDs []string) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total, done int64
	for _, s := range r.sessions {
		for _, id := range userIDs {
			if s.UserID != id {
				continue
			}
			total++
			if s.Status == model.SessionStatusDone {
				done++
			}
			break
		}
	}
	return total, done, nil
}

// ── session invites ──

type mockInviteRepo struct {
	mu      sync.Mutex
	invites map[string]*model.SessionInvite
}

func newMockInviteRepo() *mockInviteRepo {
	return &mockInviteRepo{invites: make(map[string]*model.SessionInvite)}
}

func (r *mockInviteRepo) Create(ctx context.Context, invite *model.SessionInvite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invite.InviteID == "" {
		invite.InviteID = newID()
	}
	cp := *invite
	r.invites[invite.InviteID] = &cp
	return nil
}

func (r *mockInviteRepo) GetByToken(ctx context.Context, token string) (*model.SessionInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invites {
		if inv.UniqueToken == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// Accept mirrors the store's conditional update: the claim only lands while
// accepted_by is still unset, under one lock, so racing acceptors serialize.
func (r *mockInviteRepo) Accept(ctx context.Context, inviteID, userID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[inviteID]
	if !ok || inv.AcceptedBy != nil {
		return false, nil
	}
	inv.AcceptedBy = &userID
	inv.AcceptedAt = &at
	return true, nil
}

func (r *mockInviteRepo) ListBySession(ctx context.Context, sessionID string) ([]model.SessionInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SessionInvite
	for _, inv := range r.invites {
		if inv.SessionID == sessionID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

// ── study files ──

type mockFileRepo struct {
	mu    sync.Mutex
	files map[string]*model.StudyFile
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{files: make(map[string]*model.StudyFile)}
}

func (r *mockFileRepo) Create(ctx context.Context, file *model.StudyFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if file.FileID == "" {
		file.FileID = newID()
	}
	cp := *file
	r.files[file.FileID] = &cp
	return nil
}

func (r *mockFileRepo) GetByID(ctx context.Context, id string) (*model.StudyFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *mockFileRepo) ListByUser(ctx context.Context, userID string, folder *string) ([]model.StudyFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StudyFile
	for _, f := range r.files {
		if f.UserID != userID {
			continue
		}
		if folder == nil {
			if f.FolderName != nil {
				continue
			}
		} else if f.FolderName == nil || *f.FolderName != *folder {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Filename < out[b].Filename })
	return out, nil
}

func (r *mockFileRepo) ListFolders(ctx context.Context, userID string) ([]repository.FolderCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, f := range r.files {
		if f.UserID == userID && f.FolderName != nil {
			counts[*f.FolderName]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]repository.FolderCount, 0, len(names))
	for _, name := range names {
		out = append(out, repository.FolderCount{FolderName: name, Count: counts[name]})
	}
	return out, nil
}

func (r *mockFileRepo) RenameFolder(ctx context.Context, userID, oldName, newName string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, f := range r.files {
		if f.UserID == userID && f.FolderName != nil && *f.FolderName == oldName {
			name := newName
			f.FolderName = &name
			n++
		}
	}
	return n, nil
}

func (r *mockFileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
	return nil
}

// ── pomodoro ──

type mockPomodoroRepo struct {
	mu   sync.Mutex
	runs []model.PomodoroRun
}

func newMockPomodoroRepo() *mockPomodoroRepo { return &mockPomodoroRepo{} }

func (r *mockPomodoroRepo) Create(ctx context.Context, run *model.PomodoroRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.RunID == "" {
		run.RunID = newID()
	}
	r.runs = append(r.runs, *run)
	return nil
}

func (r *mockPomodoroRepo) Aggregate(ctx context.Context, userID string, from, to time.Time) ([]repository.PomodoroSubjectAgg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		hasSubject bool
		subjectID  string
	}
	aggs := make(map[key]*repository.PomodoroSubjectAgg)
	for i := range r.runs {
		run := &r.runs[i]
		if run.UserID != userID || run.StartedAt.Before(from) || !run.StartedAt.Before(to) {
			continue
		}
		k := key{}
		if run.SubjectID != nil {
			k = key{hasSubject: true, subjectID: *run.SubjectID}
		}
		agg, ok := aggs[k]
		if !ok {
			agg = &repository.PomodoroSubjectAgg{SubjectID: run.SubjectID}
			aggs[k] = agg
		}
		agg.WorkSeconds += int64(run.WorkSeconds)
		agg.Runs++
	}
	out := make([]repository.PomodoroSubjectAgg, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, *agg)
	}
	return out, nil
}

// ── schools ──

type mockSchoolRepo struct {
	mu      sync.Mutex
	schools map[string]*model.School
	members *mockMemberRepo
}

func newMockSchoolRepo() *mockSchoolRepo {
	return &mockSchoolRepo{schools: make(map[string]*model.School)}
}

func (r *mockSchoolRepo) Create(ctx context.Context, school *model.School, adminUserID string) error {
	r.mu.Lock()
	if school.SchoolID == "" {
		school.SchoolID = newID()
	}
	cp := *school
	r.schools[school.SchoolID] = &cp
	r.mu.Unlock()

	if r.members != nil {
		return r.members.Create(ctx, &model.SchoolMember{
			SchoolID: school.SchoolID,
			UserID:   adminUserID,
			Role:     model.SchoolRoleAdmin,
		})
	}
	return nil
}

func (r *mockSchoolRepo) GetByID(ctx context.Context, id string) (*model.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

type mockCohortRepo struct {
	mu      sync.Mutex
	cohorts map[string]*model.Cohort
}

func newMockCohortRepo() *mockCohortRepo {
	return &mockCohortRepo{cohorts: make(map[string]*model.Cohort)}
}

func (r *mockCohortRepo) Create(ctx context.Context, cohort *model.Cohort) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cohort.CohortID == "" {
		cohort.CohortID = newID()
	}
	cp := *cohort
	r.cohorts[cohort.CohortID] = &cp
	return nil
}

func (r *mockCohortRepo) GetByID(ctx context.Context, id string) (*model.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cohorts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *mockCohortRepo) ListBySchool(ctx context.Context, schoolID string) ([]model.Cohort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Cohort
	for _, c := range r.cohorts {
		if c.SchoolID == schoolID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (r *mockCohortRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cohorts, id)
	return nil
}

type mockClassRepo struct {
	mu      sync.Mutex
	classes map[string]*model.Class
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (r *mockClassRepo) Create(ctx context.Context, class *model.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if class.ClassID == "" {
		class.ClassID = newID()
	}
	cp := *class
	r.classes[class.ClassID] = &cp
	return nil
}

func (r *mockClassRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *mockClassRepo) ListBySchool(ctx context.Context, schoolID string) ([]model.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Class
	for _, c := range r.classes {
		if c.SchoolID == schoolID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (r *mockClassRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.classes, id)
	return nil
}

type mockMemberRepo struct {
	mu      sync.Mutex
	members map[string]*model.SchoolMember
	users   *mockUserRepo // optional, for Preload("User") parity
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.SchoolMember)}
}

func (r *mockMemberRepo) Create(ctx context.Context, member *model.SchoolMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if member.MemberID == "" {
		member.MemberID = newID()
	}
	cp := *member
	cp.CreatedAt = time.Now()
	r.members[member.MemberID] = &cp
	return nil
}

func (r *mockMemberRepo) GetBySchoolAndUser(ctx context.Context, schoolID, userID string) (*model.SchoolMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.SchoolID == schoolID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockMemberRepo) ListBySchool(ctx context.Context, schoolID string, offset, limit int) ([]model.SchoolMember, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.SchoolMember
	for _, m := range r.members {
		if m.SchoolID != schoolID {
			continue
		}
		cp := *m
		if r.users != nil {
			if u, err := r.users.GetByID(ctx, m.UserID); err == nil {
				cp.User = u
			}
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].CreatedAt.Before(all[b].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *mockMemberRepo) CountByRole(ctx context.Context, schoolID string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, m := range r.members {
		if m.SchoolID == schoolID {
			counts[m.Role]++
		}
	}
	return counts, nil
}

func (r *mockMemberRepo) UserIDsBySchool(ctx context.Context, schoolID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, m := range r.members {
		if m.SchoolID == schoolID {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

func (r *mockMemberRepo) Delete(ctx context.Context, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, memberID)
	return nil
}

// ── access codes ──

type mockAccessCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*model.AccessCode
}

func newMockAccessCodeRepo() *mockAccessCodeRepo {
	return &mockAccessCodeRepo{codes: make(map[string]*model.AccessCode)}
}

func (r *mockAccessCodeRepo) Create(ctx context.Context, code *model.AccessCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.AccessCodeID == "" {
		code.AccessCodeID = newID()
	}
	cp := *code
	r.codes[code.Code] = &cp
	return nil
}

func (r *mockAccessCodeRepo) GetByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ac, ok := r.codes[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ac
	return &cp, nil
}

func (r *mockAccessCodeRepo) ListBySchool(ctx context.Context, schoolID string) ([]model.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AccessCode
	for _, ac := range r.codes {
		if ac.SchoolID == schoolID {
			out = append(out, *ac)
		}
	}
	return out, nil
}

// Redeem mirrors the store's guarded increment under one lock: the use only
// burns while uses_count < max_uses and the code is unexpired.
func (r *mockAccessCodeRepo) Redeem(ctx context.Context, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ac, ok := r.codes[code]
	if !ok || ac.UsesCount >= ac.MaxUses || !ac.ExpiresAt.After(now) {
		return false, nil
	}
	ac.UsesCount++
	return true, nil
}
