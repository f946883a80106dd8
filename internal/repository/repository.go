package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface.
type Repository struct {
	User       UserRepository
	Subject    SubjectRepository
	Event      CalendarEventRepository
	Session    RevisionSessionRepository
	Invite     SessionInviteRepository
	File       StudyFileRepository
	Pomodoro   PomodoroRepository
	School     SchoolRepository
	Cohort     CohortRepository
	Class      ClassRepository
	Member     SchoolMemberRepository
	AccessCode AccessCodeRepository
}

// NewRepository builds the aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Subject:    NewSubjectRepo(db),
		Event:      NewCalendarEventRepo(db),
		Session:    NewRevisionSessionRepo(db),
		Invite:     NewSessionInviteRepo(db),
		File:       NewStudyFileRepo(db),
		Pomodoro:   NewPomodoroRepo(db),
		School:     NewSchoolRepo(db),
		Cohort:     NewCohortRepo(db),
		Class:      NewClassRepo(db),
		Member:     NewSchoolMemberRepo(db),
		AccessCode: NewAccessCodeRepo(db),
	}
}
