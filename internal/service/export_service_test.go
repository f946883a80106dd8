package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
)

const sampleTimetableICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//University//Timetable//EN
BEGIN:VEVENT
UID:course-1@university
DTSTAMP:20250101T000000Z
DTSTART:20250113T090000Z
DTEND:20250113T103000Z
RRULE:FREQ=WEEKLY;COUNT=3
SUMMARY:Algorithms
END:VEVENT
BEGIN:VEVENT
UID:course-2@university
DTSTAMP:20250101T000000Z
DTSTART:20250115T140000Z
DTEND:20250115T160000Z
SUMMARY:Databases
END:VEVENT
END:VCALENDAR
`

func TestParseTimetableICSExpandsWeeklyRules(t *testing.T) {
	events, err := ParseTimetableICS(strings.NewReader(sampleTimetableICS), "u1")
	if err != nil {
		t.Fatalf("ParseTimetableICS: %v", err)
	}
	// 3 weekly occurrences + 1 standalone
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	var algo []model.CalendarEvent
	for _, e := range events {
		if e.UserID != "u1" {
			t.Fatalf("event owner %q, want u1", e.UserID)
		}
		if !e.IsBlocking || e.EventType != model.EventTypeCourse {
			t.Fatalf("imported events must be blocking courses, got %+v", e)
		}
		if e.Title == "Algorithms" {
			algo = append(algo, e)
		}
	}
	if len(algo) != 3 {
		t.Fatalf("got %d Algorithms occurrences, want 3", len(algo))
	}
	group := algo[0].RecurrenceGroupID
	for i, e := range algo {
		if e.RecurrenceGroupID == nil || *e.RecurrenceGroupID != *group {
			t.Fatal("weekly occurrences must share one recurrence group")
		}
		want := time.Date(2025, 1, 13+7*i, 9, 0, 0, 0, time.UTC)
		if !e.StartDatetime.Equal(want) {
			t.Fatalf("occurrence %d starts %v, want %v", i, e.StartDatetime, want)
		}
	}
}

func TestParseTimetableICSSkipsUntitledEvents(t *testing.T) {
	raw := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//University//Timetable//EN
BEGIN:VEVENT
UID:blank@university
DTSTAMP:20250101T000000Z
DTSTART:20250113T090000Z
DTEND:20250113T100000Z
SUMMARY:
END:VEVENT
END:VCALENDAR
`
	events, err := ParseTimetableICS(strings.NewReader(raw), "u1")
	if err != nil {
		t.Fatalf("ParseTimetableICS: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("untitled events must be skipped, got %d", len(events))
	}
}

func TestImportTimetablePersistsEvents(t *testing.T) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())

	created, err := svc.ImportTimetable(context.Background(), "u1", strings.NewReader(sampleTimetableICS))
	if err != nil {
		t.Fatalf("ImportTimetable: %v", err)
	}
	if created != 4 {
		t.Fatalf("created %d, want 4", created)
	}

	stored, err := repo.Event.ListByUser(context.Background(), "u1", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 4 {
		t.Fatalf("stored %d events, want 4", len(stored))
	}
}

func TestCalendarICSRendersEventsAndSessions(t *testing.T) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())

	event := &model.CalendarEvent{
		UserID:        "u1",
		Title:         "Physics exam",
		EventType:     model.EventTypeExam,
		StartDatetime: time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
	}
	if err := repo.Event.Create(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	session := &model.RevisionSession{
		UserID:    "u1",
		SubjectID: newID(),
		Date:      time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		StartTime: "17:00",
		EndTime:   "18:00",
		Status:    model.SessionStatusPlanned,
	}
	if err := repo.Session.Create(context.Background(), session); err != nil {
		t.Fatal(err)
	}

	buf, filename, err := svc.CalendarICS(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CalendarICS: %v", err)
	}
	if filename != "skoolife-calendar.ics" {
		t.Fatalf("filename %q", filename)
	}

	out := buf.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"SUMMARY:Physics exam",
		"SUMMARY:Revision",
		event.EventID + "@skoolife",
		session.SessionID + "@skoolife",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS output missing %q", want)
		}
	}
}

func TestAnalyticsXLSXProducesWorkbook(t *testing.T) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())

	buf, filename, err := svc.AnalyticsXLSX("Lycée Hugo", &dto.SchoolAnalyticsResponse{
		MemberTotal:   42,
		MembersByRole: map[string]int64{"student": 40, "teacher": 1, "admin_school": 1},
		SessionsTotal: 100,
		SessionsDone:  60,
		DoneRatePct:   60,
	})
	if err != nil {
		t.Fatalf("AnalyticsXLSX: %v", err)
	}
	if filename != "Lycée Hugo-analytics.xlsx" {
		t.Fatalf("filename %q", filename)
	}
	// xlsx files are zip archives
	if buf.Len() == 0 || buf.Bytes()[0] != 'P' || buf.Bytes()[1] != 'K' {
		t.Fatal("output is not a valid workbook")
	}
}
