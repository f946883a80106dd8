package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/repository"
)

var ErrExportGenerateFail = errors.New("generating export file failed")

// ExportService builds downloadable artifacts: the user's calendar as ICS,
// school analytics as Excel, and imports timetable ICS feeds back in.
type ExportService interface {
	// CalendarICS renders the user's calendar events and revision sessions
	// as one iCalendar document.
	CalendarICS(ctx context.Context, userID string) (*bytes.Buffer, string, error)
	// ImportTimetable creates blocking calendar events from an ICS feed.
	// Returns how many events were created.
	ImportTimetable(ctx context.Context, userID string, r io.Reader) (int, error)
	// AnalyticsXLSX renders school analytics as an Excel workbook.
	AnalyticsXLSX(schoolName string, analytics *dto.SchoolAnalyticsResponse) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) CalendarICS(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	events, err := s.repo.Event.ListByUser(ctx, userID, nil, nil)
	if err != nil {
		return nil, "", err
	}
	sessions, err := s.repo.Session.ListByUser(ctx, userID, nil)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	now := time.Now()

	for i := range events {
		e := &events[i]
		ve := cal.AddEvent(e.EventID + "@skoolife")
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.StartDatetime)
		ve.SetEndAt(e.EndDatetime)
		ve.SetSummary(e.Title)
		ve.SetProperty(ics.ComponentPropertyCategories, e.EventType)
	}

	for i := range sessions {
		sess := &sessions[i]
		start := sess.StartAt()
		end := start
		if t, err := time.Parse("15:04", sess.EndTime); err == nil {
			end = time.Date(sess.Date.Year(), sess.Date.Month(), sess.Date.Day(),
				t.Hour(), t.Minute(), 0, 0, sess.Date.Location())
		}

		title := "Revision"
		if sess.Subject != nil {
			title = "Revision: " + sess.Subject.Name
		}
		ve := cal.AddEvent(sess.SessionID + "@skoolife")
		ve.SetDtStampTime(now)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(title)
		ve.SetProperty(ics.ComponentPropertyStatus, sess.Status)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "skoolife-calendar.ics", nil
}

func (s *exportService) ImportTimetable(ctx context.Context, userID string, r io.Reader) (int, error) {
	events, err := ParseTimetableICS(r, userID)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}
	if err := s.repo.Event.BatchCreate(ctx, events); err != nil {
		s.logger.Error("persist imported timetable failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("timetable imported",
		zap.String("user_id", userID), zap.Int("events", len(events)))
	return len(events), nil
}

func (s *exportService) AnalyticsXLSX(schoolName string, analytics *dto.SchoolAnalyticsResponse) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Analytics"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — usage report", schoolName))
	f.MergeCell(sheetName, "A1", "B1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	rows := [][2]interface{}{
		{"Members", analytics.MemberTotal},
		{"Cohorts", analytics.CohortCount},
		{"Classes", analytics.ClassCount},
		{"Revision sessions", analytics.SessionsTotal},
		{"Sessions done", analytics.SessionsDone},
		{"Done rate (%)", analytics.DoneRatePct},
		{"Active subjects", analytics.ActiveSubjects},
	}
	row := 2
	for _, r := range rows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r[0])
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r[1])
		row++
	}

	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Members by role")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
	row++
	for _, role := range []string{"admin_school", "teacher", "student"} {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), role)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), analytics.MembersByRole[role])
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write analytics workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("%s-analytics.xlsx", schoolName), nil
}
