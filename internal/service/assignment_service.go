package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/calendar"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/jobs"
	"github.com/noah-isme/assignment-organizer/pkg/middleware/requestid"
)

const (
	// SyllabusJobType tags syllabus import jobs on the worker queue.
	SyllabusJobType = "syllabus_import"

	dueDateLayout = "2006-01-02"
	actionCreate  = "create"
	actionDelete  = "delete"
)

type classFinder interface {
	Find(ctx context.Context, name string) (*models.Class, error)
}

type calendarEnsurer interface {
	EnsureCalendar(ctx context.Context, student *models.Student) error
}

type checkToggler interface {
	Toggle(ctx context.Context, mark models.CheckedAssignment) (bool, error)
}

type changeNotifier interface {
	NotifyStudentsOfChange(ctx context.Context, className, assignmentName, action string)
}

type jobSubmitter interface {
	Submit(jobType string, payload interface{}) (string, error)
}

// AssignmentService creates, deletes and checks off assignments.
type AssignmentService struct {
	classes   classFinder
	students  calendarEnsurer
	provider  calendar.Provider
	checks    checkToggler
	notifier  changeNotifier
	queue     jobSubmitter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService. The queue is set
// separately with UseQueue because its handler lives on this service.
func NewAssignmentService(classes classFinder, students calendarEnsurer, provider calendar.Provider, checks checkToggler, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{classes: classes, students: students, provider: provider, checks: checks, notifier: notifier, validator: validate, logger: logger}
}

// UseQueue sets the queue syllabus imports are submitted to.
func (s *AssignmentService) UseQueue(queue jobSubmitter) {
	s.queue = queue
}

// Create adds an assignment spanning one day from the due date at UTC
// midnight. Class assignments require the class professor and notify the roster.
func (s *AssignmentService) Create(ctx context.Context, caller *models.Student, req dto.CreateAssignmentRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	due, err := time.ParseInLocation(dueDateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid due date")
	}

	calendarID, origin, err := s.targetCalendar(ctx, caller, req.ClassName)
	if err != nil {
		return nil, err
	}

	newEvent := calendar.NewEvent{
		Summary:     req.Summary,
		Description: req.Estimate,
		Start:       due,
		End:         due.AddDate(0, 0, 1),
	}
	id, err := s.provider.InsertEvent(ctx, calendarID, newEvent)
	if err != nil {
		return nil, err
	}

	if !origin.IsPersonal() {
		s.notifier.NotifyStudentsOfChange(ctx, origin.ClassName(), req.Summary, actionCreate)
	}
	return &models.Event{
		ID:          id,
		Summary:     newEvent.Summary,
		Description: newEvent.Description,
		Start:       newEvent.Start,
		End:         newEvent.End,
		Origin:      origin,
	}, nil
}

// DeleteOrCheckOff deletes the event when the caller owns its calendar and
// toggles the caller's check mark otherwise. An empty className addresses
// the personal calendar.
func (s *AssignmentService) DeleteOrCheckOff(ctx context.Context, caller *models.Student, className, eventID string) (*dto.ToggleAssignmentResult, error) {
	if eventID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event id is required")
	}
	result := &dto.ToggleAssignmentResult{EventID: eventID}

	if className == "" {
		if !caller.HasCalendar() {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "personal calendar not found")
		}
		if err := s.provider.DeleteEvent(ctx, caller.CalendarID, eventID); err != nil {
			return nil, err
		}
		result.Deleted = true
		return result, nil
	}

	class, err := s.classes.Find(ctx, className)
	if err != nil {
		return nil, err
	}

	if class.ProfessorID == caller.UserID {
		summary := s.summaryOf(ctx, class.CalendarID, eventID)
		if err := s.provider.DeleteEvent(ctx, class.CalendarID, eventID); err != nil {
			return nil, err
		}
		s.notifier.NotifyStudentsOfChange(ctx, class.Name, summary, actionDelete)
		result.Deleted = true
		return result, nil
	}

	checked, err := s.checks.Toggle(ctx, models.CheckedAssignment{UserID: caller.UserID, ClassName: class.Name, EventID: eventID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle assignment")
	}
	result.Checked = checked
	return result, nil
}

type syllabusRow struct {
	Summary  string
	Due      time.Time
	Estimate string
}

type syllabusImport struct {
	ClassName  string
	CalendarID string
	Rows       []syllabusRow
	RequestID  string
	next       int
}

// ImportSyllabus parses "name,YYYY-MM-DD,estimate" lines and queues their
// creation on the class calendar. A malformed line rejects the upload.
func (s *AssignmentService) ImportSyllabus(ctx context.Context, caller *models.Student, className string, r io.Reader) (*dto.SyllabusImportResult, error) {
	class, err := s.classes.Find(ctx, className)
	if err != nil {
		return nil, err
	}
	if class.ProfessorID != caller.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the class professor can upload a syllabus")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "syllabus queue not configured")
	}

	rows, err := parseSyllabus(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid syllabus")
	}

	payload := &syllabusImport{
		ClassName:  class.Name,
		CalendarID: class.CalendarID,
		Rows:       rows,
		RequestID:  requestid.FromContext(ctx),
	}
	jobID, err := s.queue.Submit(SyllabusJobType, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue syllabus import")
	}
	s.logger.Sugar().Infow("syllabus import queued", "class", class.Name, "job_id", jobID, "assignments", len(rows), "request_id", payload.RequestID)
	return &dto.SyllabusImportResult{JobID: jobID, ClassName: class.Name, Assignments: len(rows)}, nil
}

// HandleSyllabusJob inserts the remaining rows of a syllabus import. Rows
// already inserted by an earlier attempt are skipped on retry.
func (s *AssignmentService) HandleSyllabusJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(*syllabusImport)
	if !ok {
		return fmt.Errorf("unexpected syllabus payload %T", job.Payload)
	}
	for payload.next < len(payload.Rows) {
		row := payload.Rows[payload.next]
		_, err := s.provider.InsertEvent(ctx, payload.CalendarID, calendar.NewEvent{
			Summary:     row.Summary,
			Description: row.Estimate,
			Start:       row.Due,
			End:         row.Due.AddDate(0, 0, 1),
		})
		if err != nil {
			return fmt.Errorf("import %q into %s: %w", row.Summary, payload.ClassName, err)
		}
		payload.next++
	}
	s.logger.Sugar().Infow("syllabus imported", "class", payload.ClassName, "job_id", job.ID, "assignments", len(payload.Rows), "request_id", payload.RequestID)
	return nil
}

func (s *AssignmentService) targetCalendar(ctx context.Context, caller *models.Student, className string) (string, models.Origin, error) {
	if className == "" {
		if err := s.students.EnsureCalendar(ctx, caller); err != nil {
			return "", models.PersonalOrigin, err
		}
		return caller.CalendarID, models.PersonalOrigin, nil
	}

	class, err := s.classes.Find(ctx, className)
	if err != nil {
		return "", models.PersonalOrigin, err
	}
	if class.ProfessorID != caller.UserID {
		return "", models.PersonalOrigin, appErrors.Clone(appErrors.ErrForbidden, "only the class professor can add class assignments")
	}
	return class.CalendarID, models.OriginFor(class.Name), nil
}

func (s *AssignmentService) summaryOf(ctx context.Context, calendarID, eventID string) string {
	events, err := s.provider.ListEvents(ctx, calendarID, nil)
	if err != nil {
		s.logger.Sugar().Warnw("could not resolve assignment name", "event_id", eventID, "error", err)
		return eventID
	}
	for _, ev := range events {
		if ev.ID == eventID {
			return ev.Summary
		}
	}
	return eventID
}

func parseSyllabus(r io.Reader) ([]syllabusRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var rows []syllabusRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		summary := strings.TrimSpace(record[0])
		if summary == "" {
			return nil, fmt.Errorf("line %d: assignment name is empty", line)
		}
		due, err := time.ParseInLocation(dueDateLayout, strings.TrimSpace(record[1]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, syllabusRow{Summary: summary, Due: due, Estimate: strings.TrimSpace(record[2])})
	}
	if len(rows) == 0 {
		return nil, errors.New("syllabus has no assignments")
	}
	return rows, nil
}
