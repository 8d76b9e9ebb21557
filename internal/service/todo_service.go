package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

type futureEvents interface {
	GetFutureEvents(ctx context.Context, student models.Student, className string) ([]models.Event, error)
}

type checkLister interface {
	ListByUser(ctx context.Context, userID int64) ([]models.CheckedAssignment, error)
}

// TodoService builds the to-do view of upcoming assignments.
type TodoService struct {
	events  futureEvents
	classes enrolledClassLister
	checks  checkLister
	now     func() time.Time
	logger  *zap.Logger
}

// NewTodoService constructs a TodoService.
func NewTodoService(events futureEvents, classes enrolledClassLister, checks checkLister, logger *zap.Logger) *TodoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoService{events: events, classes: classes, checks: checks, now: time.Now, logger: logger}
}

// List returns upcoming events, optionally for a single class, decorated
// with color, check state, ownership and a due label.
func (s *TodoService) List(ctx context.Context, student models.Student, className string) ([]models.TodoItem, error) {
	events, err := s.events.GetFutureEvents(ctx, student, className)
	if err != nil {
		return nil, err
	}
	classes, err := s.classes.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	marks, err := s.checks.ListByUser(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load checked assignments")
	}

	professorOf := make(map[string]bool, len(classes))
	for _, class := range classes {
		professorOf[class.Name] = class.ProfessorID == student.UserID
	}
	checked := make(map[models.CheckedAssignment]bool, len(marks))
	for _, mark := range marks {
		checked[models.CheckedAssignment{ClassName: mark.ClassName, EventID: mark.EventID}] = true
	}

	now := s.now()
	items := make([]models.TodoItem, 0, len(events))
	for _, ev := range events {
		items = append(items, models.TodoItem{
			Event:     ev,
			Color:     colorFor(student, classes, ev.Origin),
			Checked:   checked[models.CheckedAssignment{ClassName: ev.Origin.ClassName(), EventID: ev.ID}],
			Deletable: ev.Origin.IsPersonal() || professorOf[ev.Origin.ClassName()],
			Due:       DueLabel(ev.End, now),
		})
	}
	return items, nil
}

// DueLabel describes how far end is from now from the floored day difference
// of their wall clocks in the event's own zone. A difference of -1 reads
// "Due Today" and 0 reads "Due in 1 Day".
func DueLabel(end, now time.Time) string {
	wallEnd := time.Date(end.Year(), end.Month(), end.Day(), end.Hour(), end.Minute(), end.Second(), end.Nanosecond(), time.UTC)
	local := now.In(end.Location())
	wallNow := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)

	days := int(math.Floor(wallEnd.Sub(wallNow).Hours() / 24))
	switch days {
	case -1:
		return "Due Today"
	case 0:
		return "Due in 1 Day"
	default:
		return fmt.Sprintf("Due in %d Days", days+1)
	}
}
