package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type eventsByDate interface {
	GetEvents(ctx context.Context, student models.Student, filter models.EventFilter) ([]models.Event, error)
}

type notificationEnqueuer interface {
	Enqueue(ctx context.Context, userID int64, text string)
}

// DigestService compiles the daily "due today" digest for every student.
type DigestService struct {
	students studentLister
	events   eventsByDate
	queue    notificationEnqueuer
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewDigestService constructs a DigestService.
func NewDigestService(students studentLister, events eventsByDate, queue notificationEnqueuer, metrics *MetricsService, logger *zap.Logger) *DigestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestService{students: students, events: events, queue: queue, metrics: metrics, logger: logger}
}

// TargetDay is the calendar day a digest fired at now covers. Provider dates
// come back one day ahead, so the digest looks at UTC yesterday.
// TODO: drop the one day shift once event dates are compared in the calendar's own zone.
func TargetDay(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -1)
}

// NotifyTodayAssignments queues one digest per student with events on the
// target day. Students whose calendars cannot be read are skipped and
// reported in the returned error.
func (s *DigestService) NotifyTodayAssignments(ctx context.Context, now time.Time) (int, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	target := TargetDay(now)
	day, month, year := target.Day(), int(target.Month()), target.Year()
	filter := models.EventFilter{Day: &day, Month: &month, Year: &year}

	var (
		sent     int
		failures []error
	)
	for _, student := range students {
		events, err := s.events.GetEvents(ctx, student, filter)
		if err != nil {
			failures = append(failures, fmt.Errorf("digest for user %d: %w", student.UserID, err))
			continue
		}
		body := CompileDigest(student.Name, events)
		if body == "" {
			continue
		}
		s.queue.Enqueue(ctx, student.UserID, body)
		sent++
	}

	s.metrics.DigestCompleted(sent)
	s.logger.Sugar().Infow("daily digest compiled", "target_day", target.Format("2006-01-02"), "students", len(students), "digests", sent)
	return sent, errors.Join(failures...)
}
