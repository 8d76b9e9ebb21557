package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/calendar"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

type enrolledClassLister interface {
	ListByStudent(ctx context.Context, userID int64) ([]models.EnrolledClass, error)
}

// EventAggregator merges a student's personal calendar with every enrolled
// class calendar. Personal events come first, then classes ordered by name.
type EventAggregator struct {
	provider calendar.Provider
	classes  enrolledClassLister
	now      func() time.Time
	logger   *zap.Logger
}

// NewEventAggregator constructs an EventAggregator.
func NewEventAggregator(provider calendar.Provider, classes enrolledClassLister, logger *zap.Logger) *EventAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventAggregator{provider: provider, classes: classes, now: time.Now, logger: logger}
}

// GetEvents returns every event of the student whose start matches filter.
func (a *EventAggregator) GetEvents(ctx context.Context, student models.Student, filter models.EventFilter) ([]models.Event, error) {
	sources, err := a.sources(ctx, student, "")
	if err != nil {
		return nil, err
	}

	var events []models.Event
	for _, src := range sources {
		fetched, err := a.fetch(ctx, src, nil)
		if err != nil {
			return nil, err
		}
		for _, ev := range fetched {
			if filter.Matches(ev.Start) {
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

// GetFutureEvents returns events that have not ended yet. A non-empty
// className restricts the result to that enrolled class.
func (a *EventAggregator) GetFutureEvents(ctx context.Context, student models.Student, className string) ([]models.Event, error) {
	sources, err := a.sources(ctx, student, className)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	var events []models.Event
	for _, src := range sources {
		fetched, err := a.fetch(ctx, src, &now)
		if err != nil {
			return nil, err
		}
		events = append(events, fetched...)
	}
	return events, nil
}

type eventSource struct {
	calendarID string
	origin     models.Origin
}

func (a *EventAggregator) sources(ctx context.Context, student models.Student, className string) ([]eventSource, error) {
	var sources []eventSource
	if className == "" && student.HasCalendar() {
		sources = append(sources, eventSource{calendarID: student.CalendarID, origin: models.PersonalOrigin})
	}

	classes, err := a.classes.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled classes")
	}

	found := className == ""
	for _, class := range classes {
		if className != "" && class.Name != className {
			continue
		}
		found = true
		sources = append(sources, eventSource{calendarID: class.CalendarID, origin: models.OriginFor(class.Name)})
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found among enrolled classes")
	}
	return sources, nil
}

func (a *EventAggregator) fetch(ctx context.Context, src eventSource, timeMin *time.Time) ([]models.Event, error) {
	raw, err := a.provider.ListEvents(ctx, src.calendarID, timeMin)
	if err != nil {
		a.logger.Sugar().Warnw("calendar listing failed", "calendar_id", src.calendarID, "origin", src.origin.Label(), "error", err)
		return nil, fmt.Errorf("list events of %s: %w", src.origin.Label(), err)
	}
	events := make([]models.Event, 0, len(raw))
	for _, r := range raw {
		events = append(events, eventFromRaw(r, src.origin))
	}
	return events, nil
}

func eventFromRaw(raw calendar.RawEvent, origin models.Origin) models.Event {
	return models.Event{
		ID:          raw.ID,
		Summary:     raw.Summary,
		Description: raw.Description,
		Start:       raw.Start,
		End:         raw.End,
		Origin:      origin,
	}
}
