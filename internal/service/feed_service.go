package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

const feedProductID = "-//assignment-organizer//feed//EN"

// FeedService renders a student's upcoming assignments as iCalendar.
type FeedService struct {
	events futureEvents
	now    func() time.Time
}

// NewFeedService constructs a FeedService.
func NewFeedService(events futureEvents) *FeedService {
	return &FeedService{events: events, now: time.Now}
}

// Render serialises every upcoming event of the student.
func (s *FeedService) Render(ctx context.Context, student models.Student) (string, error) {
	events, err := s.events.GetFutureEvents(ctx, student, "")
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(feedProductID)
	cal.SetName(fmt.Sprintf("Assignments for %s", student.Name))

	stamp := s.now().UTC()
	for _, ev := range events {
		uid := ev.ID
		if !ev.Origin.IsPersonal() {
			uid = ev.Origin.ClassName() + "/" + ev.ID
		}
		vevent := cal.AddEvent(uid + "@assignment-organizer")
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Summary)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		vevent.AddProperty(ics.ComponentPropertyCategories, ev.Origin.Label())
	}
	return cal.Serialize(), nil
}
