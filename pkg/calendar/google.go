package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

const dateLayout = "2006-01-02"

// GoogleConfig configures calendars created through the Google provider.
type GoogleConfig struct {
	CredentialsFile string
	TimeZone        string
	Summary         string
}

// GoogleProvider implements Provider on top of Google Calendar v3.
type GoogleProvider struct {
	svc      *gcal.Service
	timeZone string
	summary  string
	recorder Recorder
}

// NewGoogleProvider authenticates with the service account in
// cfg.CredentialsFile unless opts already carry a client.
func NewGoogleProvider(ctx context.Context, cfg GoogleConfig, recorder Recorder, opts ...option.ClientOption) (*GoogleProvider, error) {
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read calendar credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, gcal.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("parse calendar credentials: %w", err)
		}
		opts = append([]option.ClientOption{option.WithCredentials(creds)}, opts...)
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &GoogleProvider{svc: svc, timeZone: cfg.TimeZone, summary: cfg.Summary, recorder: recorder}, nil
}

// CreateCalendar provisions a new secondary calendar for owner.
func (p *GoogleProvider) CreateCalendar(ctx context.Context, owner string) (id string, err error) {
	defer func() { p.record(OpCreateCalendar, err) }()

	created, err := p.svc.Calendars.Insert(&gcal.Calendar{
		Summary:     p.summary,
		Description: owner,
		TimeZone:    p.timeZone,
	}).Context(ctx).Do()
	if err != nil {
		return "", unavailable(OpCreateCalendar, err)
	}
	return created.Id, nil
}

// InsertEvent adds event to the calendar and returns the provider id.
func (p *GoogleProvider) InsertEvent(ctx context.Context, calendarID string, event NewEvent) (id string, err error) {
	defer func() { p.record(OpInsertEvent, err) }()

	created, err := p.svc.Events.Insert(calendarID, &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return "", unavailable(OpInsertEvent, err)
	}
	return created.Id, nil
}

// DeleteEvent removes an event. Events already gone count as deleted.
func (p *GoogleProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) (err error) {
	defer func() { p.record(OpDeleteEvent, err) }()

	err = p.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return nil
	}
	if err != nil {
		return unavailable(OpDeleteEvent, err)
	}
	return nil
}

// ListEvents returns every event of the calendar ordered by start time,
// optionally limited to events ending after timeMin.
func (p *GoogleProvider) ListEvents(ctx context.Context, calendarID string, timeMin *time.Time) (events []RawEvent, err error) {
	defer func() { p.record(OpListEvents, err) }()

	call := p.svc.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if timeMin != nil {
		call = call.TimeMin(timeMin.Format(time.RFC3339))
	}

	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			raw, convErr := toRawEvent(item)
			if convErr != nil {
				return convErr
			}
			events = append(events, raw)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(OpListEvents, err)
	}
	return events, nil
}

func (p *GoogleProvider) record(op string, err error) {
	if p.recorder != nil {
		p.recorder.ObserveCalendarRequest(op, err)
	}
}

func toRawEvent(item *gcal.Event) (RawEvent, error) {
	start, err := parseEventTime(item.Start)
	if err != nil {
		return RawEvent{}, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	end, err := parseEventTime(item.End)
	if err != nil {
		return RawEvent{}, fmt.Errorf("event %s end: %w", item.Id, err)
	}
	return RawEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Start:       start,
		End:         end,
	}, nil
}

// parseEventTime keeps the offset the provider reported so date filters
// compare in the event's own zone. All-day events fall back to UTC midnight.
func parseEventTime(dt *gcal.EventDateTime) (time.Time, error) {
	if dt == nil {
		return time.Time{}, errors.New("missing time")
	}
	if dt.DateTime != "" {
		return time.Parse(time.RFC3339, dt.DateTime)
	}
	if dt.Date != "" {
		return time.Parse(dateLayout, dt.Date)
	}
	return time.Time{}, errors.New("missing time")
}

func unavailable(op string, err error) error {
	return appErrors.WrapAs(appErrors.ErrProviderUnavailable, fmt.Errorf("%s: %w", op, err), "")
}
