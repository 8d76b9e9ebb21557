package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

// FakeProvider is an in-memory Provider used in tests and local runs.
type FakeProvider struct {
	mu        sync.Mutex
	calendars map[string][]RawEvent
	owners    map[string]string
	seq       int
	failure   error
	recorder  Recorder
}

// NewFakeProvider returns an empty in-memory provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		calendars: make(map[string][]RawEvent),
		owners:    make(map[string]string),
	}
}

// UseRecorder counts every following call on r, like GoogleProvider does.
func (f *FakeProvider) UseRecorder(r Recorder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorder = r
}

// Fail makes every following call return err as ProviderUnavailable.
// Passing nil restores normal behaviour.
func (f *FakeProvider) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failure = err
}

// Seed stores events on calendarID, creating the calendar if needed.
func (f *FakeProvider) Seed(calendarID string, events ...RawEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range events {
		if ev.ID == "" {
			f.seq++
			ev.ID = fmt.Sprintf("evt-%d", f.seq)
		}
		f.calendars[calendarID] = append(f.calendars[calendarID], ev)
	}
	if _, ok := f.calendars[calendarID]; !ok {
		f.calendars[calendarID] = nil
	}
}

// Calendars returns the number of calendars created or seeded.
func (f *FakeProvider) Calendars() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calendars)
}

func (f *FakeProvider) CreateCalendar(_ context.Context, owner string) (_ string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.record(OpCreateCalendar, err) }()
	if err := f.check(OpCreateCalendar); err != nil {
		return "", err
	}
	f.seq++
	id := fmt.Sprintf("cal-%d", f.seq)
	f.calendars[id] = nil
	f.owners[id] = owner
	return id, nil
}

func (f *FakeProvider) InsertEvent(_ context.Context, calendarID string, event NewEvent) (_ string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.record(OpInsertEvent, err) }()
	if err := f.check(OpInsertEvent); err != nil {
		return "", err
	}
	if _, ok := f.calendars[calendarID]; !ok {
		return "", unavailable(OpInsertEvent, fmt.Errorf("calendar %s not found", calendarID))
	}
	f.seq++
	id := fmt.Sprintf("evt-%d", f.seq)
	f.calendars[calendarID] = append(f.calendars[calendarID], RawEvent{
		ID:          id,
		Summary:     event.Summary,
		Description: event.Description,
		Start:       event.Start,
		End:         event.End,
	})
	return id, nil
}

func (f *FakeProvider) DeleteEvent(_ context.Context, calendarID, eventID string) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.record(OpDeleteEvent, err) }()
	if err := f.check(OpDeleteEvent); err != nil {
		return err
	}
	events := f.calendars[calendarID]
	for i, ev := range events {
		if ev.ID == eventID {
			f.calendars[calendarID] = append(events[:i:i], events[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeProvider) ListEvents(_ context.Context, calendarID string, timeMin *time.Time) (_ []RawEvent, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.record(OpListEvents, err) }()
	if err := f.check(OpListEvents); err != nil {
		return nil, err
	}
	events, ok := f.calendars[calendarID]
	if !ok {
		return nil, unavailable(OpListEvents, fmt.Errorf("calendar %s not found", calendarID))
	}

	out := make([]RawEvent, 0, len(events))
	for _, ev := range events {
		if timeMin != nil && !ev.End.After(*timeMin) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (f *FakeProvider) record(op string, err error) {
	if f.recorder != nil {
		f.recorder.ObserveCalendarRequest(op, err)
	}
}

func (f *FakeProvider) check(op string) error {
	if f.failure == nil {
		return nil
	}
	return appErrors.WrapAs(appErrors.ErrProviderUnavailable, fmt.Errorf("%s: %w", op, f.failure), "")
}
