// Package calendar adapts the external calendar service that owns every
// assignment event.
package calendar

import (
	"context"
	"time"
)

// RawEvent is an event as returned by the provider.
type RawEvent struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// NewEvent describes an event to insert.
type NewEvent struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Provider is the calendar service contract. Every failure reaching the
// provider is reported as errors.ErrProviderUnavailable.
type Provider interface {
	CreateCalendar(ctx context.Context, owner string) (string, error)
	InsertEvent(ctx context.Context, calendarID string, event NewEvent) (string, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	ListEvents(ctx context.Context, calendarID string, timeMin *time.Time) ([]RawEvent, error)
}

// Recorder observes provider calls.
type Recorder interface {
	ObserveCalendarRequest(operation string, err error)
}

const (
	OpCreateCalendar = "create_calendar"
	OpInsertEvent    = "insert_event"
	OpDeleteEvent    = "delete_event"
	OpListEvents     = "list_events"
)
