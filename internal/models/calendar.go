package models

import (
	"encoding/json"
	"time"
)

// Origin names the calendar an event came from. The zero value is the
// student's personal calendar.
type Origin string

// PersonalOrigin tags events from the personal calendar.
const PersonalOrigin Origin = ""

// OriginFor returns the origin of an event on className's calendar.
func OriginFor(className string) Origin {
	return Origin(className)
}

func (o Origin) IsPersonal() bool {
	return o == PersonalOrigin
}

// ClassName returns the owning class, or "" for personal events.
func (o Origin) ClassName() string {
	return string(o)
}

// SortKey is the grouping key of digests; personal events sort as "None".
func (o Origin) SortKey() string {
	if o.IsPersonal() {
		return "None"
	}
	return string(o)
}

// Label is the human readable origin.
func (o Origin) Label() string {
	if o.IsPersonal() {
		return "Personal"
	}
	return string(o)
}

// MarshalJSON renders personal origins as null.
func (o Origin) MarshalJSON() ([]byte, error) {
	if o.IsPersonal() {
		return []byte("null"), nil
	}
	return json.Marshal(string(o))
}

// UnmarshalJSON accepts null as the personal origin.
func (o *Origin) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = PersonalOrigin
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = Origin(s)
	return nil
}

// Event is a calendar event tagged with its origin at construction. It is
// passed by value and never modified after aggregation.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Origin      Origin    `json:"origin"`
}

// EventFilter restricts aggregated events by start date components. Nil
// fields do not filter.
type EventFilter struct {
	Day   *int
	Month *int
	Year  *int
}

// Matches compares t's calendar fields in t's own location.
func (f EventFilter) Matches(t time.Time) bool {
	if f.Day != nil && t.Day() != *f.Day {
		return false
	}
	if f.Month != nil && int(t.Month()) != *f.Month {
		return false
	}
	if f.Year != nil && t.Year() != *f.Year {
		return false
	}
	return true
}

// TodoItem is an upcoming event decorated for the to-do view.
type TodoItem struct {
	Event
	Color     string `json:"color"`
	Checked   bool   `json:"checked"`
	Deletable bool   `json:"deletable"`
	Due       string `json:"due"`
}
