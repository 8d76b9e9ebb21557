package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/calendar"
)

func TestDueLabel(t *testing.T) {
	end := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "past end", now: end.Add(2 * time.Hour), want: "Due Today"},
		{name: "within a day", now: end.Add(-14 * time.Hour), want: "Due in 1 Day"},
		{name: "two days out", now: end.Add(-26 * time.Hour), want: "Due in 2 Days"},
		{name: "several days out", now: end.Add(-50 * time.Hour), want: "Due in 3 Days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DueLabel(end, tc.now))
		})
	}
}

func TestDueLabelAcrossZones(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	end := time.Date(2024, 5, 2, 0, 0, 0, 0, loc)
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, "Due Today", DueLabel(end, now))
}

func TestTodoListDecoratesEvents(t *testing.T) {
	provider := calendar.NewFakeProvider()
	provider.Seed("p1", calendar.RawEvent{ID: "e1", Summary: "Dentist", Start: day(2024, 5, 3), End: day(2024, 5, 4)})
	provider.Seed("c1", calendar.RawEvent{ID: "hw1", Summary: "HW1", Start: day(2024, 5, 5), End: day(2024, 5, 6)})
	provider.Seed("c2", calendar.RawEvent{ID: "q1", Summary: "Quiz", Start: day(2024, 5, 6), End: day(2024, 5, 7)})

	classes := &mockClassLister{byUser: map[int64][]models.EnrolledClass{
		1: {
			{Class: models.Class{Name: "Algorithms", CalendarID: "c1", ProfessorID: 9}, Color: "#aa0000"},
			{Class: models.Class{Name: "Databases", CalendarID: "c2", ProfessorID: 1}, Color: "#00aa00"},
		},
	}}
	checks := &mockChecks{}
	_, err := checks.Toggle(context.Background(), models.CheckedAssignment{UserID: 1, ClassName: "Algorithms", EventID: "hw1"})
	require.NoError(t, err)

	now := func() time.Time { return day(2024, 5, 1) }
	agg := NewEventAggregator(provider, classes, nil)
	agg.now = now
	svc := NewTodoService(agg, classes, checks, nil)
	svc.now = now

	student := models.Student{UserID: 1, CalendarID: "p1", Color: "#111111"}
	items, err := svc.List(context.Background(), student, "")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Dentist", items[0].Summary)
	assert.Equal(t, "#111111", items[0].Color)
	assert.True(t, items[0].Deletable)
	assert.False(t, items[0].Checked)
	assert.Equal(t, "Due in 4 Days", items[0].Due)

	assert.Equal(t, "HW1", items[1].Summary)
	assert.Equal(t, "#aa0000", items[1].Color)
	assert.False(t, items[1].Deletable)
	assert.True(t, items[1].Checked)

	assert.Equal(t, "Quiz", items[2].Summary)
	assert.True(t, items[2].Deletable)

	only, err := svc.List(context.Background(), student, "Databases")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "Quiz", only[0].Summary)
}
