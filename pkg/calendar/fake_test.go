package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

func TestFakeProviderLifecycle(t *testing.T) {
	ctx := context.Background()
	f := NewFakeProvider()

	calID, err := f.CreateCalendar(ctx, "prof")
	require.NoError(t, err)

	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	late, err := f.InsertEvent(ctx, calID, NewEvent{Summary: "HW2", Start: day.AddDate(0, 0, 1), End: day.AddDate(0, 0, 2)})
	require.NoError(t, err)
	_, err = f.InsertEvent(ctx, calID, NewEvent{Summary: "HW1", Start: day, End: day.AddDate(0, 0, 1)})
	require.NoError(t, err)

	events, err := f.ListEvents(ctx, calID, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "HW1", events[0].Summary)

	cutoff := day.Add(36 * time.Hour)
	events, err = f.ListEvents(ctx, calID, &cutoff)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, late, events[0].ID)

	require.NoError(t, f.DeleteEvent(ctx, calID, late))
	events, err = f.ListEvents(ctx, calID, nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestFakeProviderFailure(t *testing.T) {
	f := NewFakeProvider()
	f.Seed("p1")
	f.Fail(errors.New("offline"))

	_, err := f.ListEvents(context.Background(), "p1", nil)
	assert.True(t, appErrors.IsProviderUnavailable(err))

	f.Fail(nil)
	_, err = f.ListEvents(context.Background(), "p1", nil)
	assert.NoError(t, err)
}

func TestFakeProviderRecordsCalls(t *testing.T) {
	ctx := context.Background()
	f := NewFakeProvider()
	rec := &recorderStub{}
	f.UseRecorder(rec)

	calID, err := f.CreateCalendar(ctx, "prof")
	require.NoError(t, err)
	_, err = f.ListEvents(ctx, calID, nil)
	require.NoError(t, err)
	_, err = f.InsertEvent(ctx, "missing", NewEvent{Summary: "HW1"})
	require.Error(t, err)

	require.Len(t, rec.calls, 3)
	assert.Equal(t, OpCreateCalendar, rec.calls[0].op)
	assert.NoError(t, rec.calls[0].err)
	assert.Equal(t, OpListEvents, rec.calls[1].op)
	assert.Equal(t, OpInsertEvent, rec.calls[2].op)
	assert.True(t, appErrors.IsProviderUnavailable(rec.calls[2].err))
}
