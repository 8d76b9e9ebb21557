package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

type recordedCall struct {
	op  string
	err error
}

type recorderStub struct {
	calls []recordedCall
}

func (r *recorderStub) ObserveCalendarRequest(op string, err error) {
	r.calls = append(r.calls, recordedCall{op: op, err: err})
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*GoogleProvider, *recorderStub) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rec := &recorderStub{}
	p, err := NewGoogleProvider(context.Background(), GoogleConfig{TimeZone: "America/New_York", Summary: "assignment organizer"}, rec,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return p, rec
}

func writeJSON(t *testing.T, w http.ResponseWriter, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestGoogleListEventsPagesAndKeepsOffset(t *testing.T) {
	p, rec := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/calendars/p1/events"), r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))

		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(t, w, map[string]interface{}{
				"items": []map[string]interface{}{{
					"id":      "e1",
					"summary": "Dentist",
					"start":   map[string]string{"dateTime": "2024-05-01T23:30:00-04:00"},
					"end":     map[string]string{"dateTime": "2024-05-02T00:30:00-04:00"},
				}},
				"nextPageToken": "next",
			})
			return
		}
		writeJSON(t, w, map[string]interface{}{
			"items": []map[string]interface{}{{
				"id":      "e2",
				"summary": "Holiday",
				"start":   map[string]string{"date": "2024-05-03"},
				"end":     map[string]string{"date": "2024-05-04"},
			}},
		})
	})

	events, err := p.ListEvents(context.Background(), "p1", nil)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Dentist", events[0].Summary)
	assert.Equal(t, 1, events[0].Start.Day())
	_, offset := events[0].Start.Zone()
	assert.Equal(t, -4*3600, offset)
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), events[1].Start)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, OpListEvents, rec.calls[0].op)
	assert.NoError(t, rec.calls[0].err)
}

func TestGoogleListEventsSendsTimeMin(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, now.Format(time.RFC3339), r.URL.Query().Get("timeMin"))
		writeJSON(t, w, map[string]interface{}{"items": []interface{}{}})
	})

	events, err := p.ListEvents(context.Background(), "p1", &now)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGoogleInsertEvent(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "/calendars/c1/events"), r.URL.Path)

		var body struct {
			Summary     string `json:"summary"`
			Description string `json:"description"`
			Start       struct {
				DateTime string `json:"dateTime"`
			} `json:"start"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "HW1", body.Summary)
		assert.Equal(t, "2 hours", body.Description)
		assert.Equal(t, "2024-05-02T00:00:00Z", body.Start.DateTime)

		writeJSON(t, w, map[string]string{"id": "evt-9"})
	})

	start := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	id, err := p.InsertEvent(context.Background(), "c1", NewEvent{
		Summary:     "HW1",
		Description: "2 hours",
		Start:       start,
		End:         start.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-9", id)
}

func TestGoogleCreateCalendar(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "/calendars"), r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "assignment organizer", body["summary"])
		assert.Equal(t, "America/New_York", body["timeZone"])

		writeJSON(t, w, map[string]string{"id": "new-cal"})
	})

	id, err := p.CreateCalendar(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "new-cal", id)
}

func TestGoogleDeleteTreatsGoneAsDeleted(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusGone)
	})

	require.NoError(t, p.DeleteEvent(context.Background(), "c1", "evt-1"))
}

func TestGoogleErrorsBecomeProviderUnavailable(t *testing.T) {
	p, rec := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := p.ListEvents(context.Background(), "p1", nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsProviderUnavailable(err))

	err = p.DeleteEvent(context.Background(), "c1", "evt-1")
	assert.True(t, appErrors.IsProviderUnavailable(err))

	require.Len(t, rec.calls, 2)
	assert.Error(t, rec.calls[0].err)
}
