package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/middleware"
	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

func newTestContext(method, target string, body io.Reader, contentType string, student *models.Student) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.Request = req
	if student != nil {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: student.UserID})
		c.Set(middleware.ContextStudentKey, student)
	}
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

type studentServiceMock struct {
	profile   *models.StudentProfile
	className string
	color     string
}

func (m *studentServiceMock) Profile(ctx context.Context, claims *models.JWTClaims) (*models.StudentProfile, error) {
	return m.profile, nil
}

func (m *studentServiceMock) SetColor(ctx context.Context, student *models.Student, className string, req dto.SetColorRequest) error {
	m.className = className
	m.color = req.Color
	return nil
}

func (m *studentServiceMock) Color(ctx context.Context, student models.Student, className string) (string, error) {
	if className == "Poetry" {
		return "", appErrors.Clone(appErrors.ErrNotFound, "not enrolled")
	}
	if className == "" {
		return student.Color, nil
	}
	return "#aa0000", nil
}

func TestStudentHandlerMe(t *testing.T) {
	svc := &studentServiceMock{profile: &models.StudentProfile{Student: models.Student{UserID: 1, Name: "Ada"}, Email: "ada@example.com"}}
	h := NewStudentHandler(svc)

	c, w := newTestContext(http.MethodGet, "/me", nil, "", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newTestContext(http.MethodGet, "/me", nil, "", &models.Student{UserID: 1})
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w)["data"]), `"email":"ada@example.com"`)
}

func TestStudentHandlerSetColor(t *testing.T) {
	svc := &studentServiceMock{}
	h := NewStudentHandler(svc)
	student := &models.Student{UserID: 1}

	c, w := newTestContext(http.MethodPut, "/colors/Algorithms", bytes.NewBufferString(`{"color":"#abcdef"}`), "application/json", student)
	c.Params = gin.Params{{Key: "name", Value: "Algorithms"}}
	h.SetColor(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "Algorithms", svc.className)
	assert.Equal(t, "#abcdef", svc.color)

	c, w = newTestContext(http.MethodPut, "/colors", bytes.NewBufferString(`invalid`), "application/json", student)
	h.SetColor(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerColor(t *testing.T) {
	h := NewStudentHandler(&studentServiceMock{})
	student := &models.Student{UserID: 1, Color: "#111111"}

	c, w := newTestContext(http.MethodGet, "/colors", nil, "", student)
	h.Color(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"color":"#111111"}`, string(decodeEnvelope(t, w)["data"]))

	c, w = newTestContext(http.MethodGet, "/colors/Algorithms", nil, "", student)
	c.Params = gin.Params{{Key: "name", Value: "Algorithms"}}
	h.Color(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"className":"Algorithms","color":"#aa0000"}`, string(decodeEnvelope(t, w)["data"]))

	c, w = newTestContext(http.MethodGet, "/colors/Poetry", nil, "", student)
	c.Params = gin.Params{{Key: "name", Value: "Poetry"}}
	h.Color(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type eventReaderMock struct {
	filter    models.EventFilter
	className string
	events    []models.Event
	err       error
}

func (m *eventReaderMock) GetEvents(ctx context.Context, student models.Student, filter models.EventFilter) ([]models.Event, error) {
	m.filter = filter
	return m.events, m.err
}

func (m *eventReaderMock) GetFutureEvents(ctx context.Context, student models.Student, className string) ([]models.Event, error) {
	m.className = className
	return m.events, m.err
}

type feedMock struct{}

func (feedMock) Render(ctx context.Context, student models.Student) (string, error) {
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

func TestEventHandlerList(t *testing.T) {
	events := &eventReaderMock{events: []models.Event{
		{ID: "e1", Summary: "Dentist"},
		{ID: "hw1", Summary: "HW1", Origin: models.OriginFor("Algorithms")},
	}}
	h := NewEventHandler(events, feedMock{}, nil)

	c, w := newTestContext(http.MethodGet, "/events?day=1&month=5", nil, "", &models.Student{UserID: 1})
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, events.filter.Day)
	assert.Equal(t, 1, *events.filter.Day)
	assert.Equal(t, 5, *events.filter.Month)
	assert.Nil(t, events.filter.Year)

	envelope := decodeEnvelope(t, w)
	assert.Contains(t, string(envelope["data"]), `"origin":null`)
	assert.Contains(t, string(envelope["data"]), `"origin":"Algorithms"`)
}

func TestEventHandlerListRejectsBadMonth(t *testing.T) {
	h := NewEventHandler(&eventReaderMock{}, feedMock{}, nil)

	c, w := newTestContext(http.MethodGet, "/events?month=13", nil, "", &models.Student{UserID: 1})
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandlerRedirectsOnProviderFailure(t *testing.T) {
	events := &eventReaderMock{err: appErrors.WrapAs(appErrors.ErrProviderUnavailable, errors.New("timeout"), "")}
	h := NewEventHandler(events, feedMock{}, nil)

	c, w := newTestContext(http.MethodGet, "/events/upcoming?class=Algorithms", nil, "", &models.Student{UserID: 1})
	h.Upcoming(c)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "Algorithms", events.className)
}

func TestEventHandlerFeed(t *testing.T) {
	h := NewEventHandler(&eventReaderMock{}, feedMock{}, nil)

	c, w := newTestContext(http.MethodGet, "/events/feed.ics", nil, "", &models.Student{UserID: 1})
	h.Feed(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
}

type todoMock struct {
	className string
}

func (m *todoMock) List(ctx context.Context, student models.Student, className string) ([]models.TodoItem, error) {
	m.className = className
	return nil, nil
}

func TestTodoHandlerList(t *testing.T) {
	svc := &todoMock{}
	h := NewTodoHandler(svc)

	c, w := newTestContext(http.MethodGet, "/todo?class=Databases", nil, "", &models.Student{UserID: 1})
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Databases", svc.className)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, w)["data"]))
}

type assignmentMock struct {
	className string
	eventID   string
	syllabus  string
}

func (m *assignmentMock) Create(ctx context.Context, caller *models.Student, req dto.CreateAssignmentRequest) (*models.Event, error) {
	return &models.Event{ID: "e1", Summary: req.Summary}, nil
}

func (m *assignmentMock) DeleteOrCheckOff(ctx context.Context, caller *models.Student, className, eventID string) (*dto.ToggleAssignmentResult, error) {
	m.className = className
	m.eventID = eventID
	return &dto.ToggleAssignmentResult{EventID: eventID, Checked: true}, nil
}

func (m *assignmentMock) ImportSyllabus(ctx context.Context, caller *models.Student, className string, r io.Reader) (*dto.SyllabusImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.className = className
	m.syllabus = string(raw)
	return &dto.SyllabusImportResult{JobID: "job-1", ClassName: className, Assignments: 1}, nil
}

func TestAssignmentHandlerCreate(t *testing.T) {
	h := NewAssignmentHandler(&assignmentMock{})

	c, w := newTestContext(http.MethodPost, "/assignments", bytes.NewBufferString(`{"summary":"HW1","date":"2024-05-01"}`), "application/json", &models.Student{UserID: 1})
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext(http.MethodPost, "/assignments", nil, "", nil)
	h.Create(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssignmentHandlerTogglePersonal(t *testing.T) {
	svc := &assignmentMock{}
	h := NewAssignmentHandler(svc)

	c, w := newTestContext(http.MethodPost, "/assignments/personal/e1/toggle", nil, "", &models.Student{UserID: 1})
	c.Params = gin.Params{{Key: "class", Value: PersonalClassParam}, {Key: "eventId", Value: "e1"}}
	h.Toggle(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", svc.className)
	assert.Equal(t, "e1", svc.eventID)

	c, _ = newTestContext(http.MethodPost, "/assignments/Algorithms/hw1/toggle", nil, "", &models.Student{UserID: 1})
	c.Params = gin.Params{{Key: "class", Value: "Algorithms"}, {Key: "eventId", Value: "hw1"}}
	h.Toggle(c)
	assert.Equal(t, "Algorithms", svc.className)
}

func TestAssignmentHandlerImportSyllabusBody(t *testing.T) {
	svc := &assignmentMock{}
	h := NewAssignmentHandler(svc)

	c, w := newTestContext(http.MethodPost, "/classes/Algorithms/syllabus", bytes.NewBufferString("HW1,2024-05-01,2h\n"), "text/csv", &models.Student{UserID: 9})
	c.Params = gin.Params{{Key: "name", Value: "Algorithms"}}
	h.ImportSyllabus(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "Algorithms", svc.className)
	assert.Equal(t, "HW1,2024-05-01,2h\n", svc.syllabus)
}

func TestAssignmentHandlerImportSyllabusMultipart(t *testing.T) {
	svc := &assignmentMock{}
	h := NewAssignmentHandler(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "syllabus.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("HW1,2024-05-01,2h\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	c, w := newTestContext(http.MethodPost, "/classes/Algorithms/syllabus", &buf, writer.FormDataContentType(), &models.Student{UserID: 9})
	c.Params = gin.Params{{Key: "name", Value: "Algorithms"}}
	h.ImportSyllabus(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "HW1,2024-05-01,2h\n", svc.syllabus)
}

type classServiceMock struct {
	created  dto.CreateClassRequest
	enrolled string
	err      error
}

func (m *classServiceMock) Directory(ctx context.Context, student models.Student) (*models.ClassDirectory, error) {
	return &models.ClassDirectory{Enrolled: []models.EnrolledClass{}, Available: []models.Class{{Name: "Algorithms"}}}, nil
}

func (m *classServiceMock) Create(ctx context.Context, caller models.Student, req dto.CreateClassRequest) (*models.Class, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = req
	return &models.Class{Name: req.Name, ProfessorID: caller.UserID}, nil
}

func (m *classServiceMock) Enroll(ctx context.Context, student models.Student, name string) error {
	m.enrolled = name
	return m.err
}

func (m *classServiceMock) Unenroll(ctx context.Context, student models.Student, name string) error {
	return m.err
}

func (m *classServiceMock) RosterFor(ctx context.Context, caller models.Student, name string) ([]models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []models.Student{{UserID: 1, Name: "Ada"}, {UserID: 2, Name: "Grace"}}, nil
}

func TestClassHandlerCreate(t *testing.T) {
	svc := &classServiceMock{}
	h := NewClassHandler(svc)

	c, w := newTestContext(http.MethodPost, "/classes", bytes.NewBufferString(`{"name":"Compilers"}`), "application/json", &models.Student{UserID: 9, Professor: true})
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Compilers", svc.created.Name)

	svc.err = appErrors.Clone(appErrors.ErrConflict, "class name already exists")
	c, w = newTestContext(http.MethodPost, "/classes", bytes.NewBufferString(`{"name":"Compilers"}`), "application/json", &models.Student{UserID: 9, Professor: true})
	h.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestClassHandlerDirectoryAndEnroll(t *testing.T) {
	svc := &classServiceMock{}
	h := NewClassHandler(svc)
	student := &models.Student{UserID: 1}

	c, w := newTestContext(http.MethodGet, "/classes", nil, "", student)
	h.Directory(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w)["data"]), `"available":[{"name":"Algorithms"`)

	c, w = newTestContext(http.MethodPost, "/classes/Algorithms/enroll", nil, "", student)
	c.Params = gin.Params{{Key: "name", Value: "Algorithms"}}
	h.Enroll(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "Algorithms", svc.enrolled)

	svc.err = appErrors.Clone(appErrors.ErrNotFound, "class not found")
	c, w = newTestContext(http.MethodDelete, "/classes/Poetry/enroll", nil, "", student)
	c.Params = gin.Params{{Key: "name", Value: "Poetry"}}
	h.Unenroll(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassHandlerRoster(t *testing.T) {
	svc := &classServiceMock{}
	h := NewClassHandler(svc)
	professor := &models.Student{UserID: 9, Professor: true}

	c, w := newTestContext(http.MethodGet, "/classes/Algorithms/roster", nil, "", professor)
	c.Params = gin.Params{{Key: "name", Value: "Algorithms"}}
	h.Roster(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w)["data"]), `"name":"Grace"`)

	svc.err = appErrors.Clone(appErrors.ErrForbidden, "only the class professor can view the roster")
	c, w = newTestContext(http.MethodGet, "/classes/Algorithms/roster", nil, "", professor)
	c.Params = gin.Params{{Key: "name", Value: "Algorithms"}}
	h.Roster(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	ok := ReadinessCheck{Name: "database", Check: func(ctx context.Context) error { return nil }}
	down := ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error { return errors.New("connection refused") }}

	c, w := newTestContext(http.MethodGet, "/ready", nil, "", nil)
	NewMetricsHandler(nil, ok).Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/ready", nil, "", nil)
	NewMetricsHandler(nil, ok, down).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")

	c, w = newTestContext(http.MethodGet, "/metrics", nil, "", nil)
	NewMetricsHandler(nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
