package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/mailer"
)

type mockClassLister struct {
	byUser map[int64][]models.EnrolledClass
	err    error
}

func (m *mockClassLister) ListByStudent(ctx context.Context, userID int64) ([]models.EnrolledClass, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byUser[userID], nil
}

type mockUserReader struct {
	users map[int64]*models.User
}

func (m *mockUserReader) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type mockNotificationStore struct {
	pending   []models.Notification
	nextID    int64
	deleted   [][]int64
	deleteErr error
}

func (m *mockNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt = time.Now()
	m.pending = append(m.pending, *n)
	return nil
}

func (m *mockNotificationStore) ListAll(ctx context.Context) ([]models.Notification, error) {
	out := make([]models.Notification, len(m.pending))
	copy(out, m.pending)
	return out, nil
}

func (m *mockNotificationStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	m.deleted = append(m.deleted, ids)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	remove := make(map[int64]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	kept := m.pending[:0]
	for _, n := range m.pending {
		if !remove[n.ID] {
			kept = append(kept, n)
		}
	}
	m.pending = kept
	return nil
}

type mockRoster struct {
	byClass map[string][]models.Student
}

func (m *mockRoster) ListByClass(ctx context.Context, className string) ([]models.Student, error) {
	return m.byClass[className], nil
}

type mockTransport struct {
	mu      sync.Mutex
	sent    []mailer.Message
	logins  int
	closed  bool
	sendErr func(mailer.Message) error
}

func (m *mockTransport) Login(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins++
	return nil
}

func (m *mockTransport) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	if m.sendErr != nil {
		return m.sendErr(msg)
	}
	return nil
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type changeCall struct {
	className  string
	assignment string
	action     string
}

type mockNotifier struct {
	changes []changeCall
}

func (m *mockNotifier) NotifyStudentsOfChange(ctx context.Context, className, assignmentName, action string) {
	m.changes = append(m.changes, changeCall{className: className, assignment: assignmentName, action: action})
}

type enqueued struct {
	userID int64
	text   string
}

type mockEnqueuer struct {
	messages []enqueued
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, userID int64, text string) {
	m.messages = append(m.messages, enqueued{userID: userID, text: text})
}

type mockStudentStore struct {
	students map[int64]*models.Student
	created  int
}

func (m *mockStudentStore) FindByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	if s, ok := m.students[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentStore) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[int64]*models.Student)
	}
	if _, ok := m.students[student.UserID]; !ok {
		copied := *student
		m.students[student.UserID] = &copied
		m.created++
	}
	return nil
}

func (m *mockStudentStore) SetCalendarID(ctx context.Context, userID int64, calendarID string) (bool, error) {
	s, ok := m.students[userID]
	if !ok || s.CalendarID != "" {
		return false, nil
	}
	s.CalendarID = calendarID
	return true, nil
}

func (m *mockStudentStore) UpdateColor(ctx context.Context, userID int64, color string) error {
	if s, ok := m.students[userID]; ok {
		s.Color = color
	}
	return nil
}

func (m *mockStudentStore) List(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	for id := int64(1); id <= int64(len(m.students)+10); id++ {
		if s, ok := m.students[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

type mockColorStore struct {
	colors map[string]string
}

func (m *mockColorStore) SetColor(ctx context.Context, userID int64, className, color string) (bool, error) {
	if _, ok := m.colors[className]; !ok {
		return false, nil
	}
	m.colors[className] = color
	return true, nil
}

type mockChecks struct {
	marks map[models.CheckedAssignment]bool
}

func (m *mockChecks) Toggle(ctx context.Context, mark models.CheckedAssignment) (bool, error) {
	if m.marks == nil {
		m.marks = make(map[models.CheckedAssignment]bool)
	}
	if m.marks[mark] {
		delete(m.marks, mark)
		return false, nil
	}
	m.marks[mark] = true
	return true, nil
}

func (m *mockChecks) ListByUser(ctx context.Context, userID int64) ([]models.CheckedAssignment, error) {
	var out []models.CheckedAssignment
	for mark := range m.marks {
		if mark.UserID == userID {
			out = append(out, mark)
		}
	}
	return out, nil
}
