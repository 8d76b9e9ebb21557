package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/mailer"
)

// DefaultSubject is used for every notification email.
const DefaultSubject = "Assignment Organizer"

type recipientReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListAll(ctx context.Context) ([]models.Notification, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

type rosterReader interface {
	ListByClass(ctx context.Context, className string) ([]models.Student, error)
}

// NotificationService owns the pending email queue.
type NotificationService struct {
	users   recipientReader
	store   notificationStore
	roster  rosterReader
	subject string
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(users recipientReader, store notificationStore, roster rosterReader, subject string, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &NotificationService{users: users, store: store, roster: roster, subject: subject, metrics: metrics, logger: logger}
}

// Enqueue resolves the user's email and queues text for delivery. Failures
// are logged and never reach the caller.
func (s *NotificationService) Enqueue(ctx context.Context, userID int64, text string) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user.Email == "" {
		if err == nil || errors.Is(err, sql.ErrNoRows) {
			err = appErrors.ErrUnknownRecipient
		}
		s.logger.Sugar().Warnw("dropping notification", "user_id", userID, "error", err)
		return
	}

	n := &models.Notification{Email: user.Email, Text: text}
	if err := s.store.Create(ctx, n); err != nil {
		s.logger.Sugar().Warnw("failed to queue notification", "user_id", userID, "error", err)
		return
	}
	s.metrics.NotificationEnqueued()
}

// DrainAll sends every pending notification once and deletes all the rows it
// read, whatever the delivery outcome. It returns the number delivered and
// the joined delivery errors.
func (s *NotificationService) DrainAll(ctx context.Context, transport mailer.Transport) (int, error) {
	pending, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read notification queue")
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var (
		delivered int
		failures  []error
		ids       = make([]int64, 0, len(pending))
	)
	for _, n := range pending {
		ids = append(ids, n.ID)
		err := transport.Send(ctx, mailer.Message{To: n.Email, Subject: s.subject, HTML: n.Text})
		s.metrics.NotificationDelivered(err)
		if err != nil {
			s.logger.Sugar().Warnw("notification delivery failed", "notification_id", n.ID, "email", n.Email, "error", err)
			failures = append(failures, fmt.Errorf("notification %d: %w", n.ID, err))
			continue
		}
		delivered++
	}

	if err := s.store.DeleteByIDs(ctx, ids); err != nil {
		failures = append(failures, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear notification queue"))
	}
	s.logger.Sugar().Infow("notification queue drained", "read", len(pending), "delivered", delivered)
	return delivered, errors.Join(failures...)
}

// NotifyStudentsOfChange tells every student of className that an assignment
// was created or deleted. action is the verb stem, e.g. "create".
func (s *NotificationService) NotifyStudentsOfChange(ctx context.Context, className, assignmentName, action string) {
	students, err := s.roster.ListByClass(ctx, className)
	if err != nil {
		s.logger.Sugar().Warnw("failed to load class roster", "class", className, "error", err)
		return
	}
	for _, student := range students {
		s.Enqueue(ctx, student.UserID, changeMessage(student.Name, className, assignmentName, action))
	}
}
