package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/calendar"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

type studentStore interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	SetCalendarID(ctx context.Context, userID int64, calendarID string) (bool, error)
	UpdateColor(ctx context.Context, userID int64, color string) error
}

type classColorStore interface {
	SetColor(ctx context.Context, userID int64, className, color string) (bool, error)
}

// StudentService manages student profiles and personal calendars.
type StudentService struct {
	students    studentStore
	classes     enrolledClassLister
	enrollments classColorStore
	provider    calendar.Provider
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(students studentStore, classes enrolledClassLister, enrollments classColorStore, provider calendar.Provider, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, classes: classes, enrollments: enrollments, provider: provider, validator: validate, logger: logger}
}

// Current returns the caller's profile, creating it on first use.
func (s *StudentService) Current(ctx context.Context, claims *models.JWTClaims) (*models.Student, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	student, err := s.students.FindByUserID(ctx, claims.UserID)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	student = &models.Student{UserID: claims.UserID, Name: claims.Username, Color: models.DefaultColor}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Sugar().Infow("student initialised", "user_id", claims.UserID)

	student, err = s.students.FindByUserID(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// EnsureCalendar provisions the personal calendar if the student has none.
func (s *StudentService) EnsureCalendar(ctx context.Context, student *models.Student) error {
	if student.HasCalendar() {
		return nil
	}

	calendarID, err := s.provider.CreateCalendar(ctx, strconv.FormatInt(student.UserID, 10))
	if err != nil {
		return err
	}
	updated, err := s.students.SetCalendarID(ctx, student.UserID, calendarID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store calendar")
	}
	if updated {
		student.CalendarID = calendarID
		return nil
	}

	// A concurrent request stored its calendar first; use that one.
	s.logger.Sugar().Warnw("personal calendar already provisioned", "user_id", student.UserID, "orphan_calendar_id", calendarID)
	fresh, err := s.students.FindByUserID(ctx, student.UserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload student")
	}
	student.CalendarID = fresh.CalendarID
	return nil
}

// Profile returns the caller's profile with a provisioned personal calendar.
func (s *StudentService) Profile(ctx context.Context, claims *models.JWTClaims) (*models.StudentProfile, error) {
	student, err := s.Current(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureCalendar(ctx, student); err != nil {
		return nil, err
	}
	classes, err := s.classes.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	if classes == nil {
		classes = []models.EnrolledClass{}
	}
	return &models.StudentProfile{Student: *student, Email: claims.Email, Classes: classes}, nil
}

// SetColor sets the personal color when className is empty and the class
// color otherwise.
func (s *StudentService) SetColor(ctx context.Context, student *models.Student, className string, req dto.SetColorRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid color")
	}

	if className == "" {
		if err := s.students.UpdateColor(ctx, student.UserID, req.Color); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update color")
		}
		student.Color = req.Color
		return nil
	}

	found, err := s.enrollments.SetColor(ctx, student.UserID, className, req.Color)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class color")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "class not found among enrolled classes")
	}
	return nil
}

// Color resolves the display color of className for the student. Unknown or
// empty class names fall back to the personal color.
func (s *StudentService) Color(ctx context.Context, student models.Student, className string) (string, error) {
	if className == "" {
		return personalColor(student), nil
	}
	classes, err := s.classes.ListByStudent(ctx, student.UserID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	return colorFor(student, classes, models.OriginFor(className)), nil
}

func personalColor(student models.Student) string {
	if student.Color == "" {
		return models.DefaultColor
	}
	return student.Color
}

func colorFor(student models.Student, classes []models.EnrolledClass, origin models.Origin) string {
	if origin.IsPersonal() {
		return personalColor(student)
	}
	for _, class := range classes {
		if class.Name == origin.ClassName() && class.Color != "" {
			return class.Color
		}
	}
	return personalColor(student)
}
