package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/dto"
	"github.com/noah-isme/assignment-organizer/internal/models"
	"github.com/noah-isme/assignment-organizer/pkg/calendar"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

const (
	classDirectoryKey = "classes:all"
	classDirectoryTTL = 5 * time.Minute
)

type classRepository interface {
	List(ctx context.Context) ([]models.Class, error)
	ListByStudent(ctx context.Context, userID int64) ([]models.EnrolledClass, error)
	FindByName(ctx context.Context, name string) (*models.Class, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, class *models.Class) error
}

type enrollmentRepository interface {
	Enroll(ctx context.Context, userID int64, className string) error
	Unenroll(ctx context.Context, userID int64, className string) error
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ClassService coordinates class creation and enrollment.
type ClassService struct {
	repo        classRepository
	enrollments enrollmentRepository
	roster      rosterReader
	cache       cacheStore
	provider    calendar.Provider
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(repo classRepository, enrollments enrollmentRepository, roster rosterReader, cache cacheStore, provider calendar.Provider, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, enrollments: enrollments, roster: roster, cache: cache, provider: provider, validator: validate, logger: logger}
}

// Create registers a class owned by the calling professor, provisions its
// calendar once and enrolls the professor.
func (s *ClassService) Create(ctx context.Context, caller models.Student, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if !caller.Professor {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only professors can create classes")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate class name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class name already exists")
	}

	calendarID, err := s.provider.CreateCalendar(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	class := &models.Class{Name: req.Name, CalendarID: calendarID, ProfessorID: caller.UserID, Description: req.Description}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	if err := s.enrollments.Enroll(ctx, caller.UserID, class.Name); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll professor")
	}
	s.invalidateDirectory(ctx)
	s.logger.Sugar().Infow("class created", "class", class.Name, "professor_id", caller.UserID)
	return class, nil
}

// Find returns a class by name.
func (s *ClassService) Find(ctx context.Context, name string) (*models.Class, error) {
	class, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Directory lists all classes split by the student's enrollment.
func (s *ClassService) Directory(ctx context.Context, student models.Student) (*models.ClassDirectory, error) {
	all, err := s.allClasses(ctx)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.repo.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled classes")
	}

	member := make(map[string]struct{}, len(enrolled))
	for _, class := range enrolled {
		member[class.Name] = struct{}{}
	}
	dir := &models.ClassDirectory{Enrolled: enrolled, Available: []models.Class{}}
	if dir.Enrolled == nil {
		dir.Enrolled = []models.EnrolledClass{}
	}
	for _, class := range all {
		if _, ok := member[class.Name]; !ok {
			dir.Available = append(dir.Available, class)
		}
	}
	return dir, nil
}

// Enroll adds the class to the student's set.
func (s *ClassService) Enroll(ctx context.Context, student models.Student, name string) error {
	if _, err := s.Find(ctx, name); err != nil {
		return err
	}
	if err := s.enrollments.Enroll(ctx, student.UserID, name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	return nil
}

// Unenroll removes the class from the student's set.
func (s *ClassService) Unenroll(ctx context.Context, student models.Student, name string) error {
	if err := s.enrollments.Unenroll(ctx, student.UserID, name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll")
	}
	return nil
}

// Roster returns the students enrolled in className.
func (s *ClassService) Roster(ctx context.Context, className string) ([]models.Student, error) {
	students, err := s.roster.ListByClass(ctx, className)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return students, nil
}

// RosterFor returns the roster of a class the caller teaches.
func (s *ClassService) RosterFor(ctx context.Context, caller models.Student, className string) ([]models.Student, error) {
	class, err := s.Find(ctx, className)
	if err != nil {
		return nil, err
	}
	if class.ProfessorID != caller.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the class professor can view the roster")
	}
	return s.Roster(ctx, className)
}

func (s *ClassService) allClasses(ctx context.Context) ([]models.Class, error) {
	var cached []models.Class
	err := s.cache.Get(ctx, classDirectoryKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Sugar().Warnw("class directory cache read failed", "error", err)
	}

	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if err := s.cache.Set(ctx, classDirectoryKey, classes, classDirectoryTTL); err != nil {
		s.logger.Sugar().Warnw("class directory cache write failed", "error", err)
	}
	return classes, nil
}

func (s *ClassService) invalidateDirectory(ctx context.Context) {
	if err := s.cache.Delete(ctx, classDirectoryKey); err != nil {
		s.logger.Sugar().Warnw("class directory cache invalidation failed", "error", err)
	}
}
