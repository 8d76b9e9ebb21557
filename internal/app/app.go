// Package app builds the service context shared by the API and notifier
// processes. Everything that talks to the outside world is created here once
// and released by Close.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/internal/handler"
	"github.com/noah-isme/assignment-organizer/internal/repository"
	"github.com/noah-isme/assignment-organizer/internal/service"
	"github.com/noah-isme/assignment-organizer/pkg/cache"
	"github.com/noah-isme/assignment-organizer/pkg/calendar"
	"github.com/noah-isme/assignment-organizer/pkg/config"
	"github.com/noah-isme/assignment-organizer/pkg/database"
	"github.com/noah-isme/assignment-organizer/pkg/jobs"
	"github.com/noah-isme/assignment-organizer/pkg/mailer"
)

// Services is the process-wide service context.
type Services struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *sqlx.DB
	Redis     *redis.Client
	Cache     *repository.CacheRepository
	Provider  calendar.Provider
	Metrics   *service.MetricsService
	Validator *validator.Validate

	Identity      *service.IdentityService
	Students      *service.StudentService
	Classes       *service.ClassService
	Events        *service.EventAggregator
	Todo          *service.TodoService
	Feed          *service.FeedService
	Assignments   *service.AssignmentService
	Notifications *service.NotificationService
	Digest        *service.DigestService

	SyllabusQueue *jobs.Queue
}

// New connects to every backing service and wires the domain services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Services{
		Config:    cfg,
		Logger:    logger,
		Metrics:   service.NewMetricsService(),
		Validator: validator.New(),
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	s.DB = db

	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, running without cache and digest claims", zap.Error(err))
		rdb = nil
	}
	s.Redis = rdb
	s.Cache = repository.NewCacheRepository(rdb, logger.Named("cache"))

	provider, err := newProvider(ctx, cfg.Calendar, s.Metrics)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Provider = provider

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	classes := repository.NewClassRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	notifications := repository.NewNotificationRepository(db)
	checks := repository.NewCheckedAssignmentRepository(db)

	s.Identity = service.NewIdentityService(users, cfg.JWT.Secret, logger.Named("identity"))
	s.Students = service.NewStudentService(students, classes, enrollments, provider, s.Validator, logger.Named("students"))
	s.Classes = service.NewClassService(classes, enrollments, students, s.Cache, provider, s.Validator, logger.Named("classes"))
	s.Events = service.NewEventAggregator(provider, classes, logger.Named("events"))
	s.Todo = service.NewTodoService(s.Events, classes, checks, logger.Named("todo"))
	s.Feed = service.NewFeedService(s.Events)
	s.Notifications = service.NewNotificationService(users, notifications, students, cfg.Mail.Subject, s.Metrics, logger.Named("notifications"))
	s.Digest = service.NewDigestService(students, s.Events, s.Notifications, s.Metrics, logger.Named("digest"))
	s.Assignments = service.NewAssignmentService(s.Classes, s.Students, provider, checks, s.Notifications, s.Validator, logger.Named("assignments"))

	queueLogger := logger.Named("syllabus_queue")
	s.SyllabusQueue = jobs.NewQueue("syllabus", s.Assignments.HandleSyllabusJob, jobs.QueueConfig{
		Workers:    cfg.Syllabus.Workers,
		MaxRetries: cfg.Syllabus.MaxRetries,
		RetryDelay: cfg.Syllabus.RetryDelay,
		Logger:     queueLogger,
		Observe:    s.Metrics.ObserveJob,
		OnExhausted: func(job jobs.Job, err error) {
			queueLogger.Error("syllabus import abandoned", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
		},
	})
	s.Assignments.UseQueue(s.SyllabusQueue)

	return s, nil
}

func newProvider(ctx context.Context, cfg config.CalendarConfig, metrics *service.MetricsService) (calendar.Provider, error) {
	if cfg.Fake {
		fake := calendar.NewFakeProvider()
		fake.UseRecorder(metrics)
		return fake, nil
	}
	provider, err := calendar.NewGoogleProvider(ctx, calendar.GoogleConfig{
		CredentialsFile: cfg.CredentialsFile,
		TimeZone:        cfg.TimeZone,
		Summary:         cfg.Summary,
	}, metrics)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// StartWorkers launches the background job workers owned by the API process.
func (s *Services) StartWorkers(ctx context.Context) {
	s.SyllabusQueue.Start(ctx)
}

// NewScheduler builds the notifier loop around transport.
func (s *Services) NewScheduler(transport mailer.Transport) (*service.Scheduler, error) {
	hour, minute, err := service.ParseDigestAt(s.Config.Digest.At)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(s.Config.Digest.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load digest timezone %q: %w", s.Config.Digest.TimeZone, err)
	}

	cfg := service.SchedulerConfig{
		DigestHour:     hour,
		DigestMinute:   minute,
		Location:       loc,
		DrainInterval:  s.Config.Digest.DrainInterval,
		PollInterval:   s.Config.Digest.PollInterval,
		TransientPause: s.Config.Digest.TransientPause,
		FaultBackoff:   s.Config.Digest.FaultBackoff,
	}
	return service.NewScheduler(cfg, s.Digest, s.Notifications, transport, s.Cache, s.Metrics, s.Logger.Named("scheduler")), nil
}

// ReadinessChecks reports the dependencies a ready process needs.
func (s *Services) ReadinessChecks() []handler.ReadinessCheck {
	checks := []handler.ReadinessCheck{{
		Name:  "database",
		Check: func(ctx context.Context) error { return s.DB.PingContext(ctx) },
	}}
	if s.Redis != nil {
		checks = append(checks, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return s.Redis.Ping(ctx).Err() },
		})
	}
	return checks
}

// Close stops workers and releases connections.
func (s *Services) Close() error {
	if s.SyllabusQueue != nil {
		s.SyllabusQueue.Stop()
	}
	var errs []error
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
