package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/mailer"
)

const (
	restartTransient = "transient_transport"
	restartFault     = "fault"
	digestClaimTTL   = 48 * time.Hour
)

// SchedulerConfig holds the timing of the notifier loop.
type SchedulerConfig struct {
	DigestHour     int
	DigestMinute   int
	Location       *time.Location
	DrainInterval  time.Duration
	PollInterval   time.Duration
	TransientPause time.Duration
	FaultBackoff   time.Duration
}

// ParseDigestAt parses an "HH:MM" wall clock time.
func ParseDigestAt(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("parse digest time %q: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}

type digestRunner interface {
	NotifyTodayAssignments(ctx context.Context, now time.Time) (int, error)
}

type queueDrainer interface {
	DrainAll(ctx context.Context, transport mailer.Transport) (int, error)
}

type digestClaimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Scheduler is the notifier's single background loop. It owns the mail
// transport session and fires the daily digest and the frequent queue drain.
type Scheduler struct {
	cfg       SchedulerConfig
	digest    digestRunner
	drainer   queueDrainer
	transport mailer.Transport
	claims    digestClaimer
	metrics   *MetricsService
	logger    *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	nextDigest time.Time
	nextDrain  time.Time
}

// NewScheduler constructs a Scheduler. claims may be nil when only one
// notifier runs.
func NewScheduler(cfg SchedulerConfig, digest digestRunner, drainer queueDrainer, transport mailer.Transport, claims digestClaimer, metrics *MetricsService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = 10 * time.Minute
	}
	return &Scheduler{
		cfg:       cfg,
		digest:    digest,
		drainer:   drainer,
		transport: transport,
		claims:    claims,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Run blocks until ctx is cancelled. No single failing cycle ends the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	defer func() {
		if err := s.transport.Close(); err != nil {
			s.logger.Warn("closing mail transport", zap.Error(err))
		}
	}()

	if err := s.transport.Login(ctx); err != nil {
		s.logger.Error("initial mail login failed", zap.Error(err))
	}

	start := s.now()
	s.nextDigest = s.nextDigestAfter(start)
	s.nextDrain = start.Add(s.cfg.DrainInterval)
	s.logger.Sugar().Infow("scheduler started", "next_digest", s.nextDigest, "next_drain", s.nextDrain)

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.safeTick(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.recover(ctx, err)
		}
		if err := s.sleep(ctx, s.cfg.PollInterval); err != nil {
			return nil
		}
	}
}

func (s *Scheduler) safeTick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler panic: %v\n%s", r, debug.Stack())
		}
	}()
	return s.tick(ctx)
}

// tick runs whichever triggers are due. Deadlines advance before the job
// runs so a failing job keeps its schedule.
func (s *Scheduler) tick(ctx context.Context) error {
	now := s.now()

	if !now.Before(s.nextDigest) {
		s.nextDigest = s.nextDigestAfter(now)
		if err := s.runDigest(ctx, now); err != nil {
			return err
		}
	}

	if !now.Before(s.nextDrain) {
		s.nextDrain = now.Add(s.cfg.DrainInterval)
		if _, err := s.drainer.DrainAll(ctx, s.transport); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) runDigest(ctx context.Context, now time.Time) error {
	if s.claims != nil {
		key := "digest:" + now.In(s.cfg.Location).Format("2006-01-02")
		claimed, err := s.claims.Claim(ctx, key, digestClaimTTL)
		if err != nil {
			// Same as running without Redis: the in-process deadline still
			// guards against a second run today.
			s.logger.Sugar().Warnw("digest claim failed, sending anyway", "key", key, "error", err)
			claimed = true
		}
		if !claimed {
			s.logger.Sugar().Infow("digest already sent by another notifier", "key", key)
			return nil
		}
	}
	_, err := s.digest.NotifyTodayAssignments(ctx, now)
	return err
}

func (s *Scheduler) recover(ctx context.Context, err error) {
	if appErrors.IsTransientTransport(err) {
		s.metrics.SchedulerRestarted(restartTransient)
		s.logger.Sugar().Warnw("mail transport refused, logging in again", "error", err)
		if s.sleep(ctx, s.cfg.TransientPause) != nil {
			return
		}
	} else {
		s.metrics.SchedulerRestarted(restartFault)
		s.logger.Error("scheduler cycle failed", zap.Error(err))
		if s.sleep(ctx, s.cfg.FaultBackoff) != nil {
			return
		}
	}

	if loginErr := s.transport.Login(ctx); loginErr != nil {
		s.logger.Error("mail login failed", zap.Error(loginErr))
	}
	_ = s.sleep(ctx, s.cfg.TransientPause)
}

func (s *Scheduler) nextDigestAfter(t time.Time) time.Time {
	local := t.In(s.cfg.Location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.cfg.DigestHour, s.cfg.DigestMinute, 0, 0, s.cfg.Location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
