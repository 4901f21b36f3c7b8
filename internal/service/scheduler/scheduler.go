package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lunch/backend/internal/entity"

	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

// Counter supplies the office headcount for a day.
type Counter interface {
	DailyOfficeCount(ctx context.Context, day string) (int, error)
}

// Directory lists the chefs to notify.
type Directory interface {
	ChefEmails(ctx context.Context) ([]string, error)
}

// AuditLog persists one row per dispatch attempt.
type AuditLog interface {
	Append(ctx context.Context, entry entity.Notification) error
	HasForDay(ctx context.Context, day, notificationType string) (bool, error)
}

// Sender delivers one message; failures are recorded, never propagated.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config carries the trigger policy. Now is injected so tests can drive the
// scheduler with a virtual clock instead of sleeping.
type Config struct {
	CutoffHour     int
	CutoffMinute   int
	Location       *time.Location
	Tick           time.Duration
	CatchUpOnStart bool
	Now            func() time.Time
}

// Scheduler fires the daily chef notification at the cutoff on business days.
type Scheduler struct {
	counter   Counter
	directory Directory
	audit     AuditLog
	sender    Sender
	log       *zap.SugaredLogger
	cfg       Config

	mu      sync.Mutex
	lastRun string
}

func New(counter Counter, directory Directory, audit AuditLog, sender Sender, log *zap.SugaredLogger, cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		counter:   counter,
		directory: directory,
		audit:     audit,
		sender:    sender,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches the trigger loop. A process started after the cutoff does
// not fire retroactively unless CatchUpOnStart is set.
func (s *Scheduler) Start(ctx context.Context) {
	now := s.now()
	if s.pastCutoff(now) && !s.cfg.CatchUpOnStart {
		s.lastRun = now.Format(dayLayout)
	}

	go func() {
		s.log.Infow("scheduler started",
			"cutoff", fmt.Sprintf("%02d:%02d", s.cfg.CutoffHour, s.cfg.CutoffMinute),
			"catch_up_on_start", s.cfg.CatchUpOnStart)

		ticker := time.NewTicker(s.cfg.Tick)
		defer ticker.Stop()

		s.maybeRun(ctx)

		for {
			select {
			case <-ctx.Done():
				s.log.Infow("scheduler stopped")
				return
			case <-ticker.C:
				s.maybeRun(ctx)
			}
		}
	}()
}

// maybeRun fires at most once per calendar day, on business days only, once
// the cutoff has passed. A tick arriving while a dispatch is still running is
// skipped, not queued.
func (s *Scheduler) maybeRun(ctx context.Context) {
	now := s.now()

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return
	}
	if !s.pastCutoff(now) {
		return
	}

	if !s.mu.TryLock() {
		return
	}
	defer s.mu.Unlock()

	day := now.Format(dayLayout)
	if s.lastRun == day {
		return
	}

	// A restart after the trigger already fired must not duplicate rows.
	if sent, err := s.audit.HasForDay(ctx, day, entity.NotificationTypeDailyCount); err != nil {
		s.log.Errorw("checking notification log", "day", day, "err", err)
		return
	} else if sent {
		s.lastRun = day
		return
	}

	s.dispatch(ctx, now, day)
	s.lastRun = day
}

func (s *Scheduler) dispatch(ctx context.Context, now time.Time, day string) {
	count, err := s.counter.DailyOfficeCount(ctx, day)
	if err != nil {
		s.log.Errorw("counting office attendance", "day", day, "err", err)
		return
	}

	chefs, err := s.directory.ChefEmails(ctx)
	if err != nil {
		s.log.Errorw("listing chefs", "day", day, "err", err)
		return
	}
	if len(chefs) == 0 {
		s.log.Warnw("no active chefs to notify", "day", day)
		return
	}

	subject, body := message(now, count)

	for _, chef := range chefs {
		status := entity.NotificationSent
		if sendErr := s.sender.Send(ctx, chef, subject, body); sendErr != nil {
			status = entity.NotificationFailed
			s.log.Errorw("sending chef notification", "recipient", chef, "err", sendErr)
		}

		entry := entity.Notification{
			Type:        entity.NotificationTypeDailyCount,
			Recipient:   chef,
			Content:     body,
			OfficeCount: count,
			SentAt:      now,
			Status:      status,
		}
		if appendErr := s.audit.Append(ctx, entry); appendErr != nil {
			s.log.Errorw("appending notification log", "recipient", chef, "err", appendErr)
		}
	}

	s.log.Infow("chef notifications dispatched", "day", day, "office_count", count, "recipients", len(chefs))
}

func (s *Scheduler) now() time.Time {
	return s.cfg.Now().In(s.cfg.Location)
}

func (s *Scheduler) pastCutoff(now time.Time) bool {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.CutoffHour, s.cfg.CutoffMinute, 0, 0, s.cfg.Location)
	return !now.Before(cutoff)
}

func message(now time.Time, count int) (subject, body string) {
	subject = fmt.Sprintf("Daily Lunch Count - %s", now.Format("January 02, 2006"))
	body = fmt.Sprintf(`Dear Chef,

Today's office attendance count: %d employees

Please prepare lunch accordingly.

Date: %s
Time: %s

Best regards,
Lunch Management System
`, count, now.Format("January 02, 2006"), now.Format("03:04 PM"))
	return subject, body
}
