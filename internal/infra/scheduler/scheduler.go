package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"trash_reminder_bot/internal/app"
	"trash_reminder_bot/internal/domain/schedule"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrAlreadyStarted is returned when Run is called on a scheduler that has
// already been started. A ReminderScheduler runs at most once for its
// lifetime.
var ErrAlreadyStarted = errors.New("reminder scheduler already started")

const (
	// maxSleepChunk bounds a single timer wait so large clock jumps are
	// noticed within a minute instead of causing an arbitrarily long or
	// short sleep.
	maxSleepChunk = 60 * time.Second

	// clockJumpSlack is how far the wall clock may deviate from the
	// expected wake-up before we log a jump.
	clockJumpSlack = 5 * time.Second
)

// ReminderScheduler drives the weekly reminder loop: evaluate catch-up for
// the most recent window, sleep until the next one, fire, repeat. A cron
// heartbeat job runs alongside for operational visibility.
type ReminderScheduler struct {
	service    app.ReminderService
	spec       schedule.Spec
	catchUp    CatchUpPolicy
	cronEngine *cron.Cron
	logger     *logrus.Logger

	heartbeatSpec string
	sleepChunk    time.Duration
	started       atomic.Bool
}

func NewReminderScheduler(
	service app.ReminderService,
	spec schedule.Spec,
	catchUp CatchUpPolicy,
	logger *logrus.Logger,
	heartbeatSpec string,
) *ReminderScheduler {
	return &ReminderScheduler{
		service:       service,
		spec:          spec,
		catchUp:       catchUp,
		cronEngine:    cron.New(cron.WithLocation(spec.Location)),
		logger:        logger,
		heartbeatSpec: heartbeatSpec,
		sleepChunk:    maxSleepChunk,
	}
}

// Run executes the scheduler loop until ctx is cancelled or a
// configuration-fatal error surfaces from the orchestrator. Cancellation is
// a clean unwind: Run returns ctx.Err() without firing.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if err := s.startHeartbeat(); err != nil {
		return err
	}
	defer func() {
		stopCtx := s.cronEngine.Stop()
		<-stopCtx.Done()
	}()

	s.logger.Infof("Reminder scheduler started. Next run: %s",
		schedule.FormatInstant(schedule.NextScheduled(s.spec, time.Now())))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := time.Now().In(s.spec.Location)
		last := schedule.LastScheduled(s.spec, now)

		// Catch-up evaluation happens once per loop entry. The orchestrator
		// dedups, so re-evaluating an already-delivered instant is harmless.
		if fire, staleness := s.catchUp.Evaluate(now, last); fire {
			s.logger.Infof("Catch-up: firing for missed window %s (%s stale).",
				schedule.FormatInstant(last), staleness.Round(time.Second))
			if err := s.service.FireWindow(ctx, last); err != nil {
				return err
			}
		} else if s.catchUp.Enabled {
			s.logger.Infof("Catch-up: skipping window %s, staleness %s exceeds limit %s.",
				schedule.FormatInstant(last), staleness.Round(time.Second), s.catchUp.MaxStaleness)
		} else {
			s.logger.Debugf("Catch-up disabled; window %s not re-evaluated.", schedule.FormatInstant(last))
		}

		next := schedule.NextScheduled(s.spec, now)
		s.logger.Infof("Sleeping until next scheduled run: %s", schedule.FormatInstant(next))
		if err := s.sleepUntil(ctx, next); err != nil {
			return err
		}

		// Re-derive the due instant from the clock after waking rather than
		// trusting the value computed before the sleep.
		due := schedule.LastScheduled(s.spec, time.Now().In(s.spec.Location))
		if err := s.service.FireWindow(ctx, due); err != nil {
			return err
		}
	}
}

// sleepUntil suspends until the wall clock reaches target, waking in bounded
// increments so clock jumps are detected and logged instead of silently
// distorting the wait.
func (s *ReminderScheduler) sleepUntil(ctx context.Context, target time.Time) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		remaining := time.Until(target)
		if remaining <= 0 {
			return nil
		}
		chunk := remaining
		if chunk > s.sleepChunk {
			chunk = s.sleepChunk
		}

		expectedAfter := remaining - chunk
		timer.Reset(chunk)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		drift := time.Until(target) - expectedAfter
		if drift > clockJumpSlack || drift < -clockJumpSlack {
			s.logger.Warnf("Clock jump detected while waiting for %s: remaining shifted by %s.",
				schedule.FormatInstant(target), drift.Round(time.Second))
		}
	}
}

func (s *ReminderScheduler) startHeartbeat() error {
	_, err := s.cronEngine.AddFunc(s.heartbeatSpec, func() {
		now := time.Now().In(s.spec.Location)
		last := schedule.LastScheduled(s.spec, now)
		s.logger.Infof("Heartbeat: last window %s (%s ago), next window %s.",
			schedule.FormatInstant(last),
			now.Sub(last).Round(time.Minute),
			schedule.FormatInstant(schedule.NextScheduled(s.spec, now)))
		if sized, ok := s.service.(interface{ StateSize() int }); ok {
			s.logger.Infof("Heartbeat: dedup store holds %d entries.", sized.StateSize())
		}
	})
	if err != nil {
		return fmt.Errorf("could not register heartbeat cron job: %w", err)
	}
	s.cronEngine.Start()
	return nil
}
