package app

import (
	"context"
	"fmt"
	"time"

	"trash_reminder_bot/internal/domain/reminder"
	"trash_reminder_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

// ReminderService defines the delivery orchestration for one scheduled
// window: resolve targets, consult the dedup state, deliver, commit.
type ReminderService interface {
	// FireWindow runs one orchestration pass for the given scheduled
	// instant. It returns an error only for configuration-fatal conditions;
	// per-target delivery failures are logged and absorbed.
	FireWindow(ctx context.Context, instant time.Time) error
}

// ReminderServiceImpl implements ReminderService.
type ReminderServiceImpl struct {
	resolver  reminder.TargetResolver
	client    reminder.Client
	picker    reminder.MediaPicker
	store     reminder.StateStore
	state     map[string]string
	logger    *logrus.Logger
	message   string
	mediaURLs []string
	dryRun    bool
}

func NewReminderService(
	resolver reminder.TargetResolver,
	client reminder.Client,
	picker reminder.MediaPicker,
	store reminder.StateStore,
	logger *logrus.Logger,
	message string,
	mediaURLs []string,
	dryRun bool,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		resolver:  resolver,
		client:    client,
		picker:    picker,
		store:     store,
		state:     store.Load(),
		logger:    logger,
		message:   message,
		mediaURLs: mediaURLs,
		dryRun:    dryRun,
	}
}

// FireWindow processes every resolved target for the scheduled instant.
// State is mutated and persisted synchronously after each confirmed success,
// so a crash right after a send always has that send on record.
func (s *ReminderServiceImpl) FireWindow(ctx context.Context, instant time.Time) error {
	stamp := schedule.FormatInstant(instant)

	targets, err := s.resolver.ResolveTargets(ctx)
	if err != nil {
		// The only resolver failure is the fixed target being unreachable,
		// which is configuration-fatal. Let the runner decide to terminate.
		return fmt.Errorf("resolving reminder targets: %w", err)
	}
	if len(targets) == 0 {
		s.logger.Warnf("No reminder targets resolved for %s; nothing to send.", stamp)
		return nil
	}

	for _, target := range targets {
		key := target.DedupKey()
		if reminder.AlreadyFired(s.state, key, instant) {
			s.logger.Infof("Reminder for %s already delivered to %s; skipping.", stamp, key)
			continue
		}

		mediaURL := s.picker.Pick(s.mediaURLs)
		allowBroadcast := s.client.CanBroadcast(ctx, target)

		if s.dryRun {
			s.logger.Infof("DRY RUN: would deliver reminder for %s to %s (%s), media=%s, broadcast=%t",
				stamp, key, target.Title, mediaURL, allowBroadcast)
			continue
		}

		if err := s.client.Deliver(ctx, target, s.message, mediaURL, allowBroadcast); err != nil {
			// One target failing must not abort the rest of the pass. State
			// stays untouched so the next eligible window can retry.
			s.logger.Errorf("Failed to deliver reminder for %s to %s (%s): %v", stamp, key, target.Title, err)
			continue
		}

		s.state[key] = stamp
		if err := s.store.Save(s.state); err != nil {
			// Non-fatal: the delivery happened; the worst case is one
			// duplicate send after a restart.
			s.logger.Errorf("Failed to persist dedup state after delivering to %s: %v", key, err)
		}
		s.logger.Infof("Delivered reminder for %s to %s (%s).", stamp, key, target.Title)
	}
	return nil
}

// StateSize returns the number of dedup entries currently held. Used by the
// heartbeat job for operational visibility.
func (s *ReminderServiceImpl) StateSize() int {
	return len(s.state)
}
