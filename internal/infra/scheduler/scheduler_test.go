package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"trash_reminder_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

var errStopTest = errors.New("stop test run")

type recordingService struct {
	fired []time.Time
	err   error
}

func (s *recordingService) FireWindow(_ context.Context, instant time.Time) error {
	s.fired = append(s.fired, instant)
	return s.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testSpec(t *testing.T) schedule.Spec {
	t.Helper()
	spec, err := schedule.New(3, 0, 0, "UTC")
	if err != nil {
		t.Fatal(err)
	}
	return spec
}

func TestRunReturnsOnCancelledContext(t *testing.T) {
	sched := NewReminderScheduler(&recordingService{}, testSpec(t), CatchUpPolicy{}, quietLogger(), "0 9 * * *")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sched.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run on cancelled context = %v, want context.Canceled", err)
	}
}

func TestRunSingleStart(t *testing.T) {
	sched := NewReminderScheduler(&recordingService{}, testSpec(t), CatchUpPolicy{}, quietLogger(), "0 9 * * *")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = sched.Run(ctx)

	if err := sched.Run(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Run = %v, want ErrAlreadyStarted", err)
	}
}

func TestRunFiresCatchUpForLastWindow(t *testing.T) {
	// The service returns an error to break out of the loop after the
	// catch-up fire; Run must propagate it.
	service := &recordingService{err: errStopTest}
	spec := testSpec(t)
	sched := NewReminderScheduler(service, spec, CatchUpPolicy{Enabled: true, MaxStaleness: -1}, quietLogger(), "0 9 * * *")

	err := sched.Run(context.Background())
	if !errors.Is(err, errStopTest) {
		t.Fatalf("Run = %v, want propagated service error", err)
	}

	if len(service.fired) != 1 {
		t.Fatalf("fired %d times, want 1 catch-up fire", len(service.fired))
	}
	want := schedule.LastScheduled(spec, time.Now())
	if !service.fired[0].Equal(want) {
		t.Fatalf("catch-up fired for %v, want %v", service.fired[0], want)
	}
}

func TestRunSkipsStaleCatchUp(t *testing.T) {
	// Staleness bound of zero: unless now is exactly the scheduled instant,
	// the catch-up is skipped and the loop proceeds to sleep, where
	// cancellation unwinds it.
	service := &recordingService{err: errStopTest}
	sched := NewReminderScheduler(service, testSpec(t), CatchUpPolicy{Enabled: true, MaxStaleness: 0}, quietLogger(), "0 9 * * *")
	sched.sleepChunk = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if err := sched.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if len(service.fired) != 0 {
		t.Fatalf("fired %d times, want 0 (stale window skipped)", len(service.fired))
	}
}

func TestSleepUntilPastTargetReturnsImmediately(t *testing.T) {
	sched := NewReminderScheduler(&recordingService{}, testSpec(t), CatchUpPolicy{}, quietLogger(), "0 9 * * *")

	start := time.Now()
	if err := sched.sleepUntil(context.Background(), start.Add(-time.Hour)); err != nil {
		t.Fatalf("sleepUntil past target: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("sleepUntil past target took %v, want immediate return", elapsed)
	}
}

func TestSleepUntilHonoursCancellation(t *testing.T) {
	sched := NewReminderScheduler(&recordingService{}, testSpec(t), CatchUpPolicy{}, quietLogger(), "0 9 * * *")
	sched.sleepChunk = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(40 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := sched.sleepUntil(ctx, start.Add(time.Hour))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("sleepUntil = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation took %v, want prompt unwind", elapsed)
	}
}

func TestSleepUntilWaitsInBoundedChunks(t *testing.T) {
	sched := NewReminderScheduler(&recordingService{}, testSpec(t), CatchUpPolicy{}, quietLogger(), "0 9 * * *")
	sched.sleepChunk = 10 * time.Millisecond

	start := time.Now()
	target := start.Add(75 * time.Millisecond)
	if err := sched.sleepUntil(context.Background(), target); err != nil {
		t.Fatalf("sleepUntil: %v", err)
	}
	if now := time.Now(); now.Before(target) {
		t.Fatalf("woke %v early", target.Sub(now))
	}
}
