package schedule

import (
	"testing"
	"time"
)

func mustSpec(t *testing.T, weekday, hour, minute int, tz string) Spec {
	t.Helper()
	spec, err := New(weekday, hour, minute, tz)
	if err != nil {
		t.Fatalf("New(%d, %d, %d, %q): %v", weekday, hour, minute, tz, err)
	}
	return spec
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name    string
		weekday int
		hour    int
		minute  int
		tz      string
		wantErr bool
	}{
		{"valid", 3, 0, 0, "UTC", false},
		{"valid edge", 6, 23, 59, "America/New_York", false},
		{"weekday too high", 7, 0, 0, "UTC", true},
		{"weekday negative", -1, 0, 0, "UTC", true},
		{"hour too high", 3, 24, 0, "UTC", true},
		{"minute too high", 3, 0, 60, "UTC", true},
		{"bad timezone", 3, 0, 0, "Mars/Olympus", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.weekday, tc.hour, tc.minute, tc.tz)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New(%d, %d, %d, %q) error = %v, wantErr %t",
					tc.weekday, tc.hour, tc.minute, tc.tz, err, tc.wantErr)
			}
		})
	}
}

// 2024-01-03 is a Wednesday.
func TestLastScheduledExactInstant(t *testing.T) {
	spec := mustSpec(t, 3, 0, 0, "UTC")
	now := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	last := LastScheduled(spec, now)
	if !last.Equal(now) {
		t.Fatalf("LastScheduled at the exact instant = %v, want %v", last, now)
	}

	next := NextScheduled(spec, now)
	want := now.AddDate(0, 0, 7)
	if !next.Equal(want) {
		t.Fatalf("NextScheduled at the exact instant = %v, want %v", next, want)
	}
}

func TestLastScheduledFloorsSeconds(t *testing.T) {
	spec := mustSpec(t, 3, 0, 0, "UTC")
	now := time.Date(2024, 1, 3, 0, 0, 30, 500, time.UTC)

	last := LastScheduled(spec, now)
	want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if !last.Equal(want) {
		t.Fatalf("LastScheduled = %v, want floored %v", last, want)
	}
}

func TestLastScheduledRollsBackAWeek(t *testing.T) {
	spec := mustSpec(t, 3, 1, 0, "UTC")
	// Wednesday just before 01:00: today's candidate is ahead of now.
	now := time.Date(2024, 1, 3, 0, 30, 0, 0, time.UTC)

	last := LastScheduled(spec, now)
	want := time.Date(2023, 12, 27, 1, 0, 0, 0, time.UTC)
	if !last.Equal(want) {
		t.Fatalf("LastScheduled = %v, want previous week %v", last, want)
	}
}

func TestWindowProperties(t *testing.T) {
	spec := mustSpec(t, 3, 0, 0, "UTC")
	nows := []time.Time{
		time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC),   // Monday
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),    // Wednesday exactly
		time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC), // Wednesday late
		time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC),   // Sunday
		time.Date(2024, 2, 29, 6, 0, 0, 0, time.UTC),   // leap day
	}
	for _, now := range nows {
		last := LastScheduled(spec, now)
		next := NextScheduled(spec, now)

		if last.After(now) {
			t.Errorf("LastScheduled(%v) = %v is after now", now, last)
		}
		if !next.After(now) {
			t.Errorf("NextScheduled(%v) = %v is not after now", now, next)
		}
		if got := next.Sub(last); got != 7*24*time.Hour {
			t.Errorf("next-last spacing for now=%v is %v, want 168h", now, got)
		}
		if last.Weekday() != spec.Weekday || next.Weekday() != spec.Weekday {
			t.Errorf("weekday mismatch: last=%v next=%v", last.Weekday(), next.Weekday())
		}
	}
}

func TestWindowAcrossSpringForward(t *testing.T) {
	// US DST starts 2024-03-10. The week from Wed Mar 6 to Wed Mar 13 is
	// 6d23h of absolute time while the local wall clock stays at 00:00.
	spec := mustSpec(t, 3, 0, 0, "America/New_York")
	loc := spec.Location
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, loc) // Friday between the two

	last := LastScheduled(spec, now)
	next := NextScheduled(spec, now)

	wantLast := time.Date(2024, 3, 6, 0, 0, 0, 0, loc)
	wantNext := time.Date(2024, 3, 13, 0, 0, 0, 0, loc)
	if !last.Equal(wantLast) {
		t.Fatalf("LastScheduled = %v, want %v", last, wantLast)
	}
	if !next.Equal(wantNext) {
		t.Fatalf("NextScheduled = %v, want %v", next, wantNext)
	}

	if got := next.Sub(last); got != 7*24*time.Hour-time.Hour {
		t.Fatalf("absolute spacing across spring-forward = %v, want 167h", got)
	}
	if last.Hour() != 0 || next.Hour() != 0 {
		t.Fatalf("wall clock not preserved: last=%02d:00 next=%02d:00", last.Hour(), next.Hour())
	}
}

func TestFormatInstantKeepsNumericOffset(t *testing.T) {
	utc := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if got, want := FormatInstant(utc), "2024-01-03T00:00:00+00:00"; got != want {
		t.Fatalf("FormatInstant(UTC) = %q, want %q", got, want)
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	winter := time.Date(2024, 1, 3, 0, 0, 0, 0, loc)
	if got, want := FormatInstant(winter), "2024-01-03T00:00:00-05:00"; got != want {
		t.Fatalf("FormatInstant(EST) = %q, want %q", got, want)
	}
}
