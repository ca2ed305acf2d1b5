package schedule

import "time"

// LastScheduled returns the most recent instant matching the Spec that is
// less than or equal to now, computed in the Spec's timezone. A now that
// lands exactly on the scheduled wall-clock minute is returned as-is
// (floored to that minute), never pushed a week back.
func LastScheduled(spec Spec, now time.Time) time.Time {
	local := now.In(spec.Location)
	daysBack := (int(local.Weekday()) - int(spec.Weekday) + 7) % 7
	candidate := time.Date(
		local.Year(), local.Month(), local.Day()-daysBack,
		spec.Hour, spec.Minute, 0, 0,
		spec.Location,
	)
	// The weekday match can still land ahead of now when daysBack is zero
	// and the wall-clock time has not been reached yet today.
	if candidate.After(local) {
		candidate = candidate.AddDate(0, 0, -7)
	}
	return candidate
}

// NextScheduled returns the first instant matching the Spec that is strictly
// greater than now. The seven-day step is civil-time arithmetic: across a
// daylight-saving transition the absolute gap may be 6d23h or 7d1h, but the
// local wall clock is preserved.
func NextScheduled(spec Spec, now time.Time) time.Time {
	next := LastScheduled(spec, now).AddDate(0, 0, 7)
	if !next.After(now.In(spec.Location)) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
