package reminder

import (
	"time"

	"trash_reminder_bot/internal/domain/schedule"
)

// StateStore persists the dedup map: dedup key -> canonical instant string of
// the scheduled run that was last delivered successfully.
type StateStore interface {
	// Load reads the persisted state. A missing or unreadable store is not
	// an error: implementations log the condition and return an empty map,
	// which simply means "nothing sent yet".
	Load() map[string]string

	// Save writes the full map durably. A failed save is reported to the
	// caller but must never have clobbered the previously committed state.
	Save(state map[string]string) error
}

// AlreadyFired reports whether the store records a successful delivery to
// key for exactly this scheduled instant. The comparison is string equality
// on the canonical form: a catch-up run and an originally scheduled run are
// tracked independently unless they resolve to the same computed instant.
//
// Known edge: if the timezone database changes a DST transition rule between
// the time an instant was stored and the time it is recomputed, the two
// strings can differ for the same civil week and one duplicate send results.
func AlreadyFired(state map[string]string, key string, instant time.Time) bool {
	return state[key] == schedule.FormatInstant(instant)
}
