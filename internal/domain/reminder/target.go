package reminder

import "fmt"

// TargetKind distinguishes the two destination shapes: a single fixed chat
// configured up front, or a group chat discovered at runtime.
type TargetKind string

const (
	KindChannel TargetKind = "channel" // fixed destination from configuration
	KindGuild   TargetKind = "guild"   // dynamically discovered group chat
)

// Target identifies one delivery destination. Each Target owns exactly one
// entry in the dedup store, addressed by DedupKey.
type Target struct {
	Kind  TargetKind
	ID    int64
	Title string // human-readable, for logs only
}

// DedupKey returns the persisted store key for this target,
// e.g. "channel:42" or "guild:-100123".
func (t Target) DedupKey() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}
