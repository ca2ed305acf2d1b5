package reminder

import (
	"context"
	"errors"
)

// ErrFixedTargetUnavailable marks the configuration-fatal condition where the
// single configured destination cannot be resolved at all. It is propagated
// up to the top-level runner, which terminates the process; per-send failures
// are never wrapped in it.
var ErrFixedTargetUnavailable = errors.New("configured chat is not reachable by the bot")

// TargetResolver enumerates the destinations for one orchestration pass:
// either exactly the fixed configured chat, or every discovered group chat.
// Both modes return the same uniform list.
type TargetResolver interface {
	ResolveTargets(ctx context.Context) ([]Target, error)
}

// Client is the abstract delivery capability. Implemented by the transport
// adapter; the orchestrator never touches the bot library directly.
type Client interface {
	// Deliver performs the actual send: the reminder text plus one media URL.
	// allowBroadcast indicates whether an attention-grabbing send is
	// permitted for this target.
	Deliver(ctx context.Context, target Target, text, mediaURL string, allowBroadcast bool) error

	// CanBroadcast reports whether a broadcast-style send is permitted for
	// the target. Failures to determine this degrade to false.
	CanBroadcast(ctx context.Context, target Target) bool
}

// MediaPicker selects one media URL from the configured list. Injected so
// tests can substitute a deterministic sequence.
type MediaPicker interface {
	Pick(urls []string) string
}
