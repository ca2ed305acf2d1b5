package scheduler

import "time"

// CatchUpPolicy decides whether a scheduled instant that already passed
// (notably across process downtime) should still fire. A negative
// MaxStaleness means no bound.
type CatchUpPolicy struct {
	Enabled      bool
	MaxStaleness time.Duration
}

// Evaluate reports whether the orchestrator should fire immediately for the
// last scheduled instant, along with how stale that instant is. Pure.
func (p CatchUpPolicy) Evaluate(now, last time.Time) (fire bool, staleness time.Duration) {
	staleness = now.Sub(last)
	if !p.Enabled {
		return false, staleness
	}
	if p.MaxStaleness >= 0 && staleness > p.MaxStaleness {
		return false, staleness
	}
	return true, staleness
}
