// Package sim provides the phase-ordered tick scheduler every room runs.
package sim

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // drain input queue, apply commands
	PhasePreUpdate               // passive regen, wave-spawn cadence
	PhaseUpdate                  // towers, minions, jungle/bosses
	PhaseOutput                  // effect expiry, then snapshot + frame-boundary broadcast
	PhaseCleanup                 // clear transient flags, destroy dead entities
)

// System is the interface every room subsystem implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
