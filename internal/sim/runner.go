package sim

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Systems registered
// within the same phase run in registration order — callers rely on this
// to express the fixed subsystem order (towers before minions before
// jungle/bosses before hero spells before effect expiry), so the sort
// must be stable.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt time.Duration) {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
	for _, s := range r.systems {
		s.Update(dt)
	}
}
