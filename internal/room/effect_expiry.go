package room

import (
	"time"

	"github.com/l1jgo/arena/internal/sim"
)

// effectExpirySystem drops visual effects whose EndAt has passed, per
// spec.md §4.2 step 5. Effects carry no damage of their own by the time
// this runs — the AI routine that spawned one already applied it.
type effectExpirySystem struct{ r *Room }

func (s effectExpirySystem) Phase() sim.Phase { return sim.PhaseOutput }

func (s effectExpirySystem) Update(dt time.Duration) {
	r := s.r
	live := r.effects[:0]
	for _, e := range r.effects {
		if e.EndAt > r.Elapsed {
			live = append(live, e)
		}
	}
	r.effects = live
}
