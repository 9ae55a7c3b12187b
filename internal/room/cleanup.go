package room

import (
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/sim"
)

// cleanupSystem is the last subsystem of the tick: it clears the
// transient hit-flash of each player whose VisualEndAt has passed (a
// flash whose window is still open is left set for the next broadcast)
// and reaps dead minions so the entity stores don't grow without bound.
type cleanupSystem struct{ r *Room }

func (s cleanupSystem) Phase() sim.Phase { return sim.PhaseCleanup }

func (s cleanupSystem) Update(dt time.Duration) {
	r := s.r
	if r.Status != StatusPlaying {
		return
	}
	r.players.Each(func(_ ecs.EntityID, p *Player) {
		if p.VisualEndAt <= r.Elapsed {
			p.CurrentEffect = EffectNone
		}
	})

	var dead []ecs.EntityID
	r.minions.Each(func(id ecs.EntityID, m *Minion) {
		if m.HP <= 0 {
			dead = append(dead, id)
		}
	})
	for _, id := range dead {
		r.minions.Remove(id)
	}
}
