package room

import (
	"time"

	"github.com/l1jgo/arena/internal/sim"
)

// Command tags the room interprets during PhaseInput. Mirrors
// internal/protocol's tags without importing that package, keeping the
// simulation core decoupled from the wire format per spec.md's dispatch
// adapter/core split.
const (
	CmdMove    int32 = 40
	CmdAttack  int32 = 41
	CmdSpell   int32 = 42
	CmdBuyItem int32 = 44
)

type inputSystem struct{ r *Room }

func (s inputSystem) Phase() sim.Phase { return sim.PhaseInput }

func (s inputSystem) Update(dt time.Duration) {
	if s.r.Status != StatusPlaying {
		return
	}
	for _, cmd := range s.r.drainCommands() {
		s.apply(cmd)
	}
}

func (s inputSystem) apply(cmd Command) {
	r := s.r
	switch cmd.Tag {
	case CmdMove:
		p, ok := r.players.Get(cmd.PlayerID)
		if !ok || !p.IsPlaying {
			return
		}
		r.applyMove(p, clamp1(int(cmd.X)), clamp1(int(cmd.Y)))
	case CmdAttack, CmdSpell:
		// spec.md names "hero spells" as part of the per-tick AI update
		// order but defines no distinct formula for a spell action beyond
		// basic attack resolution (§4.7); a spell packet resolves as an
		// attack until a distinct skill formula is specified.
		r.ResolveAttack(cmd.PlayerID)
	case CmdBuyItem:
		r.Purchase(cmd.PlayerID, ItemID(cmd.Extra))
	}
}

func clamp1(v int) int {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// applyMove resolves a movement command per spec.md §4.3: the combined
// diagonal cell is tried first; if blocked, each axis is tried
// independently so a wall/tower on only one axis does not reject the
// other.
func (r *Room) applyMove(p *Player, dx, dy int) {
	origX, origY := p.X, p.Y
	candX, candY := origX+dx, origY+dy
	if r.Walkable(candX, candY) {
		p.X, p.Y = candX, candY
		return
	}
	if dx != 0 && r.Walkable(candX, origY) {
		p.X = candX
	}
	// Check the second axis against p.X (already updated above if the
	// first axis moved) rather than origX, so it can't recombine into the
	// diagonal cell the first Walkable call above already rejected.
	if dy != 0 && r.Walkable(p.X, candY) {
		p.Y = candY
	}
}
