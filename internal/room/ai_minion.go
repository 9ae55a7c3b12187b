package room

import (
	"math"
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
	"github.com/l1jgo/arena/internal/sim"
)

const (
	minionBaseSpeed   = 2.0 // cells/second, per the Open Question: tick-rate independent
	minionReturnSpeed = 4.0
	minionVisionSq    = 4 * 4
	minionTowerSq     = 6 * 6
	minionLeashSq     = 10 * 10
	minionWaypointSq  = 2 * 2
	minionAttackCD    = 2 * time.Second
)

type minionAISystem struct{ r *Room }

func (s minionAISystem) Phase() sim.Phase { return sim.PhaseUpdate }

func (s minionAISystem) Update(dt time.Duration) {
	r := s.r
	if r.Status != StatusPlaying {
		return
	}
	r.minions.Each(func(_ ecs.EntityID, m *Minion) {
		if m.HP <= 0 {
			return
		}
		r.updateMinion(m, dt)
	})
}

func (r *Room) updateMinion(m *Minion, dt time.Duration) {
	switch m.State {
	case StateMarching:
		r.minionMarch(m, dt)
	case StateChasing:
		r.minionChase(m, dt)
	case StateReturning:
		r.minionReturn(m, dt)
	}
}

func (r *Room) minionMarch(m *Minion, dt time.Duration) {
	if id, ok := r.minionAcquire(m); ok {
		m.TargetID = id
		m.AnchorX, m.AnchorY = m.X, m.Y
		m.State = StateChasing
		return
	}
	wps := maps.LaneWaypoints(m.Lane)
	wp := wps[m.WaypointIdx]
	if distSqF(m.X, m.Y, float64(wp.X), float64(wp.Y)) <= minionWaypointSq {
		if m.Team == maps.TeamOne {
			if m.WaypointIdx < len(wps)-1 {
				m.WaypointIdx++
			}
		} else {
			if m.WaypointIdx > 0 {
				m.WaypointIdx--
			}
		}
		wp = wps[m.WaypointIdx]
	}
	r.moveToward(m, float64(wp.X), float64(wp.Y), minionBaseSpeed, dt)
}

// minionAcquire scans concentrically: enemy players within vision, then
// enemy minions at the same range, then enemy towers at a larger range.
func (r *Room) minionAcquire(m *Minion) (ecs.EntityID, bool) {
	if id, ok := r.nearestEnemyPlayerSq(m, minionVisionSq); ok {
		return id, true
	}
	if id, ok := r.nearestEnemyMinionSq(m, minionVisionSq); ok {
		return id, true
	}
	if id, ok := r.nearestEnemyTowerSq(m, minionTowerSq); ok {
		return id, true
	}
	return 0, false
}

func (r *Room) nearestEnemyPlayerSq(m *Minion, rangeSq int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxFloat64
	found := false
	r.players.Each(func(id ecs.EntityID, p *Player) {
		if !p.IsPlaying || p.Team == m.Team {
			return
		}
		d := distSqF(m.X, m.Y, float64(p.X), float64(p.Y))
		if d <= float64(rangeSq) && (!found || d < bestDist) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) nearestEnemyMinionSq(m *Minion, rangeSq int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxFloat64
	found := false
	r.minions.Each(func(id ecs.EntityID, other *Minion) {
		if other == m || other.Team == m.Team || other.HP <= 0 {
			return
		}
		d := distSqF(m.X, m.Y, other.X, other.Y)
		if d <= float64(rangeSq) && (!found || d < bestDist) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) nearestEnemyTowerSq(m *Minion, rangeSq int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxFloat64
	found := false
	r.towers.Each(func(id ecs.EntityID, t *Tower) {
		if !t.Alive() || t.Team == m.Team {
			return
		}
		d := distSqF(m.X, m.Y, float64(t.X), float64(t.Y))
		if d <= float64(rangeSq) && (!found || d < bestDist) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) minionChase(m *Minion, dt time.Duration) {
	if distSqF(m.X, m.Y, m.AnchorX, m.AnchorY) > minionLeashSq {
		m.State = StateReturning
		m.TargetID = 0
		return
	}
	tx, ty, isTower, isPlayer, alive := r.entityPosition(m.TargetID)
	if !alive {
		m.State = StateReturning
		m.TargetID = 0
		return
	}
	effRange := m.Range
	if isTower {
		effRange += 2
	}
	d := distSqF(m.X, m.Y, tx, ty)
	if d <= float64(effRange*effRange) {
		if r.Elapsed-m.LastAttackAt < minionAttackCD {
			return
		}
		m.LastAttackAt = r.Elapsed
		m.VisualEndAt = r.Elapsed + towerVisualWindow
		dmg := m.Damage
		if isPlayer {
			p, _ := r.players.Get(m.TargetID)
			stats := r.derivedStats(p)
			dmg = max(1, dmg-stats.Defense)
			p.HP -= dmg
			if p.HP <= 0 {
				r.respawnPlayer(p)
			}
			return
		}
		if isTower {
			t, _ := r.towers.Get(m.TargetID)
			t.HP -= dmg
			return
		}
		other, _ := r.minions.Get(m.TargetID)
		other.HP -= dmg
		return
	}
	r.moveToward(m, tx, ty, minionBaseSpeed, dt)
}

func (r *Room) minionReturn(m *Minion, dt time.Duration) {
	r.moveToward(m, m.AnchorX, m.AnchorY, minionReturnSpeed, dt)
	if distSqF(m.X, m.Y, m.AnchorX, m.AnchorY) <= minionWaypointSq {
		m.State = StateMarching
	}
}

// entityPosition resolves a cross-kind target id to a position, reporting
// whether it is a tower/player and whether it is still alive.
func (r *Room) entityPosition(id ecs.EntityID) (x, y float64, isTower, isPlayer, alive bool) {
	if t, ok := r.towers.Get(id); ok {
		return float64(t.X), float64(t.Y), true, false, t.Alive()
	}
	if p, ok := r.players.Get(id); ok {
		return float64(p.X), float64(p.Y), false, true, p.IsPlaying
	}
	if m, ok := r.minions.Get(id); ok {
		return m.X, m.Y, false, false, m.HP > 0
	}
	return 0, 0, false, false, false
}

// moveToward advances m's fractional position toward (tx,ty) at speed
// cells/second, never overshooting the target.
func (r *Room) moveToward(m *Minion, tx, ty float64, speed float64, dt time.Duration) {
	dx, dy := tx-m.X, ty-m.Y
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return
	}
	step := speed * dt.Seconds()
	if step >= dist {
		m.X, m.Y = tx, ty
		return
	}
	m.X += dx / dist * step
	m.Y += dy / dist * step
}
