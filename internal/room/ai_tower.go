package room

import (
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/sim"
)

const (
	towerRangeSq       = 8 * 8
	towerCooldown      = 2 * time.Second
	towerVisualWindow  = 200 * time.Millisecond
	aggressionWindow   = 2 * time.Second
)

type towerAISystem struct{ r *Room }

func (s towerAISystem) Phase() sim.Phase { return sim.PhaseUpdate }

func (s towerAISystem) Update(dt time.Duration) {
	r := s.r
	if r.Status != StatusPlaying {
		return
	}
	r.towers.Each(func(_ ecs.EntityID, t *Tower) {
		if !t.Alive() {
			return
		}
		r.updateTower(t)
	})
}

func (r *Room) updateTower(t *Tower) {
	target, kind := r.selectTowerTarget(t)
	if target != t.TargetID {
		t.ConsecutiveHits = 0
		t.TargetID = target
	}
	if target == 0 {
		return
	}
	if r.Elapsed-t.LastAttackAt < towerCooldown {
		return
	}
	t.LastAttackAt = r.Elapsed
	t.VisualEndAt = r.Elapsed + towerVisualWindow

	switch kind {
	case targetMinion:
		m, ok := r.minions.Get(target)
		if !ok {
			return
		}
		dmg := 300 + 100*r.waveCount
		m.HP -= dmg
	case targetPlayer:
		p, ok := r.players.Get(target)
		if !ok {
			return
		}
		dmg := 300 * pow2(t.ConsecutiveHits)
		stats := r.derivedStats(p)
		applied := max(1, dmg-stats.Defense)
		p.HP -= applied
		t.ConsecutiveHits++
		if p.HP <= 0 {
			r.respawnPlayer(p)
		}
	}
}

type towerTargetKind int

const (
	targetNone towerTargetKind = iota
	targetMinion
	targetPlayer
)

// selectTowerTarget implements the priority order of spec.md §4.4:
// threat override, sticky target, nearest minion, nearest player.
func (r *Room) selectTowerTarget(t *Tower) (ecs.EntityID, towerTargetKind) {
	if id, ok := r.towerThreatOverride(t); ok {
		return id, targetPlayer
	}
	if t.TargetID != 0 && r.towerTargetStillValid(t, t.TargetID) {
		return t.TargetID, r.towerTargetKindOf(t.TargetID)
	}
	if id, ok := r.nearestEnemyMinionOf(t); ok {
		return id, targetMinion
	}
	if id, ok := r.nearestEnemyPlayerOf(t); ok {
		return id, targetPlayer
	}
	return 0, targetNone
}

func (r *Room) towerThreatOverride(t *Tower) (ecs.EntityID, bool) {
	var best ecs.EntityID
	found := false
	r.players.Each(func(id ecs.EntityID, p *Player) {
		if found || !p.IsPlaying || p.Team == t.Team {
			return
		}
		if r.Elapsed-p.LastAggressiveAt > aggressionWindow {
			return
		}
		if distSq(t.X, t.Y, p.X, p.Y) > towerRangeSq {
			return
		}
		if !found || id < best {
			best, found = id, true
		}
	})
	return best, found
}

func (r *Room) towerTargetStillValid(t *Tower, id ecs.EntityID) bool {
	switch r.towerTargetKindOf(id) {
	case targetMinion:
		m, ok := r.minions.Get(id)
		return ok && m.HP > 0 && distSqF(float64(t.X), float64(t.Y), m.X, m.Y) <= float64(towerRangeSq)
	case targetPlayer:
		p, ok := r.players.Get(id)
		return ok && p.IsPlaying && distSq(t.X, t.Y, p.X, p.Y) <= towerRangeSq
	}
	return false
}

func (r *Room) towerTargetKindOf(id ecs.EntityID) towerTargetKind {
	if _, ok := r.minions.Get(id); ok {
		return targetMinion
	}
	if _, ok := r.players.Get(id); ok {
		return targetPlayer
	}
	return targetNone
}

func (r *Room) nearestEnemyMinionOf(t *Tower) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := -1.0
	found := false
	r.minions.Each(func(id ecs.EntityID, m *Minion) {
		if m.Team == t.Team {
			return
		}
		d := distSqF(float64(t.X), float64(t.Y), m.X, m.Y)
		if d > float64(towerRangeSq) {
			return
		}
		if !found || d < bestDist || (d == bestDist && id < best) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) nearestEnemyPlayerOf(t *Tower) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := -1
	found := false
	r.players.Each(func(id ecs.EntityID, p *Player) {
		if !p.IsPlaying || p.Team == t.Team {
			return
		}
		d := distSq(t.X, t.Y, p.X, p.Y)
		if d > towerRangeSq {
			return
		}
		if !found || d < bestDist || (d == bestDist && id < best) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func pow2(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 2
	}
	return v
}
