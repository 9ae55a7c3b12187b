package room

import (
	"math"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
)

func opposing(t maps.Team) maps.Team {
	if t == maps.TeamOne {
		return maps.TeamTwo
	}
	return maps.TeamOne
}

func distSq(x1, y1, x2, y2 int) int {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

func distSqF(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

// gold rewards per spec.md §4.7.
const (
	goldOnPlayerKill   = 300
	goldOnMinionKill   = 80
	goldOnStandardKill = 100
	goldOnBuffKill     = 300
	goldOnBossKill     = 1000
)

// ResolveAttack is the player attack command: search targets in priority
// order (enemy player < enemy minion < enemy tower < jungle mob), apply
// damage, life-steal, gold, and — for players — respawn on death.
func (r *Room) ResolveAttack(attackerID ecs.EntityID) {
	attacker, ok := r.players.Get(attackerID)
	if !ok || !attacker.IsPlaying {
		return
	}
	stats := r.derivedStats(attacker)
	tmpl := r.heroes[attacker.Hero]
	rangeSq := tmpl.AttackRangeSquared()

	attacker.LastAggressiveAt = r.Elapsed

	if targetID, ok := r.nearestEnemyPlayer(attacker, rangeSq); ok {
		r.attackPlayer(attacker, stats, targetID)
		return
	}
	if targetID, ok := r.nearestEnemyMinion(attacker, rangeSq); ok {
		r.attackMinion(attacker, stats, targetID)
		return
	}
	if targetID, ok := r.nearestEnemyTower(attacker, rangeSq+10); ok {
		r.attackTower(attacker, stats, targetID)
		return
	}
	if targetID, ok := r.nearestJungle(attacker, rangeSq+5); ok {
		r.attackJungle(attacker, stats, targetID)
		return
	}
}

func (r *Room) nearestEnemyPlayer(attacker *Player, rangeSq int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxInt64
	found := false
	r.players.Each(func(id ecs.EntityID, p *Player) {
		if p == attacker || !p.IsPlaying || p.Team == attacker.Team {
			return
		}
		d := distSq(attacker.X, attacker.Y, p.X, p.Y)
		if d <= rangeSq && (!found || d < bestDist || (d == bestDist && id < best)) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) nearestEnemyMinion(attacker *Player, rangeSq int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxFloat64
	found := false
	r.minions.Each(func(id ecs.EntityID, m *Minion) {
		if m.Team == attacker.Team {
			return
		}
		d := distSqF(float64(attacker.X), float64(attacker.Y), m.X, m.Y)
		if d <= float64(rangeSq) && (!found || d < bestDist || (d == bestDist && id < best)) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) nearestEnemyTower(attacker *Player, rangeSq int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxInt64
	found := false
	r.towers.Each(func(id ecs.EntityID, t *Tower) {
		if !t.Alive() || t.Team == attacker.Team {
			return
		}
		d := distSq(attacker.X, attacker.Y, t.X, t.Y)
		if d <= rangeSq && (!found || d < bestDist || (d == bestDist && id < best)) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) nearestJungle(attacker *Player, rangeSq int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxInt64
	found := false
	r.jungle.Each(func(id ecs.EntityID, j *JungleMob) {
		if !j.Alive() {
			return
		}
		d := distSq(attacker.X, attacker.Y, j.X, j.Y)
		if d <= rangeSq && (!found || d < bestDist || (d == bestDist && id < best)) {
			best, bestDist, found = id, d, true
		}
	})
	return best, found
}

func (r *Room) applyLifesteal(attacker *Player, stats DerivedStats) {
	if stats.LifestealPct <= 0 {
		return
	}
	heal := int(stats.LifestealPct * float64(stats.Attack))
	attacker.HP = min(stats.MaxHP, attacker.HP+heal)
}

// markAttack records the attacker's current target and opens its 200ms
// laser-animation window (spec.md §4.4), the same window the tower/minion/
// jungle AI already sets on themselves.
func (r *Room) markAttack(attacker *Player, targetID ecs.EntityID) {
	attacker.CurrentTargetID = targetID
	attacker.VisualEndAt = r.Elapsed + towerVisualWindow
}

func (r *Room) attackPlayer(attacker *Player, stats DerivedStats, targetID ecs.EntityID) {
	target, ok := r.players.Get(targetID)
	if !ok {
		return
	}
	r.markAttack(attacker, targetID)
	targetStats := r.derivedStats(target)
	dmg := max(1, stats.Attack-targetStats.Defense)
	target.HP -= dmg
	target.CurrentEffect = EffectBurst
	target.VisualEndAt = r.Elapsed + towerVisualWindow
	r.applyLifesteal(attacker, stats)
	if target.HP <= 0 {
		r.respawnPlayer(target)
		attacker.Gold += goldOnPlayerKill
	}
}

func (r *Room) attackMinion(attacker *Player, stats DerivedStats, targetID ecs.EntityID) {
	m, ok := r.minions.Get(targetID)
	if !ok {
		return
	}
	r.markAttack(attacker, targetID)
	m.HP -= stats.Attack
	r.applyLifesteal(attacker, stats)
	if m.HP <= 0 {
		attacker.Gold += goldOnMinionKill
	}
}

func (r *Room) attackTower(attacker *Player, stats DerivedStats, targetID ecs.EntityID) {
	t, ok := r.towers.Get(targetID)
	if !ok {
		return
	}
	r.markAttack(attacker, targetID)
	t.HP -= stats.Attack
	r.applyLifesteal(attacker, stats)
}

func (r *Room) attackJungle(attacker *Player, stats DerivedStats, targetID ecs.EntityID) {
	j, ok := r.jungle.Get(targetID)
	if !ok {
		return
	}
	r.markAttack(attacker, targetID)
	j.HP -= stats.Attack
	j.TargetID = attacker.ID
	j.LastHitByAt = r.Elapsed
	r.applyLifesteal(attacker, stats)
	if j.HP <= 0 {
		switch j.Kind {
		case JungleStandard:
			attacker.Gold += goldOnStandardKill
		case JungleRedBuff, JungleBlueBuff:
			attacker.Gold += goldOnBuffKill
		case JungleOverlord, JungleTyrant:
			attacker.Gold += goldOnBossKill
		}
	}
}

// respawnPlayer resets hp to max and teleports the player to their base,
// per spec.md §3.
func (r *Room) respawnPlayer(p *Player) {
	p.HP = p.MaxHP
	base := teamBase(p.Team)
	p.X, p.Y = base.X, base.Y
}

func teamBase(t maps.Team) maps.Point {
	if t == maps.TeamOne {
		return maps.TeamOneBase
	}
	return maps.TeamTwoBase
}

// Purchase handles a shop command: if gold covers the item's cost, debit
// it and append the item; otherwise no state changes at all, per
// spec.md §7 and §8 invariant 4.
func (r *Room) Purchase(playerID ecs.EntityID, item ItemID) {
	p, ok := r.players.Get(playerID)
	if !ok || !p.IsPlaying {
		return
	}
	tmpl, ok := r.shop[item]
	if !ok || p.Gold < tmpl.Cost {
		return
	}
	before := r.derivedStats(p)
	p.Gold -= tmpl.Cost
	p.Inventory = append(p.Inventory, item)
	after := r.derivedStats(p)
	if delta := after.MaxHP - before.MaxHP; delta > 0 {
		p.HP += delta
	}
	p.MaxHP = after.MaxHP
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
