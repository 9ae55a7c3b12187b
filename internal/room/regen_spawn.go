package room

import (
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
	"github.com/l1jgo/arena/internal/sim"
)

const (
	regenInterval = 5 * time.Second
	regenAmount   = 300

	waveStartSecond = 30
	waveCadence     = 60
)

// regenSpawnSystem is PhasePreUpdate: passive armor regen, then the
// wave-spawn cadence check, per spec.md §4.2 steps 2-3.
type regenSpawnSystem struct{ r *Room }

func (s regenSpawnSystem) Phase() sim.Phase { return sim.PhasePreUpdate }

func (s regenSpawnSystem) Update(dt time.Duration) {
	r := s.r
	if r.Status != StatusPlaying {
		return
	}
	r.applyPassiveRegen()
	r.maybeSpawnWave()
}

func (r *Room) applyPassiveRegen() {
	r.players.Each(func(_ ecs.EntityID, p *Player) {
		if !p.IsPlaying {
			return
		}
		stats := r.derivedStats(p)
		if !stats.PassiveRegen {
			return
		}
		if r.Elapsed-p.LastRegenAt >= regenInterval {
			p.HP = min(stats.MaxHP, p.HP+regenAmount)
			p.LastRegenAt = r.Elapsed
		}
	})
}

// maybeSpawnWave implements spec.md §4.5's wave cadence: first wave at
// game-second 30, then every 60s, each firing exactly once per second.
func (r *Room) maybeSpawnWave() {
	second := int(r.Elapsed / time.Second)
	if second < waveStartSecond {
		return
	}
	if (second-waveStartSecond)%waveCadence != 0 {
		return
	}
	if second == r.lastSpawnSecond {
		return
	}
	r.lastSpawnSecond = second
	r.spawnWave()
}

func (r *Room) spawnWave() {
	r.waveCount++
	n := r.waveCount
	meleeHP := 1000 + 200*n
	meleeDmg := 100 + 150*n
	rangedHP := 600 + 150*n
	rangedDmg := 100 + 200*n

	for lane := 0; lane < 3; lane++ {
		r.spawnMinionTeam(maps.TeamOne, lane, meleeHP, meleeDmg, rangedHP, rangedDmg)
		r.spawnMinionTeam(maps.TeamTwo, lane, meleeHP, meleeDmg, rangedHP, rangedDmg)
	}
}

func (r *Room) spawnMinionTeam(team maps.Team, lane int, meleeHP, meleeDmg, rangedHP, rangedDmg int) {
	base := teamBase(team)
	wpIdx := 0
	if team == maps.TeamTwo {
		wpIdx = len(maps.LaneWaypoints(lane)) - 1
	}
	r.spawnMinion(team, lane, wpIdx, MinionMelee, meleeHP, meleeDmg, 1, base)
	r.spawnMinion(team, lane, wpIdx, MinionMelee, meleeHP, meleeDmg, 1, base)
	r.spawnMinion(team, lane, wpIdx, MinionRanged, rangedHP, rangedDmg, 5, base)
}

func (r *Room) spawnMinion(team maps.Team, lane, wpIdx int, kind MinionKind, hp, dmg, atkRange int, at maps.Point) {
	id, ok := r.minionPartition.Next()
	if !ok {
		return
	}
	// Jitter the spawn point so a wave's three minions don't stack on one
	// cell; per spec.md §6 the room's random source is used only by wave
	// spawn and jungle placement.
	x := float64(at.X + r.rng.Intn(3) - 1)
	y := float64(at.Y + r.rng.Intn(3) - 1)
	r.minions.Set(id, &Minion{
		ID: id, Team: team, Kind: kind, X: x, Y: y,
		HP: hp, MaxHP: hp, Damage: dmg, Range: atkRange, Lane: lane, WaypointIdx: wpIdx,
		State: StateMarching, AnchorX: x, AnchorY: y,
	})
}
