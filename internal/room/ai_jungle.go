package room

import (
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
	"github.com/l1jgo/arena/internal/sim"
)

const (
	jungleAggroClear  = 5 * time.Second
	jungleRegenTick   = 1 * time.Second
	jungleRegenAmount = 5000

	overlordSkillDelay = 1500 * time.Millisecond
	tyrantSkillDur     = 2000 * time.Millisecond
	tyrantWaveTick     = 500 * time.Millisecond

	overlordWarnRadius  = 4
	overlordBurstRadius = 4
	tyrantShockRadius   = 7
)

// JungleTemplate is a camp monster or boss's fixed stat line. Standard and
// buff monster figures are not pinned by any source and were chosen to
// sit comfortably below the hero damage/defense ranges in hero.go; boss
// figures are exact per spec.md §4.6.
type JungleTemplate struct {
	HP      int
	Damage  int
	Range   int
	Cadence time.Duration
}

var jungleTemplates = map[JungleKind]JungleTemplate{
	JungleStandard: {HP: 3000, Damage: 150, Range: 2, Cadence: 2 * time.Second},
	JungleRedBuff:  {HP: 5000, Damage: 200, Range: 2, Cadence: 2 * time.Second},
	JungleBlueBuff: {HP: 5000, Damage: 200, Range: 2, Cadence: 2 * time.Second},
	JungleOverlord: {HP: 60000, Damage: 200, Range: 8, Cadence: 2500 * time.Millisecond},
	JungleTyrant:   {HP: 40000, Damage: 300, Range: 7, Cadence: 2000 * time.Millisecond},
}

type jungleAISystem struct{ r *Room }

func (s jungleAISystem) Phase() sim.Phase { return sim.PhaseUpdate }

func (s jungleAISystem) Update(dt time.Duration) {
	r := s.r
	if r.Status != StatusPlaying {
		return
	}
	r.jungle.Each(func(_ ecs.EntityID, j *JungleMob) {
		if !j.Alive() {
			return
		}
		r.updateJungle(j)
	})
}

func (r *Room) updateJungle(j *JungleMob) {
	switch j.BossState {
	case BossPrepare:
		r.overlordPrepareTick(j)
		return
	case BossActive:
		r.tyrantActiveTick(j)
		return
	}

	if j.TargetID != 0 && r.Elapsed-j.LastHitByAt > jungleAggroClear {
		j.TargetID = 0
		j.AttackCounter = 0
		j.BossState = BossIdle
	}

	target, targetInRange := r.jungleTargetInRange(j)
	if !targetInRange {
		r.jungleRegen(j)
		return
	}

	tmpl := jungleTemplates[j.Kind]
	if r.Elapsed-j.LastAttackAt < tmpl.Cadence {
		return
	}
	j.LastAttackAt = r.Elapsed

	if j.IsBoss() && j.AttackCounter >= 2 {
		j.AttackCounter = 0
		r.enterBossSkill(j)
		return
	}

	j.AttackCounter++
	stats := r.derivedStats(target)
	dmg := max(1, j.Damage-stats.Defense)
	target.HP -= dmg
	j.VisualEndAt = r.Elapsed + towerVisualWindow
	if target.HP <= 0 {
		r.respawnPlayer(target)
	}
}

// jungleTargetInRange resolves the current aggro target, if still alive
// and within the monster's range.
func (r *Room) jungleTargetInRange(j *JungleMob) (*Player, bool) {
	if j.TargetID == 0 {
		return nil, false
	}
	p, ok := r.players.Get(j.TargetID)
	if !ok || !p.IsPlaying {
		return nil, false
	}
	if distSq(j.X, j.Y, p.X, p.Y) > j.Range*j.Range {
		return nil, false
	}
	return p, true
}

func (r *Room) jungleRegen(j *JungleMob) {
	if j.HP >= j.MaxHP {
		return
	}
	if r.Elapsed-j.LastRegenAt < jungleRegenTick {
		return
	}
	j.LastRegenAt = r.Elapsed
	j.HP = min(j.MaxHP, j.HP+jungleRegenAmount)
}

func (r *Room) enterBossSkill(j *JungleMob) {
	switch j.Kind {
	case JungleOverlord:
		j.BossState = BossPrepare
		j.SkillStartAt = r.Elapsed
		j.SkillTargets = j.SkillTargets[:0]
		r.players.Each(func(_ ecs.EntityID, p *Player) {
			if !p.IsPlaying || distSq(j.X, j.Y, p.X, p.Y) > j.Range*j.Range {
				return
			}
			cell := maps.Point{X: p.X, Y: p.Y}
			j.SkillTargets = append(j.SkillTargets, cell)
			r.effects = append(r.effects, SkillEffect{
				X: cell.X, Y: cell.Y, Kind: EffectWarn,
				StartAt: r.Elapsed, EndAt: r.Elapsed + overlordSkillDelay,
				Radius: overlordWarnRadius, OwnerID: j.ID,
			})
		})
	case JungleTyrant:
		j.BossState = BossActive
		j.SkillStartAt = r.Elapsed
		j.NextTickAt = r.Elapsed
	}
}

func (r *Room) overlordPrepareTick(j *JungleMob) {
	if r.Elapsed-j.SkillStartAt < overlordSkillDelay {
		return
	}
	tmpl := jungleTemplates[JungleOverlord]
	for _, cell := range j.SkillTargets {
		r.effects = append(r.effects, SkillEffect{
			X: cell.X, Y: cell.Y, Kind: EffectBurst,
			StartAt: r.Elapsed, EndAt: r.Elapsed + towerVisualWindow,
			Radius: overlordBurstRadius, OwnerID: j.ID,
		})
	}
	r.players.Each(func(_ ecs.EntityID, p *Player) {
		if !p.IsPlaying {
			return
		}
		for _, cell := range j.SkillTargets {
			if distSq(cell.X, cell.Y, p.X, p.Y) > overlordBurstRadius*overlordBurstRadius {
				continue
			}
			stats := r.derivedStats(p)
			dmg := max(1, 3*tmpl.Damage-stats.Defense)
			p.HP -= dmg
			if p.HP <= 0 {
				r.respawnPlayer(p)
			}
			break
		}
	})
	j.SkillTargets = nil
	j.BossState = BossIdle
}

func (r *Room) tyrantActiveTick(j *JungleMob) {
	if r.Elapsed-j.SkillStartAt >= tyrantSkillDur {
		j.BossState = BossIdle
		return
	}
	if r.Elapsed < j.NextTickAt {
		return
	}
	j.NextTickAt += tyrantWaveTick
	tmpl := jungleTemplates[JungleTyrant]
	r.effects = append(r.effects, SkillEffect{
		X: j.X, Y: j.Y, Kind: EffectWave,
		StartAt: r.Elapsed, EndAt: r.Elapsed + tyrantWaveTick,
		Radius: tyrantShockRadius, OwnerID: j.ID,
	})
	r.players.Each(func(_ ecs.EntityID, p *Player) {
		if !p.IsPlaying || distSq(j.X, j.Y, p.X, p.Y) > tyrantShockRadius*tyrantShockRadius {
			return
		}
		stats := r.derivedStats(p)
		dmg := max(1, 2*tmpl.Damage-stats.Defense)
		p.HP -= dmg
		if p.HP <= 0 {
			r.respawnPlayer(p)
			return
		}
		r.pushOutward(p, j.X, j.Y)
	})
}

// pushOutward displaces a player one cell along the sign of (player - boss),
// skipping the move entirely if the destination cell is blocked.
func (r *Room) pushOutward(p *Player, fromX, fromY int) {
	dx := sign(p.X - fromX)
	dy := sign(p.Y - fromY)
	nx, ny := p.X+dx, p.Y+dy
	if r.Walkable(nx, ny) {
		p.X, p.Y = nx, ny
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
