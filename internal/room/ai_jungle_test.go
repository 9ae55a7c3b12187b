package room

import (
	"testing"

	"github.com/l1jgo/arena/internal/maps"
)

func seatJungle(r *Room, kind JungleKind, x, y, hp int) *JungleMob {
	id, _ := r.bossPartition.Next()
	tmpl := jungleTemplates[kind]
	j := &JungleMob{ID: id, Kind: kind, X: x, Y: y, HP: hp, MaxHP: tmpl.HP, Damage: tmpl.Damage, Range: tmpl.Range}
	r.jungle.Set(id, j)
	return j
}

func TestJungleRegensWhenUnaggroed(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	j := seatJungle(r, JungleOverlord, 0, 0, 1000)
	r.Elapsed = jungleRegenTick

	r.updateJungle(j)
	if j.HP != 1000+jungleRegenAmount {
		t.Fatalf("HP = %d, want %d after one regen tick", j.HP, 1000+jungleRegenAmount)
	}
}

func TestJungleRegenCapsAtMaxHP(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	j := seatJungle(r, JungleStandard, 0, 0, jungleTemplates[JungleStandard].HP-1)
	r.Elapsed = jungleRegenTick

	r.updateJungle(j)
	if j.HP != jungleTemplates[JungleStandard].HP {
		t.Fatalf("HP = %d, want capped at MaxHP %d", j.HP, jungleTemplates[JungleStandard].HP)
	}
}

func TestJungleAttacksTargetInRange(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	j := seatJungle(r, JungleStandard, 0, 0, jungleTemplates[JungleStandard].HP)
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	j.TargetID = p.ID
	r.Elapsed = jungleTemplates[JungleStandard].Cadence

	r.updateJungle(j)

	if p.HP == p.MaxHP {
		t.Fatal("player.HP unchanged, want damaged by in-range jungle monster")
	}
	if j.AttackCounter != 1 {
		t.Fatalf("AttackCounter = %d, want 1 after first attack", j.AttackCounter)
	}
}

func TestJungleClearsAggroAfterWindow(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	j := seatJungle(r, JungleStandard, 0, 0, jungleTemplates[JungleStandard].HP)
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	j.TargetID = p.ID
	j.AttackCounter = 1
	j.LastHitByAt = 0
	r.Elapsed = jungleAggroClear + 1

	r.updateJungle(j)

	if j.TargetID != 0 {
		t.Fatalf("TargetID = %d, want cleared after aggro window elapses", j.TargetID)
	}
	if j.AttackCounter != 0 {
		t.Fatalf("AttackCounter = %d, want reset to 0", j.AttackCounter)
	}
}

func TestOverlordEntersBossSkillAfterThirdAttack(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	j := seatJungle(r, JungleOverlord, 0, 0, jungleTemplates[JungleOverlord].HP)
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	j.TargetID = p.ID
	j.AttackCounter = 2
	r.Elapsed = jungleTemplates[JungleOverlord].Cadence

	r.updateJungle(j)

	if j.BossState != BossPrepare {
		t.Fatalf("BossState = %v, want BossPrepare once the attack counter threshold is hit", j.BossState)
	}
	if j.AttackCounter != 0 {
		t.Fatalf("AttackCounter = %d, want reset to 0 entering the skill", j.AttackCounter)
	}
	if len(j.SkillTargets) != 1 {
		t.Fatalf("len(SkillTargets) = %d, want 1 (the in-range player)", len(j.SkillTargets))
	}
}

func TestOverlordPrepareTickDamagesAfterDelay(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	j := seatJungle(r, JungleOverlord, 0, 0, jungleTemplates[JungleOverlord].HP)
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	j.BossState = BossPrepare
	j.SkillStartAt = 0
	j.SkillTargets = []maps.Point{{X: 0, Y: 0}}
	r.Elapsed = overlordSkillDelay

	r.overlordPrepareTick(j)

	if p.HP == p.MaxHP {
		t.Fatal("player.HP unchanged, want burst damage applied inside the blast radius")
	}
	if j.BossState != BossIdle {
		t.Fatalf("BossState = %v, want BossIdle after the skill resolves", j.BossState)
	}
}

func TestTyrantActiveTickPushesSurvivors(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	r.Grid = maps.Generate()
	j := seatJungle(r, JungleTyrant, 64, 64, jungleTemplates[JungleTyrant].HP)
	j.BossState = BossActive
	j.SkillStartAt = 0
	j.NextTickAt = 0
	p := seatPlayer(r, maps.TeamOne, HeroTank, 65, 64)
	p.HP = 1 << 20

	r.Elapsed = 0
	r.tyrantActiveTick(j)

	if p.X == 65 && p.Y == 64 {
		t.Fatal("player position unchanged, want pushed outward from the boss")
	}
}
