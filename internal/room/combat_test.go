package room

import (
	"testing"

	"github.com/l1jgo/arena/internal/maps"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent map[ConnID][][]byte
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(map[ConnID][][]byte)}
}

func (s *recordingSender) Send(conn ConnID, payload []byte) {
	s.sent[conn] = append(s.sent[conn], payload)
}

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	return NewRoom(1, newRecordingSender(), zap.NewNop())
}

func seatPlayer(r *Room, team maps.Team, hero HeroKind, x, y int) *Player {
	id, _ := r.playerPartition.Next()
	tmpl := r.heroes[hero]
	p := &Player{
		ID: id, Team: team, Hero: hero, X: x, Y: y,
		HP: tmpl.MaxHP, MaxHP: tmpl.MaxHP, BaseDef: tmpl.Defense, IsPlaying: true,
	}
	r.players.Set(id, p)
	return p
}

func TestResolveAttackKillsAndRespawnsPlayer(t *testing.T) {
	r := newTestRoom(t)
	attacker := seatPlayer(r, maps.TeamOne, HeroWarrior, 10, 10)
	target := seatPlayer(r, maps.TeamTwo, HeroMage, 10, 10)
	target.HP = 1

	r.ResolveAttack(attacker.ID)

	if target.HP != target.MaxHP {
		t.Fatalf("target.HP = %d, want reset to MaxHP after death", target.HP)
	}
	base := maps.TeamTwoBase
	if target.X != base.X || target.Y != base.Y {
		t.Fatalf("target position = (%d,%d), want team base (%d,%d)", target.X, target.Y, base.X, base.Y)
	}
	if attacker.Gold != goldOnPlayerKill {
		t.Fatalf("attacker.Gold = %d, want %d", attacker.Gold, goldOnPlayerKill)
	}
}

func TestResolveAttackOutOfRangeDoesNothing(t *testing.T) {
	r := newTestRoom(t)
	attacker := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	target := seatPlayer(r, maps.TeamTwo, HeroMage, 500, 500)

	r.ResolveAttack(attacker.ID)

	if target.HP != target.MaxHP {
		t.Fatalf("target.HP = %d, want untouched", target.HP)
	}
	if attacker.Gold != 0 {
		t.Fatalf("attacker.Gold = %d, want 0", attacker.Gold)
	}
}

func TestResolveAttackIgnoresAllies(t *testing.T) {
	r := newTestRoom(t)
	attacker := seatPlayer(r, maps.TeamOne, HeroWarrior, 10, 10)
	ally := seatPlayer(r, maps.TeamOne, HeroMage, 10, 10)

	r.ResolveAttack(attacker.ID)

	if ally.HP != ally.MaxHP {
		t.Fatalf("ally.HP = %d, want untouched", ally.HP)
	}
}

func TestPurchaseDebitsGoldAndGrantsBonus(t *testing.T) {
	r := newTestRoom(t)
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	p.Gold = 1000

	r.Purchase(p.ID, ItemClothArmor)

	if p.Gold != 500 {
		t.Fatalf("p.Gold = %d, want 500 after a 500-cost purchase", p.Gold)
	}
	if len(p.Inventory) != 1 || p.Inventory[0] != ItemClothArmor {
		t.Fatalf("p.Inventory = %v, want [ItemClothArmor]", p.Inventory)
	}
	wantMaxHP := r.heroes[HeroWarrior].MaxHP + 500
	if p.MaxHP != wantMaxHP {
		t.Fatalf("p.MaxHP = %d, want %d (the item's max_hp bonus folded into the stored max)", p.MaxHP, wantMaxHP)
	}
	if p.HP != p.MaxHP {
		t.Fatalf("p.HP = %d, want equal to the raised MaxHP %d (invariant 1: hp never exceeds max_hp)", p.HP, p.MaxHP)
	}
}

func TestRespawnAfterPurchaseUsesRaisedMaxHP(t *testing.T) {
	r := newTestRoom(t)
	attacker := seatPlayer(r, maps.TeamOne, HeroWarrior, 10, 10)
	target := seatPlayer(r, maps.TeamTwo, HeroMage, 10, 10)
	target.Gold = 1000
	r.Purchase(target.ID, ItemClothArmor)
	target.HP = 1

	r.ResolveAttack(attacker.ID)

	wantMaxHP := r.heroes[HeroMage].MaxHP + 500
	if target.MaxHP != wantMaxHP {
		t.Fatalf("target.MaxHP = %d, want %d", target.MaxHP, wantMaxHP)
	}
	if target.HP != wantMaxHP {
		t.Fatalf("target.HP = %d, want respawn to restore the item-raised MaxHP %d, not the base", target.HP, wantMaxHP)
	}
}

func TestResolveAttackSetsAttackerTargetAndVictimHitFlash(t *testing.T) {
	r := newTestRoom(t)
	attacker := seatPlayer(r, maps.TeamOne, HeroWarrior, 10, 10)
	target := seatPlayer(r, maps.TeamTwo, HeroMage, 10, 10)

	r.ResolveAttack(attacker.ID)

	if attacker.CurrentTargetID != target.ID {
		t.Fatalf("attacker.CurrentTargetID = %d, want %d", attacker.CurrentTargetID, target.ID)
	}
	if attacker.VisualEndAt <= r.Elapsed {
		t.Fatal("attacker.VisualEndAt not set to a future time")
	}
	if target.CurrentEffect != EffectBurst {
		t.Fatalf("target.CurrentEffect = %v, want EffectBurst", target.CurrentEffect)
	}
	if target.VisualEndAt <= r.Elapsed {
		t.Fatal("target.VisualEndAt not set to a future time")
	}
}

func TestPurchaseInsufficientGoldNoOp(t *testing.T) {
	r := newTestRoom(t)
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	p.Gold = 10

	r.Purchase(p.ID, ItemClothArmor)

	if p.Gold != 10 || len(p.Inventory) != 0 {
		t.Fatalf("purchase with insufficient gold mutated state: gold=%d inventory=%v", p.Gold, p.Inventory)
	}
}

func TestAttackTowerDamagesWithoutKillGold(t *testing.T) {
	r := newTestRoom(t)
	attacker := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)

	towerID, _ := r.towerPartition.Next()
	tower := &Tower{ID: towerID, X: 0, Y: 0, Team: maps.TeamTwo, HP: 10000, MaxHP: 10000}
	r.towers.Set(towerID, tower)

	r.ResolveAttack(attacker.ID)

	stats := r.derivedStats(attacker)
	if tower.HP != 10000-stats.Attack {
		t.Fatalf("tower.HP = %d, want %d", tower.HP, 10000-stats.Attack)
	}
	if attacker.Gold != 0 {
		t.Fatalf("attacker.Gold = %d, want 0 (towers grant no gold)", attacker.Gold)
	}
}

func TestAttackJungleBossGrantsBossGold(t *testing.T) {
	r := newTestRoom(t)
	attacker := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)

	bossID, _ := r.bossPartition.Next()
	boss := &JungleMob{ID: bossID, Kind: JungleOverlord, X: 0, Y: 0, HP: 1, MaxHP: 60000}
	r.jungle.Set(bossID, boss)

	r.ResolveAttack(attacker.ID)

	if boss.HP > 0 {
		t.Fatalf("boss.HP = %d, want lethal damage applied", boss.HP)
	}
	if attacker.Gold != goldOnBossKill {
		t.Fatalf("attacker.Gold = %d, want %d", attacker.Gold, goldOnBossKill)
	}
}
