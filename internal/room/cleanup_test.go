package room

import (
	"testing"

	"github.com/l1jgo/arena/internal/maps"
)

func TestCleanupClearsExpiredHitFlash(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	p.CurrentEffect = EffectBurst
	p.VisualEndAt = 0
	r.Elapsed = 1

	cleanupSystem{r}.Update(0)

	if p.CurrentEffect != EffectNone {
		t.Fatalf("CurrentEffect = %v, want EffectNone after VisualEndAt passes", p.CurrentEffect)
	}
}

func TestCleanupKeepsUnexpiredHitFlash(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	p := seatPlayer(r, maps.TeamOne, HeroWarrior, 0, 0)
	p.CurrentEffect = EffectBurst
	p.VisualEndAt = 10
	r.Elapsed = 1

	cleanupSystem{r}.Update(0)

	if p.CurrentEffect != EffectBurst {
		t.Fatalf("CurrentEffect = %v, want unchanged before VisualEndAt", p.CurrentEffect)
	}
}

func TestCleanupReapsDeadMinions(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	dead := seatMinion(r, maps.TeamOne, maps.LaneTop, 0, 0)
	dead.HP = 0
	alive := seatMinion(r, maps.TeamOne, maps.LaneTop, 0, 0)

	cleanupSystem{r}.Update(0)

	if _, ok := r.minions.Get(dead.ID); ok {
		t.Fatal("dead minion still present after cleanup")
	}
	if _, ok := r.minions.Get(alive.ID); !ok {
		t.Fatal("live minion removed by cleanup")
	}
}
