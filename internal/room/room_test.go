package room

import (
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/maps"
)

func TestTickAdvancesElapsed(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusPlaying
	r.Grid = maps.Generate()

	before := r.Elapsed
	dt := 50 * time.Millisecond
	r.Tick(dt)

	if r.Elapsed != before+dt {
		t.Fatalf("Elapsed = %v, want %v", r.Elapsed, before+dt)
	}
}

func TestSubmitThenDrainCommandsReturnsQueuedAndClears(t *testing.T) {
	r := newTestRoom(t)
	r.Submit(Command{Tag: CmdMove})
	r.Submit(Command{Tag: CmdAttack})

	cmds := r.drainCommands()
	if len(cmds) != 2 {
		t.Fatalf("len(drainCommands()) = %d, want 2", len(cmds))
	}
	if more := r.drainCommands(); len(more) != 0 {
		t.Fatalf("len(drainCommands()) after drain = %d, want 0", len(more))
	}
}

func TestIsEmptyReflectsSlotOccupancy(t *testing.T) {
	r := newTestRoom(t)
	if !r.IsEmpty() {
		t.Fatal("IsEmpty() = false on a fresh room")
	}
	r.AddPlayer(ConnID(1), "a")
	if r.IsEmpty() {
		t.Fatal("IsEmpty() = true with a seated player")
	}
	r.RemovePlayer(ConnID(1))
	if !r.IsEmpty() {
		t.Fatal("IsEmpty() = false after the only player leaves")
	}
}

func TestWalkableFalseOnLiveTowerCell(t *testing.T) {
	r := newTestRoom(t)
	r.Grid = maps.Generate()
	spawn := r.Grid.Towers()[0]

	towerID, _ := r.towerPartition.Next()
	r.towers.Set(towerID, &Tower{ID: towerID, X: spawn.X, Y: spawn.Y, Team: spawn.Team, HP: 1000, MaxHP: 1000})

	if r.Walkable(spawn.X, spawn.Y) {
		t.Fatal("Walkable() = true on a cell with a live tower")
	}

	tw, _ := r.towers.Get(towerID)
	tw.HP = 0
	if !r.Walkable(spawn.X, spawn.Y) {
		t.Fatal("Walkable() = false on a cell whose tower has died")
	}
}

func TestTowerAtFindsLiveTowerByPosition(t *testing.T) {
	r := newTestRoom(t)
	towerID, _ := r.towerPartition.Next()
	r.towers.Set(towerID, &Tower{ID: towerID, X: 5, Y: 5, Team: maps.TeamOne, HP: 1000, MaxHP: 1000})

	found, ok := r.towerAt(5, 5)
	if !ok || found.ID != towerID {
		t.Fatalf("towerAt(5,5) = %v,%v want the seated tower", found, ok)
	}
	if _, ok := r.towerAt(6, 6); ok {
		t.Fatal("towerAt(6,6) = true, want false on an empty cell")
	}
}
