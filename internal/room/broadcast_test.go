package room

import (
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
	"github.com/l1jgo/arena/internal/protocol"
)

func TestBroadcastSendsFramesOnlyToOccupiedSlots(t *testing.T) {
	r := newTestRoom(t)
	sender := r.sender.(*recordingSender)

	r.AddPlayer(ConnID(1), "alice")
	r.StartGame(ConnID(1))
	r.Select(ConnID(1), HeroWarrior)

	broadcastSystem{r}.Update(0)

	if len(sender.sent[ConnID(1)]) == 0 {
		t.Fatal("occupied slot received no frames")
	}
	if len(sender.sent[ConnID(99)]) != 0 {
		t.Fatal("unoccupied connection received frames")
	}
}

func TestBroadcastSkippedOutsidePlayingStatus(t *testing.T) {
	r := newTestRoom(t)
	r.Status = StatusWaiting
	sender := r.sender.(*recordingSender)
	r.AddPlayer(ConnID(1), "alice")

	broadcastSystem{r}.Update(0)

	if len(sender.sent[ConnID(1)]) != 0 {
		t.Fatal("frames sent while room is not playing")
	}
}

// playerSnapshotAttackTarget scans the frames sent to a connection for the
// player snapshot tag and returns its decoded AttackTargetID field.
func playerSnapshotAttackTarget(t *testing.T, frames [][]byte) int32 {
	t.Helper()
	for _, f := range frames {
		tagR := protocol.NewReader(f)
		tag, err := tagR.ReadI32()
		if err != nil || protocol.Tag(tag) != protocol.TagSnapshotPlayer {
			continue
		}
		pkt, err := protocol.DecodeGamePacket(protocol.TagSnapshotPlayer, f[4:])
		if err != nil {
			t.Fatalf("decode player snapshot: %v", err)
		}
		return pkt.AttackTargetID
	}
	t.Fatal("no player snapshot frame found")
	return 0
}

func TestBroadcastOmitsAttackTargetOnceVisualWindowExpires(t *testing.T) {
	r := newTestRoom(t)
	r.Grid = maps.Generate()
	sender := r.sender.(*recordingSender)
	r.AddPlayer(ConnID(1), "alice")
	r.StartGame(ConnID(1))
	r.Select(ConnID(1), HeroWarrior)

	var p *Player
	r.players.Each(func(_ ecs.EntityID, pl *Player) { p = pl })
	p.CurrentTargetID = 42
	p.VisualEndAt = r.Elapsed + time.Second

	broadcastSystem{r}.Update(0)
	if got := playerSnapshotAttackTarget(t, sender.sent[ConnID(1)]); got != 42 {
		t.Fatalf("AttackTargetID = %d, want 42 while the visual window is open", got)
	}

	r.Elapsed += 2 * time.Second
	sender.sent[ConnID(1)] = nil
	broadcastSystem{r}.Update(0)
	if got := playerSnapshotAttackTarget(t, sender.sent[ConnID(1)]); got != 0 {
		t.Fatalf("AttackTargetID = %d, want 0 after the visual window has expired", got)
	}
}

func TestBroadcastIncludesLiveEffects(t *testing.T) {
	r := newTestRoom(t)
	sender := r.sender.(*recordingSender)
	r.AddPlayer(ConnID(1), "alice")
	r.StartGame(ConnID(1))
	r.Select(ConnID(1), HeroWarrior)
	r.effects = append(r.effects, SkillEffect{X: 1, Y: 1, Kind: EffectWarn, EndAt: r.Elapsed + time.Second})

	before := len(sender.sent[ConnID(1)])
	broadcastSystem{r}.Update(0)

	if len(sender.sent[ConnID(1)]) <= before {
		t.Fatal("no new frames sent, want at least a frame marker and the effect")
	}
}
