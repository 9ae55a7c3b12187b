package lobby

import (
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/room"
	"go.uber.org/zap"
)

type nopSender struct{}

func (nopSender) Send(room.ConnID, []byte) {}

func TestCreateAndJoinRoom(t *testing.T) {
	reg := NewRegistry(nopSender{}, zap.NewNop(), 10, 10, 10*time.Second)
	r := reg.CreateRoom(1, "alice")
	if r == nil {
		t.Fatal("CreateRoom returned nil")
	}
	if _, ok := reg.RoomOf(1); !ok {
		t.Fatal("RoomOf(1) not found after create")
	}
	joined, ok := reg.JoinRoom(2, "bob", r.ID)
	if !ok || joined != r {
		t.Fatalf("JoinRoom() = %v, %v, want %v, true", joined, ok, r)
	}
}

func TestLeaveRoomEmptiesAndGetsReaped(t *testing.T) {
	reg := NewRegistry(nopSender{}, zap.NewNop(), 10, 10, 10*time.Second)
	r := reg.CreateRoom(1, "alice")
	reg.LeaveRoom(1)
	if !r.IsEmpty() {
		t.Fatal("room should be empty after the only player leaves")
	}
	reg.Tick(time.Millisecond)
	if _, ok := reg.RoomOf(1); ok {
		t.Fatal("RoomOf(1) should fail after the connection left")
	}
	if _, ok := reg.rooms[r.ID]; ok {
		t.Fatal("empty room should be reaped by Tick")
	}
}

func TestMatchmakingFillsRoomAtQueueSize(t *testing.T) {
	reg := NewRegistry(nopSender{}, zap.NewNop(), 2, 2, 10*time.Second)
	reg.Enqueue(1, "a")
	reg.Enqueue(2, "b")
	reg.Tick(time.Millisecond)

	r1, ok1 := reg.RoomOf(1)
	r2, ok2 := reg.RoomOf(2)
	if !ok1 || !ok2 || r1 != r2 {
		t.Fatalf("expected both queued connections in the same room, got %v/%v %v/%v", r1, ok1, r2, ok2)
	}
	if r1.Status != room.StatusPicking {
		t.Fatalf("matchmade room status = %v, want StatusPicking", r1.Status)
	}
}

func TestMatchmakingFlushesAfterWait(t *testing.T) {
	reg := NewRegistry(nopSender{}, zap.NewNop(), 10, 10, 5*time.Millisecond)
	reg.Enqueue(1, "a")
	reg.Tick(10 * time.Millisecond)
	if _, ok := reg.RoomOf(1); !ok {
		t.Fatal("expected the lone queued connection to be flushed into a room after the wait elapsed")
	}
}

func TestOnDisconnectDropsFromQueue(t *testing.T) {
	reg := NewRegistry(nopSender{}, zap.NewNop(), 10, 10, 10*time.Second)
	reg.Enqueue(1, "a")
	reg.OnDisconnect(1)
	reg.Tick(time.Millisecond)
	if _, ok := reg.RoomOf(1); ok {
		t.Fatal("disconnected connection should not have been matched into a room")
	}
}
