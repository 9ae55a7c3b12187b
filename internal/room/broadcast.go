package room

import (
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/protocol"
	"github.com/l1jgo/arena/internal/sim"
)

// broadcastSystem is the per-tick fan-out: every live entity, every
// unexpired effect, then a frame-boundary marker, to every seated
// connection. The frames are collected into a new slice on every tick
// and sent; no buffer is kept or reused from one tick to the next.
type broadcastSystem struct{ r *Room }

func (s broadcastSystem) Phase() sim.Phase { return sim.PhaseOutput }

func (s broadcastSystem) Update(dt time.Duration) {
	r := s.r
	if r.Status != StatusPlaying || r.sender == nil {
		return
	}

	// visualTarget reports a target id only while its 200ms laser-animation
	// window (spec.md §4.4) is still open, so a stale target from a prior
	// attack doesn't linger on the wire forever.
	visualTarget := func(id ecs.EntityID, visualEndAt time.Duration) int32 {
		if visualEndAt <= r.Elapsed {
			return 0
		}
		return int32(id)
	}

	var frames [][]byte
	r.players.Each(func(_ ecs.EntityID, p *Player) {
		if !p.IsPlaying {
			return
		}
		frames = append(frames, protocol.GamePacket{
			ID: int32(p.ID), X: int32(p.X), Y: int32(p.Y),
			Color: int32(p.Team), HP: int32(p.HP), MaxHP: int32(p.MaxHP),
			Input: int32(p.Hero), Effect: int32(p.CurrentEffect),
			AttackTargetID: visualTarget(p.CurrentTargetID, p.VisualEndAt), Gold: int32(p.Gold),
		}.Encode(protocol.TagSnapshotPlayer))
	})
	r.towers.Each(func(_ ecs.EntityID, t *Tower) {
		if !t.Alive() {
			return
		}
		frames = append(frames, protocol.GamePacket{
			ID: int32(t.ID), X: int32(t.X), Y: int32(t.Y),
			Color: int32(t.Team), HP: int32(t.HP), MaxHP: int32(t.MaxHP),
			Extra: int32(t.Tier), AttackTargetID: visualTarget(t.TargetID, t.VisualEndAt),
		}.Encode(protocol.TagSnapshotTower))
	})
	r.minions.Each(func(_ ecs.EntityID, m *Minion) {
		if m.HP <= 0 {
			return
		}
		frames = append(frames, protocol.GamePacket{
			ID: int32(m.ID), X: int32(m.X), Y: int32(m.Y),
			Color: int32(m.Team), HP: int32(m.HP), MaxHP: int32(m.MaxHP),
			Input: int32(m.Kind), AttackTargetID: visualTarget(m.TargetID, m.VisualEndAt),
		}.Encode(protocol.TagSnapshotMinion))
	})
	r.jungle.Each(func(_ ecs.EntityID, j *JungleMob) {
		if !j.Alive() {
			return
		}
		frames = append(frames, protocol.GamePacket{
			ID: int32(j.ID), X: int32(j.X), Y: int32(j.Y),
			Color: int32(j.Kind), HP: int32(j.HP), MaxHP: int32(j.MaxHP),
			Extra: int32(j.BossState), AttackTargetID: visualTarget(j.TargetID, j.VisualEndAt),
		}.Encode(protocol.TagSnapshotJungle))
	})
	for _, e := range r.effects {
		frames = append(frames, protocol.GamePacket{
			ID: int32(e.OwnerID), X: int32(e.X), Y: int32(e.Y),
			Input: int32(e.Kind), AttackRange: int32(e.Radius),
		}.Encode(protocol.TagEffect))
	}
	frames = append(frames, protocol.GamePacket{
		Extra: int32(r.Elapsed / time.Second),
	}.Encode(protocol.TagFrameMarker))

	for i := range r.Slots {
		slot := &r.Slots[i]
		if !slot.Occupied {
			continue
		}
		for _, f := range frames {
			r.sender.Send(slot.Conn, f)
		}
	}
}
