package room

import (
	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
)

// tower hp tiers per spec.md §3: lane towers at 10000/12000/15000 for
// outer/mid/inner tiers respectively.
var towerTierHP = map[maps.Tier]int{
	maps.TierOuter: 10000,
	maps.TierMid:   12000,
	maps.TierInner: 15000,
}

// AddPlayer seats a connection into the first free slot, assigning its
// team by slot half (slots 0-4 team one, 5-9 team two), mirroring a
// standard 5v5 bench. Returns false if the room is full or already
// past the waiting phase.
func (r *Room) AddPlayer(conn ConnID, name string) bool {
	if r.Status != StatusWaiting {
		return false
	}
	for i := range r.Slots {
		if r.Slots[i].Occupied {
			continue
		}
		r.Slots[i] = Slot{
			Conn: conn, Occupied: true, Name: name, Team: slotTeam(i),
		}
		return true
	}
	return false
}

// FinalParticipant is one seated connection's last-known standing,
// captured at the moment it leaves since its slot is zeroed
// immediately after — the only point a closing room still has the data
// an optional match-history recorder would want.
type FinalParticipant struct {
	Name   string
	Team   maps.Team
	HeroID HeroKind
	Gold   int
}

// RemovePlayer clears whatever slot the connection holds. Per
// spec.md's connection-loss rule, this is final — no reconnection.
func (r *Room) RemovePlayer(conn ConnID) {
	for i := range r.Slots {
		if r.Slots[i].Occupied && r.Slots[i].Conn == conn {
			slot := r.Slots[i]
			gold := 0
			if pid, ok := r.connPlayer[conn]; ok {
				if p, ok := r.players.Get(pid); ok {
					p.IsPlaying = false
					gold = p.Gold
				}
				delete(r.connPlayer, conn)
			}
			r.finalParticipants = append(r.finalParticipants, FinalParticipant{
				Name: slot.Name, Team: slot.Team, HeroID: slot.HeroID, Gold: gold,
			})
			r.Slots[i] = Slot{}
		}
	}
}

// FinalParticipants returns every connection that has ever left this
// room, most recent last. Safe to read once the room is empty.
func (r *Room) FinalParticipants() []FinalParticipant {
	return r.finalParticipants
}

func (r *Room) slotOf(conn ConnID) (int, bool) {
	for i := range r.Slots {
		if r.Slots[i].Occupied && r.Slots[i].Conn == conn {
			return i, true
		}
	}
	return 0, false
}

// SetReady toggles a seated connection's ready flag.
func (r *Room) SetReady(conn ConnID, ready bool) {
	if i, ok := r.slotOf(conn); ok {
		r.Slots[i].Ready = ready
	}
}

// ChangeSlot moves a seated connection to a different free slot,
// re-deriving its team from the new slot half.
func (r *Room) ChangeSlot(conn ConnID, target int) bool {
	if target < 0 || target >= maxSlots || r.Slots[target].Occupied {
		return false
	}
	i, ok := r.slotOf(conn)
	if !ok {
		return false
	}
	r.Slots[target] = r.Slots[i]
	r.Slots[target].Team = slotTeam(target)
	r.Slots[i] = Slot{}
	return true
}

func slotTeam(slot int) maps.Team {
	if slot < maxSlots/2 {
		return maps.TeamOne
	}
	return maps.TeamTwo
}

// isOwner reports whether conn holds the lowest occupied slot index —
// the room's de facto owner.
func (r *Room) isOwner(conn ConnID) bool {
	for i := range r.Slots {
		if r.Slots[i].Occupied {
			return r.Slots[i].Conn == conn
		}
	}
	return false
}

// StartGame transitions waiting -> picking: only the owner may call it.
// Every slot's hero id resets to zero, per spec.md §4.8.
func (r *Room) StartGame(conn ConnID) bool {
	if r.Status != StatusWaiting || !r.isOwner(conn) {
		return false
	}
	for i := range r.Slots {
		r.Slots[i].HeroID = HeroNone
	}
	r.Status = StatusPicking
	return true
}

// Select records a seated connection's hero pick. Once every occupied
// slot has a non-zero hero id, the battle is initialized and the room
// transitions to playing.
func (r *Room) Select(conn ConnID, hero HeroKind) bool {
	if r.Status != StatusPicking || hero == HeroNone {
		return false
	}
	i, ok := r.slotOf(conn)
	if !ok {
		return false
	}
	r.Slots[i].HeroID = hero
	if !r.allPicked() {
		return true
	}
	r.startBattle()
	return true
}

func (r *Room) allPicked() bool {
	for i := range r.Slots {
		if r.Slots[i].Occupied && r.Slots[i].HeroID == HeroNone {
			return false
		}
	}
	return true
}

// startBattle instantiates towers, jungle mobs, bosses, and players from
// the current slot assignments, then moves the room into the playing
// phase. Grounded on original_source/game_room.cpp's init_map_and_units.
func (r *Room) startBattle() {
	r.Grid = maps.Generate()

	for _, spawn := range r.Grid.Towers() {
		id, ok := r.towerPartition.Next()
		if !ok {
			continue
		}
		hp := towerTierHP[spawn.Tier]
		r.towers.Set(id, &Tower{
			ID: id, X: spawn.X, Y: spawn.Y, Team: spawn.Team, Tier: spawn.Tier,
			HP: hp, MaxHP: hp,
		})
	}

	r.spawnJungleCamps()
	r.spawnBosses()

	for i := range r.Slots {
		slot := &r.Slots[i]
		if !slot.Occupied {
			continue
		}
		id, ok := r.playerPartition.Next()
		if !ok {
			continue
		}
		tmpl := r.heroes[slot.HeroID]
		base := teamBase(slot.Team)
		r.players.Set(id, &Player{
			ID: id, Team: slot.Team, Hero: slot.HeroID,
			X: base.X, Y: base.Y, HP: tmpl.MaxHP, MaxHP: tmpl.MaxHP,
			BaseDef: tmpl.Defense, IsPlaying: true,
		})
		slot.PlayerID = id
		r.connPlayer[slot.Conn] = id
	}

	r.waveCount = 0
	r.lastSpawnSecond = -1
	r.Elapsed = 0
	r.Status = StatusPlaying
}

// spawnJungleCamps seeds one monster at each of the four fixed camp
// centers: the south/north camps are elite (red/blue) buffs, west/east
// are standard — a placement choice not pinned by any source, recorded
// in DESIGN.md.
func (r *Room) spawnJungleCamps() {
	for _, camp := range maps.JungleCampCenters() {
		var kind JungleKind
		switch camp.Name {
		case "south":
			kind = JungleRedBuff
		case "north":
			kind = JungleBlueBuff
		default:
			kind = JungleStandard
		}
		r.spawnJungleMob(kind, camp.X+r.rng.Intn(3)-1, camp.Y+r.rng.Intn(3)-1)
	}
}

// spawnBosses places Overlord and Tyrant at fixed, symmetric map
// coordinates away from the lane carves and camp rings — again a
// placement choice the source material does not specify.
func (r *Room) spawnBosses() {
	r.spawnJungleMob(JungleOverlord, 100, 100)
	r.spawnJungleMob(JungleTyrant, 50, 50)
}

func (r *Room) spawnJungleMob(kind JungleKind, x, y int) {
	var (
		id ecs.EntityID
		ok bool
	)
	if kind == JungleOverlord || kind == JungleTyrant {
		id, ok = r.bossPartition.Next()
	} else {
		id, ok = r.jungleBase.Next()
	}
	if !ok {
		return
	}
	tmpl := jungleTemplates[kind]
	r.jungle.Set(id, &JungleMob{
		ID: id, Kind: kind, X: x, Y: y,
		HP: tmpl.HP, MaxHP: tmpl.HP, Damage: tmpl.Damage, Range: tmpl.Range,
	})
}

// PlayerIDFor resolves a connection to its in-battle entity id.
func (r *Room) PlayerIDFor(conn ConnID) (ecs.EntityID, bool) {
	id, ok := r.connPlayer[conn]
	return id, ok
}
