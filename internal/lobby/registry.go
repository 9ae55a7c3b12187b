// Package lobby owns the room registry and matchmaking queue: creating
// and destroying rooms, tracking which room (if any) a connection sits
// in, and running the FIFO match queue. Grounded on
// original_source/room_manager.{h,cpp}'s RoomManager — update_all's
// drive-then-reap loop and process_matching's queue-drain become
// Registry.Tick and Registry.processMatching below.
package lobby

import (
	"time"

	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/room"
	"go.uber.org/zap"
)

// matchEntry is one queued connection awaiting a synthesized room.
type matchEntry struct {
	conn    room.ConnID
	name    string
	queued  time.Duration
}

// MatchRecorder receives a closed room's summary. internal/persist
// implements this against Postgres; nil is a valid Registry field and
// simply skips recording, honoring spec.md's "battle state is never
// persisted" non-goal for installs that don't want match history at all.
type MatchRecorder interface {
	RecordMatch(persist.MatchSummary)
}

// Registry holds every live room plus the matchmaking FIFO. It is driven
// by one goroutine (the dispatch adapter's tick loop); Tick is not safe
// to call concurrently with itself.
type Registry struct {
	log *zap.Logger

	sender room.Sender

	nextRoomID int
	rooms      map[int]*room.Room
	connRoom   map[room.ConnID]int

	matchQueue []matchEntry
	elapsed    time.Duration

	maxSeats       int
	matchQueueSize int
	matchQueueWait time.Duration

	recorder MatchRecorder

	shopItems     map[room.ItemID]room.ItemTemplate
	heroTemplates map[room.HeroKind]room.HeroTemplate
}

func NewRegistry(sender room.Sender, log *zap.Logger, maxSeats, matchQueueSize int, matchQueueWait time.Duration) *Registry {
	return &Registry{
		log:            log,
		sender:         sender,
		nextRoomID:     1,
		rooms:          make(map[int]*room.Room),
		connRoom:       make(map[room.ConnID]int),
		maxSeats:       maxSeats,
		matchQueueSize: matchQueueSize,
		matchQueueWait: matchQueueWait,
	}
}

// SetRecorder wires an optional match-history sink. Leaving it unset
// (nil) is the default: no battle summary is ever written anywhere.
func (reg *Registry) SetRecorder(rec MatchRecorder) { reg.recorder = rec }

// SetShopItems overrides every new room's shop item templates, e.g. with
// the Lua-loaded set from internal/scripting. Leaving it unset keeps
// room.NewRoom's own built-in default.
func (reg *Registry) SetShopItems(items map[room.ItemID]room.ItemTemplate) {
	reg.shopItems = items
}

// SetHeroTemplates overrides every new room's hero base stats, e.g. with
// the YAML-loaded set from internal/data. Leaving it unset keeps
// room.NewRoom's own built-in default.
func (reg *Registry) SetHeroTemplates(heroes map[room.HeroKind]room.HeroTemplate) {
	reg.heroTemplates = heroes
}

// applyOverrides pushes any configured shop/hero overrides into a
// freshly constructed room, before it ever seats a player.
func (reg *Registry) applyOverrides(r *room.Room) {
	if reg.shopItems != nil {
		r.SetShop(reg.shopItems)
	}
	if reg.heroTemplates != nil {
		r.SetHeroTemplates(reg.heroTemplates)
	}
}

// Tick drives every room's simulation one step, reaps empty rooms, and
// processes the matchmaking queue, mirroring RoomManager::update_all.
func (reg *Registry) Tick(dt time.Duration) {
	reg.elapsed += dt
	for id, r := range reg.rooms {
		if r.Status == room.StatusPlaying {
			r.Tick(dt)
		}
		if r.IsEmpty() {
			if r.Status == room.StatusPlaying {
				reg.recordMatch(r)
			}
			reg.log.Info("room emptied, removing", zap.Int("room_id", id))
			delete(reg.rooms, id)
		}
	}
	reg.processMatching()
}

// CreateRoom seats conn as the first (owner) member of a brand new room.
func (reg *Registry) CreateRoom(conn room.ConnID, name string) *room.Room {
	id := reg.nextRoomID
	reg.nextRoomID++
	r := room.NewRoom(id, reg.sender, reg.log)
	reg.applyOverrides(r)
	r.AddPlayer(conn, name)
	reg.rooms[id] = r
	reg.connRoom[conn] = id
	return r
}

// JoinRoom seats conn into an existing waiting room.
func (reg *Registry) JoinRoom(conn room.ConnID, name string, roomID int) (*room.Room, bool) {
	r, ok := reg.rooms[roomID]
	if !ok || !r.AddPlayer(conn, name) {
		return nil, false
	}
	reg.connRoom[conn] = roomID
	return r, true
}

// LeaveRoom removes conn from whatever room it occupies.
func (reg *Registry) LeaveRoom(conn room.ConnID) {
	id, ok := reg.connRoom[conn]
	if !ok {
		return
	}
	if r, ok := reg.rooms[id]; ok {
		r.RemovePlayer(conn)
	}
	delete(reg.connRoom, conn)
}

// RoomOf resolves a connection to its current room, if any.
func (reg *Registry) RoomOf(conn room.ConnID) (*room.Room, bool) {
	id, ok := reg.connRoom[conn]
	if !ok {
		return nil, false
	}
	r, ok := reg.rooms[id]
	return r, ok
}

// OnDisconnect drops conn from the match queue and its room, mirroring
// RoomManager::on_player_disconnect.
func (reg *Registry) OnDisconnect(conn room.ConnID) {
	filtered := reg.matchQueue[:0]
	for _, e := range reg.matchQueue {
		if e.conn != conn {
			filtered = append(filtered, e)
		}
	}
	reg.matchQueue = filtered
	reg.LeaveRoom(conn)
}

// Enqueue adds conn to the matchmaking FIFO.
func (reg *Registry) Enqueue(conn room.ConnID, name string) {
	for _, e := range reg.matchQueue {
		if e.conn == conn {
			return
		}
	}
	reg.matchQueue = append(reg.matchQueue, matchEntry{conn: conn, name: name, queued: reg.elapsed})
}

// processMatching synthesizes a room once >= matchQueueSize players are
// queued, or the queue head has waited longer than matchQueueWait with
// any backlog at all, per spec.md §4.8.
func (reg *Registry) processMatching() {
	if len(reg.matchQueue) == 0 {
		return
	}
	waited := reg.elapsed - reg.matchQueue[0].queued
	if len(reg.matchQueue) < reg.matchQueueSize && waited < reg.matchQueueWait {
		return
	}

	take := reg.matchQueue
	if len(take) > reg.maxSeats {
		take = take[:reg.maxSeats]
	}
	reg.matchQueue = reg.matchQueue[len(take):]

	id := reg.nextRoomID
	reg.nextRoomID++
	r := room.NewRoom(id, reg.sender, reg.log)
	reg.applyOverrides(r)
	for _, e := range take {
		r.AddPlayer(e.conn, e.name)
		reg.connRoom[e.conn] = id
	}
	r.StartGame(take[0].conn)
	reg.rooms[id] = r
	reg.log.Info("matchmade room pushed into picking", zap.Int("room_id", id), zap.Int("players", len(take)))
}

// recordMatch builds a summary of a just-closed room and hands it to
// the optional recorder. Winner team is always 0 (unknown): the core
// simulation has no win condition, only the entities and economy one
// would be built from.
func (reg *Registry) recordMatch(r *room.Room) {
	if reg.recorder == nil {
		return
	}
	summary := persist.MatchSummary{RoomID: r.ID, Duration: r.Elapsed}
	for _, fp := range r.FinalParticipants() {
		summary.Participants = append(summary.Participants, persist.Participant{
			Name: fp.Name, Team: int(fp.Team), HeroID: int(fp.HeroID), Gold: fp.Gold,
		})
	}
	reg.recorder.RecordMatch(summary)
}
