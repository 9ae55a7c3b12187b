package room

import (
	"sync"
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
	"github.com/l1jgo/arena/internal/sim"
	"go.uber.org/zap"
)

// Status is the room's lifecycle phase.
type Status int

const (
	StatusWaiting Status = iota
	StatusPicking
	StatusPlaying
)

// ConnID identifies a connection from the room's point of view. The room
// never holds a net.Conn or any transport object — only ids — per
// spec.md §3's ownership rule ("the connection adapter holds only ids").
type ConnID int

// Sender delivers an already-encoded packet to one connection. The
// transport layer implements this; the room only ever calls it.
type Sender interface {
	Send(conn ConnID, payload []byte)
}

const maxSlots = 10

// Slot is one of a room's ten fixed seats.
type Slot struct {
	Conn     ConnID
	Occupied bool
	Name     string
	Ready    bool
	Team     maps.Team
	HeroID   HeroKind
	PlayerID ecs.EntityID
}

// Room owns every entity of a single battle and the subsystem runner that
// advances them. A Room is single-threaded: Tick and the command-handling
// it drives run on one goroutine; Submit is the only method safe to call
// from other goroutines (the transport layer's per-connection readers).
type Room struct {
	ID     int
	Status Status
	Log    *zap.Logger

	Grid *maps.Grid

	players  *ecs.PtrComponentStore[Player]
	towers   *ecs.PtrComponentStore[Tower]
	minions  *ecs.PtrComponentStore[Minion]
	jungle   *ecs.PtrComponentStore[JungleMob]
	effects  []SkillEffect

	playerPartition *ecs.Partition
	towerPartition  *ecs.Partition
	minionPartition *ecs.Partition
	jungleBase      *ecs.Partition // standard/buff mobs
	bossPartition   *ecs.Partition

	Slots      [maxSlots]Slot
	connPlayer map[ConnID]ecs.EntityID

	finalParticipants []FinalParticipant

	Elapsed         time.Duration
	lastSpawnSecond int // -1 until the first wave
	waveCount       int

	sender Sender
	runner *sim.Runner
	shop   map[ItemID]ItemTemplate
	heroes map[HeroKind]HeroTemplate

	mu              sync.Mutex
	pendingCommands []Command

	rng rng
}

// NewRoom allocates an empty room in the waiting phase.
func NewRoom(id int, sender Sender, log *zap.Logger) *Room {
	r := &Room{
		ID:     id,
		Status: StatusWaiting,
		Log:    log,
		sender: sender,

		players: ecs.NewPtrComponentStore[Player](),
		towers:  ecs.NewPtrComponentStore[Tower](),
		minions: ecs.NewPtrComponentStore[Minion](),
		jungle:  ecs.NewPtrComponentStore[JungleMob](),

		// Partitions per spec.md §3: players [1,100), towers [101,1000),
		// minions [10000,50000), jungle mobs [50000,90000), bosses [90000,∞).
		playerPartition: ecs.NewPartition(1, 100),
		towerPartition:  ecs.NewPartition(101, 1000),
		minionPartition: ecs.NewPartition(10000, 50000),
		jungleBase:      ecs.NewPartition(50000, 90000),
		bossPartition:   ecs.NewPartition(90000, 1<<30),

		connPlayer: make(map[ConnID]ecs.EntityID),

		lastSpawnSecond: -1,
		rng:             newRNG(1),
		shop:            DefaultShopItems(),
		heroes:          DefaultHeroTemplates(),
	}
	r.runner = r.buildRunner()
	return r
}

// SetShop overrides the room's shop item templates, e.g. with the
// Lua-loaded set from internal/scripting. Safe only before battle start.
func (r *Room) SetShop(items map[ItemID]ItemTemplate) {
	r.shop = items
}

// SetHeroTemplates overrides the room's hero base stats, e.g. with the
// YAML-loaded set from internal/data. Safe only before battle start.
func (r *Room) SetHeroTemplates(heroes map[HeroKind]HeroTemplate) {
	r.heroes = heroes
}

// buildRunner registers every subsystem in the fixed order spec.md §4.2
// requires: input, then regen/wave-spawn, then towers, minions,
// jungle/bosses, hero-spells (folded into attack resolution), effect
// expiry, then broadcast, then cleanup.
func (r *Room) buildRunner() *sim.Runner {
	run := sim.NewRunner()
	run.Register(inputSystem{r})
	run.Register(regenSpawnSystem{r})
	run.Register(towerAISystem{r})
	run.Register(minionAISystem{r})
	run.Register(jungleAISystem{r})
	run.Register(effectExpirySystem{r})
	run.Register(broadcastSystem{r})
	run.Register(cleanupSystem{r})
	return run
}

// Tick advances the room by one authoritative step. Only called while
// Status == StatusPlaying; the lobby layer gates that.
func (r *Room) Tick(dt time.Duration) {
	r.runner.Tick(dt)
	r.Elapsed += dt
}

// Submit enqueues a decoded command from a connection. Safe to call
// concurrently with Tick; the input system drains the queue under lock.
func (r *Room) Submit(cmd Command) {
	r.mu.Lock()
	r.pendingCommands = append(r.pendingCommands, cmd)
	r.mu.Unlock()
}

func (r *Room) drainCommands() []Command {
	r.mu.Lock()
	cmds := r.pendingCommands
	r.pendingCommands = nil
	r.mu.Unlock()
	return cmds
}

// IsEmpty reports whether any connection still occupies a slot.
func (r *Room) IsEmpty() bool {
	for _, s := range r.Slots {
		if s.Occupied {
			return false
		}
	}
	return true
}

// Command is one decoded in-battle packet routed to this room.
type Command struct {
	Conn     ConnID
	PlayerID ecs.EntityID
	Tag      int32 // protocol.Tag, kept untyped here to avoid an import cycle concern
	X, Y     int32
	Input    int32
	Extra    int32
}

// PlayerByID resolves an entity id to its player, or (nil, false).
func (r *Room) PlayerByID(id ecs.EntityID) (*Player, bool) {
	return r.players.Get(id)
}

func (r *Room) towerAt(x, y int) (*Tower, bool) {
	var found *Tower
	r.towers.Each(func(_ ecs.EntityID, t *Tower) {
		if found == nil && t.Alive() && t.X == x && t.Y == y {
			found = t
		}
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

// Walkable implements spec.md §8 invariant 3: true iff the tile is
// non-wall and no living tower occupies the cell.
func (r *Room) Walkable(x, y int) bool {
	if !r.Grid.StaticWalkable(x, y) {
		return false
	}
	if _, ok := r.towerAt(x, y); ok {
		return false
	}
	return true
}
