// Package room implements a single battle room: its entities, AI, combat
// resolution, lifecycle, and per-tick broadcast. Every struct here is
// grounded on original_source/game_room.h's PlayerState/TowerObj/
// MinionObj/JungleObj/SkillEffectObj, translated from C structs-as-records
// into explicit little-endian-agnostic Go values (no memory layout is
// shared with the wire format; internal/protocol owns that).
package room

import (
	"time"

	"github.com/l1jgo/arena/internal/ecs"
	"github.com/l1jgo/arena/internal/maps"
)

// HeroKind identifies a pickable hero template.
type HeroKind int

const (
	HeroNone HeroKind = iota
	HeroWarrior
	HeroMage
	HeroTank
)

// Player is a seated, playable participant.
type Player struct {
	ID      ecs.EntityID
	Team    maps.Team
	Hero    HeroKind
	X, Y    int
	HP      int
	MaxHP   int
	BaseDef int

	Inventory []ItemID
	Gold      int

	IsPlaying bool

	LastAggressiveAt time.Duration // room-elapsed time of last hostile action
	CurrentTargetID  ecs.EntityID
	VisualEndAt      time.Duration
	CurrentEffect    EffectKind
	LastRegenAt      time.Duration
}

// MinionKind distinguishes melee from ranged minions.
type MinionKind int

const (
	MinionMelee MinionKind = iota
	MinionRanged
)

// MinionState is a minion's AI state.
type MinionState int

const (
	StateMarching MinionState = iota
	StateChasing
	StateReturning
)

// Tower is a lane or mid-lane defensive structure.
type Tower struct {
	ID    ecs.EntityID
	X, Y  int
	Team  maps.Team
	Tier  maps.Tier
	HP    int
	MaxHP int

	TargetID        ecs.EntityID
	ConsecutiveHits int
	LastAttackAt    time.Duration
	VisualEndAt     time.Duration
}

// Alive reports whether the tower still blocks its cell.
func (t *Tower) Alive() bool { return t.HP > 0 }

// Minion is a lane creep with floating-point position.
type Minion struct {
	ID       ecs.EntityID
	Team     maps.Team
	Kind     MinionKind
	X, Y     float64
	HP       int
	MaxHP    int
	Damage   int
	Range    int
	Lane     int
	WaypointIdx int
	State    MinionState
	TargetID ecs.EntityID
	AnchorX  float64
	AnchorY  float64

	LastAttackAt time.Duration
	VisualEndAt  time.Duration
}

// JungleKind enumerates standard and buff camp monsters plus the two
// scripted bosses.
type JungleKind int

const (
	JungleStandard JungleKind = iota
	JungleRedBuff
	JungleBlueBuff
	JungleOverlord
	JungleTyrant
)

// BossState is the boss skill-choreography state.
type BossState int

const (
	BossIdle BossState = iota
	BossPrepare
	BossActive
)

// JungleMob is a neutral monster or boss — the same shape serves both per
// original_source/game_room.h's shared JungleObj, with boss-only fields
// left at their zero value for standard monsters.
type JungleMob struct {
	ID     ecs.EntityID
	Kind   JungleKind
	X, Y   int
	HP     int
	MaxHP  int
	Damage int
	Range  int

	TargetID     ecs.EntityID
	LastHitByAt  time.Duration
	LastAttackAt time.Duration
	LastRegenAt  time.Duration
	VisualEndAt  time.Duration

	// Boss-only.
	AttackCounter  int
	BossState      BossState
	SkillStartAt   time.Duration
	NextTickAt     time.Duration
	SkillTargets   []maps.Point
}

func (j *JungleMob) IsBoss() bool {
	return j.Kind == JungleOverlord || j.Kind == JungleTyrant
}

func (j *JungleMob) Alive() bool { return j.HP > 0 }

// EffectKind identifies a transient visual overlay.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectWarn
	EffectBurst
	EffectWave
)

// SkillEffect is an ephemeral, purely visual overlay; the AI routine that
// spawns one has already applied its damage.
type SkillEffect struct {
	X, Y      int
	Kind      EffectKind
	StartAt   time.Duration
	EndAt     time.Duration
	Radius    int
	OwnerID   ecs.EntityID
}
