// Package maps generates and queries the static battle-arena tile grid.
package maps

// Size is the fixed grid dimension.
const Size = 150

// Kind enumerates the immutable tile kinds painted at map generation.
// Kind never changes after generation; a tower cell's walkability is
// derived at query time from whether the tower occupying it is alive,
// never cached back onto the tile (see room.Room.Walkable).
type Kind int

const (
	Empty Kind = iota
	Wall
	River
	Base
	TowerCell  // blocks movement while its tower's hp > 0
	TowerSkirt // cosmetic marker around a tower footprint; always walkable
)

// Team identifies one of the two sides.
type Team int

const (
	TeamOne Team = 1
	TeamTwo Team = 2
)

// Tier is the lane position of a tower: outer, mid, inner (closest to base).
type Tier int

const (
	TierOuter Tier = 1
	TierMid   Tier = 2
	TierInner Tier = 3
)

// TowerSpawn is a tower placement recorded during generation. The map
// package only records where towers go and which team/tier they are; the
// room owns the actual Tower entity and its hp-driven liveness.
type TowerSpawn struct {
	X, Y int
	Team Team
	Tier Tier
}

// Grid is the static 150x150 battle arena.
type Grid struct {
	tiles  [Size][Size]Kind
	towers []TowerSpawn
}

func (g *Grid) Kind(x, y int) Kind {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return Wall
	}
	return g.tiles[y][x]
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// Towers returns every tower placement recorded during generation.
func (g *Grid) Towers() []TowerSpawn {
	return g.towers
}

// JungleCampCenter is a fixed camp spawn point plus a kind tag used by the
// room to decide which monster (standard, buff, or boss) occupies it.
type JungleCampCenter struct {
	X, Y int
	Name string
}

// JungleCampCenters returns the center cell of each of the four jungle
// camps carved by Generate, in the same South/North/West/East order the
// original generator builds them.
func JungleCampCenters() []JungleCampCenter {
	return []JungleCampCenter{
		{X: 56 + 13, Y: 96 + 13, Name: "south"},
		{X: 68 + 13, Y: 28 + 13, Name: "north"},
		{X: 28 + 13, Y: 62 + 13, Name: "west"},
		{X: 96 + 13, Y: 62 + 13, Name: "east"},
	}
}

// StaticWalkable reports whether the tile kind alone permits movement,
// ignoring any live tower occupying a TowerCell. Callers that need the
// authoritative walkability (which accounts for tower state) must combine
// this with a tower-liveness lookup — see invariant 3 in spec.md §8.
func (g *Grid) StaticWalkable(x, y int) bool {
	return g.Kind(x, y) != Wall
}
