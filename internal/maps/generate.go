package maps

// Generate builds the static 150x150 battle arena following the layout of
// the original arena map generator: a diagonal river band, triangular
// corner wall patches, a diagonal mid-lane carve, L-shaped top and bottom
// lanes, two base clear-zones, four jungle camps, and lane/mid-lane tower
// placement. spec.md only pins the grid's tile kinds and walkability
// semantics; this concrete algorithm is what original_source/map.h uses to
// produce a playable instance of that shape.
func Generate() *Grid {
	g := &Grid{}

	// 1. baseline: solid wall
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			g.tiles[y][x] = Wall
		}
	}

	const (
		topBotW    = 12
		margin     = 22
		cornerSafe = 25
	)

	// 2. river band
	const riverLimit = 13
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if abs(y-x) < riverLimit {
				g.tiles[y][x] = River
			}
		}
	}

	// 3. corner wall patches
	for y := 0; y < cornerSafe; y++ {
		for x := 0; x < cornerSafe; x++ {
			if float64(x+y) < float64(cornerSafe)*1.5 {
				g.tiles[y][x] = Wall
			}
		}
	}
	for y := Size - cornerSafe; y < Size; y++ {
		for x := Size - cornerSafe; x < Size; x++ {
			if x+y > (Size-cornerSafe)*2+cornerSafe/2 {
				g.tiles[y][x] = Wall
			}
		}
	}

	// 4. mid lane diagonal carve
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if abs((x+y)-Size) <= 8 {
				if x > cornerSafe/2 && x < Size-cornerSafe/2 {
					g.tiles[y][x] = Empty
				}
			}
		}
	}

	// 5. top lane (L-shaped)
	g.carvePath(margin, Size-margin, margin, margin, topBotW, Empty)
	g.carvePath(margin, margin, Size-margin, margin, topBotW, Empty)
	g.clearRect(margin-topBotW/2, margin-topBotW/2, topBotW+1, topBotW+1)

	// 6. bottom lane (L-shaped)
	g.carvePath(Size-margin, margin, Size-margin, Size-margin, topBotW, Empty)
	g.carvePath(margin, Size-margin, Size-margin, Size-margin, topBotW, Empty)
	g.clearRect(Size-margin-topBotW/2, Size-margin-topBotW/2, topBotW+1, topBotW+1)

	// 7. bases
	const baseSize = 20
	g.clearRect(2, Size-baseSize-2, baseSize, baseSize)
	g.tiles[Size-margin][margin] = Base
	g.clearRect(Size-baseSize-2, 2, baseSize, baseSize)
	g.tiles[margin][Size-margin] = Base

	// 8. jungle camps
	g.buildJungle()

	// 9. towers
	center := Size / 2
	spacingSide := topBotW * 2
	pLow, pMid, pHigh := center-spacingSide, center, center+spacingSide

	g.placeTower(margin, pHigh, TeamOne, TierInner)
	g.placeTower(margin, pMid, TeamOne, TierMid)
	g.placeTower(margin, pLow, TeamOne, TierOuter)
	g.placeTower(pLow, Size-margin, TeamOne, TierInner)
	g.placeTower(pMid, Size-margin, TeamOne, TierMid)
	g.placeTower(pHigh, Size-margin, TeamOne, TierOuter)
	g.placeTower(pHigh, margin, TeamTwo, TierInner)
	g.placeTower(pMid, margin, TeamTwo, TierMid)
	g.placeTower(pLow, margin, TeamTwo, TierOuter)
	g.placeTower(Size-margin, pLow, TeamTwo, TierInner)
	g.placeTower(Size-margin, pMid, TeamTwo, TierMid)
	g.placeTower(Size-margin, pHigh, TeamTwo, TierOuter)

	const delta = 13
	bx, by := 64, 86
	g.placeTower(bx, by, TeamOne, TierOuter)
	g.placeTower(bx-delta, by+delta, TeamOne, TierMid)
	g.placeTower(bx-delta*2, by+delta*2, TeamOne, TierInner)

	rx, ry := 86, 64
	g.placeTower(rx, ry, TeamTwo, TierOuter)
	g.placeTower(rx+delta, ry-delta, TeamTwo, TierMid)
	g.placeTower(rx+delta*2, ry-delta*2, TeamTwo, TierInner)

	return g
}

func (g *Grid) clearRect(x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			nx, ny := x+dx, y+dy
			if g.InBounds(nx, ny) {
				g.tiles[ny][nx] = Empty
			}
		}
	}
}

func (g *Grid) fillRect(x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			nx, ny := x+dx, y+dy
			if g.InBounds(nx, ny) {
				g.tiles[ny][nx] = Wall
			}
		}
	}
}

func (g *Grid) carvePath(x1, y1, x2, y2, width int, kind Kind) {
	steps := max(abs(x2-x1), abs(y2-y1))
	if steps == 0 {
		return
	}
	dx := float64(x2-x1) / float64(steps)
	dy := float64(y2-y1) / float64(steps)
	x, y := float64(x1), float64(y1)
	offset := width / 2
	for i := 0; i <= steps; i++ {
		cx, cy := int(x), int(y)
		for iy := 0; iy < width; iy++ {
			for ix := 0; ix < width; ix++ {
				wy, wx := iy-offset, ix-offset
				nx, ny := cx+wx, cy+wy
				if nx >= 1 && nx < Size-1 && ny >= 1 && ny < Size-1 {
					g.tiles[ny][nx] = kind
				}
			}
		}
		x += dx
		y += dy
	}
}

// carveSafeLine is carvePath restricted to Empty, stopping as soon as its
// centerline touches a river tile and never overwriting river tiles at its
// edges either — this lets a jungle camp's cross punch through walls into
// the lanes without ever bridging across the river.
func (g *Grid) carveSafeLine(x1, y1, x2, y2, width int) {
	steps := max(abs(x2-x1), abs(y2-y1))
	if steps == 0 {
		return
	}
	dx := float64(x2-x1) / float64(steps)
	dy := float64(y2-y1) / float64(steps)
	x, y := float64(x1), float64(y1)
	offset := width / 2
	for i := 0; i <= steps; i++ {
		cx, cy := int(x), int(y)
		if g.InBounds(cx, cy) && g.tiles[cy][cx] == River {
			break
		}
		for iy := 0; iy < width; iy++ {
			for ix := 0; ix < width; ix++ {
				wy, wx := iy-offset, ix-offset
				nx, ny := cx+wx, cy+wy
				if nx >= 1 && nx < Size-1 && ny >= 1 && ny < Size-1 && g.tiles[ny][nx] != River {
					g.tiles[ny][nx] = Empty
				}
			}
		}
		x += dx
		y += dy
	}
}

func (g *Grid) placeTower(x, y int, team Team, tier Tier) {
	if g.InBounds(x, y) {
		g.tiles[y][x] = TowerCell
	}
	dxs := [4]int{0, 0, -1, 1}
	dys := [4]int{-1, 1, 0, 0}
	for i := 0; i < 4; i++ {
		nx, ny := x+dxs[i], y+dys[i]
		if g.InBounds(nx, ny) && g.tiles[ny][nx] != TowerCell {
			g.tiles[ny][nx] = TowerSkirt
		}
	}
	g.towers = append(g.towers, TowerSpawn{X: x, Y: y, Team: team, Tier: tier})
}

func (g *Grid) createSquareRing(x, y, size, ringWidth int) {
	g.clearRect(x, y, size, size)
	inner := size - 2*ringWidth
	if inner > 0 {
		g.fillRect(x+ringWidth, y+ringWidth, inner, inner)
	}
}

func (g *Grid) createPenetratingCross(x, y, size, width int) {
	cx, cy := x+size/2, y+size/2
	armLen := size
	g.carveSafeLine(cx, cy, cx, cy-armLen, width)
	g.carveSafeLine(cx, cy, cx, cy+armLen, width)
	g.carveSafeLine(cx, cy, cx-armLen, cy, width)
	g.carveSafeLine(cx, cy, cx+armLen, cy, width)
}

func (g *Grid) buildJungle() {
	const size, ringWidth, crossWidth = 26, 4, 3

	camps := [4][2]int{{56, 96}, {68, 28}, {28, 62}, {96, 62}}
	for _, c := range camps {
		g.createSquareRing(c[0], c[1], size, ringWidth)
		g.createPenetratingCross(c[0], c[1], size, crossWidth)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
