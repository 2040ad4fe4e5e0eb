package game

import (
	"fmt"
	"math"
	"math/rand"
)

// TerrainStyle selects the procedural height function used to build a world.
type TerrainStyle int

const (
	TerrainRolling TerrainStyle = iota // layered sine hills
	TerrainIslands                     // hills broken by open gaps to the world floor
	TerrainCavern                      // rolling floor under a hanging ceiling
)

func (s TerrainStyle) String() string {
	switch s {
	case TerrainRolling:
		return "rolling"
	case TerrainIslands:
		return "islands"
	case TerrainCavern:
		return "cavern"
	default:
		return "unknown"
	}
}

// TerrainStyleByName resolves a style name as printed by String.
func TerrainStyleByName(name string) (TerrainStyle, bool) {
	for _, s := range []TerrainStyle{TerrainRolling, TerrainIslands, TerrainCavern} {
		if s.String() == name {
			return s, true
		}
	}
	return TerrainRolling, false
}

// Collider is the read-only geometry query surface shared by the ballistics
// engine and the shot planner.
type Collider interface {
	IsSolid(x, y float64) bool
	Width() int
	Height() int
}

// Rect is an integer cell rectangle.
type Rect struct {
	X, Y, W, H int
}

// Union is the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Terrain is the destructible world: a row-major collision raster plus cached
// per-column surface and ceiling heights that are kept in step with it.
type Terrain struct {
	width   int
	height  int
	solid   []bool
	surface []int // first floor row per column; height when the column has no floor
	ceiling []int // last row of the top-anchored run per column, -1 when open; nil outside caverns
	style   TerrainStyle

	revision int
	dirty    []Rect
}

const (
	maxDirtyRegions   = 32
	cavernMinGap      = 70 // rows of open air kept between ceiling and floor
	islandGapMinWidth = 40
	islandGapMaxWidth = 90
)

// NewTerrain builds a world of the given style from a seeded height function.
func NewTerrain(width, height int, style TerrainStyle, seed int64) *Terrain {
	mustTerrainSize(width, height)
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- world generation only

	floor := make([]int, width)
	hills := newHeightFunc(rng, float64(height)*0.58, float64(height)*0.14, width)
	for x := range floor {
		floor[x] = clampI(int(hills(x)), height/4, height-12)
	}

	var ceiling []int
	switch style {
	case TerrainIslands:
		gaps := 2 + rng.Intn(2)
		for g := 0; g < gaps; g++ {
			w := islandGapMinWidth + rng.Intn(islandGapMaxWidth-islandGapMinWidth+1)
			// Keep the outer fifth of the map as solid spawn ground.
			lo := width / 5
			span := width - 2*lo - w
			if span <= 0 {
				break
			}
			x0 := lo + rng.Intn(span)
			for x := x0; x < x0+w; x++ {
				floor[x] = height
			}
		}
	case TerrainCavern:
		roof := newHeightFunc(rng, float64(height)*0.16, float64(height)*0.07, width)
		ceiling = make([]int, width)
		for x := range ceiling {
			c := int(roof(x))
			maxC := floor[x] - cavernMinGap
			if c > maxC {
				c = maxC
			}
			if c < 4 {
				c = 4
			}
			ceiling[x] = c
		}
	}

	t := newTerrainFromColumns(width, height, floor, ceiling)
	t.style = style
	return t
}

// NewFlatTerrain builds a world whose floor is at groundY in every column.
func NewFlatTerrain(width, height, groundY int) *Terrain {
	mustTerrainSize(width, height)
	floor := make([]int, width)
	for x := range floor {
		floor[x] = groundY
	}
	return newTerrainFromColumns(width, height, floor, nil)
}

// NewTerrainFromHeights builds a world from explicit column heights. floor[x]
// is the first solid row of column x; ceiling[x], when ceiling is non-nil, is
// the last solid row of a run hanging from the top edge (-1 for none).
func NewTerrainFromHeights(width, height int, floor, ceiling []int) *Terrain {
	mustTerrainSize(width, height)
	if len(floor) != width || (ceiling != nil && len(ceiling) != width) {
		panic(fmt.Sprintf("terrain: column arrays must have width %d", width))
	}
	t := newTerrainFromColumns(width, height, floor, ceiling)
	if ceiling != nil {
		t.style = TerrainCavern
	}
	return t
}

func mustTerrainSize(width, height int) {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("terrain: invalid size %dx%d", width, height))
	}
}

func newTerrainFromColumns(width, height int, floor, ceiling []int) *Terrain {
	t := &Terrain{
		width:   width,
		height:  height,
		solid:   make([]bool, width*height),
		surface: make([]int, width),
	}
	for x := 0; x < width; x++ {
		for y := clampI(floor[x], 0, height); y < height; y++ {
			t.solid[y*width+x] = true
		}
	}
	if ceiling != nil {
		t.ceiling = make([]int, width)
		for x := 0; x < width; x++ {
			for y := 0; y <= ceiling[x] && y < height; y++ {
				t.solid[y*width+x] = true
			}
		}
	}
	t.recomputeColumns(0, width-1)
	return t
}

// newHeightFunc returns a smooth seeded function of column index made of
// three sine layers of decreasing amplitude.
func newHeightFunc(rng *rand.Rand, base, amp float64, width int) func(x int) float64 {
	type layer struct{ freq, phase, amp float64 }
	layers := []layer{
		{freq: 1 + rng.Float64()*1.5, amp: amp},
		{freq: 3 + rng.Float64()*3, amp: amp * 0.45},
		{freq: 9 + rng.Float64()*6, amp: amp * 0.12},
	}
	for i := range layers {
		layers[i].phase = rng.Float64() * 2 * math.Pi
	}
	w := float64(width)
	return func(x int) float64 {
		v := base
		for _, l := range layers {
			v += math.Sin(float64(x)/w*2*math.Pi*l.freq+l.phase) * l.amp
		}
		return v
	}
}

// Width returns the world width in cells.
func (t *Terrain) Width() int { return t.width }

// Height returns the world height in cells.
func (t *Terrain) Height() int { return t.height }

// Style returns the style the world was built with.
func (t *Terrain) Style() TerrainStyle { return t.style }

// HasCeiling reports whether the world carries a ceiling map.
func (t *Terrain) HasCeiling() bool { return t.ceiling != nil }

// Revision increments every time a carve clears at least one cell.
func (t *Terrain) Revision() int { return t.revision }

// IsSolid reports whether the cell containing (x,y) is solid. Below the world
// is solid floor; above and to either side is open air.
func (t *Terrain) IsSolid(x, y float64) bool {
	if !finite(x, y) {
		panic(fmt.Sprintf("terrain: IsSolid with non-finite point (%v,%v)", x, y))
	}
	return t.SolidCell(int(math.Floor(x)), int(math.Floor(y)))
}

// SolidCell is the integer-cell form of IsSolid.
func (t *Terrain) SolidCell(cx, cy int) bool {
	if cy < 0 || cx < 0 || cx >= t.width {
		return false
	}
	if cy >= t.height {
		return true
	}
	return t.solid[cy*t.width+cx]
}

// SurfaceY returns the first floor row of column x: scanning down from the
// top, past any ceiling run, to the first solid cell. Columns with no floor
// report the world height. Columns outside the world report the world height.
func (t *Terrain) SurfaceY(x int) int {
	if x < 0 || x >= t.width {
		return t.height
	}
	return t.surface[x]
}

// CeilingY returns the last row of the ceiling run hanging over column x, or
// -1 when the column is open to the sky.
func (t *Terrain) CeilingY(x int) int {
	if t.ceiling == nil || x < 0 || x >= t.width {
		return -1
	}
	return t.ceiling[x]
}

// Carve clears every cell whose centre lies within radius of (cx,cy), clipped
// to the world, and returns how many cells changed.
func (t *Terrain) Carve(cx, cy, radius float64) int {
	if !finite(cx, cy) || math.IsNaN(radius) || math.IsInf(radius, 0) {
		panic(fmt.Sprintf("terrain: Carve with non-finite circle (%v,%v r=%v)", cx, cy, radius))
	}
	if radius <= 0 {
		return 0
	}
	if cx+radius < 0 || cx-radius >= float64(t.width) || cy+radius < 0 || cy-radius >= float64(t.height) {
		return 0
	}
	x0 := clampI(int(math.Floor(cx-radius)), 0, t.width-1)
	x1 := clampI(int(math.Ceil(cx+radius)), 0, t.width-1)
	y0 := clampI(int(math.Floor(cy-radius)), 0, t.height-1)
	y1 := clampI(int(math.Ceil(cy+radius)), 0, t.height-1)

	r2 := radius * radius
	cleared := 0
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		row := y * t.width
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			if t.solid[row+x] {
				t.solid[row+x] = false
				cleared++
			}
		}
	}
	if cleared == 0 {
		return 0
	}
	t.revision++
	t.markDirty(Rect{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1})
	t.recomputeColumns(x0, x1)
	return cleared
}

// DirtyRegions returns the rectangles changed since the last call and resets
// the list. Consumers are presentation only.
func (t *Terrain) DirtyRegions() []Rect {
	out := t.dirty
	t.dirty = nil
	return out
}

// markDirty records r. Nothing drains the list in headless play, so past
// maxDirtyRegions everything collapses into one bounding rectangle.
func (t *Terrain) markDirty(r Rect) {
	if len(t.dirty) < maxDirtyRegions {
		t.dirty = append(t.dirty, r)
		return
	}
	u := r
	for _, d := range t.dirty {
		u = u.Union(d)
	}
	t.dirty = append(t.dirty[:0], u)
}

func (t *Terrain) recomputeColumns(x0, x1 int) {
	for x := x0; x <= x1; x++ {
		y := 0
		if t.ceiling != nil {
			last := -1
			for y < t.height && t.solid[y*t.width+x] {
				last = y
				y++
			}
			t.ceiling[x] = last
		}
		for y < t.height && !t.solid[y*t.width+x] {
			y++
		}
		t.surface[x] = y
	}
}
