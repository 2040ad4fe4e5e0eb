package game

import "math"

const (
	hitscanStep      = 2.0
	hitscanWindDrift = 0.0004 // lateral units per step per wind point beyond the straight segment
	pelletGap        = 0.015  // radians between pellets of a multi-ray hitscan weapon
)

// HitKind says what a hitscan ray stopped on.
type HitKind uint8

const (
	HitNone      HitKind = iota // reached its range or left the world
	HitTerrain                  // stopped on a solid cell
	HitCombatant                // entered a body: direct hit
)

func (k HitKind) String() string {
	switch k {
	case HitTerrain:
		return "terrain"
	case HitCombatant:
		return "combatant"
	default:
		return "none"
	}
}

// HitscanResult is where a ray ended.
type HitscanResult struct {
	X, Y     float64
	Kind     HitKind
	Victim   Combatant
	Distance float64
}

// TraceHitscan marches a ray from (ox,oy) along angle in fixed steps.
// Up to w.StraightRange the ray is exact; past it the ray drifts with wind and
// picks up a growing lateral wobble that depends only on the angle and step
// index, so the planner can replay a shot exactly. The shooter is never hit,
// and the ray never ends farther than w.Range from its origin.
func TraceHitscan(col Collider, w *Weapon, ox, oy, angle, windValue float64, targets []Combatant, shooter Combatant) HitscanResult {
	dirX, dirY := math.Cos(angle), math.Sin(angle)
	// Perpendicular for lateral spread.
	perpX, perpY := -dirY, dirX
	seed := math.Float64bits(angle)

	boxes := make([]Hitbox, 0, len(targets))
	owners := make([]Combatant, 0, len(targets))
	for _, c := range targets {
		if c == nil || c == shooter || !c.Alive() {
			continue
		}
		boxes = append(boxes, CombatantBox(c))
		owners = append(owners, c)
	}

	x, y := ox, oy
	drift, lateral := 0.0, 0.0
	steps := int(w.Range / hitscanStep)
	for i := 1; i <= steps; i++ {
		dist := float64(i) * hitscanStep
		px, py := x, y
		x = ox + dirX*dist
		y = oy + dirY*dist
		if dist > w.StraightRange {
			k := float64(i) - w.StraightRange/hitscanStep
			drift += windValue * hitscanWindDrift * k
			lateral += (hash01(seed, i) - 0.5) * w.Spread * k
		}
		x += drift + perpX*lateral
		y += perpY * lateral

		if !finite(x, y) {
			break
		}
		if math.Hypot(x-ox, y-oy) > w.Range+1e-6 {
			// Drift must not carry the round past its range.
			x, y = px, py
			break
		}
		best, bestT := -1, 2.0
		for bi := range boxes {
			if t, ok := boxes[bi].SegmentEnters(px, py, x, y); ok && t < bestT {
				best, bestT = bi, t
			}
		}
		if best >= 0 {
			hx, hy := px+(x-px)*bestT, py+(y-py)*bestT
			return HitscanResult{X: hx, Y: hy, Kind: HitCombatant, Victim: owners[best], Distance: math.Hypot(hx-ox, hy-oy)}
		}
		if col.IsSolid(x, y) {
			return HitscanResult{X: x, Y: y, Kind: HitTerrain, Distance: dist}
		}
		if x < -boundsMargin || x > float64(col.Width())+boundsMargin || y > float64(col.Height())+boundsMargin {
			break
		}
	}
	return HitscanResult{X: x, Y: y, Kind: HitNone, Distance: math.Hypot(x-ox, y-oy)}
}

// pelletAngles spreads a multi-ray weapon's rays symmetrically around angle.
func pelletAngles(w *Weapon, angle float64) []float64 {
	n := w.ShotCount
	if n < 1 {
		n = 1
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = angle + (float64(i)-float64(n-1)/2)*pelletGap
	}
	return out
}
