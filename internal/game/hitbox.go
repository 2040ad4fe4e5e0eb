package game

import "math"

// Hitbox is an axis-aligned body rectangle in world units.
type Hitbox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether (x,y) lies inside the box.
func (b Hitbox) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// CombatantBox returns the hitbox around a combatant's centre.
func CombatantBox(c Combatant) Hitbox {
	cx, cy := c.Center()
	return Hitbox{
		MinX: cx - wormHalfWidth, MinY: cy - wormHalfHeight,
		MaxX: cx + wormHalfWidth, MaxY: cy + wormHalfHeight,
	}
}

// SegmentEnters returns the first parameter t in [0,1] at which the segment
// (ax,ay)->(bx,by) enters the box.
func (b Hitbox) SegmentEnters(ax, ay, bx, by float64) (float64, bool) {
	return rayAABBHitT(ax, ay, bx, by, b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// rayAABBHitT returns the first segment parameter t in [0,1] where the line
// from (ox,oy)->(ex,ey) enters the AABB. The bool is false when no hit exists.
func rayAABBHitT(ox, oy, ex, ey, minX, minY, maxX, maxY float64) (float64, bool) {
	dx := ex - ox
	dy := ey - oy

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if ox < minX || ox > maxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (minX - ox) * invD
		t2 := (maxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if oy < minY || oy > maxY {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (minY - oy) * invD
		t2 := (maxY - oy) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

// fieldCollider overlays combatant bodies on the terrain so projectiles stop
// on worms. The owner's body is ignored for the first ownerGraceTicks of
// flight so a shot can leave the muzzle.
type fieldCollider struct {
	terrain Collider
	bodies  []Hitbox
	owner   Hitbox
	hasOwn  bool
	p       *Projectile
}

const ownerGraceTicks = 10

func newFieldCollider(t Collider, combatants []Combatant, p *Projectile) *fieldCollider {
	fc := &fieldCollider{terrain: t, p: p}
	for _, c := range combatants {
		if c == nil || !c.Alive() {
			continue
		}
		if p != nil && c == p.Owner {
			fc.owner = CombatantBox(c)
			fc.hasOwn = true
			continue
		}
		fc.bodies = append(fc.bodies, CombatantBox(c))
	}
	return fc
}

func (fc *fieldCollider) IsSolid(x, y float64) bool {
	if fc.terrain.IsSolid(x, y) {
		return true
	}
	for _, b := range fc.bodies {
		if b.Contains(x, y) {
			return true
		}
	}
	if fc.hasOwn && fc.p != nil && fc.p.Age > ownerGraceTicks {
		return fc.owner.Contains(x, y)
	}
	return false
}

func (fc *fieldCollider) Width() int  { return fc.terrain.Width() }
func (fc *fieldCollider) Height() int { return fc.terrain.Height() }
