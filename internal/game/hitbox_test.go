package game

import "testing"

func TestHitbox_SegmentThrough(t *testing.T) {
	b := Hitbox{MinX: 40, MinY: 0, MaxX: 60, MaxY: 200}
	tHit, ok := b.SegmentEnters(0, 100, 200, 100)
	if !ok {
		t.Fatal("expected segment to enter box")
	}
	if tHit < 0.19 || tHit > 0.21 {
		t.Fatalf("expected entry at t≈0.2, got %.3f", tHit)
	}
}

func TestHitbox_SegmentEndsBefore(t *testing.T) {
	b := Hitbox{MinX: 300, MinY: 0, MaxX: 364, MaxY: 64}
	if _, ok := b.SegmentEnters(0, 32, 200, 32); ok {
		t.Fatal("box beyond endpoint should not be entered")
	}
}

func TestHitbox_VerticalSegment(t *testing.T) {
	b := Hitbox{MinX: 0, MinY: 40, MaxX: 200, MaxY: 60}
	if _, ok := b.SegmentEnters(100, 0, 100, 200); !ok {
		t.Fatal("vertical segment should cross horizontal box")
	}
}

func TestHitbox_ZeroLength(t *testing.T) {
	b := Hitbox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	// Same start and end: a point inside the box. Should not panic.
	if _, ok := b.SegmentEnters(50, 50, 50, 50); !ok {
		t.Fatal("point inside box should count as entering")
	}
}

func TestRayAABB_InsideBox(t *testing.T) {
	if _, ok := rayAABBHitT(10, 10, 20, 20, 0, 0, 100, 100); !ok {
		t.Fatal("segment with both endpoints inside AABB should intersect")
	}
}

func TestRayAABB_Miss(t *testing.T) {
	if _, ok := rayAABBHitT(0, 0, 0, 100, 50, 0, 150, 100); ok {
		t.Fatal("segment left of AABB should not intersect")
	}
}

func TestFieldCollider_OwnerGrace(t *testing.T) {
	terrain := NewFlatTerrain(400, 300, 250)
	owner := NewWorm(0, "R0", TeamRed, 100, 240)
	other := NewWorm(1, "B0", TeamBlue, 200, 240)
	p := &Projectile{Owner: owner}
	fc := newFieldCollider(terrain, []Combatant{owner, other}, p)

	if fc.IsSolid(100, 240) {
		t.Fatal("owner body should be ignored during launch grace")
	}
	if !fc.IsSolid(200, 240) {
		t.Fatal("other worm body should block")
	}
	p.Age = ownerGraceTicks + 1
	if !fc.IsSolid(100, 240) {
		t.Fatal("owner body should block once grace expires")
	}
	if !fc.IsSolid(10, 260) {
		t.Fatal("terrain should block")
	}
}
