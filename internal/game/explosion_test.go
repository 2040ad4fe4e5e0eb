package game

import (
	"math"
	"testing"
)

func TestBlastDamage_Falloff(t *testing.T) {
	const r, base = 40.0, 50
	prev := base + 1
	for d := 0.0; d <= 60; d += 10 {
		got := BlastDamage(d, r, base)
		if got >= prev {
			t.Fatalf("damage at %.0f = %d, not below %d", d, got, prev)
		}
		prev = got
	}
	if got := BlastDamage(0, r, base); got != base {
		t.Errorf("centre damage = %d, want %d", got, base)
	}
	if got := BlastDamage(r*falloffReach, r, base); got != 0 {
		t.Errorf("damage at the edge of reach = %d, want 0", got)
	}
	if got := BlastDamage(10, 0, base); got != 0 {
		t.Errorf("zero-radius blast dealt %d", got)
	}
}

func TestExplode_DamageKnockbackAndCrater(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 300)
	near := NewWorm(0, "R0", TeamRed, 310, 293)
	mid := NewWorm(1, "R1", TeamRed, 340, 293)
	far := NewWorm(2, "B0", TeamBlue, 400, 293)

	res := Explode(tr, 300, 300, 40, 50, []Combatant{near, mid, far})
	if len(res) != 2 {
		t.Fatalf("results = %d, want 2 (far worm out of reach)", len(res))
	}
	byTarget := map[Combatant]DamageResult{}
	for _, r := range res {
		byTarget[r.Target] = r
	}

	check := func(w *Worm) {
		t.Helper()
		r, ok := byTarget[w]
		if !ok {
			t.Fatalf("%s missing from results", w.Label())
		}
		wx, wy := w.Center()
		want := BlastDamage(math.Hypot(wx-300, wy-300), 40, 50)
		if r.Amount != want || w.Health() != wormMaxHealth-want {
			t.Errorf("%s took %d (hp %d), want %d", w.Label(), r.Amount, w.Health(), want)
		}
		if r.KnockY >= 0 || r.KnockX <= 0 {
			t.Errorf("%s knocked (%.2f,%.2f), want up and away", w.Label(), r.KnockX, r.KnockY)
		}
		if !w.Airborne() {
			t.Errorf("%s not launched", w.Label())
		}
	}
	check(near)
	check(mid)
	if byTarget[near].Amount <= byTarget[mid].Amount {
		t.Error("nearer worm should take more damage")
	}
	if far.Health() != wormMaxHealth || far.Airborne() {
		t.Error("worm outside the reach was touched")
	}
	if tr.Revision() != 1 || tr.SurfaceY(300) <= 300 {
		t.Error("blast did not leave a crater")
	}
}

func TestExplode_Kill(t *testing.T) {
	tr := NewFlatTerrain(400, 300, 250)
	w := NewWorm(0, "R0", TeamRed, 200, 243)
	w.TakeDamage(wormMaxHealth - 10)

	res := Explode(tr, 200, 246, 30, 40, []Combatant{w})
	if len(res) != 1 || !res[0].Killed {
		t.Fatalf("want one killing result, got %+v", res)
	}
	if w.Alive() || w.Health() != 0 {
		t.Errorf("worm survived: hp=%d", w.Health())
	}

	// Dead bodies are ignored by later blasts.
	if again := Explode(tr, 200, 246, 30, 40, []Combatant{w}); len(again) != 0 {
		t.Errorf("dead worm hit again: %+v", again)
	}
}

func TestExplode_EdgeOfReachIsUnharmed(t *testing.T) {
	w := NewWorm(0, "B0", TeamBlue, 160, 100)
	res := Explode(nil, 100, 100, 40, 50, []Combatant{w})
	if len(res) != 0 {
		t.Fatalf("worm at exactly 1.5r took damage: %+v", res)
	}
}

func TestDirectHit_FullDamage(t *testing.T) {
	w := NewWorm(0, "B0", TeamBlue, 0, 0)
	r := directHit(w, 45, 0)
	if r.Amount != 45 || w.Health() != 55 || !r.FromDirect {
		t.Fatalf("direct hit = %+v, hp %d", r, w.Health())
	}
	if r.KnockX <= 0 {
		t.Error("direct hit should push along the ray")
	}
}
