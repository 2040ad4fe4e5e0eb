package game

import (
	"math"
	"testing"
)

func mustWeapon(t *testing.T, name string) *Weapon {
	t.Helper()
	w, ok := WeaponByName(name)
	if !ok {
		t.Fatalf("weapon %q missing from catalog", name)
	}
	return w
}

// standingWorm places a worm on the floor of tr at column x.
func standingWorm(id int, label string, team Team, tr *Terrain, x float64) *Worm {
	w := NewWorm(id, label, team, x, 0)
	w.PlaceOnSurface(tr)
	return w
}

// runIdle updates the engine until nothing is in flight.
func runIdle(t *testing.T, e *Engine, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if e.Idle() {
			return
		}
		e.Update()
	}
	t.Fatalf("engine still busy after %d ticks (%d active)", limit, e.ActiveCount())
}

func TestStepProjectile_Deterministic(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 300)
	shooter := standingWorm(0, "R0", TeamRed, tr, 100)
	w := mustWeapon(t, "bazooka")

	fly := func() (float64, float64, int) {
		p := newShotProjectile(shooter, w, -0.7, 70)
		col := newFieldCollider(tr, []Combatant{shooter}, p)
		for i := 0; i < simMaxTicks; i++ {
			if StepProjectile(p, col, 0.01) == StepDetonated {
				return p.X, p.Y, i
			}
		}
		t.Fatal("shot never landed")
		return 0, 0, 0
	}
	x1, y1, n1 := fly()
	x2, y2, n2 := fly()
	if x1 != x2 || y1 != y2 || n1 != n2 {
		t.Fatalf("identical shots diverged: (%v,%v)@%d vs (%v,%v)@%d", x1, y1, n1, x2, y2, n2)
	}
}

func TestScenario_PlannerPredictionMatchesEngine(t *testing.T) {
	tr := NewTerrain(1000, 500, TerrainRolling, 3)
	wind := &Wind{}
	wind.Set(6)
	shooter := standingWorm(0, "R0", TeamRed, tr, 200)
	enemy := standingWorm(1, "B0", TeamBlue, tr, 700)
	bodies := []Combatant{shooter, enemy}

	for _, name := range []string{"bazooka", "grenade", "mortar"} {
		w := mustWeapon(t, name)
		pl := NewPlanner(tr, wind, DifficultyHard, 1)
		px, py, ok := pl.SimulateShot(shooter, w, -1.0, 75, bodies)
		if !ok {
			t.Fatalf("%s: simulated shot left the world", name)
		}

		e := NewEngine(tr, wind, 1)
		e.SetCombatants(bodies)
		e.Fire(shooter, w, -1.0, 75)
		// Stop at the first impact: the blast itself changes the world.
		var imps []Impact
		for i := 0; i < simMaxTicks && len(imps) == 0; i++ {
			e.Update()
			imps = e.DrainImpacts()
		}
		if len(imps) == 0 {
			t.Fatalf("%s: engine shot never detonated", name)
		}
		if imps[0].X != px || imps[0].Y != py {
			t.Errorf("%s: planner predicted (%.2f,%.2f), engine hit (%.2f,%.2f)", name, px, py, imps[0].X, imps[0].Y)
		}
	}
}

func TestEngine_OutOfBoundsIsSilent(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 390)
	shooter := standingWorm(0, "R0", TeamRed, tr, 780)
	e := NewEngine(tr, nil, 1)
	e.Log = NewBattleLog(false)
	e.Events = NewDispatcher()
	e.SetCombatants([]Combatant{shooter})

	oob := 0
	e.Events.Subscribe(EventOutOfBounds, ListenerFunc(func(Event) { oob++ }))

	e.Fire(shooter, mustWeapon(t, "bazooka"), 0, 100)
	runIdle(t, e, 100)

	if imps := e.DrainImpacts(); len(imps) != 0 {
		t.Fatalf("out-of-bounds shot produced %d impacts", len(imps))
	}
	if oob != 1 {
		t.Errorf("out-of-bounds notifications = %d, want 1", oob)
	}
	if tr.Revision() != 0 {
		t.Error("terrain changed without a detonation")
	}
	if shooter.Health() != wormMaxHealth {
		t.Errorf("shooter hurt by a shot that left the world: hp=%d", shooter.Health())
	}
	if !e.Log.HasEntry(LogProjectile, "out_of_bounds", "bazooka") {
		t.Error("missing out_of_bounds log entry")
	}
}

func TestStepProjectile_BounceLosesEnergy(t *testing.T) {
	tr := NewFlatTerrain(600, 300, 250)
	w := mustWeapon(t, "grenade")
	p := &Projectile{X: 100, Y: 150, VX: 1.5, Weapon: w, Fuse: w.FuseTicks(), Active: true}

	var speeds []float64
	for i := 0; i <= w.FuseTicks(); i++ {
		switch StepProjectile(p, tr, 0) {
		case StepBounced:
			speeds = append(speeds, math.Hypot(p.VX, p.VY))
		case StepDetonated:
			if len(speeds) < 2 {
				t.Fatalf("expected several bounces before detonation, got %d", len(speeds))
			}
			for k := 1; k < len(speeds); k++ {
				if speeds[k] >= speeds[k-1] {
					t.Fatalf("bounce %d did not lose speed: %.3f -> %.3f", k, speeds[k-1], speeds[k])
				}
			}
			if p.Bounces > maxBounces {
				t.Fatalf("bounce cap exceeded: %d", p.Bounces)
			}
			return
		case StepOutOfBounds:
			t.Fatal("grenade left the world")
		}
	}
	t.Fatal("grenade never detonated")
}

func TestStepProjectile_BouncerWithoutFuseTerminates(t *testing.T) {
	tr := NewFlatTerrain(600, 300, 250)
	w := &Weapon{Name: "rubber", Mode: FireProjectile, ProjectileGravity: 0.2, Bounces: true, BounceFriction: 0.6, BlastRadius: 10}
	p := &Projectile{X: 300, Y: 100, VX: 0.5, Weapon: w, Active: true}
	for i := 0; i < 5000; i++ {
		if out := StepProjectile(p, tr, 0); out == StepDetonated || out == StepOutOfBounds {
			return
		}
	}
	t.Fatal("fuse-less bouncer bounced forever")
}

func TestStepProjectile_StickyFuseRestsThenDetonates(t *testing.T) {
	tr := NewFlatTerrain(600, 300, 250)
	w := mustWeapon(t, "mortar")
	p := &Projectile{X: 200, Y: 240, VY: 3, Weapon: w, Fuse: 30, Active: true}

	var stuck bool
	for i := 0; i < 30; i++ {
		out := StepProjectile(p, tr, 0)
		if out == StepResting {
			stuck = true
			if tr.IsSolid(p.X, p.Y) {
				t.Fatal("stuck body is inside the ground")
			}
		}
		if out == StepDetonated {
			if !stuck {
				t.Fatal("mortar detonated before sticking")
			}
			if i != 29 {
				t.Fatalf("detonated on tick %d, want the fuse end", i)
			}
			return
		}
	}
	t.Fatal("fuse ran out without detonation")
}

func TestStepProjectile_RestingBodyFallsWhenUndermined(t *testing.T) {
	tr := NewFlatTerrain(400, 300, 250)
	w := mustWeapon(t, "grenade")
	p := &Projectile{X: 100, Y: 249.5, Weapon: w, Fuse: 100, Resting: true, Active: true}

	if out := StepProjectile(p, tr, 0); out != StepResting {
		t.Fatalf("supported body: got %s, want resting", out)
	}
	tr.Carve(100, 255, 20)
	if out := StepProjectile(p, tr, 0); out != StepFlying {
		t.Fatalf("undermined body: got %s, want flying", out)
	}
	if p.Resting {
		t.Fatal("undermined body still marked resting")
	}
}

func TestEngine_FragmentsCluster(t *testing.T) {
	tr := NewFlatTerrain(400, 300, 250)
	shooter := standingWorm(0, "R0", TeamRed, tr, 40)
	cluster := mustWeapon(t, "cluster bomb")
	e := NewEngine(tr, nil, 7)
	e.SetCombatants([]Combatant{shooter})
	e.projectiles = append(e.projectiles, &Projectile{X: 200, Y: 200, Weapon: cluster, Owner: shooter, Fuse: 1, Active: true})

	e.Update()
	kids := e.Projectiles()
	if len(kids) != cluster.ClusterCount {
		t.Fatalf("fragments = %d, want %d", len(kids), cluster.ClusterCount)
	}
	for i, k := range kids {
		if !k.Fragment {
			t.Errorf("child %d not marked as fragment", i)
		}
		if k.Weapon.Damage != cluster.ClusterDamage || k.Weapon.BlastRadius != cluster.ClusterRadius {
			t.Errorf("child %d profile = %d/%.0f, want %d/%.0f", i, k.Weapon.Damage, k.Weapon.BlastRadius,
				cluster.ClusterDamage, cluster.ClusterRadius)
		}
		if k.Weapon.IsCluster() {
			t.Errorf("child %d can cluster again", i)
		}
		a := math.Atan2(k.VY, k.VX)
		if math.Abs(a+math.Pi/2) > clusterCone+1e-9 {
			t.Errorf("child %d launched at %.3f rad, outside the upward cone", i, a)
		}
	}
	e.DrainImpacts()

	runIdle(t, e, 600)
	imps := e.DrainImpacts()
	if len(imps) != cluster.ClusterCount {
		t.Fatalf("fragment impacts = %d, want %d", len(imps), cluster.ClusterCount)
	}
	for _, imp := range imps {
		if imp.Weapon.IsCluster() {
			t.Fatal("a fragment fragmented")
		}
	}
}

func TestEngine_HitscanDirectHit(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 300)
	shooter := standingWorm(0, "R0", TeamRed, tr, 100)
	enemy := standingWorm(1, "B0", TeamBlue, tr, 300)
	e := NewEngine(tr, nil, 1)
	e.SetCombatants([]Combatant{shooter, enemy})
	sniper := mustWeapon(t, "sniper rifle")

	e.Fire(shooter, sniper, 0, 100)
	if !e.Idle() {
		t.Fatal("hitscan left a body in flight")
	}
	imps := e.DrainImpacts()
	if len(imps) != 1 || !imps[0].Direct {
		t.Fatalf("want one direct hit, got %+v", imps)
	}
	if enemy.Health() != wormMaxHealth-sniper.Damage {
		t.Errorf("enemy hp = %d, want %d", enemy.Health(), wormMaxHealth-sniper.Damage)
	}
	if shooter.Health() != wormMaxHealth {
		t.Error("shooter hit by its own ray")
	}
	if tr.Revision() != 0 {
		t.Error("direct hit carved terrain")
	}
}

func TestEngine_HitscanTerrainBlast(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 300)
	shooter := standingWorm(0, "R0", TeamRed, tr, 100)
	res := TraceHitscan(tr, mustWeapon(t, "sniper rifle"), 110, 293, 0.3, 0, nil, shooter)
	if res.Kind != HitTerrain {
		t.Fatalf("downward ray ended with %s", res.Kind)
	}

	e := NewEngine(tr, nil, 1)
	e.SetCombatants([]Combatant{shooter})
	e.Fire(shooter, mustWeapon(t, "sniper rifle"), 0.3, 100)
	if tr.Revision() == 0 {
		t.Fatal("terrain hit did not carve")
	}
}

func TestTraceHitscan_SpreadIsRepeatable(t *testing.T) {
	tr := NewFlatTerrain(2000, 600, 590)
	w := mustWeapon(t, "sniper rifle")
	a := TraceHitscan(tr, w, 50, 300, -0.05, 7, nil, nil)
	b := TraceHitscan(tr, w, 50, 300, -0.05, 7, nil, nil)
	if a != b {
		t.Fatalf("same ray traced twice differs: %+v vs %+v", a, b)
	}
	calm := TraceHitscan(tr, w, 50, 300, -0.05, 0, nil, nil)
	if a.X == calm.X {
		t.Error("wind did not bend the ray past its straight range")
	}
}

func TestTraceHitscan_StraightUntilStraightRange(t *testing.T) {
	tr := NewFlatTerrain(2000, 600, 590)
	w := *mustWeapon(t, "sniper rifle")
	w.Range = w.StraightRange
	const ox, oy, angle = 50.0, 300.0, -0.3

	res := TraceHitscan(tr, &w, ox, oy, angle, 10, nil, nil)
	if res.Kind != HitNone {
		t.Fatalf("ray stopped on %s", res.Kind)
	}
	wantX, wantY := ox+math.Cos(angle)*w.Range, oy+math.Sin(angle)*w.Range
	if math.Abs(res.X-wantX) > 1e-9 || math.Abs(res.Y-wantY) > 1e-9 {
		t.Errorf("end (%.6f,%.6f), want (%.6f,%.6f) on the aim line", res.X, res.Y, wantX, wantY)
	}
	if calm := TraceHitscan(tr, &w, ox, oy, angle, 0, nil, nil); calm != res {
		t.Errorf("wind bent the straight segment: %+v vs %+v", res, calm)
	}
}

func TestTraceHitscan_DriftStaysWithinRange(t *testing.T) {
	tr := NewFlatTerrain(4000, 600, 590)
	w := mustWeapon(t, "sniper rifle")
	res := TraceHitscan(tr, w, 50, 300, 0, 10, nil, nil)
	if res.Kind != HitNone {
		t.Fatalf("ray stopped on %s at (%.0f,%.0f)", res.Kind, res.X, res.Y)
	}
	if res.Distance > w.Range+1e-6 {
		t.Errorf("ray travelled %.1f, range is %.0f", res.Distance, w.Range)
	}
	if res.Distance < w.Range-10 {
		t.Errorf("ray stopped short at %.1f of %.0f", res.Distance, w.Range)
	}
}

func TestStepProjectile_WindOnlyPushesWindWeapons(t *testing.T) {
	tr := NewFlatTerrain(400, 300, 290)
	const force = 0.5
	for _, tc := range []struct {
		name   string
		pushed bool
	}{
		{"bazooka", true},
		{"mortar", true},
		{"grenade", false},
		{"cluster bomb", false},
	} {
		p := &Projectile{X: 100, Y: 100, Weapon: mustWeapon(t, tc.name), Active: true}
		for i := 0; i < 10; i++ {
			if out := StepProjectile(p, tr, force); out != StepFlying {
				t.Fatalf("%s: step %d = %s, want flying", tc.name, i, out)
			}
		}
		if tc.pushed {
			if math.Abs(p.VX-10*force) > 1e-9 || p.X <= 100 {
				t.Errorf("%s: vx=%.3f x=%.2f, want pushed by wind", tc.name, p.VX, p.X)
			}
		} else if p.VX != 0 || p.X != 100 {
			t.Errorf("%s: vx=%.3f x=%.2f, wind should not move it", tc.name, p.VX, p.X)
		}
	}
}

func TestEngine_PlacedChargeWaitsForFuse(t *testing.T) {
	tr := NewFlatTerrain(400, 300, 250)
	shooter := standingWorm(0, "R0", TeamRed, tr, 200)
	e := NewEngine(tr, nil, 1)
	e.SetCombatants([]Combatant{shooter})
	dyn := mustWeapon(t, "dynamite")

	e.Fire(shooter, dyn, 0, 50)
	if e.ActiveCount() != 1 || !e.Projectiles()[0].Resting {
		t.Fatal("placed charge should sit resting")
	}
	for i := 0; i < dyn.FuseTicks()-1; i++ {
		e.Update()
	}
	if e.Idle() {
		t.Fatal("charge detonated before its fuse ran out")
	}
	e.Update()
	if !e.Idle() {
		t.Fatal("charge outlived its fuse")
	}
	if shooter.Health() >= wormMaxHealth {
		t.Error("worm standing on dynamite took no damage")
	}
}

func TestEngine_TargetedBarrageStaggered(t *testing.T) {
	tr := NewFlatTerrain(1000, 400, 300)
	shooter := standingWorm(0, "R0", TeamRed, tr, 100)
	e := NewEngine(tr, nil, 3)
	e.SetCombatants([]Combatant{shooter})
	strike := mustWeapon(t, "air strike")

	e.Fire(shooter, strike, -math.Pi/4, 80)
	ps := e.Projectiles()
	if len(ps) != strike.ShotCount {
		t.Fatalf("barrage bodies = %d, want %d", len(ps), strike.ShotCount)
	}
	tx := TargetedX(100, -math.Pi/4, 80)
	for i, p := range ps {
		if p.Delay != i*targetedStagger {
			t.Errorf("body %d delay = %d, want %d", i, p.Delay, i*targetedStagger)
		}
		if math.Abs(p.X-tx) > targetedJitter {
			t.Errorf("body %d at x=%.1f, more than the jitter from %.1f", i, p.X, tx)
		}
	}
	runIdle(t, e, 1000)
	if n := len(e.DrainImpacts()); n != strike.ShotCount {
		t.Errorf("impacts = %d, want %d", n, strike.ShotCount)
	}
}

func TestEngine_Teleport(t *testing.T) {
	tr := NewFlatTerrain(1000, 400, 300)
	shooter := standingWorm(0, "R0", TeamRed, tr, 100)
	e := NewEngine(tr, nil, 1)
	e.Events = NewDispatcher()
	e.SetCombatants([]Combatant{shooter})
	moved := 0
	e.Events.Subscribe(EventTeleported, ListenerFunc(func(Event) { moved++ }))

	e.Fire(shooter, mustWeapon(t, "teleport"), -math.Pi/4, 50)
	x, y := shooter.Center()
	want := TargetedX(100, -math.Pi/4, 50)
	if math.Abs(x-want) > 1 {
		t.Errorf("teleported to x=%.1f, want ~%.1f", x, want)
	}
	if y > 300-wormHalfHeight {
		t.Errorf("teleported into the ground: y=%.1f", y)
	}
	if moved != 1 || !e.Idle() {
		t.Errorf("teleport events=%d idle=%v", moved, e.Idle())
	}
}

func TestEngine_UnknownModePanics(t *testing.T) {
	tr := NewFlatTerrain(100, 100, 80)
	shooter := standingWorm(0, "R0", TeamRed, tr, 50)
	e := NewEngine(tr, nil, 1)
	expectPanic(t, "unknown mode", func() {
		e.Fire(shooter, &Weapon{Name: "ray gun", Mode: FiringMode(42)}, 0, 50)
	})
}
