package game

import (
	"math"
	"testing"
)

// steady is a profile with no jitter or deliberate miss, so tests see the
// planner's actual choice.
func steady(base Difficulty, weapons ...string) Difficulty {
	d := base.WithWeapons(weapons...)
	d.AngleJitter, d.PowerJitter = 0, 0
	d.MissChance = 0
	d.TopN = 1
	return d
}

func TestScenario_PlannerFindsDirectHit(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 300)
	actor := standingWorm(0, "R0", TeamRed, tr, 300)
	enemy := standingWorm(1, "B0", TeamBlue, tr, 400)
	pl := NewPlanner(tr, nil, steady(DifficultyHard, "bazooka"), 1)
	pl.Thoughts = NewThoughtLog()

	plan, ok := pl.Plan(actor, []Combatant{enemy}, nil)
	if !ok {
		t.Fatal("planner refused to act with a living enemy")
	}
	if plan.Fallback {
		t.Fatal("open ground at 100 units should not need the fallback shot")
	}
	ex, ey := enemy.Center()
	w := plan.Shot.Weapon
	if d := math.Hypot(plan.Shot.ImpactX-ex, plan.Shot.ImpactY-ey); d > w.BlastRadius {
		t.Fatalf("predicted impact %.1f from the enemy, want within %.0f", d, w.BlastRadius)
	}
	t.Logf("plan: %s a=%.3f p=%.1f score=%.1f cands=%d refined=%v",
		w.Name, plan.Angle, plan.Power, plan.Shot.Score, plan.Candidates, plan.Shot.Refined)

	// Fire exactly what was planned: the engine must land where the planner said.
	e := NewEngine(tr, nil, 1)
	e.SetCombatants([]Combatant{actor, enemy})
	e.Fire(actor, w, plan.Angle, plan.Power)
	runIdle(t, e, simMaxTicks)
	if enemy.Health() >= wormMaxHealth {
		t.Error("planned shot did not hurt the enemy")
	}
	if pl.Thoughts.Len() == 0 {
		t.Error("planner left no thought trail")
	}
}

func TestScenario_PlannerAvoidsSelfDamage(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		tr := NewFlatTerrain(800, 400, 300)
		actor := standingWorm(0, "R0", TeamRed, tr, 300)
		enemy := standingWorm(1, "B0", TeamBlue, tr, 320)
		pl := NewPlanner(tr, nil, steady(DifficultyMedium, "bazooka", "grenade", "mortar"), seed)

		plan, ok := pl.PlanShot(actor, []Combatant{enemy}, nil)
		if !ok {
			t.Fatalf("seed %d: no plan", seed)
		}
		if plan.Fallback {
			t.Fatalf("seed %d: fell back although safe landings exist", seed)
		}
		ax, ay := actor.Center()
		r := plan.Shot.Weapon.BlastRadius
		if d := math.Hypot(plan.Shot.ImpactX-ax, plan.Shot.ImpactY-ay); d < 1.2*r {
			t.Errorf("seed %d: %s lands %.1f from the shooter, inside 1.2r=%.1f",
				seed, plan.Shot.Weapon.Name, d, 1.2*r)
		}
	}
}

func TestPlanner_AlwaysActsWhileEnemiesLive(t *testing.T) {
	for _, style := range []TerrainStyle{TerrainRolling, TerrainIslands, TerrainCavern} {
		for seed := int64(1); seed <= 3; seed++ {
			tr := NewTerrain(1200, 500, style, seed)
			actor := standingWorm(0, "R0", TeamRed, tr, 150)
			enemy := standingWorm(1, "B0", TeamBlue, tr, 1050)
			pl := NewPlanner(tr, nil, DifficultyEasy, seed)

			plan, ok := pl.Plan(actor, []Combatant{enemy}, nil)
			if !ok || plan.Shot.Weapon == nil {
				t.Fatalf("%s seed %d: no shot", style, seed)
			}
			if plan.Power < MinPower || plan.Power > MaxPower {
				t.Errorf("%s seed %d: power %.1f out of range", style, seed, plan.Power)
			}
			if math.IsNaN(plan.Angle) {
				t.Errorf("%s seed %d: NaN angle", style, seed)
			}
		}
	}
}

func TestPlanner_CannotActWithoutLivingEnemy(t *testing.T) {
	tr := NewFlatTerrain(400, 300, 250)
	actor := standingWorm(0, "R0", TeamRed, tr, 100)
	dead := standingWorm(1, "B0", TeamBlue, tr, 300)
	dead.TakeDamage(wormMaxHealth)
	pl := NewPlanner(tr, nil, DifficultyMedium, 1)

	if _, ok := pl.Plan(actor, nil, nil); ok {
		t.Error("planned with no enemies")
	}
	if _, ok := pl.Plan(actor, []Combatant{dead}, nil); ok {
		t.Error("planned against a dead enemy")
	}
	actor.TakeDamage(wormMaxHealth)
	live := standingWorm(2, "B1", TeamBlue, tr, 200)
	if _, ok := pl.Plan(actor, []Combatant{live}, nil); ok {
		t.Error("dead actor planned a shot")
	}
}

func TestPlanner_LeavesWorldUntouched(t *testing.T) {
	tr := NewTerrain(900, 400, TerrainRolling, 11)
	actor := standingWorm(0, "R0", TeamRed, tr, 120)
	mate := standingWorm(1, "R1", TeamRed, tr, 220)
	enemy := standingWorm(2, "B0", TeamBlue, tr, 700)
	rev := tr.Revision()
	ax, ay := actor.Center()

	pl := NewPlanner(tr, nil, DifficultyHard, 2)
	if _, ok := pl.Plan(actor, []Combatant{enemy}, []Combatant{mate}); !ok {
		t.Fatal("no plan")
	}
	if tr.Revision() != rev {
		t.Error("planning carved the terrain")
	}
	if x, y := actor.Center(); x != ax || y != ay {
		t.Error("planning moved the actor")
	}
	for _, w := range []*Worm{actor, mate, enemy} {
		if w.Health() != wormMaxHealth {
			t.Errorf("planning hurt %s", w.Label())
		}
	}
}

func TestPlanner_CandidatesSortedAndAllowed(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 300)
	actor := standingWorm(0, "R0", TeamRed, tr, 200)
	enemy := standingWorm(1, "B0", TeamBlue, tr, 550)
	d := DifficultyMedium.WithWeapons("bazooka", "sniper rifle", "air strike")
	pl := NewPlanner(tr, nil, d, 3)

	cands := pl.Candidates(actor, []Combatant{enemy}, nil)
	if len(cands) == 0 {
		t.Fatal("empty candidate pool")
	}
	for i, c := range cands {
		if !d.Allows(c.Weapon.Name) {
			t.Fatalf("candidate %d uses disallowed %s", i, c.Weapon.Name)
		}
		if i > 0 && c.Score > cands[i-1].Score {
			t.Fatalf("pool not sorted at %d: %.2f after %.2f", i, c.Score, cands[i-1].Score)
		}
	}
}

func TestPlanner_FallbackWhenNothingScores(t *testing.T) {
	tr := NewFlatTerrain(800, 400, 300)
	actor := standingWorm(0, "R0", TeamRed, tr, 200)
	enemy := standingWorm(1, "B0", TeamBlue, tr, 600)
	pl := NewPlanner(tr, nil, steady(DifficultyMedium, "teleport"), 1)

	plan, ok := pl.PlanShot(actor, []Combatant{enemy}, nil)
	if !ok || !plan.Fallback {
		t.Fatalf("want a fallback plan, got ok=%v %+v", ok, plan)
	}
	if plan.Shot.Weapon.Name != "bazooka" {
		t.Errorf("fallback weapon = %s, want bazooka", plan.Shot.Weapon.Name)
	}
	if math.Abs(plan.Angle+math.Pi/4) > 1e-9 {
		t.Errorf("fallback angle = %.3f, want a 45 degree lob to the right", plan.Angle)
	}
}

func TestPlanner_ObstacleAhead(t *testing.T) {
	floor := make([]int, 400)
	for x := range floor {
		floor[x] = 300
		if x >= 120 && x <= 130 {
			floor[x] = 250
		}
	}
	tr := NewTerrainFromHeights(400, 400, floor, nil)
	actor := standingWorm(0, "R0", TeamRed, tr, 100)
	pl := NewPlanner(tr, nil, DifficultyMedium, 1)

	k, blocked := pl.obstacleAhead(actor, 1, 60)
	if !blocked {
		t.Fatal("wall not detected")
	}
	if k < 10 || k > 20 {
		t.Errorf("blocked at step %d, want just before the wall", k)
	}
	if _, blocked := pl.obstacleAhead(actor, -1, 60); blocked {
		t.Error("open ground to the left reported blocked")
	}
}

func TestPlanner_MovesTowardDistantEnemy(t *testing.T) {
	tr := NewFlatTerrain(1200, 400, 300)
	actor := standingWorm(0, "R0", TeamRed, tr, 200)
	enemy := standingWorm(1, "B0", TeamBlue, tr, 800)
	d := DifficultyMedium
	d.MoveChance = 1
	d.ApproachDistance = 300
	pl := NewPlanner(tr, nil, d, 5)

	mv := pl.decideMove(actor, []Combatant{enemy}, Plan{Shot: ShotCandidate{Score: 100}})
	if !mv.Move || mv.Dir != 1 {
		t.Fatalf("move = %+v, want a walk to the right", mv)
	}
	if mv.Ticks != d.MaxMoveTicks {
		t.Errorf("ticks = %d, want the full %d for a distant enemy", mv.Ticks, d.MaxMoveTicks)
	}
	if mv.JumpAt >= mv.Ticks {
		t.Errorf("jump at %d is past the walk of %d ticks", mv.JumpAt, mv.Ticks)
	}
}

func TestDifficultyByName(t *testing.T) {
	d, ok := DifficultyByName("HARD")
	if !ok || d.Name != "hard" {
		t.Fatalf("DifficultyByName(HARD) = %q,%v", d.Name, ok)
	}
	if _, ok := DifficultyByName("nightmare"); ok {
		t.Error("unknown profile resolved")
	}
	if !DifficultyMedium.Allows("air strike") {
		t.Error("empty allow-list should admit everything")
	}
	if DifficultyEasy.Allows("air strike") {
		t.Error("easy profile admits a weapon it does not list")
	}
}
