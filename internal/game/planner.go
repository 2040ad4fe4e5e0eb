package game

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// --- Planner constants ---

const (
	simMaxTicks    = 900 // cap on one simulated flight; longer shots count as out of bounds
	minUsableScore = 1.0 // best candidate must beat this or the fallback shot is used

	// Projectile scoring.
	scoreProximity  = 100.0
	scoreNearMiss   = 25.0
	scoreKill       = 30.0
	selfRiskNear    = 250.0 // landing within 1.2 blast radii of the shooter
	selfRiskFar     = 40.0  // landing within 2 blast radii
	friendlyPenalty = 80.0  // per teammate within 1.5 blast radii
	airburstBonus   = 6.0
	airburstRange   = 400.0
	clusterBonus    = 8.0
	clusterRangeMin = 150.0
	clusterRangeMax = 450.0

	// Hitscan scoring.
	hitscanDirect       = 90.0
	hitscanRangeBonus   = 30.0
	hitscanFriendlyLine = 20.0 // teammates closer than this to the firing line are at risk
	hitscanLinePenalty  = 40.0
	hitscanFriendlyHit  = 150.0

	// Placed scoring.
	placedReach    = 30.0 // enemies this close make a charge worth dropping
	placedBase     = 70.0
	placedSelfRisk = 40.0

	// Targeted scoring.
	targetedBase    = 60.0
	targetedBarrage = 20.0

	// Movement.
	moveLowQuality   = 40.0 // best score under this biases toward moving first
	moveRetreatClose = 60.0
	moveJumpChance   = 0.1
)

// ShotCandidate is one evaluated shot. It lives for one planning pass.
type ShotCandidate struct {
	WeaponIndex int
	Weapon      *Weapon
	Angle       float64
	Power       float64
	Score       float64
	ImpactX     float64
	ImpactY     float64
	Target      Combatant
	Refined     bool
}

// MovePlan is the repositioning decided before firing.
type MovePlan struct {
	Move   bool
	Dir    int // -1 left, +1 right
	Ticks  int
	JumpAt int // walk tick at which to jump, -1 for none
	Reason string
}

// Plan is a decided action: an optional move followed by a shot.
type Plan struct {
	Shot       ShotCandidate // the candidate the shot was taken from
	Angle      float64       // final angle after jitter and miss
	Power      float64       // final power after jitter and miss
	Fallback   bool          // no candidate was usable; heuristic aimed shot
	Missed     bool          // the deliberate-miss perturbation was applied
	Candidates int
	Move       MovePlan
}

// Planner searches weapon x angle x power by simulating shots with the same
// step function the engine uses. It only reads the terrain.
type Planner struct {
	terrain *Terrain
	wind    *Wind
	diff    Difficulty
	rng     *rand.Rand

	Thoughts *ThoughtLog
	Log      *BattleLog
	Now      func() int // tick source for log lines; nil logs tick 0
}

// NewPlanner creates a planner with its own RNG.
func NewPlanner(t *Terrain, wind *Wind, diff Difficulty, seed int64) *Planner {
	if wind == nil {
		wind = &Wind{}
	}
	return &Planner{
		terrain: t,
		wind:    wind,
		diff:    diff,
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
	}
}

func (pl *Planner) Difficulty() Difficulty { return pl.diff }

func (pl *Planner) now() int {
	if pl.Now == nil {
		return 0
	}
	return pl.Now()
}

func (pl *Planner) think(actor Combatant, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	pl.Thoughts.Add(pl.now(), labelOf(actor), actor.Team(), msg)
}

// Plan decides a move and a shot for actor. ok is false when no living
// enemy remains, in which case the actor cannot act.
func (pl *Planner) Plan(actor Combatant, enemies, teammates []Combatant) (Plan, bool) {
	plan, ok := pl.PlanShot(actor, enemies, teammates)
	if !ok {
		return plan, false
	}
	plan.Move = pl.decideMove(actor, livingOnly(enemies), plan)
	if plan.Move.Move {
		pl.think(actor, "move %+d for %d ticks (%s)", plan.Move.Dir, plan.Move.Ticks, plan.Move.Reason)
		pl.Log.AddFor(pl.now(), actor, LogPlanner, "move",
			fmt.Sprintf("dir=%+d ticks=%d jump=%d %s", plan.Move.Dir, plan.Move.Ticks, plan.Move.JumpAt, plan.Move.Reason),
			float64(plan.Move.Ticks))
	}
	return plan, true
}

// PlanShot searches and selects a shot without deciding movement.
func (pl *Planner) PlanShot(actor Combatant, enemies, teammates []Combatant) (Plan, bool) {
	foes := livingOnly(enemies)
	if len(foes) == 0 || actor == nil || !actor.Alive() {
		return Plan{}, false
	}
	cands := pl.Candidates(actor, foes, teammates)
	plan := pl.selectShot(actor, foes, cands)
	plan.Candidates = len(cands)

	s := plan.Shot
	tag := ""
	switch {
	case plan.Fallback:
		tag = " fallback"
	case plan.Missed:
		tag = " miss"
	}
	pl.think(actor, "%s at %s score=%.0f a=%.2f p=%.0f%s",
		s.Weapon.Name, labelOf(s.Target), s.Score, plan.Angle, plan.Power, tag)
	pl.Log.AddFor(pl.now(), actor, LogPlanner, "shot",
		fmt.Sprintf("%s target=%s score=%.1f a=%.2f p=%.1f cands=%d%s",
			s.Weapon.Name, labelOf(s.Target), s.Score, plan.Angle, plan.Power, len(cands), tag), s.Score)
	return plan, true
}

// Candidates returns the scored candidate pool, best first.
func (pl *Planner) Candidates(actor Combatant, enemies, teammates []Combatant) []ShotCandidate {
	foes := livingOnly(enemies)
	friends := livingOnly(teammates)
	bodies := make([]Combatant, 0, len(foes)+len(friends)+1)
	bodies = append(bodies, actor)
	bodies = append(bodies, foes...)
	bodies = append(bodies, friends...)

	var pool []ShotCandidate
	for i := range weaponCatalog {
		w := &weaponCatalog[i]
		if !pl.diff.Allows(w.Name) {
			continue
		}
		switch w.Mode {
		case FireProjectile:
			pool = append(pool, pl.searchProjectile(actor, i, foes, friends, bodies)...)
		case FireHitscan:
			for _, e := range foes {
				pool = append(pool, pl.scoreHitscan(actor, i, e, friends, bodies))
			}
		case FirePlaced:
			if c, ok := pl.scorePlaced(actor, i, foes, friends); ok {
				pool = append(pool, c)
			}
		case FireTargeted:
			for _, e := range foes {
				if c, ok := pl.scoreTargeted(actor, i, e, friends); ok {
					pool = append(pool, c)
				}
			}
		}
	}

	if pl.diff.Refine {
		pool = append(pool, pl.refine(actor, pool, foes, friends, bodies)...)
	}
	sort.SliceStable(pool, func(a, b int) bool { return pool[a].Score > pool[b].Score })
	return pool
}

// --- Projectile search ---

func (pl *Planner) searchProjectile(actor Combatant, wi int, foes, friends, bodies []Combatant) []ShotCandidate {
	as, ps := max(pl.diff.AngleSteps, 2), max(pl.diff.PowerSteps, 2)
	out := make([]ShotCandidate, 0, as*ps)
	for i := 0; i < as; i++ {
		// Half-turn over the top: -pi (left) through -pi/2 (up) to 0 (right).
		a := -math.Pi + math.Pi*float64(i)/float64(as-1)
		for j := 0; j < ps; j++ {
			p := MinPower + (MaxPower-MinPower)*float64(j)/float64(ps-1)
			if c, ok := pl.evalProjectile(actor, wi, a, p, foes, friends, bodies); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// refine re-searches a narrow window around the best coarse projectile
// candidate against the enemy nearest its landing point.
func (pl *Planner) refine(actor Combatant, pool []ShotCandidate, foes, friends, bodies []Combatant) []ShotCandidate {
	best := -1
	for i := range pool {
		if pool[i].Weapon.Mode != FireProjectile {
			continue
		}
		if best < 0 || pool[i].Score > pool[best].Score {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	c := pool[best]
	target := nearest(c.ImpactX, c.ImpactY, foes)
	if target == nil {
		return nil
	}
	as, ps := max(pl.diff.RefineAngleSteps, 2), max(pl.diff.RefinePowerSteps, 2)
	var out []ShotCandidate
	for i := 0; i < as; i++ {
		a := c.Angle - pl.diff.RefineAngleWindow + 2*pl.diff.RefineAngleWindow*float64(i)/float64(as-1)
		for j := 0; j < ps; j++ {
			p := c.Power - pl.diff.RefinePowerWindow + 2*pl.diff.RefinePowerWindow*float64(j)/float64(ps-1)
			if p < MinPower || p > MaxPower {
				continue
			}
			if rc, ok := pl.evalProjectile(actor, c.WeaponIndex, a, p, []Combatant{target}, friends, bodies); ok && rc.Score > c.Score {
				rc.Refined = true
				out = append(out, rc)
			}
		}
	}
	return out
}

// evalProjectile simulates one shot and scores its landing point against
// each enemy, keeping the best.
func (pl *Planner) evalProjectile(actor Combatant, wi int, angle, power float64, foes, friends, bodies []Combatant) (ShotCandidate, bool) {
	w := &weaponCatalog[wi]
	ix, iy, ok := pl.SimulateShot(actor, w, angle, power, bodies)
	if !ok {
		return ShotCandidate{}, false
	}
	c := ShotCandidate{WeaponIndex: wi, Weapon: w, Angle: angle, Power: power, ImpactX: ix, ImpactY: iy, Score: math.Inf(-1)}
	for _, e := range foes {
		if s := scoreProjectileImpact(actor, e, friends, w, ix, iy); s > c.Score {
			c.Score, c.Target = s, e
		}
	}
	return c, c.Target != nil
}

// SimulateShot flies a projectile-mode shot through the planner's own copy
// of the integration loop and returns where it detonates. ok is false when
// the shot leaves the world or outlives the simulation cap.
func (pl *Planner) SimulateShot(actor Combatant, w *Weapon, angle, power float64, bodies []Combatant) (float64, float64, bool) {
	p := newShotProjectile(actor, w, angle, power)
	col := newFieldCollider(pl.terrain, bodies, p)
	force := pl.wind.Force()
	for i := 0; i < simMaxTicks; i++ {
		switch StepProjectile(p, col, force) {
		case StepDetonated:
			return p.X, p.Y, true
		case StepOutOfBounds:
			return p.X, p.Y, false
		}
	}
	return p.X, p.Y, false
}

func scoreProjectileImpact(actor, enemy Combatant, friends []Combatant, w *Weapon, ix, iy float64) float64 {
	r := w.BlastRadius
	ex, ey := enemy.Center()
	d := math.Hypot(ix-ex, iy-ey)
	score := scoreProximity*clamp01(1-d/(falloffReach*r)) + scoreNearMiss*clamp01(1-d/(4*r))
	if dmg := BlastDamage(d, r, w.Damage); dmg > 0 && dmg >= enemy.Health() {
		score += scoreKill
	}

	ax, ay := actor.Center()
	switch ds := math.Hypot(ix-ax, iy-ay); {
	case ds < 1.2*r:
		score -= selfRiskNear
	case ds < 2*r:
		score -= selfRiskFar
	}
	for _, f := range friends {
		fx, fy := f.Center()
		if math.Hypot(ix-fx, iy-fy) < falloffReach*r {
			score -= friendlyPenalty
		}
	}

	rng := math.Abs(ex - ax)
	if w.IsAirburst() && rng > airburstRange {
		score += airburstBonus
	}
	if w.IsCluster() && rng >= clusterRangeMin && rng <= clusterRangeMax {
		score += clusterBonus
	}
	return score
}

// --- Other modes ---

func (pl *Planner) scoreHitscan(actor Combatant, wi int, enemy Combatant, friends, bodies []Combatant) ShotCandidate {
	w := &weaponCatalog[wi]
	ax, ay := actor.Center()
	ex, ey := enemy.Center()
	angle := math.Atan2(ey-ay, ex-ax)
	c := ShotCandidate{WeaponIndex: wi, Weapon: w, Angle: angle, Power: MaxPower, Target: enemy}

	ox, oy := ax+math.Cos(angle)*muzzleOffset, ay+math.Sin(angle)*muzzleOffset
	res := TraceHitscan(pl.terrain, w, ox, oy, angle, pl.wind.Value(), bodies, actor)
	c.ImpactX, c.ImpactY = res.X, res.Y
	rounds := max(w.ShotCount, 1)

	switch res.Kind {
	case HitCombatant:
		if res.Victim == enemy {
			c.Score = hitscanDirect + hitscanRangeBonus*clamp01(1-res.Distance/w.Range)
			if w.Damage*rounds >= enemy.Health() {
				c.Score += scoreKill
			}
		} else if res.Victim.Team() == actor.Team() {
			c.Score = -hitscanFriendlyHit
		}
	case HitTerrain:
		d := math.Hypot(res.X-ex, res.Y-ey)
		c.Score = 0.6 * scoreProximity * BlastFalloff(d, w.BlastRadius)
		if math.Hypot(res.X-ax, res.Y-ay) < 1.2*w.BlastRadius {
			c.Score -= selfRiskNear
		}
	}
	for _, f := range friends {
		fx, fy := f.Center()
		if pointToSegmentDist(fx, fy, ax, ay, ex, ey) < hitscanFriendlyLine {
			c.Score -= hitscanLinePenalty
		}
	}
	return c
}

func (pl *Planner) scorePlaced(actor Combatant, wi int, foes, friends []Combatant) (ShotCandidate, bool) {
	w := &weaponCatalog[wi]
	ax, ay := actor.Center()
	var target Combatant
	bestD := placedReach
	for _, e := range foes {
		ex, ey := e.Center()
		if d := math.Hypot(ex-ax, ey-ay); d <= bestD {
			target, bestD = e, d
		}
	}
	if target == nil {
		return ShotCandidate{}, false
	}
	tx, _ := target.Center()
	angle := 0.0
	if tx < ax {
		angle = -math.Pi
	}
	c := ShotCandidate{WeaponIndex: wi, Weapon: w, Angle: angle, Power: MaxPower / 2, Target: target,
		ImpactX: ax, ImpactY: ay, Score: placedBase - placedSelfRisk}
	if BlastDamage(bestD, w.BlastRadius, w.Damage) >= target.Health() {
		c.Score += scoreKill
	}
	for _, f := range friends {
		fx, fy := f.Center()
		if math.Hypot(fx-ax, fy-ay) < falloffReach*w.BlastRadius {
			c.Score -= friendlyPenalty
		}
	}
	return c, true
}

func (pl *Planner) scoreTargeted(actor Combatant, wi int, enemy Combatant, friends []Combatant) (ShotCandidate, bool) {
	w := &weaponCatalog[wi]
	ax, _ := actor.Center()
	ex, _ := enemy.Center()
	if pl.terrain.CeilingY(int(ex)) >= 0 {
		// A roof over the target soaks up the barrage.
		return ShotCandidate{}, false
	}
	angle := -math.Pi / 4
	if ex < ax {
		angle = -3 * math.Pi / 4
	}
	power := clampF(math.Abs(ex-ax)/(math.Abs(math.Cos(angle))*targetedReach), MinPower, MaxPower)
	tx := TargetedX(ax, angle, power)
	spread := falloffReach*w.BlastRadius + targetedJitter

	c := ShotCandidate{WeaponIndex: wi, Weapon: w, Angle: angle, Power: power, Target: enemy,
		ImpactX: tx, ImpactY: float64(pl.terrain.SurfaceY(int(tx)))}
	c.Score = targetedBase*clamp01(1-math.Abs(tx-ex)/(falloffReach*w.BlastRadius)) + targetedBarrage
	if w.Damage*max(w.ShotCount, 1)/2 >= enemy.Health() {
		c.Score += scoreKill
	}
	if math.Abs(tx-ax) < spread {
		c.Score -= selfRiskNear
	}
	for _, f := range friends {
		fx, _ := f.Center()
		if math.Abs(tx-fx) < spread {
			c.Score -= friendlyPenalty
		}
	}
	return c, true
}

// --- Selection ---

func (pl *Planner) selectShot(actor Combatant, foes []Combatant, pool []ShotCandidate) Plan {
	if len(pool) == 0 || pool[0].Score <= minUsableScore {
		return pl.fallback(actor, foes)
	}
	n := min(max(pl.diff.TopN, 1), len(pool))
	c := pool[pl.rng.Intn(n)]
	plan := Plan{Shot: c}
	plan.Angle = c.Angle + (pl.rng.Float64()*2-1)*pl.diff.AngleJitter
	plan.Power = c.Power + (pl.rng.Float64()*2-1)*pl.diff.PowerJitter
	if pl.rng.Float64() < pl.diff.MissChance {
		plan.Angle += (pl.rng.Float64()*2 - 1) * pl.diff.MissAngle
		plan.Power += (pl.rng.Float64()*2 - 1) * pl.diff.MissPower
		plan.Missed = true
	}
	plan.Power = clampF(plan.Power, MinPower, MaxPower)
	return plan
}

// fallback aims a plain lob at the nearest enemy. It needs no search and
// always produces a shot.
func (pl *Planner) fallback(actor Combatant, foes []Combatant) Plan {
	ax, ay := actor.Center()
	target := nearest(ax, ay, foes)
	ex, ey := target.Center()

	wi := -1
	for i := range weaponCatalog {
		w := &weaponCatalog[i]
		if w.Mode == FireTeleport || !pl.diff.Allows(w.Name) {
			continue
		}
		if wi < 0 || (w.Mode == FireProjectile && weaponCatalog[wi].Mode != FireProjectile) {
			wi = i
		}
	}
	if wi < 0 {
		wi = WeaponIndex("bazooka")
	}
	w := &weaponCatalog[wi]

	c := ShotCandidate{WeaponIndex: wi, Weapon: w, Target: target, ImpactX: ex, ImpactY: ey}
	switch w.Mode {
	case FireProjectile:
		// 45 degree lob: range = v^2/g.
		c.Angle = -math.Pi / 4
		if ex < ax {
			c.Angle = -3 * math.Pi / 4
		}
		v := math.Sqrt(math.Abs(ex-ax) * w.ProjectileGravity)
		c.Power = clampF(v/w.ProjectileSpeed*MaxPower, MinPower, MaxPower)
	case FireTargeted:
		c.Angle = -math.Pi / 4
		if ex < ax {
			c.Angle = -3 * math.Pi / 4
		}
		c.Power = clampF(math.Abs(ex-ax)/(math.Abs(math.Cos(c.Angle))*targetedReach), MinPower, MaxPower)
	default:
		c.Angle = math.Atan2(ey-ay, ex-ax)
		c.Power = MaxPower
	}
	return Plan{Shot: c, Angle: c.Angle, Power: c.Power, Fallback: true}
}

// --- Movement ---

func (pl *Planner) decideMove(actor Combatant, foes []Combatant, plan Plan) MovePlan {
	ax, ay := actor.Center()
	target := nearest(ax, ay, foes)
	if target == nil {
		return MovePlan{JumpAt: -1}
	}
	ex, ey := target.Center()
	dist := math.Hypot(ex-ax, ey-ay)
	quality := plan.Shot.Score
	if plan.Fallback {
		quality = 0
	}

	chance := pl.diff.MoveChance
	reason := "reposition"
	if dist > pl.diff.ApproachDistance {
		chance += 0.35
		reason = "close distance"
	}
	if quality < moveLowQuality {
		chance += 0.3
		reason = "no clean shot"
	}
	if pl.rng.Float64() >= chance {
		return MovePlan{JumpAt: -1}
	}

	dir := 1
	if ex < ax {
		dir = -1
	}
	switch {
	case dist < moveRetreatClose && pl.rng.Float64() < 0.5:
		dir = -dir
		reason = "too close, retreat"
	case quality >= moveLowQuality && dist >= clusterRangeMin && dist <= clusterRangeMax && pl.rng.Float64() < 0.3:
		if pl.rng.Intn(2) == 0 {
			dir = -1
		} else {
			dir = 1
		}
		reason = "flank"
	}

	ticks := int(float64(pl.diff.MaxMoveTicks) * clampF(dist/math.Max(pl.diff.ApproachDistance, 1), 0.25, 1))
	ticks = max(ticks, 1)
	mp := MovePlan{Move: true, Dir: dir, Ticks: ticks, JumpAt: -1, Reason: reason}
	if k, blocked := pl.obstacleAhead(actor, dir, ticks); blocked {
		mp.JumpAt = k
	} else if pl.rng.Float64() < moveJumpChance {
		mp.JumpAt = pl.rng.Intn(ticks)
	}
	return mp
}

// obstacleAhead walks a ghost of the actor along the terrain and reports the
// first step at which it would be blocked.
func (pl *Planner) obstacleAhead(actor Combatant, dir, ticks int) (int, bool) {
	x, y := actor.Center()
	for k := 0; k < ticks; k++ {
		nx, ny, ok := walkStep(pl.terrain, x, y, dir)
		if !ok {
			return k, true
		}
		x, y = nx, ny
	}
	return -1, false
}

// --- helpers ---

func livingOnly(cs []Combatant) []Combatant {
	out := make([]Combatant, 0, len(cs))
	for _, c := range cs {
		if c != nil && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

func nearest(x, y float64, cs []Combatant) Combatant {
	var best Combatant
	bestD := math.Inf(1)
	for _, c := range cs {
		cx, cy := c.Center()
		if d := math.Hypot(cx-x, cy-y); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}
