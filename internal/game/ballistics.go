package game

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	clusterCone     = 0.35 // half-angle around straight up for fragment launches
	clusterMinSpeed = 3.0
	clusterMaxSpeed = 5.0
	teleportSearch  = 40 // columns searched either side for a floor to land on
)

// Impact is one resolved detonation or direct hit.
type Impact struct {
	Tick    int
	X, Y    float64
	Radius  float64
	Weapon  *Weapon
	Owner   Combatant
	Direct  bool // hitscan round that struck a body
	Carved  bool // terrain changed
	Results []DamageResult
}

// Engine advances every live body against the terrain and the combatants and
// resolves what they hit. It owns its RNG so that a match is reproducible from
// its seed.
type Engine struct {
	terrain     *Terrain
	wind        *Wind
	rng         *rand.Rand
	combatants  []Combatant
	projectiles []*Projectile
	impacts     []Impact
	tick        int

	Events *Dispatcher
	Log    *BattleLog
}

// NewEngine creates an engine bound to a world and its wind.
func NewEngine(t *Terrain, wind *Wind, seed int64) *Engine {
	if wind == nil {
		wind = &Wind{}
	}
	return &Engine{
		terrain: t,
		wind:    wind,
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
	}
}

// SetCombatants replaces the set of bodies that blasts, rays and projectiles
// can hit.
func (e *Engine) SetCombatants(cs []Combatant) { e.combatants = cs }

func (e *Engine) Terrain() *Terrain { return e.terrain }
func (e *Engine) Wind() *Wind       { return e.wind }
func (e *Engine) Tick() int         { return e.tick }

// Projectiles returns the live bodies. Callers must not modify them.
func (e *Engine) Projectiles() []*Projectile { return e.projectiles }

// ActiveCount is the number of bodies still pending.
func (e *Engine) ActiveCount() int {
	n := 0
	for _, p := range e.projectiles {
		if p.Active {
			n++
		}
	}
	return n
}

// Idle reports whether nothing is in flight: the turn driver polls this before
// ending a turn.
func (e *Engine) Idle() bool { return e.ActiveCount() == 0 }

// DrainImpacts returns the impacts resolved since the last call.
func (e *Engine) DrainImpacts() []Impact {
	out := e.impacts
	e.impacts = nil
	return out
}

// Clear drops every live body without detonating it. Used when a turn driver
// force-resolves a turn.
func (e *Engine) Clear() {
	for _, p := range e.projectiles {
		p.Active = false
	}
	e.projectiles = e.projectiles[:0]
}

// Fire discharges w from shooter at angle/power. It is the single entry point
// for every firing mode; an unknown mode is a programming error and panics.
func (e *Engine) Fire(shooter Combatant, w *Weapon, angle, power float64) {
	power = clampF(power, MinPower, MaxPower)
	e.Log.AddFor(e.tick, shooter, LogFire, "launch",
		fmt.Sprintf("%s a=%.2f p=%.0f wind=%.0f", w.Name, angle, power, e.wind.Value()), power)
	sx, sy := shooter.Center()
	e.Events.Dispatch(Event{Type: EventFired, Tick: e.tick, X: sx, Y: sy, Weapon: w, Source: shooter})

	switch w.Mode {
	case FireProjectile:
		n := max(w.ShotCount, 1)
		for i := 0; i < n; i++ {
			a := angle + (float64(i)-float64(n-1)/2)*multiShotGap
			e.projectiles = append(e.projectiles, newShotProjectile(shooter, w, a, power))
		}
	case FireHitscan:
		e.fireHitscan(shooter, w, angle)
	case FirePlaced:
		side := 1.0
		if math.Cos(angle) < 0 {
			side = -1
		}
		e.projectiles = append(e.projectiles, &Projectile{
			X:       sx + side*(wormHalfWidth+2),
			Y:       sy + wormHalfHeight - 2,
			Weapon:  w,
			Owner:   shooter,
			Fuse:    w.FuseTicks(),
			Resting: true,
			Active:  true,
		})
	case FireTargeted:
		tx := clampF(TargetedX(sx, angle, power), 0, float64(e.terrain.Width()))
		e.Log.AddFor(e.tick, shooter, LogFire, "target", fmt.Sprintf("x=%.0f", tx), tx)
		for i := 0; i < max(w.ShotCount, 1); i++ {
			e.projectiles = append(e.projectiles, &Projectile{
				X:      tx + (e.rng.Float64()*2-1)*targetedJitter,
				Y:      targetedSpawnY,
				VY:     w.ProjectileSpeed,
				Weapon: w,
				Owner:  shooter,
				Fuse:   w.FuseTicks(),
				Delay:  i * targetedStagger,
				Active: true,
			})
		}
	case FireTeleport:
		e.teleport(shooter, angle, power)
	default:
		panic(fmt.Sprintf("ballistics: unknown firing mode %v for weapon %q", w.Mode, w.Name))
	}
}

func (e *Engine) fireHitscan(shooter Combatant, w *Weapon, angle float64) {
	sx, sy := shooter.Center()
	for _, a := range pelletAngles(w, angle) {
		ox := sx + math.Cos(a)*muzzleOffset
		oy := sy + math.Sin(a)*muzzleOffset
		res := TraceHitscan(e.terrain, w, ox, oy, a, e.wind.Value(), e.combatants, shooter)
		switch res.Kind {
		case HitCombatant:
			dr := directHit(res.Victim, w.Damage, a)
			e.recordImpact(Impact{Tick: e.tick, X: res.X, Y: res.Y, Weapon: w, Owner: shooter, Direct: true,
				Results: []DamageResult{dr}})
		case HitTerrain:
			e.explode(res.X, res.Y, w.BlastRadius, w.Damage, w, shooter)
		default:
			e.Log.AddFor(e.tick, shooter, LogProjectile, "ray_miss",
				fmt.Sprintf("%s ended at (%.0f,%.0f)", w.Name, res.X, res.Y), res.Distance)
		}
	}
}

func (e *Engine) teleport(c Combatant, angle, power float64) {
	sx, _ := c.Center()
	w := e.terrain.Width()
	tx := clampI(int(TargetedX(sx, angle, power)), int(wormHalfWidth), w-int(wormHalfWidth)-1)
	for d := 0; d <= teleportSearch; d++ {
		for _, x := range []int{tx + d, tx - d} {
			if x < int(wormHalfWidth) || x >= w-int(wormHalfWidth) {
				continue
			}
			s := e.terrain.SurfaceY(x)
			if s >= e.terrain.Height()-1 {
				continue
			}
			nx, ny := float64(x)+0.5, float64(s)-wormHalfHeight-0.01
			if !boxFree(e.terrain, nx, ny) {
				continue
			}
			c.SetPosition(nx, ny)
			e.Log.AddFor(e.tick, c, LogMove, "teleport", fmt.Sprintf("to (%.0f,%.0f)", nx, ny), nx)
			e.Events.Dispatch(Event{Type: EventTeleported, Tick: e.tick, X: nx, Y: ny, Source: c})
			return
		}
	}
	e.Log.AddFor(e.tick, c, LogMove, "teleport_blocked", fmt.Sprintf("no floor near x=%d", tx), float64(tx))
}

// Update advances every live body one tick and resolves detonations. A body
// detonates at most once; cluster children join the list for the next tick.
func (e *Engine) Update() {
	e.tick++
	force := e.wind.Force()
	var spawned []*Projectile
	for _, p := range e.projectiles {
		if !p.Active {
			continue
		}
		col := newFieldCollider(e.terrain, e.combatants, p)
		out := StepProjectile(p, col, force)
		switch out {
		case StepDetonated:
			p.Active = false
			w := p.Weapon
			e.explode(p.X, p.Y, w.BlastRadius, w.Damage, w, p.Owner)
			if w.IsCluster() && !p.Fragment {
				spawned = append(spawned, e.fragments(p)...)
			}
		case StepOutOfBounds:
			p.Active = false
			e.Log.AddFor(e.tick, p.Owner, LogProjectile, "out_of_bounds",
				fmt.Sprintf("%s left at (%.0f,%.0f)", p.Weapon.Name, p.X, p.Y), p.X)
			e.Events.Dispatch(Event{Type: EventOutOfBounds, Tick: e.tick, X: p.X, Y: p.Y, Weapon: p.Weapon, Source: p.Owner})
		case StepBounced:
			e.Log.AddVerbose(e.tick, labelOf(p.Owner), "--", LogProjectile, "bounce",
				fmt.Sprintf("%s #%d at (%.0f,%.0f)", p.Weapon.Name, p.Bounces, p.X, p.Y), float64(p.Bounces))
		case StepFlying:
			e.Log.AddVerbose(e.tick, labelOf(p.Owner), "--", LogProjectile, "pos",
				fmt.Sprintf("(%.1f,%.1f) v=(%.2f,%.2f)", p.X, p.Y, p.VX, p.VY), p.Y)
		}
	}

	live := e.projectiles[:0]
	for _, p := range e.projectiles {
		if p.Active {
			live = append(live, p)
		}
	}
	e.projectiles = append(live, spawned...)
}

// fragments spawns the cluster children of p at its detonation point.
func (e *Engine) fragments(p *Projectile) []*Projectile {
	w := p.Weapon
	fw := w.fragment()
	out := make([]*Projectile, 0, w.ClusterCount)
	for i := 0; i < w.ClusterCount; i++ {
		a := -math.Pi/2 + (e.rng.Float64()*2-1)*clusterCone
		s := clusterMinSpeed + e.rng.Float64()*(clusterMaxSpeed-clusterMinSpeed)
		out = append(out, &Projectile{
			X:        p.X,
			Y:        p.Y - 2,
			VX:       math.Cos(a) * s,
			VY:       math.Sin(a) * s,
			Weapon:   fw,
			Owner:    p.Owner,
			Fragment: true,
			Active:   true,
		})
	}
	e.Log.AddFor(e.tick, p.Owner, LogProjectile, "cluster",
		fmt.Sprintf("%d fragments at (%.0f,%.0f)", len(out), p.X, p.Y), float64(len(out)))
	return out
}

func (e *Engine) explode(x, y, radius float64, damage int, w *Weapon, owner Combatant) {
	rev := e.terrain.Revision()
	results := Explode(e.terrain, x, y, radius, damage, e.combatants)
	imp := Impact{Tick: e.tick, X: x, Y: y, Radius: radius, Weapon: w, Owner: owner,
		Carved: e.terrain.Revision() != rev, Results: results}
	e.Events.Dispatch(Event{Type: EventDetonated, Tick: e.tick, X: x, Y: y, Radius: radius, Weapon: w, Source: owner})
	e.Events.Dispatch(Event{Type: EventExplosion, Tick: e.tick, X: x, Y: y, Radius: radius, Weapon: w, Source: owner})
	e.recordImpact(imp)
}

func (e *Engine) recordImpact(imp Impact) {
	e.impacts = append(e.impacts, imp)
	name := "?"
	if imp.Weapon != nil {
		name = imp.Weapon.Name
	}
	if imp.Direct {
		e.Log.AddFor(e.tick, imp.Owner, LogExplosion, "direct_hit", fmt.Sprintf("%s at (%.0f,%.0f)", name, imp.X, imp.Y), 0)
	} else {
		e.Log.AddFor(e.tick, imp.Owner, LogExplosion, "blast",
			fmt.Sprintf("%s at (%.0f,%.0f) r=%.0f", name, imp.X, imp.Y, imp.Radius), imp.Radius)
		if imp.Carved {
			e.Log.Add(e.tick, "--", "--", LogTerrain, "carve", fmt.Sprintf("rev=%d", e.terrain.Revision()), float64(e.terrain.Revision()))
		}
	}
	for _, r := range imp.Results {
		e.Log.AddFor(e.tick, r.Target, LogDamage, "hit",
			fmt.Sprintf("-%d from %s (%s) hp=%d", r.Amount, labelOf(imp.Owner), name, r.Target.Health()), float64(r.Amount))
		if r.Killed {
			e.Log.AddFor(e.tick, r.Target, LogDamage, "killed", "by "+labelOf(imp.Owner), 0)
		}
		e.Events.Dispatch(Event{Type: EventDamage, Tick: e.tick, X: imp.X, Y: imp.Y, Weapon: imp.Weapon,
			Source: imp.Owner, Target: r.Target, Amount: r.Amount})
	}
}
