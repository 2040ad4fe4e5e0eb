package game

import "math"

const (
	maxBounces      = 12   // bounce cap before a bouncing body detonates on contact
	settleSpeed     = 0.6  // speed below which a bounce comes to rest
	boundsMargin    = 50.0 // distance past the side/bottom edges before a body is dropped
	muzzleOffset    = wormHalfWidth + 5
	targetedReach   = 8.0  // horizontal units per power point for targeted/teleport aim
	targetedSpawnY  = -30.0
	targetedJitter  = 24.0 // horizontal scatter of barrage bodies
	targetedStagger = 8    // ticks between barrage bodies
	multiShotGap    = 0.04 // radians between bodies of a multi-shot projectile weapon
)

// StepOutcome is the result of advancing one projectile by one tick.
type StepOutcome uint8

const (
	StepWaiting     StepOutcome = iota // staggered body not yet released
	StepFlying                         // still in the air
	StepBounced                        // hit terrain and rebounded
	StepResting                        // stuck or settled, fuse still counting
	StepDetonated                      // explode at the body's position
	StepOutOfBounds                    // left the world without detonating
)

func (o StepOutcome) String() string {
	switch o {
	case StepWaiting:
		return "waiting"
	case StepFlying:
		return "flying"
	case StepBounced:
		return "bounced"
	case StepResting:
		return "resting"
	case StepDetonated:
		return "detonated"
	case StepOutOfBounds:
		return "out_of_bounds"
	default:
		return "unknown"
	}
}

// Projectile is one live body.
type Projectile struct {
	X, Y   float64
	VX, VY float64

	Weapon *Weapon
	Owner  Combatant

	Fuse     int // ticks until detonation; 0 when no fuse is running
	Bounces  int
	Resting  bool // stuck or settled: no integration, fuse keeps counting
	Age      int  // ticks since release
	Delay    int  // ticks before release
	Fragment bool // cluster children never fragment again
	Active   bool
}

// launchVelocity converts aim angle and power into a velocity for w.
// Angles follow screen coordinates: -pi/2 is straight up.
func launchVelocity(w *Weapon, angle, power float64) (float64, float64) {
	speed := w.ProjectileSpeed * clampF(power, MinPower, MaxPower) / MaxPower
	return math.Cos(angle) * speed, math.Sin(angle) * speed
}

// newShotProjectile builds the body a projectile-mode weapon releases when
// fired from shooter. The engine and the planner both launch through here.
func newShotProjectile(shooter Combatant, w *Weapon, angle, power float64) *Projectile {
	sx, sy := shooter.Center()
	vx, vy := launchVelocity(w, angle, power)
	return &Projectile{
		X:      sx + math.Cos(angle)*muzzleOffset,
		Y:      sy + math.Sin(angle)*muzzleOffset,
		VX:     vx,
		VY:     vy,
		Weapon: w,
		Owner:  shooter,
		Fuse:   w.FuseTicks(),
		Active: true,
	}
}

// TargetedX maps an aim to the horizontal landing column used by targeted
// barrages and teleports: the facing comes from the angle, the reach from power.
func TargetedX(shooterX, angle, power float64) float64 {
	return shooterX + math.Cos(angle)*clampF(power, MinPower, MaxPower)*targetedReach
}

// StepProjectile advances p by one tick against col. It is the only
// integration rule in the package: the engine and the planner's internal
// simulation both call it, so predictions follow real flight exactly.
//
// Order per tick: gravity, wind, integrate (sub-sampled so fast bodies cannot
// tunnel), fuse countdown, bounds, terrain contact.
func StepProjectile(p *Projectile, col Collider, windForce float64) StepOutcome {
	if p.Delay > 0 {
		p.Delay--
		return StepWaiting
	}
	p.Age++
	w := p.Weapon

	if p.Resting && w.Mode != FirePlaced && !col.IsSolid(p.X, p.Y+1) {
		// Support was carved away.
		p.Resting = false
	}

	contact := false
	freeX, freeY := p.X, p.Y
	if !p.Resting {
		if w.Mode != FirePlaced {
			p.VY += w.ProjectileGravity
		}
		if w.AffectedByWind {
			p.VX += windForce
		}
		ox, oy := p.X, p.Y
		n := int(math.Ceil(math.Max(math.Abs(p.VX), math.Abs(p.VY))))
		if n < 1 {
			n = 1
		}
		for i := 1; i <= n; i++ {
			f := float64(i) / float64(n)
			nx, ny := ox+p.VX*f, oy+p.VY*f
			if col.IsSolid(nx, ny) {
				contact = true
				p.X, p.Y = nx, ny
				break
			}
			freeX, freeY = nx, ny
		}
		if !contact {
			p.X, p.Y = ox+p.VX, oy+p.VY
		}
	}

	if p.Fuse > 0 {
		p.Fuse--
		if p.Fuse == 0 {
			if contact {
				p.X, p.Y = freeX, freeY
			}
			return StepDetonated
		}
	}

	if p.X < -boundsMargin || p.X > float64(col.Width())+boundsMargin || p.Y > float64(col.Height())+boundsMargin {
		p.Active = false
		return StepOutOfBounds
	}

	if p.Resting {
		return StepResting
	}
	if !contact {
		return StepFlying
	}

	switch {
	case w.Bounces && p.Bounces < maxBounces:
		wall := col.IsSolid(freeX+math.Copysign(1, p.VX), freeY) && !col.IsSolid(freeX, freeY+math.Copysign(1, p.VY))
		p.X, p.Y = freeX, freeY
		p.VY = -p.VY * w.BounceFriction
		p.VX *= w.BounceFriction
		if wall {
			p.VX = -p.VX
			p.VY = -p.VY
		}
		p.Bounces++
		if math.Hypot(p.VX, p.VY) < settleSpeed {
			p.VX, p.VY = 0, 0
			if p.Fuse > 0 {
				p.Resting = true
				return StepResting
			}
		}
		return StepBounced
	case !w.Bounces && p.Fuse > 0:
		p.X, p.Y = freeX, freeY
		for k := 0; k < 8 && col.IsSolid(p.X, p.Y); k++ {
			p.Y--
		}
		p.VX, p.VY = 0, 0
		p.Resting = true
		return StepResting
	default:
		return StepDetonated
	}
}
