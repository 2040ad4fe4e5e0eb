package game

import "math"

const (
	wormHalfWidth       = 5.0
	wormHalfHeight      = 7.0
	wormMaxHealth       = 100
	wormWalkSpeed       = 1.0  // units per walking tick
	wormMaxClimb        = 6    // tallest step a walking worm can climb
	wormJumpVX          = 2.2  // horizontal jump velocity
	wormJumpVY          = -4.2 // vertical jump velocity
	wormGravity         = 0.2
	wormMaxSpeed        = 16.0
	wormFallDamageSpeed = 7.0 // landing speed above which fall damage applies
	wormFallDamagePer   = 4.0 // damage per unit of landing speed over the threshold
	wormExitMargin      = 50.0
)

// Team identifies which side a combatant fights for.
type Team int

const (
	TeamRed Team = iota
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "team"
	}
}

// Combatant is everything the simulation core needs from a fighter. The core
// reads and writes health and position only through these calls.
type Combatant interface {
	Center() (x, y float64)
	Position() (x, y float64)
	SetPosition(x, y float64)
	Team() Team
	Alive() bool
	Health() int
	TakeDamage(amount int)
	ApplyKnockback(fx, fy float64)
}

type labeled interface {
	Label() string
}

// labelOf returns a short log label for c.
func labelOf(c Combatant) string {
	if c == nil {
		return "--"
	}
	if l, ok := c.(labeled); ok {
		return l.Label()
	}
	return "??"
}

// Worm is the concrete combatant: a small body that walks, jumps, falls and
// gets thrown around by blasts.
type Worm struct {
	id    int
	label string
	team  Team

	x, y   float64 // body centre
	vx, vy float64

	health   int
	alive    bool
	airborne bool
	facing   int // -1 left, +1 right
	walkDir  int // non-zero while a walk is in progress

	damageTaken int
	lastFall    int // fall damage from the most recent landing
}

// NewWorm creates a full-health worm centred on (x,y).
func NewWorm(id int, label string, team Team, x, y float64) *Worm {
	facing := 1
	if team == TeamBlue {
		facing = -1
	}
	return &Worm{
		id:     id,
		label:  label,
		team:   team,
		x:      x,
		y:      y,
		health: wormMaxHealth,
		alive:  true,
		facing: facing,
	}
}

func (w *Worm) ID() int                    { return w.id }
func (w *Worm) Label() string              { return w.label }
func (w *Worm) Team() Team                 { return w.team }
func (w *Worm) Alive() bool                { return w.alive }
func (w *Worm) Health() int                { return w.health }
func (w *Worm) Center() (float64, float64) { return w.x, w.y }

// Position is the body centre; worms have no separate anchor.
func (w *Worm) Position() (float64, float64) { return w.x, w.y }

// SetPosition moves the body centre and drops any motion.
func (w *Worm) SetPosition(x, y float64) {
	w.x, w.y = x, y
	w.vx, w.vy = 0, 0
	w.airborne = true
}

func (w *Worm) Facing() int                  { return w.facing }
func (w *Worm) Airborne() bool               { return w.airborne }
func (w *Worm) Velocity() (float64, float64) { return w.vx, w.vy }
func (w *Worm) DamageTaken() int             { return w.damageTaken }
func (w *Worm) LastFallDamage() int          { return w.lastFall }

// Settled reports whether the worm is at rest on the ground (or dead).
func (w *Worm) Settled() bool {
	return !w.alive || (!w.airborne && w.walkDir == 0)
}

// TakeDamage removes health; a worm at zero health is dead.
func (w *Worm) TakeDamage(amount int) {
	if !w.alive || amount <= 0 {
		return
	}
	if amount > w.health {
		amount = w.health
	}
	w.health -= amount
	w.damageTaken += amount
	if w.health <= 0 {
		w.health = 0
		w.alive = false
		w.walkDir = 0
	}
}

// ApplyKnockback adds an impulse and launches the worm.
func (w *Worm) ApplyKnockback(fx, fy float64) {
	if !w.alive {
		return
	}
	w.vx += fx
	w.vy += fy
	w.airborne = true
	w.walkDir = 0
}

// PlaceOnSurface drops the worm onto the floor of its current column.
func (w *Worm) PlaceOnSurface(t *Terrain) {
	s := t.SurfaceY(int(math.Floor(w.x)))
	w.y = float64(s) - wormHalfHeight - 0.01
	w.vx, w.vy = 0, 0
	w.airborne = false
}

// Walk starts walking in dir (-1 or +1); Walk(0) stops.
func (w *Worm) Walk(dir int) {
	if !w.alive {
		return
	}
	switch {
	case dir < 0:
		w.walkDir, w.facing = -1, -1
	case dir > 0:
		w.walkDir, w.facing = 1, 1
	default:
		w.walkDir = 0
	}
}

// Walking reports the current walk direction.
func (w *Worm) Walking() int { return w.walkDir }

// Jump launches the worm in its facing direction when grounded.
func (w *Worm) Jump() {
	if !w.alive || w.airborne {
		return
	}
	w.vx = float64(w.facing) * wormJumpVX
	w.vy = wormJumpVY
	w.airborne = true
}

// Update advances one tick: a walking step when grounded, otherwise
// airborne motion under gravity until landing.
func (w *Worm) Update(col Collider) {
	if !w.alive {
		return
	}
	if !w.airborne {
		if w.walkDir != 0 {
			if nx, ny, ok := walkStep(col, w.x, w.y, w.walkDir); ok {
				w.x, w.y = nx, ny
			}
		}
		if supported(col, w.x, w.y) {
			return
		}
		w.airborne = true
	}

	w.vy += wormGravity
	if s := math.Hypot(w.vx, w.vy); s > wormMaxSpeed {
		w.vx *= wormMaxSpeed / s
		w.vy *= wormMaxSpeed / s
	}

	steps := int(math.Ceil(math.Max(math.Abs(w.vx), math.Abs(w.vy))))
	if steps < 1 {
		steps = 1
	}
	sx := w.vx / float64(steps)
	sy := w.vy / float64(steps)
	for i := 0; i < steps; i++ {
		if sx != 0 {
			if boxFree(col, w.x+sx, w.y) {
				w.x += sx
			} else {
				w.vx, sx = 0, 0
			}
		}
		if boxFree(col, w.x, w.y+sy) {
			w.y += sy
			continue
		}
		if sy > 0 {
			w.land(col)
			break
		}
		w.vy, sy = 0, 0
	}
	w.checkWorldExit(col)
}

func (w *Worm) land(col Collider) {
	impact := w.vy
	for k := 0; k < 4 && boxFree(col, w.x, w.y+0.25); k++ {
		w.y += 0.25
	}
	w.vx, w.vy = 0, 0
	w.airborne = false
	w.lastFall = 0
	if impact > wormFallDamageSpeed {
		w.lastFall = int(math.Round((impact - wormFallDamageSpeed) * wormFallDamagePer))
		w.TakeDamage(w.lastFall)
	}
}

// checkWorldExit kills worms that reach the world floor line or leave the
// sides of the world.
func (w *Worm) checkWorldExit(col Collider) {
	if w.y+wormHalfHeight >= float64(col.Height())-1 ||
		w.x < -wormExitMargin || w.x > float64(col.Width())+wormExitMargin {
		w.TakeDamage(w.health)
	}
}

// walkStep is one walking step from (cx,cy): climb up to wormMaxClimb, then
// follow a descending slope down to the same depth. ok is false when blocked.
func walkStep(col Collider, cx, cy float64, dir int) (float64, float64, bool) {
	nx := cx + float64(dir)*wormWalkSpeed
	if nx < wormHalfWidth || nx > float64(col.Width())-wormHalfWidth {
		return cx, cy, false
	}
	for lift := 0; lift <= wormMaxClimb; lift++ {
		ny := cy - float64(lift)
		if !boxFree(col, nx, ny) {
			continue
		}
		for drop := 0; drop < wormMaxClimb && !supported(col, nx, ny) && boxFree(col, nx, ny+1); drop++ {
			ny++
		}
		return nx, ny, true
	}
	return cx, cy, false
}

// boxFree reports whether a body centred on (cx,cy) overlaps no solid cell.
func boxFree(col Collider, cx, cy float64) bool {
	xs := [3]float64{cx - wormHalfWidth + 0.5, cx, cx + wormHalfWidth - 0.5}
	ys := [3]float64{cy - wormHalfHeight, cy, cy + wormHalfHeight - 0.5}
	for _, y := range ys {
		for _, x := range xs {
			if col.IsSolid(x, y) {
				return false
			}
		}
	}
	return true
}

// supported reports whether there is ground directly under the feet.
func supported(col Collider, cx, cy float64) bool {
	feet := cy + wormHalfHeight + 0.5
	return col.IsSolid(cx-wormHalfWidth+1, feet) || col.IsSolid(cx, feet) || col.IsSolid(cx+wormHalfWidth-1, feet)
}
