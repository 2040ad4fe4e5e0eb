package game

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownWeapon is returned when selecting a name missing from the catalog.
	ErrUnknownWeapon = errors.New("unknown weapon")
	// ErrNotReady is returned by Fire when the worm cannot shoot right now.
	ErrNotReady = errors.New("not ready to fire")
)

// Actions is the public control surface of the active worm. Human input and
// the AI executor drive a turn through exactly these calls.
//
//go:generate go tool mockgen -destination=./mocks/actions_mock.go -package=mocks . Actions
type Actions interface {
	SelectWeapon(name string) error
	EnterAim()
	SetAim(angle, power float64)
	Fire() error
	Walk(dir int)
	Jump()
}

// Controller implements Actions for one worm for one turn.
type Controller struct {
	engine *Engine
	worm   *Worm

	weapon *Weapon
	aiming bool
	angle  float64
	power  float64
	fired  bool
}

// NewController binds a worm to the engine for the current turn.
func NewController(e *Engine, w *Worm) *Controller {
	angle := -0.78
	if w.Facing() < 0 {
		angle = -2.36
	}
	return &Controller{engine: e, worm: w, angle: angle, power: 50}
}

func (c *Controller) Worm() *Worm     { return c.worm }
func (c *Controller) Weapon() *Weapon { return c.weapon }
func (c *Controller) Aiming() bool    { return c.aiming }
func (c *Controller) Fired() bool     { return c.fired }
func (c *Controller) Angle() float64  { return c.angle }
func (c *Controller) Power() float64  { return c.power }

func (c *Controller) SelectWeapon(name string) error {
	w, ok := WeaponByName(name)
	if !ok {
		return fmt.Errorf("select %q: %w", name, ErrUnknownWeapon)
	}
	c.weapon = w
	c.engine.Log.AddFor(c.engine.Tick(), c.worm, LogFire, "select", name, 0)
	return nil
}

func (c *Controller) EnterAim() {
	c.aiming = true
	c.worm.Walk(0)
}

func (c *Controller) SetAim(angle, power float64) {
	c.angle = wrapAngle(angle)
	c.power = clampF(power, MinPower, MaxPower)
}

// Fire discharges the selected weapon. A worm fires once per turn, only while
// alive, aiming and with nothing else in flight.
func (c *Controller) Fire() error {
	switch {
	case !c.worm.Alive():
		return fmt.Errorf("%s is dead: %w", c.worm.Label(), ErrNotReady)
	case c.weapon == nil:
		return fmt.Errorf("no weapon selected: %w", ErrNotReady)
	case !c.aiming:
		return fmt.Errorf("not aiming: %w", ErrNotReady)
	case c.fired:
		return fmt.Errorf("already fired this turn: %w", ErrNotReady)
	case !c.engine.Idle():
		return fmt.Errorf("shot in flight: %w", ErrNotReady)
	}
	c.engine.Fire(c.worm, c.weapon, c.angle, c.power)
	c.fired = true
	c.aiming = false
	return nil
}

func (c *Controller) Walk(dir int) {
	if c.aiming && dir != 0 {
		c.aiming = false
	}
	c.worm.Walk(dir)
}

func (c *Controller) Jump() { c.worm.Jump() }
