package view

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Crater/internal/game"
)

type effectKind int

const (
	effectBlast effectKind = iota
	effectMuzzle
	effectDamage
	effectTeleport
)

// effect is a short-lived decoration spawned from a simulation event.
type effect struct {
	kind   effectKind
	x, y   float64
	radius float64
	text   string
	ttl    int
	life   int
}

// alpha is the remaining strength in (0,1].
func (f *effect) alpha() float64 {
	if f.life <= 0 {
		return 0
	}
	return float64(f.ttl) / float64(f.life)
}

const (
	blastTTL    = 24
	muzzleTTL   = 6
	damageTTL   = 60
	teleportTTL = 30
	maxEffects  = 64
)

// effects collects decorations from the dispatcher. It never writes back into
// the match.
type effects struct {
	list []*effect
}

// OnEvent implements game.Listener.
func (fx *effects) OnEvent(e game.Event) {
	switch e.Type {
	case game.EventExplosion:
		fx.push(&effect{kind: effectBlast, x: e.X, y: e.Y, radius: e.Radius, ttl: blastTTL})
	case game.EventFired:
		fx.push(&effect{kind: effectMuzzle, x: e.X, y: e.Y, ttl: muzzleTTL})
	case game.EventDamage:
		x, y := e.X, e.Y
		if e.Target != nil {
			x, y = e.Target.Center()
			y -= 16
		}
		fx.push(&effect{kind: effectDamage, x: x, y: y, text: fmt.Sprintf("-%d", e.Amount), ttl: damageTTL})
	case game.EventTeleported:
		fx.push(&effect{kind: effectTeleport, x: e.X, y: e.Y, radius: 12, ttl: teleportTTL})
	}
}

func (fx *effects) push(f *effect) {
	f.life = f.ttl
	if len(fx.list) >= maxEffects {
		fx.list = fx.list[1:]
	}
	fx.list = append(fx.list, f)
}

// age advances every effect by one frame and drops the expired ones.
func (fx *effects) age() {
	kept := fx.list[:0]
	for _, f := range fx.list {
		f.ttl--
		if f.kind == effectDamage {
			f.y -= 0.4
		}
		if f.ttl > 0 {
			kept = append(kept, f)
		}
	}
	fx.list = kept
}

func (fx *effects) clear() { fx.list = fx.list[:0] }

func fade(c color.RGBA, a float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * a), G: uint8(float64(c.G) * a), B: uint8(float64(c.B) * a), A: uint8(float64(c.A) * a)}
}
