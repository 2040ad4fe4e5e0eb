// Package view renders a running match with ebiten. It only reads simulation
// state; the match advances through Match.Update exactly as it does headless.
package view

import (
	"fmt"

	"github.com/Garsondee/Crater/internal/game"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const (
	logPanelWidth = 320
	logLineHeight = 11
	statusTTL     = 180
)

var speeds = []float64{0, 0.5, 1, 2, 4}

// Viewer implements ebiten.Game over a single match.
type Viewer struct {
	match   *game.Match
	restart func() *game.Match

	terrain terrainLayer
	fx      *effects
	face    text.Face

	prevKeys map[ebiten.Key]bool

	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	showThoughts bool
	thoughtScope thoughtScope
	showHUD      bool

	status    string
	statusTTL int
}

// New creates a viewer for m. restart, when non-nil, builds the match used
// after R is pressed.
func New(m *game.Match, restart func() *game.Match) *Viewer {
	v := &Viewer{
		restart:      restart,
		fx:           &effects{},
		face:         text.NewGoXFace(basicfont.Face7x13),
		prevKeys:     make(map[ebiten.Key]bool),
		simSpeed:     1.0,
		showThoughts: true,
		showHUD:      true,
	}
	v.attach(m)
	return v
}

func (v *Viewer) attach(m *game.Match) {
	if v.match != nil {
		v.match.Events.Unsubscribe(game.EventExplosion, v.fx)
		v.match.Events.Unsubscribe(game.EventFired, v.fx)
		v.match.Events.Unsubscribe(game.EventDamage, v.fx)
		v.match.Events.Unsubscribe(game.EventTeleported, v.fx)
	}
	v.match = m
	v.terrain = terrainLayer{}
	v.fx.clear()
	m.Events.Subscribe(game.EventExplosion, v.fx)
	m.Events.Subscribe(game.EventFired, v.fx)
	m.Events.Subscribe(game.EventDamage, v.fx)
	m.Events.Subscribe(game.EventTeleported, v.fx)
}

// Match returns the match on screen.
func (v *Viewer) Match() *game.Match { return v.match }

// Size is the window size the viewer lays out for.
func (v *Viewer) Size() (int, int) {
	return v.match.Terrain.Width() + logPanelWidth, v.match.Terrain.Height()
}

func (v *Viewer) Update() error {
	v.handleInput()
	v.fx.age()
	if v.statusTTL > 0 {
		v.statusTTL--
	}

	if v.simSpeed <= 0 {
		return nil
	}
	v.tickAccum += v.simSpeed
	for v.tickAccum >= 1.0 {
		v.tickAccum -= 1.0
		v.match.Update()
	}
	return nil
}

func (v *Viewer) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !v.prevKeys[k]
}

func (v *Viewer) handleInput() {
	cur := make(map[ebiten.Key]bool, 8)

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if v.pressed(cur, ebiten.KeyP) {
		if v.simSpeed > 0 {
			v.simSpeed = 0
		} else {
			v.simSpeed = 1
		}
	}
	if v.pressed(cur, ebiten.KeyComma) {
		v.simSpeed = slower(v.simSpeed)
	}
	if v.pressed(cur, ebiten.KeyPeriod) {
		v.simSpeed = faster(v.simSpeed)
	}
	if v.pressed(cur, ebiten.KeyT) {
		v.showThoughts = !v.showThoughts
	}
	if v.pressed(cur, ebiten.KeyF) {
		v.thoughtScope = (v.thoughtScope + 1) % scopeCount
	}
	if v.pressed(cur, ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}
	if v.pressed(cur, ebiten.KeyC) {
		v.copyLog()
	}
	if v.pressed(cur, ebiten.KeyR) && v.restart != nil {
		v.attach(v.restart())
		v.tickAccum = 0
		v.flash(fmt.Sprintf("new match %s", v.match.ID.String()[:8]))
	}

	v.prevKeys = cur
}

func (v *Viewer) copyLog() {
	m := v.match
	report := m.Log.Format() + "\n" + m.Summary().String()
	if err := clipboard.WriteAll(report); err != nil {
		v.flash("copy failed: " + err.Error())
		return
	}
	v.flash(fmt.Sprintf("copied %d log lines", m.Log.Len()))
}

func (v *Viewer) flash(msg string) {
	v.status = msg
	v.statusTTL = statusTTL
}

func slower(cur float64) float64 {
	for i, s := range speeds {
		if s >= cur && i > 0 {
			return speeds[i-1]
		}
	}
	return cur
}

func faster(cur float64) float64 {
	for _, s := range speeds {
		if s > cur {
			return s
		}
	}
	return cur
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.Size()
}
