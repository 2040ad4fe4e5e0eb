package view

import (
	"fmt"
	"image/color"
	"math"

	"github.com/Garsondee/Crater/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	skyTop    = color.RGBA{R: 28, G: 36, B: 58, A: 255}
	skyBottom = color.RGBA{R: 92, G: 110, B: 132, A: 255}
	redCol    = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	blueCol   = color.RGBA{R: 70, G: 110, B: 210, A: 255}
)

func teamColor(t game.Team) color.RGBA {
	if t == game.TeamRed {
		return redCol
	}
	return blueCol
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	t := v.match.Terrain
	w, h := t.Width(), t.Height()

	v.drawSky(screen, w, h)
	screen.DrawImage(v.terrain.sync(t), nil)
	v.drawWorms(screen)
	v.drawAim(screen)
	v.drawProjectiles(screen)
	v.drawEffects(screen)

	if v.showHUD {
		v.drawHUD(screen)
	}
	if v.showThoughts {
		v.drawThoughts(screen, w, h)
	}
	if v.match.Over() {
		v.drawBanner(screen, w, h)
	}
}

// drawSky paints a vertical gradient in bands.
func (v *Viewer) drawSky(screen *ebiten.Image, w, h int) {
	const bands = 24
	bh := float32(h) / bands
	for i := 0; i < bands; i++ {
		c := lerpRGBA(skyTop, skyBottom, float64(i)/float64(bands-1))
		vector.FillRect(screen, 0, float32(i)*bh, float32(w), bh+1, c, false)
	}
}

func (v *Viewer) drawWorms(screen *ebiten.Image) {
	active := v.match.ActiveWorm()
	for _, wm := range v.match.Worms {
		if !wm.Alive() {
			continue
		}
		x, y := wm.Center()
		fx, fy := float32(x), float32(y)
		col := teamColor(wm.Team())

		vector.FillRect(screen, fx-5, fy-7, 10, 14, col, false)
		// Eye on the facing side.
		vector.FillRect(screen, fx+float32(wm.Facing())*2-1, fy-4, 2, 2, color.White, false)
		if wm == active {
			vector.StrokeRect(screen, fx-7, fy-9, 14, 18, 1, color.RGBA{R: 240, G: 230, B: 120, A: 255}, false)
		}

		// Health bar.
		frac := float32(wm.Health()) / 100
		vector.FillRect(screen, fx-10, fy-16, 20, 3, color.RGBA{R: 20, G: 20, B: 20, A: 200}, false)
		vector.FillRect(screen, fx-10, fy-16, 20*frac, 3, col, false)
		v.label(screen, wm.Label(), x-7, y-30, color.RGBA{R: 230, G: 230, B: 230, A: 255})
	}
}

// drawAim shows the active worm's angle and power while it is aiming.
func (v *Viewer) drawAim(screen *ebiten.Image) {
	c := v.match.Controller()
	if c == nil || !c.Aiming() || !c.Worm().Alive() {
		return
	}
	x, y := c.Worm().Center()
	l := 12 + c.Power()*0.5
	ex, ey := x+math.Cos(c.Angle())*l, y+math.Sin(c.Angle())*l
	vector.StrokeLine(screen, float32(x), float32(y), float32(ex), float32(ey), 1.5,
		color.RGBA{R: 250, G: 240, B: 180, A: 220}, false)
	vector.StrokeCircle(screen, float32(ex), float32(ey), 3, 1, color.RGBA{R: 250, G: 240, B: 180, A: 220}, false)
}

func (v *Viewer) drawProjectiles(screen *ebiten.Image) {
	for _, p := range v.match.Engine.Projectiles() {
		if !p.Active || p.Delay > 0 {
			continue
		}
		r := float32(2.5)
		if p.Fragment {
			r = 1.5
		}
		vector.FillCircle(screen, float32(p.X), float32(p.Y), r, color.RGBA{R: 20, G: 20, B: 20, A: 255}, false)
		if p.Fuse > 0 {
			secs := float64(p.Fuse) / 60
			v.label(screen, fmt.Sprintf("%.0f", math.Ceil(secs)), p.X+4, p.Y-14, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
}

func (v *Viewer) drawEffects(screen *ebiten.Image) {
	for _, f := range v.fx.list {
		a := f.alpha()
		switch f.kind {
		case effectBlast:
			r := float32(f.radius * (1.2 - 0.4*a))
			vector.FillCircle(screen, float32(f.x), float32(f.y), r, fade(color.RGBA{R: 255, G: 170, B: 60, A: 200}, a), false)
			vector.FillCircle(screen, float32(f.x), float32(f.y), r*0.5, fade(color.RGBA{R: 255, G: 240, B: 180, A: 230}, a), false)
		case effectMuzzle:
			vector.FillCircle(screen, float32(f.x), float32(f.y), 6, fade(color.RGBA{R: 255, G: 230, B: 140, A: 255}, a), false)
		case effectTeleport:
			vector.StrokeCircle(screen, float32(f.x), float32(f.y), float32(f.radius*(2-a)), 2, fade(color.RGBA{R: 160, G: 120, B: 255, A: 255}, a), false)
		case effectDamage:
			v.label(screen, f.text, f.x-8, f.y, fade(color.RGBA{R: 255, G: 90, B: 90, A: 255}, a))
		}
	}
}

func (v *Viewer) drawBanner(screen *ebiten.Image, w, h int) {
	msg := v.match.Outcome().String()
	bw := float32(len(msg)*7 + 24)
	bx := float32(w)/2 - bw/2
	by := float32(h)/2 - 16
	vector.FillRect(screen, bx, by, bw, 28, color.RGBA{R: 6, G: 10, B: 6, A: 220}, false)
	vector.StrokeRect(screen, bx, by, bw, 28, 1, color.RGBA{R: 60, G: 100, B: 60, A: 200}, false)
	v.label(screen, msg, float64(bx)+12, float64(by)+7, color.RGBA{R: 240, G: 240, B: 240, A: 255})
	if v.restart != nil {
		ebitenutil.DebugPrintAt(screen, "R = new match", int(bx)+12, int(by)+30)
	}
}

func (v *Viewer) label(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, v.face, op)
}
