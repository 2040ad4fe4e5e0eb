package view

import (
	"image"
	"image/color"

	"github.com/Garsondee/Crater/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// grassDepth is how many rows below an exposed edge are drawn as turf.
const grassDepth = 4

var (
	grassCol = color.RGBA{R: 86, G: 142, B: 58, A: 255}
	soilCol  = color.RGBA{R: 112, G: 84, B: 56, A: 255}
	deepCol  = color.RGBA{R: 70, G: 52, B: 38, A: 255}
	rockCol  = color.RGBA{R: 64, G: 62, B: 70, A: 255}
)

// terrainLayer mirrors the collision raster into a GPU image. Only regions the
// terrain reports dirty are repainted after the first full build.
type terrainLayer struct {
	img      *ebiten.Image
	pix      []byte
	revision int
}

// sync brings the image up to date with t and returns it.
func (l *terrainLayer) sync(t *game.Terrain) *ebiten.Image {
	if l.img == nil {
		l.img = ebiten.NewImage(t.Width(), t.Height())
		full := game.Rect{X: 0, Y: 0, W: t.Width(), H: t.Height()}
		l.pix = paintRegion(l.pix, t, full)
		l.img.WritePixels(l.pix)
		t.DirtyRegions()
		l.revision = t.Revision()
		return l.img
	}
	if t.Revision() == l.revision {
		return l.img
	}
	for _, r := range t.DirtyRegions() {
		// Cells under a crater may now be exposed turf.
		r.H = min(r.H+grassDepth, t.Height()-r.Y)
		l.pix = paintRegion(l.pix, t, r)
		sub := l.img.SubImage(image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)).(*ebiten.Image)
		sub.WritePixels(l.pix)
	}
	l.revision = t.Revision()
	return l.img
}

// paintRegion fills buf with RGBA pixels for r and returns it, growing buf
// when it is too small.
func paintRegion(buf []byte, t *game.Terrain, r game.Rect) []byte {
	n := r.W * r.H * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	i := 0
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c := cellColor(t, x, y)
			buf[i], buf[i+1], buf[i+2], buf[i+3] = c.R, c.G, c.B, c.A
			i += 4
		}
	}
	return buf
}

// cellColor shades one cell: turf on exposed tops, soil darkening with depth,
// bare rock on ceilings. Air is transparent.
func cellColor(t *game.Terrain, x, y int) color.RGBA {
	if !t.SolidCell(x, y) {
		return color.RGBA{}
	}
	if y <= t.CeilingY(x) {
		return rockCol
	}
	exposed := false
	for k := 1; k <= grassDepth; k++ {
		if y-k >= 0 && !t.SolidCell(x, y-k) {
			exposed = true
			break
		}
	}
	if exposed {
		return grassCol
	}
	depth := float64(y-t.SurfaceY(x)) / float64(t.Height())
	return lerpRGBA(soilCol, deepCol, depth*2)
}

func lerpRGBA(a, b color.RGBA, f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	mix := func(p, q uint8) uint8 { return uint8(float64(p) + (float64(q)-float64(p))*f) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
