package view

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/Garsondee/Crater/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func speedLabel(s float64) string {
	switch s {
	case 0:
		return "PAUSED"
	case 1, 2, 4:
		return fmt.Sprintf("%.0fx", s)
	}
	return fmt.Sprintf("%.1fx", s)
}

// windGauge renders wind as an arrow of up to ten chevrons.
func windGauge(w float64) string {
	n := int(w)
	if n < 0 {
		n = -n
	}
	if n > 10 {
		n = 10
	}
	switch {
	case w > 0:
		return fmt.Sprintf("%+3.0f %s", w, strings.Repeat(">", n))
	case w < 0:
		return fmt.Sprintf("%+3.0f %s", w, strings.Repeat("<", n))
	}
	return "  0 calm"
}

func (v *Viewer) hudLines() []string {
	m := v.match
	lines := []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedLabel(v.simSpeed)),
		fmt.Sprintf("turn %d  tick %d", m.Turn(), m.Tick()),
		"wind " + windGauge(m.Wind.Value()),
	}
	if w := m.ActiveWorm(); w != nil {
		lines = append(lines, fmt.Sprintf("%s (%s) hp=%d", w.Label(), w.Team(), w.Health()))
	}
	if c := m.Controller(); c != nil && c.Weapon() != nil {
		lines = append(lines, fmt.Sprintf("%s  a=%+.2f p=%.0f", c.Weapon().Name, c.Angle(), c.Power()))
	}
	if ex := m.Executor(); ex != nil {
		lines = append(lines, "ai: "+ex.Stage())
	}
	lines = append(lines, m.Stats.Red.String(), m.Stats.Blue.String())
	lines = append(lines, "[T] thoughts  [F] filter  [H] hud  [C] copy log")
	if v.restart != nil {
		lines = append(lines, "[R] new match")
	}
	if v.statusTTL > 0 {
		lines = append(lines, "> "+v.status)
	}
	return lines
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	lines := v.hudLines()

	const lineH = 12 // debug font line height
	const charW = 6  // debug font char width
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx, by := float32(4), float32(4)

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	// Inner highlight line along top edge.
	vector.StrokeLine(screen, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 80, G: 140, B: 80, A: 80}, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*lineH)
	}
}

// drawThoughts renders the planner's reasoning to the right of the world,
// newest at the bottom.
func (v *Viewer) drawThoughts(screen *ebiten.Image, panelX, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "THOUGHT LOG  "+thoughtScopeLabel(v.thoughtScope), panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	visible := v.match.Thoughts.Tail((panelH-24)/logLineHeight, thoughtFilter(v.thoughtScope))
	const recent = 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, teamColor(e.Team), false)
		ebitenutil.DebugPrintAt(screen, thoughtLine(e), panelX+12, y)
		y += logLineHeight
	}
}

// thoughtScope selects whose reasoning the panel shows.
type thoughtScope int

const (
	scopeAll thoughtScope = iota
	scopeRed
	scopeBlue
	scopeCount
)

func thoughtFilter(s thoughtScope) game.ThoughtFilter {
	switch s {
	case scopeRed:
		return game.TeamThoughts(game.TeamRed)
	case scopeBlue:
		return game.TeamThoughts(game.TeamBlue)
	}
	return nil
}

func thoughtScopeLabel(s thoughtScope) string {
	switch s {
	case scopeRed:
		return "[red]"
	case scopeBlue:
		return "[blue]"
	}
	return "[all]"
}

const thoughtCols = (logPanelWidth - 16) / 6

func thoughtLine(e game.ThoughtEntry) string {
	line := fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message)
	if len(line) > thoughtCols {
		line = line[:thoughtCols-2] + ".."
	}
	return line
}
