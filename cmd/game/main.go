package main

import (
	"flag"
	"log"
	"time"

	"github.com/Garsondee/Crater/internal/game"
	"github.com/Garsondee/Crater/internal/view"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	seed := flag.Int64("seed", 0, "match seed (0 = from clock)")
	style := flag.String("style", "rolling", "terrain style: rolling, islands, cavern")
	difficulty := flag.String("difficulty", "medium", "AI difficulty for both teams: easy, medium, hard")
	width := flag.Int("width", 1280, "world width")
	height := flag.Int("height", 720, "world height")
	turns := flag.Int("turns", 60, "turn cap before the match is scored on health")
	flag.Parse()

	ts, ok := game.TerrainStyleByName(*style)
	if !ok {
		log.Fatalf("unknown terrain style %q", *style)
	}
	diff, ok := game.DifficultyByName(*difficulty)
	if !ok {
		log.Fatalf("unknown difficulty %q", *difficulty)
	}
	if *width < 200 || *height < 200 {
		log.Fatalf("world %dx%d too small", *width, *height)
	}

	next := *seed
	if next == 0 {
		next = time.Now().UnixNano()
	}
	build := func() *game.Match {
		m := game.NewMatch(
			game.WithSeed(next),
			game.WithWorldSize(*width, *height),
			game.WithTerrainStyle(ts),
			game.WithDifficulty(diff),
			game.WithMaxTurns(*turns),
		)
		log.Printf("match %s seed=%d style=%s difficulty=%s", m.ID, next, ts, diff.Name)
		next++
		return m
	}

	v := view.New(build(), build)
	w, h := v.Size()
	ebiten.SetWindowTitle("Crater")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
