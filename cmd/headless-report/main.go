package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/Garsondee/Crater/internal/game"
	"github.com/atotto/clipboard"
	"golang.org/x/sync/errgroup"
)

type config struct {
	runs       int
	turns      int
	seedBase   int64
	seedStep   int64
	style      string
	difficulty string
	redDiff    string
	blueDiff   string
	width      int
	height     int
	parallel   int
	dumpLogs   bool
	copyReport bool
}

type runStats struct {
	runIndex int
	seed     int64
	summary  game.MatchSummary

	firstBloodTick int
	firstKillTick  int
	blasts         int
	bounces        int
	carves         int
	timeouts       int
	weapons        map[string]int

	log string
}

func main() {
	var cfg config
	flag.IntVar(&cfg.runs, "runs", 5, "number of headless matches")
	flag.IntVar(&cfg.turns, "turns", 40, "turn cap per match")
	flag.Int64Var(&cfg.seedBase, "seed-base", 42, "seed for run 1")
	flag.Int64Var(&cfg.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&cfg.style, "style", "rolling", "terrain style: rolling, islands, cavern")
	flag.StringVar(&cfg.difficulty, "difficulty", "medium", "AI difficulty for both teams")
	flag.StringVar(&cfg.redDiff, "red", "", "override red difficulty")
	flag.StringVar(&cfg.blueDiff, "blue", "", "override blue difficulty")
	flag.IntVar(&cfg.width, "width", 1280, "world width")
	flag.IntVar(&cfg.height, "height", 720, "world height")
	flag.IntVar(&cfg.parallel, "parallel", runtime.NumCPU(), "matches simulated at once")
	flag.BoolVar(&cfg.dumpLogs, "logs", false, "print each match's battle log")
	flag.BoolVar(&cfg.copyReport, "copy", false, "copy the report to the clipboard")
	flag.Parse()

	opts, err := cfg.matchOptions()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(2)
	}

	start := time.Now()
	all, err := runAll(context.Background(), cfg, opts)
	if err != nil {
		slog.Error("batch failed", "err", err)
		os.Exit(1)
	}
	slog.Info("batch complete", "runs", len(all), "elapsed", time.Since(start).Round(time.Millisecond))

	var b strings.Builder
	fmt.Fprintf(&b, "=== Headless Match Report ===\n")
	fmt.Fprintf(&b, "style=%s difficulty=%s runs=%d turns=%d seed_base=%d seed_step=%d world=%dx%d\n\n",
		cfg.style, cfg.difficulty, cfg.runs, cfg.turns, cfg.seedBase, cfg.seedStep, cfg.width, cfg.height)
	for _, rs := range all {
		writeRun(&b, rs, cfg.dumpLogs)
	}
	writeAggregate(&b, all)
	fmt.Print(b.String())

	if cfg.copyReport {
		if err := clipboard.WriteAll(b.String()); err != nil {
			slog.Warn("clipboard copy failed", "err", err)
		} else {
			slog.Info("report copied to clipboard", "bytes", b.Len())
		}
	}
}

// matchOptions validates the flags and turns them into match options shared
// by every run.
func (cfg config) matchOptions() ([]game.MatchOption, error) {
	var errs []error
	if cfg.runs <= 0 {
		errs = append(errs, errors.New("-runs must be > 0"))
	}
	if cfg.turns <= 0 {
		errs = append(errs, errors.New("-turns must be > 0"))
	}
	if cfg.parallel <= 0 {
		errs = append(errs, errors.New("-parallel must be > 0"))
	}
	if cfg.width < 200 || cfg.height < 200 {
		errs = append(errs, fmt.Errorf("world %dx%d too small (min 200x200)", cfg.width, cfg.height))
	}
	style, ok := game.TerrainStyleByName(cfg.style)
	if !ok {
		errs = append(errs, fmt.Errorf("unsupported style %q (supported: rolling, islands, cavern)", cfg.style))
	}
	opts := []game.MatchOption{
		game.WithWorldSize(cfg.width, cfg.height),
		game.WithTerrainStyle(style),
		game.WithMaxTurns(cfg.turns),
	}
	if d, ok := game.DifficultyByName(cfg.difficulty); ok {
		opts = append(opts, game.WithDifficulty(d))
	} else {
		errs = append(errs, fmt.Errorf("unsupported difficulty %q", cfg.difficulty))
	}
	for _, o := range []struct {
		team game.Team
		name string
	}{{game.TeamRed, cfg.redDiff}, {game.TeamBlue, cfg.blueDiff}} {
		if o.name == "" {
			continue
		}
		if d, ok := game.DifficultyByName(o.name); ok {
			opts = append(opts, game.WithTeamDifficulty(o.team, d))
		} else {
			errs = append(errs, fmt.Errorf("unsupported %s difficulty %q", o.team, o.name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return opts, nil
}

// runAll plays every match, at most cfg.parallel at a time. Matches share no
// state, so results only depend on their seeds.
func runAll(ctx context.Context, cfg config, opts []game.MatchOption) ([]runStats, error) {
	all := make([]runStats, cfg.runs)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.parallel)
	for i := 0; i < cfg.runs; i++ {
		seed := cfg.seedBase + int64(i)*cfg.seedStep
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			all[i] = runMatch(i+1, seed, opts)
			slog.Debug("match done", "run", i+1, "seed", seed, "outcome", all[i].summary.Outcome.Outcome)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runMatch(runIndex int, seed int64, opts []game.MatchOption) runStats {
	m := game.NewMatch(append([]game.MatchOption{game.WithSeed(seed)}, opts...)...)
	m.RunUntilOver()
	return collect(runIndex, seed, m)
}

func collect(runIndex int, seed int64, m *game.Match) runStats {
	rs := runStats{
		runIndex:       runIndex,
		seed:           seed,
		summary:        m.Summary(),
		firstBloodTick: firstTick(m.Log, game.LogDamage, "hit"),
		firstKillTick:  firstTick(m.Log, game.LogDamage, "killed"),
		blasts:         m.Log.CountCategory(game.LogExplosion, "blast"),
		bounces:        m.Log.CountCategory(game.LogProjectile, "bounce"),
		carves:         m.Log.CountCategory(game.LogTerrain, "carve"),
		timeouts:       m.Log.CountCategory(game.LogTurn, "timeout"),
		weapons:        map[string]int{},
		log:            m.Log.Format(),
	}
	for _, e := range m.Log.Filter(game.LogFire, "select") {
		rs.weapons[e.Value]++
	}
	return rs
}

func firstTick(bl *game.BattleLog, category, key string) int {
	for _, e := range bl.Filter(category, key) {
		return e.Tick
	}
	return -1
}

func writeRun(b *strings.Builder, rs runStats, withLog bool) {
	s := rs.summary
	fmt.Fprintf(b, "--- Run %d (seed=%d id=%s) ---\n", rs.runIndex, rs.seed, s.ID)
	fmt.Fprintf(b, "outcome: %s\n", s.Outcome)
	fmt.Fprintf(b, "length: turns=%d ticks=%d first_blood=%d first_kill=%d timeouts=%d\n",
		s.Turns, s.Ticks, rs.firstBloodTick, rs.firstKillTick, rs.timeouts)
	fmt.Fprintf(b, "world: blasts=%d carves=%d bounces=%d\n", rs.blasts, rs.carves, rs.bounces)
	fmt.Fprintf(b, "weapons: %s\n", formatCounts(rs.weapons))
	fmt.Fprintf(b, "  %s\n  %s\n", &s.Red, &s.Blue)
	if withLog {
		b.WriteString(rs.log)
	}
	b.WriteString("\n")
}

type aggregate struct {
	runs     int
	outcomes map[game.MatchOutcome]int
	red      game.TeamStats
	blue     game.TeamStats
	turns    int
	ticks    int
	weapons  map[string]int
	blood    []int
	stale    int
}

func aggregateRuns(all []runStats) aggregate {
	ag := aggregate{
		runs:     len(all),
		outcomes: map[game.MatchOutcome]int{},
		red:      game.TeamStats{Team: game.TeamRed},
		blue:     game.TeamStats{Team: game.TeamBlue},
		weapons:  map[string]int{},
	}
	for _, rs := range all {
		s := rs.summary
		ag.outcomes[s.Outcome.Outcome]++
		ag.turns += s.Turns
		ag.ticks += s.Ticks
		addTeam(&ag.red, s.Red)
		addTeam(&ag.blue, s.Blue)
		for k, v := range rs.weapons {
			ag.weapons[k] += v
		}
		if rs.firstBloodTick >= 0 {
			ag.blood = append(ag.blood, rs.firstBloodTick)
		}
		if isStandoff(rs) {
			ag.stale++
		}
	}
	return ag
}

func addTeam(dst *game.TeamStats, s game.TeamStats) {
	dst.Shots += s.Shots
	dst.Hits += s.Hits
	dst.DirectHits += s.DirectHits
	dst.DamageDealt += s.DamageDealt
	dst.SelfDamage += s.SelfDamage
	dst.FriendlyDamage += s.FriendlyDamage
	dst.FallDamage += s.FallDamage
	dst.Kills += s.Kills
	dst.OutOfBounds += s.OutOfBounds
	dst.Fallbacks += s.Fallbacks
	dst.Misses += s.Misses
	dst.CannotAct += s.CannotAct
}

// isStandoff reports a match that ran out of turns with nobody dead and little
// damage done: the planners kept missing or could not reach each other.
func isStandoff(rs runStats) bool {
	o := rs.summary.Outcome
	if rs.firstKillTick >= 0 {
		return false
	}
	if o.RedSurvivors != o.RedTotal || o.BlueSurvivors != o.BlueTotal {
		return false
	}
	dealt := rs.summary.Red.DamageDealt + rs.summary.Blue.DamageDealt
	return dealt < 50*(o.RedTotal+o.BlueTotal)/2
}

func writeAggregate(b *strings.Builder, all []runStats) {
	ag := aggregateRuns(all)
	fmt.Fprintln(b, "=== Aggregate ===")
	fmt.Fprintf(b, "runs=%d red_wins=%d blue_wins=%d draws=%d inconclusive=%d standoffs=%d\n",
		ag.runs, ag.outcomes[game.OutcomeRedVictory], ag.outcomes[game.OutcomeBlueVictory],
		ag.outcomes[game.OutcomeDraw], ag.outcomes[game.OutcomeInconclusive], ag.stale)
	fmt.Fprintf(b, "avg_turns=%.1f avg_ticks=%.0f avg_first_blood=%s\n",
		avg(ag.turns, ag.runs), avg(ag.ticks, ag.runs), avgTickString(ag.blood))
	fmt.Fprintf(b, "weapons: %s\n", formatCounts(ag.weapons))
	fmt.Fprintf(b, "  %s\n  %s\n", &ag.red, &ag.blue)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// formatCounts lists counts by descending frequency, ties by name.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
