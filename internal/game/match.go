package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

const (
	defaultWorldWidth  = 1600
	defaultWorldHeight = 700
	defaultMaxTurns    = 40
	turnTickLimit      = 45 * ticksPerSecond // force-resolve a turn that runs this long
)

type matchPhase int

const (
	phaseStartTurn matchPhase = iota
	phaseActing
	phaseResolving
	phaseOver
)

type wormSpec struct {
	team Team
	x    float64
}

// Match is the headless turn driver: it rolls wind, rotates the active worm
// between teams, runs the AI executor, waits for the engine to go idle and
// the worms to settle, then scores the turn.
type Match struct {
	ID       uuid.UUID
	Seed     int64
	Terrain  *Terrain
	Wind     *Wind
	Engine   *Engine
	Worms    []*Worm
	Log      *BattleLog
	Thoughts *ThoughtLog
	Events   *Dispatcher
	Stats    MatchStats

	width, height int
	style         TerrainStyle
	flatGround    int // >0 builds a flat world at this row
	maxTurns      int
	fixedWind     *float64
	difficulty    [2]Difficulty
	specs         []wormSpec

	rng      *rand.Rand
	planners [2]*Planner

	phase      matchPhase
	turn       int
	turnTicks  int
	lastTeam   Team
	next       [2]int // rotation index per team
	active     *Worm
	ctrl       *Controller
	exec       *TurnExecutor
	cannotAct  bool
	turnImpact []Impact
	outcome    MatchOutcomeReason
}

// matchOptionKind controls the pass in which an option is applied.
type matchOptionKind int

const (
	matchOptInfra matchOptionKind = iota // seed, world, rules, applied first
	matchOptWorm                         // worms, placed once the terrain exists
)

// MatchOption is a builder applied to a Match during construction.
type MatchOption struct {
	kind matchOptionKind
	fn   func(*Match)
}

// WithSeed sets the seed every RNG in the match derives from.
func WithSeed(seed int64) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.Seed = seed }}
}

// WithWorldSize sets the world dimensions.
func WithWorldSize(w, h int) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.width, m.height = w, h }}
}

// WithTerrainStyle selects the procedural world style.
func WithTerrainStyle(s TerrainStyle) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.style = s }}
}

// WithFlatTerrain builds a flat world with its floor at groundY.
func WithFlatTerrain(groundY int) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.flatGround = groundY }}
}

// WithDifficulty sets the planner profile for both teams.
func WithDifficulty(d Difficulty) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.difficulty = [2]Difficulty{d, d} }}
}

// WithTeamDifficulty sets the planner profile for one team.
func WithTeamDifficulty(t Team, d Difficulty) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.difficulty[teamIndex(t)] = d }}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.Log = NewBattleLog(v) }}
}

// WithMaxTurns caps the number of turns before the match is scored on health.
func WithMaxTurns(n int) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.maxTurns = n }}
}

// WithFixedWind pins the wind instead of re-rolling it each turn.
func WithFixedWind(v float64) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) { m.fixedWind = &v }}
}

// WithWorm adds a worm of team t standing on the surface at column x.
func WithWorm(t Team, x float64) MatchOption {
	return MatchOption{matchOptWorm, func(m *Match) { m.specs = append(m.specs, wormSpec{team: t, x: x}) }}
}

// NewMatch builds a match from options in two passes: world and rules first,
// then worms. Without WithWorm options each team gets two worms at its edge.
func NewMatch(opts ...MatchOption) *Match {
	m := &Match{
		ID:         uuid.New(),
		Seed:       1,
		width:      defaultWorldWidth,
		height:     defaultWorldHeight,
		maxTurns:   defaultMaxTurns,
		difficulty: [2]Difficulty{DifficultyMedium, DifficultyMedium},
		Log:        NewBattleLog(false),
		Thoughts:   NewThoughtLog(),
		Events:     NewDispatcher(),
		Stats:      newMatchStats(),
		lastTeam:   TeamBlue,
	}
	for _, o := range opts {
		if o.kind == matchOptInfra {
			o.fn(m)
		}
	}
	m.rng = rand.New(rand.NewSource(m.Seed)) // #nosec G404 -- game only

	if m.flatGround > 0 {
		m.Terrain = NewFlatTerrain(m.width, m.height, m.flatGround)
	} else {
		m.Terrain = NewTerrain(m.width, m.height, m.style, m.rng.Int63())
	}
	m.Wind = &Wind{}
	m.Engine = NewEngine(m.Terrain, m.Wind, m.rng.Int63())
	m.Engine.Events = m.Events
	m.Engine.Log = m.Log
	for i := range m.planners {
		p := NewPlanner(m.Terrain, m.Wind, m.difficulty[i], m.rng.Int63())
		p.Thoughts = m.Thoughts
		p.Log = m.Log
		p.Now = m.Engine.Tick
		m.planners[i] = p
	}

	for _, o := range opts {
		if o.kind == matchOptWorm {
			o.fn(m)
		}
	}
	if len(m.specs) == 0 {
		w := float64(m.width)
		m.specs = []wormSpec{
			{TeamRed, w * 0.08}, {TeamRed, w * 0.18},
			{TeamBlue, w * 0.92}, {TeamBlue, w * 0.82},
		}
	}
	count := [2]int{}
	for i, s := range m.specs {
		ti := teamIndex(s.team)
		label := fmt.Sprintf("%c%d", "RB"[ti], count[ti])
		count[ti]++
		wm := NewWorm(i, label, s.team, s.x, 0)
		wm.PlaceOnSurface(m.Terrain)
		m.Worms = append(m.Worms, wm)
	}
	m.Engine.SetCombatants(m.Combatants())
	m.Events.Subscribe(EventOutOfBounds, ListenerFunc(func(e Event) {
		if e.Source != nil {
			m.Stats.For(e.Source.Team()).OutOfBounds++
		}
	}))
	m.Log.Add(0, "--", "--", LogTurn, "match",
		fmt.Sprintf("id=%s seed=%d world=%dx%d style=%s worms=%d", m.ID, m.Seed, m.width, m.height, m.Terrain.Style(), len(m.Worms)),
		float64(m.Seed))
	return m
}

func teamIndex(t Team) int {
	if t == TeamBlue {
		return 1
	}
	return 0
}

// Combatants returns every worm as a Combatant.
func (m *Match) Combatants() []Combatant {
	out := make([]Combatant, len(m.Worms))
	for i, w := range m.Worms {
		out[i] = w
	}
	return out
}

// TeamWorms returns the worms of team t.
func (m *Match) TeamWorms(t Team) []*Worm {
	var out []*Worm
	for _, w := range m.Worms {
		if w.Team() == t {
			out = append(out, w)
		}
	}
	return out
}

// Enemies returns the living combatants not on team t.
func (m *Match) Enemies(t Team) []Combatant {
	var out []Combatant
	for _, w := range m.Worms {
		if w.Team() != t && w.Alive() {
			out = append(out, w)
		}
	}
	return out
}

// Teammates returns the living combatants on w's team other than w.
func (m *Match) Teammates(w *Worm) []Combatant {
	var out []Combatant
	for _, o := range m.Worms {
		if o != w && o.Team() == w.Team() && o.Alive() {
			out = append(out, o)
		}
	}
	return out
}

// Planner returns the planner driving team t.
func (m *Match) Planner(t Team) *Planner { return m.planners[teamIndex(t)] }

func (m *Match) Tick() int                   { return m.Engine.Tick() }
func (m *Match) Turn() int                   { return m.turn }
func (m *Match) Over() bool                  { return m.phase == phaseOver }
func (m *Match) Outcome() MatchOutcomeReason { return m.outcome }
func (m *Match) ActiveWorm() *Worm           { return m.active }
func (m *Match) Controller() *Controller     { return m.ctrl }
func (m *Match) Executor() *TurnExecutor     { return m.exec }

// Update advances the match by one tick.
func (m *Match) Update() {
	switch m.phase {
	case phaseOver:
		return
	case phaseStartTurn:
		m.beginTurn()
		return
	case phaseActing:
		m.exec.Tick()
	}

	m.Engine.Update()
	m.updateWorms()
	m.turnImpact = append(m.turnImpact, m.Engine.DrainImpacts()...)
	m.turnTicks++

	if m.turnTicks > turnTickLimit {
		m.forceResolve()
		return
	}
	switch m.phase {
	case phaseActing:
		if m.exec.Done() {
			if err := m.exec.Err(); err != nil {
				m.Log.AddFor(m.Tick(), m.active, LogTurn, "error", err.Error(), 0)
			}
			m.phase = phaseResolving
		}
	case phaseResolving:
		if m.Engine.Idle() && m.allSettled() {
			m.endTurn()
		}
	}
}

func (m *Match) updateWorms() {
	tick := m.Tick()
	for _, w := range m.Worms {
		if !w.Alive() {
			continue
		}
		before := w.Health()
		w.Update(m.Terrain)
		if lost := before - w.Health(); lost > 0 {
			m.Stats.For(w.Team()).FallDamage += lost
			m.Log.AddFor(tick, w, LogMove, "fall", fmt.Sprintf("-%d hp=%d", lost, w.Health()), float64(lost))
			m.Events.Dispatch(Event{Type: EventDamage, Tick: tick, X: w.x, Y: w.y, Target: w, Amount: lost})
		}
		if !w.Alive() {
			m.Log.AddFor(tick, w, LogDamage, "killed", fmt.Sprintf("at (%.0f,%.0f)", w.x, w.y), 0)
		}
		if m.Log.Verbose() && !w.Settled() {
			m.Log.AddVerbose(tick, w.Label(), w.Team().String(), LogMove, "pos",
				fmt.Sprintf("(%.1f,%.1f)", w.x, w.y), w.y)
		}
	}
}

func (m *Match) allSettled() bool {
	for _, w := range m.Worms {
		if !w.Settled() {
			return false
		}
	}
	return true
}

func (m *Match) beginTurn() {
	if m.checkOver(false) {
		return
	}
	if m.turn >= m.maxTurns {
		m.checkOver(true)
		return
	}
	team := TeamRed
	if m.lastTeam == TeamRed {
		team = TeamBlue
	}
	w := m.nextWorm(team)
	if w == nil {
		team = m.lastTeam
		w = m.nextWorm(team)
	}
	m.turn++
	m.turnTicks = 0
	m.turnImpact = m.turnImpact[:0]
	m.cannotAct = false
	m.lastTeam = team
	m.active = w

	if m.fixedWind != nil {
		m.Wind.Set(*m.fixedWind)
	} else {
		m.Wind.Reroll(m.rng)
	}
	tick := m.Tick()
	m.Log.Add(tick, "--", "--", LogWind, "roll", fmt.Sprintf("%+.0f", m.Wind.Value()), m.Wind.Value())
	m.Log.AddFor(tick, w, LogTurn, "start", fmt.Sprintf("turn %d hp=%d", m.turn, w.Health()), float64(m.turn))

	m.ctrl = NewController(m.Engine, w)
	m.exec = NewTurnExecutor(m.planners[teamIndex(team)], m.ctrl)
	m.exec.ExecuteTurn(w, m.Enemies(team), m.Teammates(w), func() { m.cannotAct = true })
	m.phase = phaseActing
}

// nextWorm returns the next living worm of team t in rotation order.
func (m *Match) nextWorm(t Team) *Worm {
	ws := m.TeamWorms(t)
	ti := teamIndex(t)
	for k := 0; k < len(ws); k++ {
		w := ws[(m.next[ti]+k)%len(ws)]
		if w.Alive() {
			m.next[ti] = (m.next[ti] + k + 1) % len(ws)
			return w
		}
	}
	return nil
}

func (m *Match) endTurn() {
	st := m.Stats.For(m.active.Team())
	switch {
	case m.cannotAct:
		st.CannotAct++
	case m.ctrl.Fired():
		st.Shots++
		plan := m.exec.Plan()
		if plan.Fallback {
			st.Fallbacks++
		}
		if plan.Missed {
			st.Misses++
		}
		m.Stats.recordShot(m.active, m.turnImpact)
	}
	m.Log.AddFor(m.Tick(), m.active, LogTurn, "end",
		fmt.Sprintf("turn %d impacts=%d ticks=%d", m.turn, len(m.turnImpact), m.turnTicks), float64(m.turnTicks))
	if !m.checkOver(false) {
		m.phase = phaseStartTurn
	}
}

// forceResolve ends a turn that ran past the turn clock: live bodies are
// dropped without detonating and moving worms stop.
func (m *Match) forceResolve() {
	m.Log.AddFor(m.Tick(), m.active, LogTurn, "timeout", fmt.Sprintf("after %d ticks", m.turnTicks), float64(m.turnTicks))
	m.Engine.Clear()
	for _, w := range m.Worms {
		w.Walk(0)
	}
	m.endTurn()
}

// checkOver ends the match when a side is wiped out, or unconditionally when
// final is set.
func (m *Match) checkOver(final bool) bool {
	r := DetermineMatchOutcome(m.Worms, final)
	if r.Outcome == OutcomeInconclusive {
		return false
	}
	m.outcome = r
	m.phase = phaseOver
	m.Log.Add(m.Tick(), "--", "--", LogTurn, "over", r.String(), float64(r.Outcome))
	return true
}

// RunTicks advances the match n ticks.
func (m *Match) RunTicks(n int) {
	for i := 0; i < n && !m.Over(); i++ {
		m.Update()
	}
}

// RunTurns plays until n more turns have completed or the match ends.
func (m *Match) RunTurns(n int) {
	target := m.turn + n
	for !m.Over() {
		if m.turn >= target && m.phase == phaseStartTurn {
			return
		}
		m.Update()
	}
}

// RunUntil advances up to maxTicks, stopping early when predicate holds.
// Returns the tick at which it held, or -1.
func (m *Match) RunUntil(predicate func(*Match) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		if predicate(m) {
			return m.Tick()
		}
		if m.Over() {
			break
		}
		m.Update()
	}
	return -1
}

// RunUntilOver plays the match to completion, bounded by the turn cap.
func (m *Match) RunUntilOver() MatchOutcomeReason {
	limit := (m.maxTurns + 1) * (turnTickLimit + 2)
	for i := 0; i < limit && !m.Over(); i++ {
		m.Update()
	}
	if !m.Over() {
		m.checkOver(true)
	}
	return m.outcome
}

// MatchSummary is the per-match report line used by tools and tests.
type MatchSummary struct {
	ID      uuid.UUID
	Seed    int64
	Style   TerrainStyle
	Turns   int
	Ticks   int
	Outcome MatchOutcomeReason
	Red     TeamStats
	Blue    TeamStats
}

// Summary snapshots the match.
func (m *Match) Summary() MatchSummary {
	return MatchSummary{
		ID:      m.ID,
		Seed:    m.Seed,
		Style:   m.Terrain.Style(),
		Turns:   m.turn,
		Ticks:   m.Tick(),
		Outcome: m.outcome,
		Red:     m.Stats.Red,
		Blue:    m.Stats.Blue,
	}
}

func (s MatchSummary) String() string {
	return fmt.Sprintf("match %s seed=%d style=%s turns=%d ticks=%d (%.0fs)\n  %s\n  %s\n  %s\n",
		s.ID, s.Seed, s.Style, s.Turns, s.Ticks, math.Round(float64(s.Ticks)/ticksPerSecond),
		s.Outcome, &s.Red, &s.Blue)
}
