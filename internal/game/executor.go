package game

import "fmt"

const (
	executorPacingTicks = 20  // ticks between visible AI actions
	executorSettleLimit = 240 // give up waiting for the actor to come to rest
)

type execStage int

const (
	stageIdle execStage = iota
	stageMove
	stageSettle
	stageSelect
	stageAim
	stageSetAim
	stageFire
	stageDone
)

func (s execStage) String() string {
	switch s {
	case stageIdle:
		return "idle"
	case stageMove:
		return "move"
	case stageSettle:
		return "settle"
	case stageSelect:
		return "select"
	case stageAim:
		return "aim"
	case stageSetAim:
		return "set_aim"
	case stageFire:
		return "fire"
	case stageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Settler is implemented by combatants that can report being at rest.
type Settler interface {
	Settled() bool
}

// TurnExecutor plays a planned AI turn through the public action surface on
// a tick schedule. Pacing lives here; the planner stays synchronous.
type TurnExecutor struct {
	planner *Planner
	actions Actions

	PacingTicks int

	stage     execStage
	wait      int
	plan      Plan
	moveTick  int
	settleFor int

	actor       Combatant
	enemies     []Combatant
	teammates   []Combatant
	onCannotAct func()
	err         error
}

// NewTurnExecutor drives actions with plans from planner.
func NewTurnExecutor(planner *Planner, actions Actions) *TurnExecutor {
	return &TurnExecutor{planner: planner, actions: actions, PacingTicks: executorPacingTicks}
}

// ExecuteTurn plans a turn for actor and schedules it. When no enemy remains
// onCannotAct is called immediately and false is returned; nothing is fired.
func (te *TurnExecutor) ExecuteTurn(actor Combatant, enemies, teammates []Combatant, onCannotAct func()) bool {
	te.actor, te.enemies, te.teammates = actor, enemies, teammates
	te.onCannotAct = onCannotAct
	te.err = nil
	te.moveTick, te.settleFor = 0, 0

	plan, ok := te.planner.Plan(actor, enemies, teammates)
	if !ok {
		te.cannotAct()
		return false
	}
	te.plan = plan
	if plan.Move.Move {
		te.stage = stageMove
	} else {
		te.enter(stageSelect)
	}
	return true
}

func (te *TurnExecutor) cannotAct() {
	te.stage = stageDone
	if te.actor != nil {
		te.planner.Log.AddFor(te.planner.now(), te.actor, LogTurn, "cannot_act", "no living enemy", 0)
	}
	if te.onCannotAct != nil {
		te.onCannotAct()
	}
}

func (te *TurnExecutor) enter(s execStage) {
	te.stage = s
	te.wait = te.PacingTicks
}

// Plan returns the plan being executed.
func (te *TurnExecutor) Plan() Plan { return te.plan }

// Stage names the current step, for the viewer.
func (te *TurnExecutor) Stage() string { return te.stage.String() }

// Done reports whether the turn's actions have all been issued.
func (te *TurnExecutor) Done() bool { return te.stage == stageDone || te.stage == stageIdle }

// Err returns the action error that aborted the turn, if any.
func (te *TurnExecutor) Err() error { return te.err }

// Tick advances the schedule by one tick.
func (te *TurnExecutor) Tick() {
	if te.Done() {
		return
	}
	if te.actor != nil && !te.actor.Alive() {
		te.actions.Walk(0)
		te.stage = stageDone
		return
	}
	switch te.stage {
	case stageMove:
		te.tickMove()
		return
	case stageSettle:
		te.tickSettle()
		return
	}

	if te.wait > 0 {
		te.wait--
		return
	}
	switch te.stage {
	case stageSelect:
		if err := te.actions.SelectWeapon(te.plan.Shot.Weapon.Name); err != nil {
			te.abort(err)
			return
		}
		te.enter(stageAim)
	case stageAim:
		te.actions.EnterAim()
		te.enter(stageSetAim)
	case stageSetAim:
		te.actions.SetAim(te.plan.Angle, te.plan.Power)
		te.enter(stageFire)
	case stageFire:
		if err := te.actions.Fire(); err != nil {
			te.abort(err)
			return
		}
		te.stage = stageDone
	}
}

func (te *TurnExecutor) tickMove() {
	mv := te.plan.Move
	if te.moveTick == 0 {
		te.actions.Walk(mv.Dir)
	}
	if te.moveTick == mv.JumpAt {
		te.actions.Jump()
	}
	te.moveTick++
	if te.moveTick >= mv.Ticks {
		te.actions.Walk(0)
		te.stage = stageSettle
	}
}

// tickSettle waits for the actor to come to rest, then re-plans the shot
// from where it ended up.
func (te *TurnExecutor) tickSettle() {
	te.settleFor++
	if s, ok := te.actor.(Settler); ok && !s.Settled() && te.settleFor < executorSettleLimit {
		return
	}
	plan, ok := te.planner.PlanShot(te.actor, te.enemies, te.teammates)
	if !ok {
		te.cannotAct()
		return
	}
	plan.Move = te.plan.Move
	te.plan = plan
	te.enter(stageSelect)
}

func (te *TurnExecutor) abort(err error) {
	te.err = fmt.Errorf("%s at %s: %w", labelOf(te.actor), te.stage, err)
	te.planner.Log.AddFor(te.planner.now(), te.actor, LogTurn, "action_failed", te.err.Error(), 0)
	te.stage = stageDone
}
