package game

import (
	"strings"
	"testing"
)

type countingListener struct {
	seen []EventType
}

func (c *countingListener) OnEvent(e Event) { c.seen = append(c.seen, e.Type) }

func TestDispatcher_SubscribeAndUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	l := &countingListener{}
	d.Subscribe(EventExplosion, l)
	d.Dispatch(Event{Type: EventExplosion})
	d.Dispatch(Event{Type: EventDamage})
	if len(l.seen) != 1 {
		t.Fatalf("listener saw %v, want one explosion", l.seen)
	}
	d.Unsubscribe(EventExplosion, l)
	d.Dispatch(Event{Type: EventExplosion})
	if len(l.seen) != 1 {
		t.Error("unsubscribed listener still notified")
	}
}

func TestDispatcher_NilDrops(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Type: EventFired})
}

func TestEngine_EventOrderForBlast(t *testing.T) {
	tr := NewFlatTerrain(600, 300, 250)
	shooter := standingWorm(0, "R0", TeamRed, tr, 100)
	enemy := standingWorm(1, "B0", TeamBlue, tr, 300)
	e := NewEngine(tr, nil, 1)
	e.Events = NewDispatcher()
	l := &countingListener{}
	e.Events.SubscribeAll(l)
	e.SetCombatants([]Combatant{shooter, enemy})

	// Drop a bazooka round straight onto the enemy's head.
	ex, ey := enemy.Center()
	e.projectiles = append(e.projectiles, &Projectile{X: ex, Y: ey - 20, VY: 2, Weapon: mustWeapon(t, "bazooka"), Owner: shooter, Active: true})
	runIdle(t, e, 50)

	want := []EventType{EventDetonated, EventExplosion, EventDamage}
	if len(l.seen) < len(want) {
		t.Fatalf("events %v, want at least %v", l.seen, want)
	}
	for i, et := range want {
		if l.seen[i] != et {
			t.Fatalf("event %d = %s, want %s (all: %v)", i, l.seen[i], et, l.seen)
		}
	}
}

// --- BattleLog ---

func TestBattleLog_QueryHelpers(t *testing.T) {
	bl := NewBattleLog(false)
	w := NewWorm(0, "R0", TeamRed, 0, 0)
	bl.AddFor(1, w, LogFire, "launch", "bazooka a=-0.70 p=60", 60)
	bl.AddFor(5, w, LogDamage, "hit", "-20 from B0 (grenade) hp=80", 20)
	bl.Add(9, "--", "--", LogWind, "roll", "+4", 4)
	bl.AddVerbose(9, "R0", "red", LogProjectile, "pos", "(1,1)", 1)

	if bl.Len() != 3 {
		t.Fatalf("len = %d, want 3 (verbose entry dropped)", bl.Len())
	}
	if got := bl.FilterActor("R0"); len(got) != 2 {
		t.Errorf("FilterActor = %d entries", len(got))
	}
	if got := bl.FilterTickRange(2, 9); len(got) != 2 {
		t.Errorf("FilterTickRange = %d entries", len(got))
	}
	if e, ok := bl.LastOf(LogFire, ""); !ok || e.NumVal != 60 {
		t.Errorf("LastOf = %+v,%v", e, ok)
	}
	if !bl.HasEntry(LogDamage, "hit", "grenade") || bl.HasEntry(LogDamage, "hit", "sniper") {
		t.Error("HasEntry substring match wrong")
	}
	if e := bl.Entries()[0]; e.Team != "red" {
		t.Errorf("AddFor team = %q", e.Team)
	}
	if !strings.HasPrefix(bl.Format(), "[T=0001] R0   fire       launch") {
		t.Errorf("unexpected format:\n%s", bl.Format())
	}

	var none *BattleLog
	none.Add(1, "--", "--", LogTurn, "x", "", 0)
	none.AddFor(1, w, LogTurn, "x", "", 0)
}

func TestThoughtLog_RingBuffer(t *testing.T) {
	tl := NewThoughtLog()
	for i := 0; i < thoughtCapacity+5; i++ {
		tl.Add(i, "R0", TeamRed, "line")
	}
	got := tl.Recent()
	if len(got) != thoughtCapacity || tl.Len() != thoughtCapacity {
		t.Fatalf("kept %d entries, want %d", len(got), thoughtCapacity)
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != thoughtCapacity+4 {
		t.Errorf("window = [%d..%d], want [5..%d]", got[0].Tick, got[len(got)-1].Tick, thoughtCapacity+4)
	}
}

func TestThoughtLog_TailFiltersByTeam(t *testing.T) {
	tl := NewThoughtLog()
	for i := 0; i < thoughtCapacity+10; i++ {
		team := TeamRed
		if i%3 == 0 {
			team = TeamBlue
		}
		tl.Add(i, "X", team, "line")
	}
	blue := tl.Tail(4, TeamThoughts(TeamBlue))
	if len(blue) != 4 {
		t.Fatalf("blue tail = %d entries", len(blue))
	}
	last := thoughtCapacity + 9
	for last%3 != 0 {
		last--
	}
	for i, e := range blue {
		if e.Team != TeamBlue {
			t.Fatalf("entry %d from %s", i, e.Team)
		}
		if want := last - 3*(len(blue)-1-i); e.Tick != want {
			t.Errorf("entry %d tick %d, want %d", i, e.Tick, want)
		}
	}
	if got := tl.Tail(5, nil); len(got) != 5 || got[4].Tick != thoughtCapacity+9 {
		t.Errorf("unfiltered tail ends at %d", got[len(got)-1].Tick)
	}
	if tl.Tail(0, nil) != nil {
		t.Error("empty tail should be nil")
	}
}
