package game

import (
	"fmt"
	"strings"
)

// Log categories.
const (
	LogTurn       = "turn"
	LogFire       = "fire"
	LogProjectile = "projectile"
	LogExplosion  = "explosion"
	LogDamage     = "damage"
	LogPlanner    = "planner"
	LogMove       = "move"
	LogWind       = "wind"
	LogTerrain    = "terrain"
)

// BattleLogEntry is one recorded event.
type BattleLogEntry struct {
	Tick     int
	Actor    string  // label e.g. "R0", "B1", or "--" for global events
	Team     string  // "red", "blue", or "--"
	Category string  // one of the Log* categories
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] R0   fire       launch           bazooka a=-0.79 p=62
func (e BattleLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-10s %-16s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// BattleLog collects structured events during a match. Unlike ThoughtLog (a
// UI ring buffer) it is unbounded and machine-readable.
type BattleLog struct {
	entries []BattleLogEntry
	verbose bool
}

// NewBattleLog creates a log. If verbose is true, per-tick projectile and worm
// positions are also recorded.
func NewBattleLog(verbose bool) *BattleLog {
	return &BattleLog{verbose: verbose}
}

// Verbose reports whether per-tick entries are recorded.
func (bl *BattleLog) Verbose() bool { return bl != nil && bl.verbose }

// Add records a new entry. A nil log discards it.
func (bl *BattleLog) Add(tick int, actor, team, category, key, value string, numVal float64) {
	if bl == nil {
		return
	}
	bl.entries = append(bl.entries, BattleLogEntry{
		Tick:     tick,
		Actor:    actor,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddFor records an entry attributed to c.
func (bl *BattleLog) AddFor(tick int, c Combatant, category, key, value string, numVal float64) {
	team := "--"
	if c != nil {
		team = c.Team().String()
	}
	bl.Add(tick, labelOf(c), team, category, key, value, numVal)
}

// AddVerbose records an entry only when verbose mode is on.
func (bl *BattleLog) AddVerbose(tick int, actor, team, category, key, value string, numVal float64) {
	if !bl.Verbose() {
		return
	}
	bl.Add(tick, actor, team, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (bl *BattleLog) Entries() []BattleLogEntry {
	return bl.entries
}

// Len is the number of recorded entries.
func (bl *BattleLog) Len() int { return len(bl.entries) }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (bl *BattleLog) Filter(category, key string) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for one combatant label.
func (bl *BattleLog) FilterActor(label string) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if e.Actor == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (bl *BattleLog) FilterTickRange(fromTick, toTick int) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (bl *BattleLog) CountCategory(category, key string) int {
	return len(bl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key.
func (bl *BattleLog) LastOf(category, key string) (BattleLogEntry, bool) {
	for i := len(bl.entries) - 1; i >= 0; i-- {
		e := bl.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return BattleLogEntry{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (bl *BattleLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (bl *BattleLog) Format() string {
	return formatEntries(bl.entries)
}

// FormatRange returns a log string filtered to a tick range.
func (bl *BattleLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(bl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []BattleLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable state dump.
func (bl *BattleLog) Summary(tick int, worms []*Worm) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)
	for _, team := range []Team{TeamRed, TeamBlue} {
		fmt.Fprintf(&sb, "%s:", team)
		for _, w := range worms {
			if w.Team() != team {
				continue
			}
			state := "dead"
			if w.Alive() {
				state = fmt.Sprintf("%dhp", w.Health())
			}
			fmt.Fprintf(&sb, "  %s(%.0f,%.0f %s)", w.Label(), w.x, w.y, state)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "fires=%d explosions=%d damage_events=%d out_of_bounds=%d\n",
		bl.CountCategory(LogFire, ""), bl.CountCategory(LogExplosion, "blast"),
		bl.CountCategory(LogDamage, ""), bl.CountCategory(LogProjectile, "out_of_bounds"))
	return sb.String()
}
