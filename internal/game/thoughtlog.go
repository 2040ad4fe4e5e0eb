package game

// thoughtCapacity bounds the reasoning history kept for display.
const thoughtCapacity = 60

// ThoughtEntry is one line of planner reasoning.
type ThoughtEntry struct {
	Tick    int
	Label   string // acting worm, e.g. "R1"
	Team    Team
	Message string
}

// ThoughtFilter selects entries for display. A nil filter keeps everything.
type ThoughtFilter func(ThoughtEntry) bool

// TeamThoughts keeps only the lines of team t.
func TeamThoughts(t Team) ThoughtFilter {
	return func(e ThoughtEntry) bool { return e.Team == t }
}

// ThoughtLog holds the planners' most recent reasoning. Once full, each new
// line overwrites the oldest.
type ThoughtLog struct {
	lines  []ThoughtEntry
	oldest int // index of the oldest line once lines is full
}

func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{lines: make([]ThoughtEntry, 0, thoughtCapacity)}
}

// Add records a line. A nil log discards it.
func (tl *ThoughtLog) Add(tick int, label string, team Team, msg string) {
	if tl == nil {
		return
	}
	e := ThoughtEntry{Tick: tick, Label: label, Team: team, Message: msg}
	if len(tl.lines) < thoughtCapacity {
		tl.lines = append(tl.lines, e)
		return
	}
	tl.lines[tl.oldest] = e
	tl.oldest = (tl.oldest + 1) % thoughtCapacity
}

// at returns the i-th line counting from the oldest.
func (tl *ThoughtLog) at(i int) ThoughtEntry {
	return tl.lines[(tl.oldest+i)%len(tl.lines)]
}

// Recent returns every buffered line, oldest first.
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	return tl.Tail(len(tl.lines), nil)
}

// Tail returns up to n of the newest lines that keep accepts, oldest first.
func (tl *ThoughtLog) Tail(n int, keep ThoughtFilter) []ThoughtEntry {
	if tl == nil || n <= 0 {
		return nil
	}
	var out []ThoughtEntry
	for i := len(tl.lines) - 1; i >= 0 && len(out) < n; i-- {
		if e := tl.at(i); keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (tl *ThoughtLog) Len() int { return len(tl.lines) }
