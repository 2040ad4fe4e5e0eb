package game

import "fmt"

type MatchOutcome int

const (
	OutcomeInconclusive MatchOutcome = iota
	OutcomeRedVictory
	OutcomeBlueVictory
	OutcomeDraw
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeRedVictory:
		return "red_victory"
	case OutcomeBlueVictory:
		return "blue_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// Winner returns the winning team; ok is false for draws and unfinished matches.
func (o MatchOutcome) Winner() (Team, bool) {
	switch o {
	case OutcomeRedVictory:
		return TeamRed, true
	case OutcomeBlueVictory:
		return TeamBlue, true
	default:
		return TeamRed, false
	}
}

type MatchOutcomeReason struct {
	Outcome       MatchOutcome
	RedSurvivors  int
	RedTotal      int
	RedHealth     int
	BlueSurvivors int
	BlueTotal     int
	BlueHealth    int
	Description   string
}

// DetermineMatchOutcome decides a match from the surviving worms. A match cut
// off by the turn cap goes to the side with clearly more health left.
func DetermineMatchOutcome(worms []*Worm, finished bool) MatchOutcomeReason {
	r := MatchOutcomeReason{}
	for _, w := range worms {
		switch w.Team() {
		case TeamRed:
			r.RedTotal++
			if w.Alive() {
				r.RedSurvivors++
				r.RedHealth += w.Health()
			}
		case TeamBlue:
			r.BlueTotal++
			if w.Alive() {
				r.BlueSurvivors++
				r.BlueHealth += w.Health()
			}
		}
	}

	switch {
	case r.RedSurvivors == 0 && r.BlueSurvivors == 0:
		r.Outcome, r.Description = OutcomeDraw, "mutual_annihilation"
	case r.RedSurvivors == 0:
		r.Outcome, r.Description = OutcomeBlueVictory, "decisive_blue_victory_red_eliminated"
	case r.BlueSurvivors == 0:
		r.Outcome, r.Description = OutcomeRedVictory, "decisive_red_victory_blue_eliminated"
	case !finished:
		r.Outcome, r.Description = OutcomeInconclusive, "in_progress"
	default:
		// Turn cap reached with both sides standing.
		diff := r.RedHealth - r.BlueHealth
		total := r.RedHealth + r.BlueHealth
		switch {
		case total > 0 && float64(diff) > 0.2*float64(total):
			r.Outcome, r.Description = OutcomeRedVictory, "marginal_red_victory_health_advantage"
		case total > 0 && float64(-diff) > 0.2*float64(total):
			r.Outcome, r.Description = OutcomeBlueVictory, "marginal_blue_victory_health_advantage"
		default:
			r.Outcome, r.Description = OutcomeDraw, "draw_turn_limit"
		}
	}
	return r
}

func (r MatchOutcomeReason) String() string {
	return fmt.Sprintf("%s (%s) red %d/%d hp=%d blue %d/%d hp=%d",
		r.Outcome, r.Description, r.RedSurvivors, r.RedTotal, r.RedHealth,
		r.BlueSurvivors, r.BlueTotal, r.BlueHealth)
}
