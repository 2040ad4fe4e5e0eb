package game

import "fmt"

// TeamStats accumulates one side's shooting record over a match.
type TeamStats struct {
	Team Team

	Shots          int
	Hits           int // shots that damaged at least one enemy
	DirectHits     int
	DamageDealt    int // damage to enemies
	SelfDamage     int // damage the shooter did to itself
	FriendlyDamage int // damage to teammates other than the shooter
	FallDamage     int
	Kills          int
	OutOfBounds    int
	Fallbacks      int // turns where the planner used the heuristic shot
	Misses         int // turns where a deliberate miss was applied
	CannotAct      int
}

// Accuracy is the share of shots that hurt an enemy.
func (s *TeamStats) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Shots)
}

func (s *TeamStats) String() string {
	return fmt.Sprintf("%-4s shots=%-3d hits=%-3d acc=%4.0f%% dmg=%-4d self=%-3d friendly=%-3d fall=%-3d kills=%d oob=%d fallback=%d",
		s.Team, s.Shots, s.Hits, s.Accuracy()*100, s.DamageDealt, s.SelfDamage, s.FriendlyDamage,
		s.FallDamage, s.Kills, s.OutOfBounds, s.Fallbacks)
}

// MatchStats is both teams' records.
type MatchStats struct {
	Red  TeamStats
	Blue TeamStats
}

func newMatchStats() MatchStats {
	return MatchStats{Red: TeamStats{Team: TeamRed}, Blue: TeamStats{Team: TeamBlue}}
}

// For returns the record of team t.
func (ms *MatchStats) For(t Team) *TeamStats {
	if t == TeamBlue {
		return &ms.Blue
	}
	return &ms.Red
}

// recordShot tallies one resolved shot: all impacts caused by a single Fire.
func (ms *MatchStats) recordShot(shooter Combatant, impacts []Impact) {
	if shooter == nil {
		return
	}
	st := ms.For(shooter.Team())
	hit := false
	for _, imp := range impacts {
		if imp.Direct {
			st.DirectHits++
		}
		for _, r := range imp.Results {
			switch {
			case r.Target == shooter:
				st.SelfDamage += r.Amount
			case r.Target.Team() == shooter.Team():
				st.FriendlyDamage += r.Amount
			default:
				st.DamageDealt += r.Amount
				hit = true
				if r.Killed {
					st.Kills++
				}
			}
		}
	}
	if hit {
		st.Hits++
	}
}
