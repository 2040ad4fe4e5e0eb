package game

import "strings"

// Difficulty bundles every knob the shot planner reads.
type Difficulty struct {
	Name string

	// Coarse search resolution over angle (a half-turn) and power.
	AngleSteps int
	PowerSteps int

	// Refinement pass around the best coarse projectile shot.
	Refine            bool
	RefineAngleSteps  int
	RefinePowerSteps  int
	RefineAngleWindow float64 // radians either side of the coarse optimum
	RefinePowerWindow float64 // power either side of the coarse optimum

	// Jitter applied to the chosen shot.
	AngleJitter float64
	PowerJitter float64

	// Choose uniformly among this many best candidates.
	TopN int

	// Movement.
	MoveChance       float64
	ApproachDistance float64
	MaxMoveTicks     int

	// Weapons the planner may use; empty allows the whole catalog.
	Weapons []string

	// Deliberate miss applied after jitter.
	MissChance float64
	MissAngle  float64
	MissPower  float64
}

var (
	DifficultyEasy = Difficulty{
		Name:             "easy",
		AngleSteps:       12,
		PowerSteps:       8,
		AngleJitter:      0.12,
		PowerJitter:      10,
		TopN:             5,
		MoveChance:       0.45,
		ApproachDistance: 420,
		MaxMoveTicks:     90,
		Weapons:          []string{"bazooka", "grenade", "shotgun", "dynamite"},
		MissChance:       0.35,
		MissAngle:        0.3,
		MissPower:        18,
	}
	DifficultyMedium = Difficulty{
		Name:              "medium",
		AngleSteps:        24,
		PowerSteps:        12,
		Refine:            true,
		RefineAngleSteps:  7,
		RefinePowerSteps:  7,
		RefineAngleWindow: 0.14,
		RefinePowerWindow: 8,
		AngleJitter:       0.05,
		PowerJitter:       5,
		TopN:              3,
		MoveChance:        0.3,
		ApproachDistance:  520,
		MaxMoveTicks:      120,
		MissChance:        0.15,
		MissAngle:         0.2,
		MissPower:         12,
	}
	DifficultyHard = Difficulty{
		Name:              "hard",
		AngleSteps:        36,
		PowerSteps:        20,
		Refine:            true,
		RefineAngleSteps:  11,
		RefinePowerSteps:  11,
		RefineAngleWindow: 0.09,
		RefinePowerWindow: 5,
		AngleJitter:       0.01,
		PowerJitter:       1.5,
		TopN:              2,
		MoveChance:        0.15,
		ApproachDistance:  640,
		MaxMoveTicks:      150,
		MissChance:        0.03,
		MissAngle:         0.12,
		MissPower:         8,
	}
)

// Difficulties lists the built-in profiles from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// DifficultyByName resolves a profile name, case-insensitively.
func DifficultyByName(name string) (Difficulty, bool) {
	for _, d := range Difficulties() {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Difficulty{}, false
}

// Allows reports whether the allow-list admits the weapon.
func (d Difficulty) Allows(name string) bool {
	if len(d.Weapons) == 0 {
		return true
	}
	for _, n := range d.Weapons {
		if n == name {
			return true
		}
	}
	return false
}

// WithWeapons returns a copy restricted to the named weapons.
func (d Difficulty) WithWeapons(names ...string) Difficulty {
	d.Weapons = append([]string(nil), names...)
	return d
}
