package game

import "math"

const (
	falloffReach    = 1.5 // damage reaches zero at falloffReach * radius
	knockbackForce  = 7.0
	knockbackUplift = 3.0
)

// DamageResult records one combatant hurt by a blast.
type DamageResult struct {
	Target     Combatant
	Amount     int
	Killed     bool
	KnockX     float64
	KnockY     float64
	Distance   float64
	FromDirect bool // hitscan direct hit, no falloff
}

// BlastFalloff is the linear damage multiplier at dist from a blast of radius.
func BlastFalloff(dist, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return math.Max(0, 1-dist/(radius*falloffReach))
}

// BlastDamage is the damage dealt at dist from a blast.
func BlastDamage(dist, radius float64, baseDamage int) int {
	return int(math.Round(float64(baseDamage) * BlastFalloff(dist, radius)))
}

// Explode carves the terrain at (x,y), then damages and throws every living
// combatant within reach. It only reports what happened: ending the turn or
// deciding the match is left to the caller.
func Explode(t *Terrain, x, y, radius float64, baseDamage int, combatants []Combatant) []DamageResult {
	if t != nil {
		t.Carve(x, y, radius)
	}
	var out []DamageResult
	for _, c := range combatants {
		if c == nil || !c.Alive() {
			continue
		}
		cx, cy := c.Center()
		dx, dy := cx-x, cy-y
		dist := math.Hypot(dx, dy)
		f := BlastFalloff(dist, radius)
		dmg := int(math.Round(float64(baseDamage) * f))
		if dmg <= 0 {
			continue
		}
		nx, ny := 0.0, -1.0
		if dist > 1e-6 {
			nx, ny = dx/dist, dy/dist
		}
		kx := nx * knockbackForce * f
		ky := ny*knockbackForce*f - knockbackUplift*f
		c.TakeDamage(dmg)
		c.ApplyKnockback(kx, ky)
		out = append(out, DamageResult{
			Target:   c,
			Amount:   dmg,
			Killed:   !c.Alive(),
			KnockX:   kx,
			KnockY:   ky,
			Distance: dist,
		})
	}
	return out
}

// directHit applies a hitscan round's full listed damage to victim, with a
// small push along the ray.
func directHit(victim Combatant, damage int, angle float64) DamageResult {
	kx := math.Cos(angle) * knockbackForce * 0.3
	ky := math.Sin(angle)*knockbackForce*0.3 - knockbackUplift*0.3
	victim.TakeDamage(damage)
	victim.ApplyKnockback(kx, ky)
	return DamageResult{Target: victim, Amount: damage, Killed: !victim.Alive(), KnockX: kx, KnockY: ky, FromDirect: true}
}
