package game

import (
	"fmt"
	"math"
)

// FiringMode is the behavioural category of a weapon. The ballistics engine
// switches on it; weapons carry no behaviour of their own.
type FiringMode int

const (
	FireProjectile FiringMode = iota // ballistic body under gravity
	FireHitscan                      // instantaneous ray
	FirePlaced                       // stationary charge on a fuse
	FireTargeted                     // barrage dropped from above a chosen x
	FireTeleport                     // instant relocation, no physics
)

func (m FiringMode) String() string {
	switch m {
	case FireProjectile:
		return "projectile"
	case FireHitscan:
		return "hitscan"
	case FirePlaced:
		return "placed"
	case FireTargeted:
		return "targeted"
	case FireTeleport:
		return "teleport"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const (
	ticksPerSecond = 60
	MinPower       = 10.0
	MaxPower       = 100.0
)

// Weapon is one static row of the catalog. Fields that do not apply to the
// weapon's mode are ignored.
type Weapon struct {
	Name string
	Mode FiringMode

	ProjectileSpeed   float64 // units per tick at full power
	ProjectileGravity float64 // units per tick²
	AffectedByWind    bool
	Bounces           bool
	BounceFriction    float64 // velocity kept per bounce, < 1
	Fuse              float64 // seconds; 0 detonates on first impact
	ShotCount         int

	Damage      int
	BlastRadius float64

	ClusterCount  int
	ClusterDamage int
	ClusterRadius float64

	// Hitscan only.
	Range         float64 // maximum ray length
	StraightRange float64 // ray length before wind drift and spread begin
	Spread        float64 // lateral spread growth beyond StraightRange
}

// FuseTicks converts the fuse to whole ticks.
func (w *Weapon) FuseTicks() int {
	if w.Fuse <= 0 {
		return 0
	}
	return int(math.Round(w.Fuse * ticksPerSecond))
}

// IsCluster reports whether detonation fragments the body.
func (w *Weapon) IsCluster() bool { return w.ClusterCount > 0 }

// IsAirburst reports whether the fuse can end the flight before impact.
func (w *Weapon) IsAirburst() bool { return w.Fuse > 0 && !w.Bounces }

// fragment returns the child definition spawned by a cluster detonation.
func (w *Weapon) fragment() *Weapon {
	return &Weapon{
		Name:              w.Name + " fragment",
		Mode:              FireProjectile,
		ProjectileSpeed:   w.ProjectileSpeed,
		ProjectileGravity: w.ProjectileGravity,
		ShotCount:         1,
		Damage:            w.ClusterDamage,
		BlastRadius:       w.ClusterRadius,
	}
}

// weaponCatalog is the fixed weapon table. Adding a weapon means adding a row.
var weaponCatalog = []Weapon{
	{Name: "bazooka", Mode: FireProjectile, ProjectileSpeed: 14, ProjectileGravity: 0.2, AffectedByWind: true,
		ShotCount: 1, Damage: 50, BlastRadius: 40},
	{Name: "grenade", Mode: FireProjectile, ProjectileSpeed: 12, ProjectileGravity: 0.2, Bounces: true,
		BounceFriction: 0.5, Fuse: 3, ShotCount: 1, Damage: 45, BlastRadius: 38},
	{Name: "cluster bomb", Mode: FireProjectile, ProjectileSpeed: 12, ProjectileGravity: 0.2, Bounces: true,
		BounceFriction: 0.45, Fuse: 3, ShotCount: 1, Damage: 25, BlastRadius: 30,
		ClusterCount: 5, ClusterDamage: 20, ClusterRadius: 20},
	{Name: "mortar", Mode: FireProjectile, ProjectileSpeed: 13, ProjectileGravity: 0.22, AffectedByWind: true,
		Fuse: 2.5, ShotCount: 1, Damage: 40, BlastRadius: 36},
	{Name: "shotgun", Mode: FireHitscan, ShotCount: 2, Damage: 25, BlastRadius: 12,
		Range: 600, StraightRange: 150, Spread: 0.02},
	{Name: "sniper rifle", Mode: FireHitscan, ShotCount: 1, Damage: 45, BlastRadius: 8,
		Range: 1400, StraightRange: 500, Spread: 0.01},
	{Name: "dynamite", Mode: FirePlaced, Fuse: 5, ShotCount: 1, Damage: 75, BlastRadius: 60},
	{Name: "air strike", Mode: FireTargeted, ProjectileSpeed: 6, ProjectileGravity: 0.2, AffectedByWind: true,
		ShotCount: 5, Damage: 30, BlastRadius: 30},
	{Name: "teleport", Mode: FireTeleport, ShotCount: 1},
}

// Weapons returns the catalog. Callers must not modify the rows.
func Weapons() []Weapon {
	return weaponCatalog
}

// WeaponByName looks up a catalog row.
func WeaponByName(name string) (*Weapon, bool) {
	i := WeaponIndex(name)
	if i < 0 {
		return nil, false
	}
	return &weaponCatalog[i], true
}

// WeaponIndex returns the catalog index of name, or -1.
func WeaponIndex(name string) int {
	for i := range weaponCatalog {
		if weaponCatalog[i].Name == name {
			return i
		}
	}
	return -1
}
