// Package combatant models a duel participant: fixed archetype stats plus the
// mutable health and defense that turns act on.
//
// Health is always kept within [0, MaxHealth]. A combatant at zero health is
// defeated but stays a valid value for the rest of the match.
package combatant

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownArchetype indicates an archetype outside the closed set.
	ErrUnknownArchetype = errors.New("unknown archetype")
	// ErrEmptyName indicates a combatant was created without a name.
	ErrEmptyName = errors.New("combatant name is required")
	// ErrInvalidProfile indicates non-positive health or attack, or negative defense.
	ErrInvalidProfile = errors.New("max health and attack power must be positive and defense non-negative")
)

// Combatant is one side of a match.
type Combatant struct {
	name      string
	archetype Archetype
	profile   Profile
	health    int
	defense   int
}

// Snapshot is a read-only view of a combatant at a point in time.
type Snapshot struct {
	Name              string
	Archetype         Archetype
	Health            int
	MaxHealth         int
	AttackPower       int
	Defense           int
	SpecialMultiplier float64
}

// Alive reports whether the snapshot has health left.
func (s Snapshot) Alive() bool {
	return s.Health > 0
}

// DamageApplication captures one TakeDamage call.
type DamageApplication struct {
	Raw          int
	Defense      int
	Actual       int
	HealthBefore int
	HealthAfter  int
}

// HealApplication captures one Heal call.
type HealApplication struct {
	Amount       int
	Restored     int
	HealthBefore int
	HealthAfter  int
}

// New creates a combatant at full health with the archetype's stats.
func New(name string, archetype Archetype) (*Combatant, error) {
	profile, ok := ProfileFor(archetype)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownArchetype, int(archetype))
	}
	return NewWithProfile(name, archetype, profile)
}

// NewWithProfile creates a combatant with explicit stats. Archetype still
// selects presentation defaults when the profile leaves move names empty.
func NewWithProfile(name string, archetype Archetype, profile Profile) (*Combatant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	base, ok := ProfileFor(archetype)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownArchetype, int(archetype))
	}
	if profile.MaxHealth <= 0 || profile.AttackPower <= 0 || profile.Defense < 0 {
		return nil, ErrInvalidProfile
	}
	if profile.SpecialMultiplier <= 0 {
		profile.SpecialMultiplier = base.SpecialMultiplier
	}
	if profile.AttackName == "" {
		profile.AttackName = base.AttackName
	}
	if profile.SpecialName == "" {
		profile.SpecialName = base.SpecialName
	}
	return &Combatant{
		name:      name,
		archetype: archetype,
		profile:   profile,
		health:    profile.MaxHealth,
		defense:   profile.Defense,
	}, nil
}

// Name returns the combatant name.
func (c *Combatant) Name() string { return c.name }

// Archetype returns the combatant class.
func (c *Combatant) Archetype() Archetype { return c.archetype }

// Profile returns the base stats the combatant was created with.
func (c *Combatant) Profile() Profile { return c.profile }

// Health returns current health.
func (c *Combatant) Health() int { return c.health }

// MaxHealth returns the health cap.
func (c *Combatant) MaxHealth() int { return c.profile.MaxHealth }

// AttackPower returns base attack.
func (c *Combatant) AttackPower() int { return c.profile.AttackPower }

// Defense returns the current, possibly boosted, defense.
func (c *Combatant) Defense() int { return c.defense }

// IsAlive reports whether health is above zero.
func (c *Combatant) IsAlive() bool { return c.health > 0 }

// Snapshot returns the current state as a value.
func (c *Combatant) Snapshot() Snapshot {
	return Snapshot{
		Name:              c.name,
		Archetype:         c.archetype,
		Health:            c.health,
		MaxHealth:         c.profile.MaxHealth,
		AttackPower:       c.profile.AttackPower,
		Defense:           c.defense,
		SpecialMultiplier: c.profile.SpecialMultiplier,
	}
}

// TakeDamage mitigates raw by current defense and subtracts the rest.
func (c *Combatant) TakeDamage(raw int) DamageApplication {
	actual := raw - c.defense
	if actual < 0 {
		actual = 0
	}
	before := c.health
	c.health = clamp(c.health-actual, 0, c.profile.MaxHealth)
	return DamageApplication{
		Raw:          raw,
		Defense:      c.defense,
		Actual:       actual,
		HealthBefore: before,
		HealthAfter:  c.health,
	}
}

// Heal restores up to amount health without exceeding MaxHealth.
func (c *Combatant) Heal(amount int) HealApplication {
	before := c.health
	if amount > 0 {
		c.health = clamp(c.health+amount, 0, c.profile.MaxHealth)
	}
	return HealApplication{
		Amount:       amount,
		Restored:     c.health - before,
		HealthBefore: before,
		HealthAfter:  c.health,
	}
}

// AdjustDefense adds delta to current defense and returns the result.
func (c *Combatant) AdjustDefense(delta int) int {
	c.defense += delta
	return c.defense
}

// Surrender forces health to zero regardless of defense.
func (c *Combatant) Surrender() {
	c.health = 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
