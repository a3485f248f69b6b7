package combatant

import (
	"fmt"
	"strings"
)

// Archetype identifies a combatant class. The set is closed.
type Archetype int

const (
	ArchetypeUnspecified Archetype = iota
	ArchetypeWarrior
	ArchetypeMage
	ArchetypeRogue
	ArchetypeEnemy
)

// Profile holds the fixed stats of an archetype.
type Profile struct {
	MaxHealth         int
	AttackPower       int
	Defense           int
	SpecialMultiplier float64
	// AttackName and SpecialName describe the moves for presentation.
	AttackName  string
	SpecialName string
}

var profiles = map[Archetype]Profile{
	ArchetypeWarrior: {MaxHealth: 150, AttackPower: 20, Defense: 10, SpecialMultiplier: 2.0, AttackName: "swings their sword", SpecialName: "Power Strike"},
	ArchetypeMage:    {MaxHealth: 100, AttackPower: 30, Defense: 5, SpecialMultiplier: 2.0, AttackName: "casts magic missile", SpecialName: "Fireball"},
	ArchetypeRogue:   {MaxHealth: 120, AttackPower: 25, Defense: 7, SpecialMultiplier: 2.5, AttackName: "strikes with daggers", SpecialName: "Backstab"},
	ArchetypeEnemy:   {MaxHealth: 120, AttackPower: 18, Defense: 6, SpecialMultiplier: 2.0, AttackName: "attacks", SpecialName: "special attack"},
}

// ProfileFor returns the stats for an archetype.
func ProfileFor(a Archetype) (Profile, bool) {
	p, ok := profiles[a]
	return p, ok
}

func (a Archetype) String() string {
	switch a {
	case ArchetypeWarrior:
		return "Warrior"
	case ArchetypeMage:
		return "Mage"
	case ArchetypeRogue:
		return "Rogue"
	case ArchetypeEnemy:
		return "Enemy"
	default:
		return "Unspecified"
	}
}

// ParseArchetype accepts a class name (case-insensitive) or a class menu
// digit: 1 Warrior, 2 Mage, 3 Rogue.
func ParseArchetype(value string) (Archetype, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "warrior":
		return ArchetypeWarrior, nil
	case "2", "mage":
		return ArchetypeMage, nil
	case "3", "rogue":
		return ArchetypeRogue, nil
	case "enemy":
		return ArchetypeEnemy, nil
	default:
		return ArchetypeUnspecified, fmt.Errorf("%w: %q", ErrUnknownArchetype, value)
	}
}
