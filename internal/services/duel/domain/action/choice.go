package action

import (
	"errors"
	"fmt"
	"strings"
)

// Choice is the move a combatant takes in a turn.
type Choice int

const (
	ChoiceUnspecified Choice = iota
	Attack
	Defend
	SpecialAbility
	Heal
	Surrender
)

// ErrUnknownChoice indicates input that does not name a move.
var ErrUnknownChoice = errors.New("unknown action")

// Choices lists every move in menu order.
var Choices = []Choice{Attack, Defend, SpecialAbility, Heal, Surrender}

func (c Choice) String() string {
	switch c {
	case Attack:
		return "attack"
	case Defend:
		return "defend"
	case SpecialAbility:
		return "special_ability"
	case Heal:
		return "heal"
	case Surrender:
		return "surrender"
	default:
		return "unspecified"
	}
}

// Valid reports whether c is one of the closed set of moves.
func (c Choice) Valid() bool {
	return c >= Attack && c <= Surrender
}

// Parse reads a move from a menu digit (1-5, in Choices order) or a name.
func Parse(value string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "attack":
		return Attack, nil
	case "2", "defend":
		return Defend, nil
	case "3", "special", "special_ability", "special-ability":
		return SpecialAbility, nil
	case "4", "heal":
		return Heal, nil
	case "5", "surrender", "quit":
		return Surrender, nil
	default:
		return ChoiceUnspecified, fmt.Errorf("%w: %q", ErrUnknownChoice, value)
	}
}

// ParseOrAttack is Parse that falls back to Attack on any failure. Input
// boundaries use it so a bad entry never reaches the battle loop.
func ParseOrAttack(value string) Choice {
	c, err := Parse(value)
	if err != nil {
		return Attack
	}
	return c
}
