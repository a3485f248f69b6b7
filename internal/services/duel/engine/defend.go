package engine

import (
	"fmt"
	"strings"
)

// DefendMode controls how long a Defend boost lasts.
type DefendMode int

const (
	// DefendMomentary applies the boost and reverts it before the turn
	// completes. The boost therefore never mitigates the opponent's next
	// attack. This is the default.
	DefendMomentary DefendMode = iota
	// DefendUntilNextTurn keeps the boost through the opponent's next turn
	// and removes it when the defender's own next turn starts.
	DefendUntilNextTurn
)

func (m DefendMode) String() string {
	switch m {
	case DefendUntilNextTurn:
		return "until_next_turn"
	default:
		return "momentary"
	}
}

// ParseDefendMode reads a mode name.
func ParseDefendMode(value string) (DefendMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "momentary":
		return DefendMomentary, nil
	case "until_next_turn", "until-next-turn", "persistent":
		return DefendUntilNextTurn, nil
	default:
		return DefendMomentary, fmt.Errorf("%w: %q", ErrInvalidDefendMode, value)
	}
}
