package action

import "github.com/louisbranch/skirmish/internal/services/duel/domain/combatant"

const (
	// HealAmount is the fixed health restored by Heal.
	HealAmount = 30
	// DefendBoost is the defense added by Defend.
	DefendBoost = 5
)

// TurnEffect is the computed, not yet applied, result of one choice.
type TurnEffect struct {
	Choice           Choice
	DamageToDefender int
	HealToSelf       int
	DefenseDeltaSelf int
	Surrendered      bool
}

// Resolve turns the attacker's choice into an effect. Unknown choices
// resolve as Attack.
func Resolve(attacker combatant.Snapshot, choice Choice) TurnEffect {
	switch choice {
	case Defend:
		return TurnEffect{Choice: Defend, DefenseDeltaSelf: DefendBoost}
	case SpecialAbility:
		return TurnEffect{Choice: SpecialAbility, DamageToDefender: SpecialDamage(attacker)}
	case Heal:
		return TurnEffect{Choice: Heal, HealToSelf: HealAmount}
	case Surrender:
		return TurnEffect{Choice: Surrender, Surrendered: true}
	default:
		return TurnEffect{Choice: Attack, DamageToDefender: nonNegative(attacker.AttackPower)}
	}
}

// SpecialDamage is attack power times the archetype multiplier, truncated.
func SpecialDamage(attacker combatant.Snapshot) int {
	return nonNegative(int(float64(attacker.AttackPower) * attacker.SpecialMultiplier))
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
