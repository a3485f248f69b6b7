// Package event defines the status events a match emits after each state
// change. Presentation collaborators consume them; the engine never formats
// text itself.
package event

// Kind identifies the type of a status event.
type Kind string

const (
	// KindRoundStarted opens a round and carries both combatants' status.
	KindRoundStarted Kind = "round.started"
	// KindTurnStarted precedes each choice; presenters may pace on it.
	KindTurnStarted Kind = "turn.started"
	// KindDamageApplied records mitigated damage landing on a combatant.
	KindDamageApplied Kind = "combatant.damage_applied"
	// KindHealed records health restored to a combatant.
	KindHealed Kind = "combatant.healed"
	// KindDefenseBoosted records a Defend boost.
	KindDefenseBoosted Kind = "combatant.defense_boosted"
	// KindDefenseRestored records a lingering Defend boost wearing off.
	KindDefenseRestored Kind = "combatant.defense_restored"
	// KindSurrendered records a combatant giving up.
	KindSurrendered Kind = "combatant.surrendered"
	// KindMatchEnded records the terminal outcome.
	KindMatchEnded Kind = "match.ended"
)

// EndReason explains how a match ended.
type EndReason string

const (
	EndReasonDefeat    EndReason = "defeat"
	EndReasonSurrender EndReason = "surrender"
)

// Status is a combatant's health line at the time of an event.
type Status struct {
	Name      string
	Archetype string
	Health    int
	MaxHealth int
	Defense   int
}

// Event is one status update. Only the fields relevant to Kind are set:
//
//   - RoundStarted: Round, Player, Enemy
//   - TurnStarted: Round, Combatant, Target
//   - DamageApplied: Combatant (the one hit), Target (the attacker), Action,
//     Amount (raw), Actual, Health, MaxHealth, Defense
//   - Healed: Combatant, Amount (requested), Actual (restored), Health, MaxHealth
//   - DefenseBoosted: Combatant, Amount (delta), Defense, Transient
//   - DefenseRestored: Combatant, Amount (delta removed), Defense
//   - Surrendered: Combatant, Target (the opponent), Health
//   - MatchEnded: Winner, Loser, Reason, Round
type Event struct {
	Kind      Kind
	MatchID   string
	Round     int
	Combatant string
	Target    string
	Action    string
	Amount    int
	Actual    int
	Health    int
	MaxHealth int
	Defense   int
	// Transient is set on DefenseBoosted when the boost is reverted before
	// the opponent acts.
	Transient bool
	Player    Status
	Enemy     Status
	Winner    string
	Loser     string
	Reason    EndReason
}
