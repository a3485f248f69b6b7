// Package action resolves a combatant's chosen move into a TurnEffect.
//
// Resolution is pure: it reads the attacker's snapshot and returns the effect
// to apply. Applying the effect, and deciding how long a Defend boost lasts,
// belongs to the battle loop.
package action
