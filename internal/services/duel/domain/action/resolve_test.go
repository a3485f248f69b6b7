package action

import (
	"testing"

	"github.com/louisbranch/skirmish/internal/services/duel/domain/combatant"
)

func snapshot(t *testing.T, archetype combatant.Archetype) combatant.Snapshot {
	t.Helper()
	c, err := combatant.New("Test", archetype)
	if err != nil {
		t.Fatalf("new combatant: %v", err)
	}
	return c.Snapshot()
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		archetype combatant.Archetype
		choice    Choice
		want      TurnEffect
	}{
		{"warrior attack", combatant.ArchetypeWarrior, Attack, TurnEffect{Choice: Attack, DamageToDefender: 20}},
		{"warrior power strike", combatant.ArchetypeWarrior, SpecialAbility, TurnEffect{Choice: SpecialAbility, DamageToDefender: 40}},
		{"mage fireball", combatant.ArchetypeMage, SpecialAbility, TurnEffect{Choice: SpecialAbility, DamageToDefender: 60}},
		{"rogue backstab truncates", combatant.ArchetypeRogue, SpecialAbility, TurnEffect{Choice: SpecialAbility, DamageToDefender: 62}},
		{"enemy special", combatant.ArchetypeEnemy, SpecialAbility, TurnEffect{Choice: SpecialAbility, DamageToDefender: 36}},
		{"heal", combatant.ArchetypeMage, Heal, TurnEffect{Choice: Heal, HealToSelf: 30}},
		{"defend", combatant.ArchetypeRogue, Defend, TurnEffect{Choice: Defend, DefenseDeltaSelf: 5}},
		{"surrender", combatant.ArchetypeEnemy, Surrender, TurnEffect{Choice: Surrender, Surrendered: true}},
		{"unspecified falls back to attack", combatant.ArchetypeRogue, ChoiceUnspecified, TurnEffect{Choice: Attack, DamageToDefender: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(snapshot(t, tt.archetype), tt.choice)
			if got != tt.want {
				t.Fatalf("effect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRogueBackstabAgainstEnemy(t *testing.T) {
	effect := Resolve(snapshot(t, combatant.ArchetypeRogue), SpecialAbility)
	enemy, err := combatant.New("Dark Knight", combatant.ArchetypeEnemy)
	if err != nil {
		t.Fatalf("new enemy: %v", err)
	}
	if got := enemy.TakeDamage(effect.DamageToDefender).Actual; got != 56 {
		t.Fatalf("actual = %d, want 56", got)
	}
}

func TestResolveDoesNotMutateSnapshotSource(t *testing.T) {
	c, err := combatant.New("Hero", combatant.ArchetypeWarrior)
	if err != nil {
		t.Fatalf("new combatant: %v", err)
	}
	for _, choice := range Choices {
		Resolve(c.Snapshot(), choice)
	}
	if c.Health() != 150 || c.Defense() != 10 {
		t.Fatalf("combatant changed: health %d defense %d", c.Health(), c.Defense())
	}
}
