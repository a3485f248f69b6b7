// Package errors provides structured, coded errors for setup and validation
// paths. The combat core itself never fails; these errors surface from
// configuration, combatant construction and scenario loading.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Duel setup errors
	CodeDuelInvalidArchetype  Code = "DUEL_INVALID_ARCHETYPE"
	CodeDuelInvalidDefendMode Code = "DUEL_INVALID_DEFEND_MODE"
	CodeDuelInvalidLocale     Code = "DUEL_INVALID_LOCALE"
	CodeDuelInvalidRoundLimit Code = "DUEL_INVALID_ROUND_LIMIT"
	CodeDuelRoundLimitReached Code = "DUEL_ROUND_LIMIT_REACHED"

	// Scenario errors
	CodeScenarioLoad              Code = "SCENARIO_LOAD"
	CodeScenarioInvalid           Code = "SCENARIO_INVALID"
	CodeScenarioMissingCombatant  Code = "SCENARIO_MISSING_COMBATANT"
	CodeScenarioInvalidAction     Code = "SCENARIO_INVALID_ACTION"
	CodeScenarioExpectationFailed Code = "SCENARIO_EXPECTATION_FAILED"
)

// String returns the code value.
func (c Code) String() string {
	return string(c)
}
