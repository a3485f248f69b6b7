package scenario

import (
	"math"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "seed", Function: scenarioSeed},
	{Name: "defend_mode", Function: scenarioDefendMode},
	{Name: "max_rounds", Function: scenarioMaxRounds},
	{Name: "player", Function: scenarioPlayer},
	{Name: "enemy", Function: scenarioEnemy},
	{Name: "player_actions", Function: scenarioPlayerActions},
	{Name: "enemy_actions", Function: scenarioEnemyActions},
	{Name: "expect_winner", Function: scenarioExpectWinner},
	{Name: "expect_reason", Function: scenarioExpectReason},
	{Name: "expect_rounds", Function: scenarioExpectRounds},
	{Name: "expect_health", Function: scenarioExpectHealth},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

func scenarioSeed(state *lua.State) int {
	sc := checkScenario(state)
	sc.Seed = int64(lua.CheckInteger(state, 2))
	return 0
}

func scenarioDefendMode(state *lua.State) int {
	sc := checkScenario(state)
	sc.DefendMode = lua.CheckString(state, 2)
	return 0
}

func scenarioMaxRounds(state *lua.State) int {
	sc := checkScenario(state)
	rounds := lua.CheckInteger(state, 2)
	lua.ArgumentCheck(state, rounds > 0, 2, "max rounds must be positive")
	sc.MaxRounds = rounds
	return 0
}

func scenarioPlayer(state *lua.State) int {
	sc := checkScenario(state)
	sc.Player = checkCombatant(state)
	return 0
}

func scenarioEnemy(state *lua.State) int {
	sc := checkScenario(state)
	sc.Enemy = checkCombatant(state)
	return 0
}

func scenarioPlayerActions(state *lua.State) int {
	sc := checkScenario(state)
	sc.PlayerActions = checkStringList(state, 2)
	return 0
}

func scenarioEnemyActions(state *lua.State) int {
	sc := checkScenario(state)
	sc.EnemyActions = checkStringList(state, 2)
	return 0
}

func scenarioExpectWinner(state *lua.State) int {
	sc := checkScenario(state)
	sc.Expect.Winner = lua.CheckString(state, 2)
	return 0
}

func scenarioExpectReason(state *lua.State) int {
	sc := checkScenario(state)
	sc.Expect.Reason = lua.CheckString(state, 2)
	return 0
}

func scenarioExpectRounds(state *lua.State) int {
	sc := checkScenario(state)
	sc.Expect.Rounds = lua.CheckInteger(state, 2)
	return 0
}

func scenarioExpectHealth(state *lua.State) int {
	sc := checkScenario(state)
	name := lua.CheckString(state, 2)
	health := lua.CheckInteger(state, 3)
	if sc.Expect.Health == nil {
		sc.Expect.Health = map[string]int{}
	}
	sc.Expect.Health[name] = health
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if sc, ok := ud.(*Scenario); ok && sc != nil {
		return sc
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

// checkCombatant reads (name, archetype, {health, attack, defense}) starting
// at argument 2.
func checkCombatant(state *lua.State) *CombatantSpec {
	spec := &CombatantSpec{
		Name:      lua.CheckString(state, 2),
		Archetype: lua.CheckString(state, 3),
	}
	if state.IsNoneOrNil(4) {
		return spec
	}
	lua.CheckType(state, 4, lua.TypeTable)
	stats := tableToMap(state, 4)
	spec.Health = optionalInt(state, stats, "health")
	spec.Attack = optionalInt(state, stats, "attack")
	spec.Defense = optionalInt(state, stats, "defense")
	return spec
}

// optionalInt returns nil when key is absent so zero stays expressible.
func optionalInt(state *lua.State, fields map[string]any, key string) *int {
	value, ok := intField(state, fields, key)
	if !ok {
		return nil
	}
	return &value
}

func intField(state *lua.State, fields map[string]any, key string) (int, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	value, ok := raw.(int)
	if !ok {
		lua.Errorf(state, "%s must be an integer", key)
		return 0, false
	}
	return value, true
}

func checkStringList(state *lua.State, index int) []string {
	lua.CheckType(state, index, lua.TypeTable)
	count := state.RawLength(index)
	values := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		state.RawGetInt(index, i)
		value, ok := state.ToString(-1)
		state.Pop(1)
		if !ok {
			lua.ArgumentError(state, index, "list of strings expected")
			return nil
		}
		values = append(values, value)
	}
	return values
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	default:
		return nil
	}
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
