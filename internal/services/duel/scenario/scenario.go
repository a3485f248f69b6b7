// Package scenario loads scripted duels written in Lua and runs them against
// the engine with expectations on the outcome.
//
// A scenario script builds a Scenario value and returns it:
//
//	local s = Scenario.new("rogue ambush")
//	s:seed(7)
//	s:player("Shade", "rogue")
//	s:enemy("Dark Knight", "enemy", {health = 60})
//	s:player_actions({"special", "attack"})
//	s:expect_winner("Shade")
//	return s
package scenario

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
)

// Scenario is a declarative duel setup.
type Scenario struct {
	Name string
	// Seed drives the random AI for sides without scripted actions. Zero
	// draws a fresh seed at run time.
	Seed       int64
	DefendMode string
	// MaxRounds caps the match; zero uses the runner default.
	MaxRounds int
	Player    *CombatantSpec
	Enemy     *CombatantSpec
	// PlayerActions and EnemyActions are nil when the side plays the random AI.
	PlayerActions []string
	EnemyActions  []string
	Expect        Expectations
}

// CombatantSpec declares one side. Nil stats fall back to the archetype.
type CombatantSpec struct {
	Name      string
	Archetype string
	Health    *int
	Attack    *int
	Defense   *int
}

// Expectations are checked once the match ends.
type Expectations struct {
	Winner string
	Reason string
	Rounds int
	Health map[string]int
}

// Names returns the expected-health combatant names in sorted order.
func (e Expectations) Names() []string {
	names := make([]string, 0, len(e.Health))
	for name := range e.Health {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hookInstructions is how many Lua instructions run between context checks.
const hookInstructions = 1000

// LoadFile executes a Lua scenario file and returns the Scenario it builds.
// The script is aborted once ctx is done.
func LoadFile(ctx context.Context, path string) (*Scenario, error) {
	sc, err := load(ctx, func(state *lua.State) error {
		return lua.LoadFile(state, path, "")
	})
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeScenarioLoad, "load scenario", map[string]string{"path": path}, err)
	}
	if strings.TrimSpace(sc.Name) == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// LoadString executes a Lua scenario chunk.
func LoadString(ctx context.Context, source string) (*Scenario, error) {
	sc, err := load(ctx, func(state *lua.State) error {
		return lua.LoadString(state, source)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeScenarioLoad, "load scenario", err)
	}
	return sc, nil
}

func load(ctx context.Context, chunk func(*lua.State) error) (*Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)
	lua.SetDebugHook(state, func(state *lua.State, _ lua.Debug) {
		if err := ctx.Err(); err != nil {
			lua.Errorf(state, "scenario interrupted: %s", err.Error())
		}
	}, lua.MaskCount, hookInstructions)

	if err := chunk(state); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("run lua: %w", ctxErr)
		}
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	sc, ok := ud.(*Scenario)
	if !ok || sc == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return sc, nil
}
