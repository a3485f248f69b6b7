package scenario

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/event"
)

func TestScenarioScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.lua"))
	if err != nil {
		t.Fatalf("glob scenarios: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no scenarios found in testdata")
	}
	sort.Strings(paths)

	for _, path := range paths {
		sc, err := LoadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("load scenario %s: %v", path, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			if _, err := NewRunner(Config{}).Run(context.Background(), sc); err != nil {
				t.Fatalf("run %s: %v", path, err)
			}
		})
	}
}

func TestLoadStringBuildsScenario(t *testing.T) {
	sc, err := LoadString(context.Background(), `
local s = Scenario.new("setup")
s:seed(9)
s:defend_mode("until_next_turn")
s:max_rounds(12)
s:player("Hero", "rogue", {health = 50, attack = 11})
s:enemy("Dark Knight", "enemy")
s:player_actions({"attack", "defend", "special"})
s:expect_winner("Hero")
s:expect_health("Dark Knight", 0)
return s
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "setup" || sc.Seed != 9 || sc.DefendMode != "until_next_turn" || sc.MaxRounds != 12 {
		t.Fatalf("scenario = %+v", sc)
	}
	if sc.Player == nil || sc.Player.Archetype != "rogue" {
		t.Fatalf("player = %+v", sc.Player)
	}
	if sc.Player.Health == nil || *sc.Player.Health != 50 || sc.Player.Attack == nil || *sc.Player.Attack != 11 {
		t.Fatalf("player stats = %v/%v, want 50/11", sc.Player.Health, sc.Player.Attack)
	}
	if sc.Player.Defense != nil {
		t.Fatalf("defense = %d, want unset", *sc.Player.Defense)
	}
	if got := strings.Join(sc.PlayerActions, ","); got != "attack,defend,special" {
		t.Fatalf("player actions = %s, want attack,defend,special", got)
	}
	if sc.EnemyActions != nil {
		t.Fatalf("enemy actions = %v, want nil", sc.EnemyActions)
	}
	if health, ok := sc.Expect.Health["Dark Knight"]; !ok || health != 0 {
		t.Fatalf("expected health = %v", sc.Expect.Health)
	}
}

func TestLoadFileDefaultsNameToFileName(t *testing.T) {
	path := writeScenarioFixture(t, `
local s = Scenario.new()
s:player("Hero", "warrior")
s:enemy("Dark Knight", "enemy")
return s
`)
	sc, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "scenario" {
		t.Fatalf("name = %q, want %q", sc.Name, "scenario")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"syntax", `local s = Scenario.new(`},
		{"no return", `Scenario.new("x")`},
		{"wrong return", `return 42`},
		{"bad stat", `local s = Scenario.new("x"); s:player("Hero", "mage", {health = "lots"}); return s`},
		{"bad actions", `local s = Scenario.new("x"); s:player_actions("attack"); return s`},
		{"bad max rounds", `local s = Scenario.new("x"); s:max_rounds(0); return s`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString(context.Background(), tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := apperrors.CodeOf(err); code != apperrors.CodeScenarioLoad {
				t.Fatalf("code = %s, want %s", code, apperrors.CodeScenarioLoad)
			}
		})
	}
}

func TestLoadStopsLoopingScriptOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := LoadString(ctx, `while true do end`)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("err = %v, want deadline exceeded", err)
		}
		if code := apperrors.CodeOf(err); code != apperrors.CodeScenarioLoad {
			t.Fatalf("code = %s, want %s", code, apperrors.CodeScenarioLoad)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("looping script was not interrupted")
	}
}

func TestLoadRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadString(ctx, `return Scenario.new("x")`)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want canceled", err)
	}
}

func TestRunZeroStatsOverrideArchetype(t *testing.T) {
	sc := mustLoad(t, `
local s = Scenario.new("paper knight")
s:player("Hero", "warrior")
s:enemy("Dark Knight", "enemy", {health = 20, defense = 0})
s:player_actions({"attack"})
s:enemy_actions({})
s:expect_winner("Hero")
s:expect_rounds(1)
return s
`)
	if sc.Enemy.Defense == nil || *sc.Enemy.Defense != 0 {
		t.Fatalf("enemy defense = %v, want explicit 0", sc.Enemy.Defense)
	}
	result, err := NewRunner(Config{}).Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Enemy.Defense != 0 || result.Enemy.Health != 0 {
		t.Fatalf("enemy = %+v, want defense 0 and defeated", result.Enemy)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	if code := apperrors.CodeOf(err); code != apperrors.CodeScenarioLoad {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeScenarioLoad)
	}
}

func TestRunDefendModes(t *testing.T) {
	tests := []struct {
		mode       string
		wantHealth int
	}{
		// Round one the knight hits for 13 through base defense 5.
		{"momentary", 35},
		// Round one the knight hits for 8 through the lingering guard.
		{"until_next_turn", 40},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			sc := mustLoad(t, `
local s = Scenario.new("guard")
s:defend_mode("`+tt.mode+`")
s:player("Hero", "mage")
s:enemy("Dark Knight", "enemy")
s:player_actions({"defend"})
s:enemy_actions({})
s:expect_winner("Hero")
s:expect_rounds(6)
return s
`)
			result, err := NewRunner(Config{}).Run(context.Background(), sc)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if result.Player.Health != tt.wantHealth {
				t.Fatalf("health = %d, want %d", result.Player.Health, tt.wantHealth)
			}
			if result.Player.Defense != 5 {
				t.Fatalf("defense = %d, want base 5", result.Player.Defense)
			}
		})
	}
}

func TestRunSetupErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   apperrors.Code
	}{
		{"missing enemy", `local s = Scenario.new("x"); s:player("Hero", "warrior"); return s`, apperrors.CodeScenarioMissingCombatant},
		{"missing player", `local s = Scenario.new("x"); s:enemy("Dark Knight", "enemy"); return s`, apperrors.CodeScenarioMissingCombatant},
		{"bad archetype", `local s = Scenario.new("x"); s:player("Hero", "bard"); s:enemy("Dark Knight", "enemy"); return s`, apperrors.CodeDuelInvalidArchetype},
		{"empty name", `local s = Scenario.new("x"); s:player("", "mage"); s:enemy("Dark Knight", "enemy"); return s`, apperrors.CodeScenarioInvalid},
		{"negative defense", `local s = Scenario.new("x"); s:player("Hero", "mage", {defense = -2}); s:enemy("Dark Knight", "enemy"); return s`, apperrors.CodeScenarioInvalid},
		{"duplicate names", `local s = Scenario.new("x"); s:player("Twin", "mage"); s:enemy("Twin", "enemy"); return s`, apperrors.CodeScenarioInvalid},
		{"bad action", `local s = Scenario.new("x"); s:player("Hero", "mage"); s:enemy("Dark Knight", "enemy"); s:player_actions({"attack", "dance"}); return s`, apperrors.CodeScenarioInvalidAction},
		{"bad defend mode", `local s = Scenario.new("x"); s:defend_mode("forever"); s:player("Hero", "mage"); s:enemy("Dark Knight", "enemy"); return s`, apperrors.CodeDuelInvalidDefendMode},
		{"unknown winner", `local s = Scenario.new("x"); s:player("Hero", "mage"); s:enemy("Dark Knight", "enemy"); s:expect_winner("Nobody"); return s`, apperrors.CodeScenarioInvalid},
		{"unknown reason", `local s = Scenario.new("x"); s:player("Hero", "mage"); s:enemy("Dark Knight", "enemy"); s:expect_reason("timeout"); return s`, apperrors.CodeScenarioInvalid},
		{"unknown health target", `local s = Scenario.new("x"); s:player("Hero", "mage"); s:enemy("Dark Knight", "enemy"); s:expect_health("Nobody", 3); return s`, apperrors.CodeScenarioInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := mustLoad(t, tt.source)
			_, err := NewRunner(Config{}).Run(context.Background(), sc)
			if code := apperrors.CodeOf(err); code != tt.want {
				t.Fatalf("code = %s, want %s (err %v)", code, tt.want, err)
			}
		})
	}
}

func TestRunRejectsNilScenario(t *testing.T) {
	_, err := NewRunner(Config{}).Run(context.Background(), nil)
	if code := apperrors.CodeOf(err); code != apperrors.CodeScenarioInvalid {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeScenarioInvalid)
	}
}

func TestRunJoinsExpectationFailures(t *testing.T) {
	sc := mustLoad(t, `
local s = Scenario.new("wrong")
s:player("Hero", "warrior")
s:enemy("Dark Knight", "enemy")
s:player_actions({})
s:enemy_actions({})
s:expect_winner("Dark Knight")
s:expect_rounds(3)
s:expect_health("Hero", 86)
return s
`)
	result, err := NewRunner(Config{}).Run(context.Background(), sc)
	if err == nil {
		t.Fatal("expected expectation failures")
	}
	if !errors.Is(err, apperrors.New(apperrors.CodeScenarioExpectationFailed, "")) {
		t.Fatalf("err = %v, want expectation failure", err)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("err = %T, want joined errors", err)
	}
	if got := len(joined.Unwrap()); got != 2 {
		t.Fatalf("failures = %d, want 2: %v", got, err)
	}
	if result.Outcome.Winner != "Hero" {
		t.Fatalf("winner = %s, want Hero", result.Outcome.Winner)
	}
}

func TestRunLogOnlyAssertions(t *testing.T) {
	sc := mustLoad(t, `
local s = Scenario.new("wrong")
s:player("Hero", "warrior")
s:enemy("Dark Knight", "enemy")
s:player_actions({})
s:enemy_actions({})
s:expect_rounds(1)
return s
`)
	var buf bytes.Buffer
	runner := NewRunner(Config{Assertions: AssertionLogOnly, Logger: log.New(&buf, "", 0)})
	if _, err := runner.Run(context.Background(), sc); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "rounds mismatch") {
		t.Fatalf("log = %q, want rounds mismatch", buf.String())
	}
}

func TestRunRoundLimit(t *testing.T) {
	sc := mustLoad(t, `
local s = Scenario.new("stalemate")
s:max_rounds(5)
s:player("Hero", "warrior")
s:enemy("Dark Knight", "enemy")
s:player_actions({"defend", "defend", "defend", "defend", "defend", "defend"})
s:enemy_actions({"heal", "heal", "heal", "heal", "heal", "heal"})
return s
`)
	result, err := NewRunner(Config{}).Run(context.Background(), sc)
	if code := apperrors.CodeOf(err); code != apperrors.CodeDuelRoundLimitReached {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeDuelRoundLimitReached)
	}
	if result.Outcome.Winner != "" {
		t.Fatalf("winner = %q, want none", result.Outcome.Winner)
	}
	if result.Player.Health != 150 || result.Enemy.Health != 120 {
		t.Fatalf("health = %d/%d, want untouched", result.Player.Health, result.Enemy.Health)
	}
}

func TestRunRandomAIReplaysSeed(t *testing.T) {
	source := `
local s = Scenario.new("replay")
s:seed(1234)
s:max_rounds(1000)
s:player("Hero", "warrior")
s:enemy("Dark Knight", "enemy")
return s
`
	first, firstErr := NewRunner(Config{}).Run(context.Background(), mustLoad(t, source))
	second, secondErr := NewRunner(Config{}).Run(context.Background(), mustLoad(t, source))
	if (firstErr == nil) != (secondErr == nil) {
		t.Fatalf("errors differ: %v vs %v", firstErr, secondErr)
	}
	if first.Seed != 1234 || second.Seed != 1234 {
		t.Fatalf("seeds = %d/%d, want 1234", first.Seed, second.Seed)
	}
	if first.Outcome != second.Outcome || first.Player != second.Player || first.Enemy != second.Enemy {
		t.Fatalf("replay differs:\n%+v\n%+v", first, second)
	}
}

func TestRunForwardsEvents(t *testing.T) {
	rec := &event.Recorder{}
	sc := mustLoad(t, `
local s = Scenario.new("events")
s:player("Hero", "warrior")
s:enemy("Dark Knight", "enemy")
s:player_actions({"surrender"})
return s
`)
	result, err := NewRunner(Config{Sink: rec}).Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	last, ok := rec.Last()
	if !ok || last.Kind != event.KindMatchEnded || last.MatchID != result.MatchID {
		t.Fatalf("last event = %+v", last)
	}
	if result.Seed == 0 {
		t.Fatal("expected a resolved seed")
	}
}

func TestRunVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	sc := mustLoad(t, `
local s = Scenario.new("chatty")
s:player("Hero", "rogue")
s:enemy("Dark Knight", "enemy")
s:player_actions({"special", "special", "special"})
s:enemy_actions({})
return s
`)
	runner := NewRunner(Config{Verbose: true, Logger: log.New(&buf, "", 0)})
	if _, err := runner.Run(context.Background(), sc); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"scenario start: chatty", "round 1: Hero 109/120", "scenario done: chatty, Hero wins by defeat in 3 rounds"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("log missing %q:\n%s", want, buf.String())
		}
	}
}

func mustLoad(t *testing.T, source string) *Scenario {
	t.Helper()
	sc, err := LoadString(context.Background(), source)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return sc
}

func writeScenarioFixture(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.lua")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}
