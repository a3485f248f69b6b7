package scenario

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/random"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/action"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/combatant"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/event"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/policy"
	"github.com/louisbranch/skirmish/internal/services/duel/engine"
)

const instrumentationName = "github.com/louisbranch/skirmish/internal/services/duel/scenario"

// DefaultMaxRounds bounds scenarios that do not set their own limit.
const DefaultMaxRounds = 200

// Config controls scenario execution.
type Config struct {
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// MaxRounds applies when the scenario sets none. Zero uses DefaultMaxRounds.
	MaxRounds int
	// Sink receives match events in addition to the runner.
	Sink event.Sink
}

// Result describes a finished scenario run.
type Result struct {
	Name    string
	Seed    int64
	MatchID string
	Outcome engine.Outcome
	Player  combatant.Snapshot
	Enemy   combatant.Snapshot
}

// Runner executes scenarios against the engine.
type Runner struct {
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	maxRounds  int
	sink       event.Sink
	tracer     trace.Tracer
}

// NewRunner prepares a scenario runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	sink := cfg.Sink
	if sink == nil {
		sink = event.Discard
	}
	return &Runner{
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		maxRounds:  maxRounds,
		sink:       sink,
		tracer:     otel.Tracer(instrumentationName),
	}
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) (Result, error) {
	sc, err := LoadFile(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return NewRunner(cfg).Run(ctx, sc)
}

// Run plays the scenario to completion and checks its expectations.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (Result, error) {
	if sc == nil {
		return Result{}, apperrors.New(apperrors.CodeScenarioInvalid, "scenario is required")
	}
	seed, err := random.ResolveSeed(sc.Seed)
	if err != nil {
		return Result{}, err
	}
	limit := sc.MaxRounds
	if limit <= 0 {
		limit = r.maxRounds
	}

	cfg, err := r.build(sc, seed)
	if err != nil {
		return Result{}, err
	}
	match, err := engine.NewMatch(cfg)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeScenarioInvalid, "new match", err)
	}

	ctx, span := r.tracer.Start(ctx, "duel.scenario", trace.WithAttributes(
		attribute.String("duel.scenario", sc.Name),
		attribute.Int64("duel.seed", seed),
		attribute.String("duel.match_id", match.ID()),
	))
	defer span.End()

	r.logf("scenario start: %s (seed %d, max %d rounds)", sc.Name, seed, limit)
	result := Result{Name: sc.Name, Seed: seed, MatchID: match.ID()}
	for !match.Done() {
		if match.CurrentRound() >= limit {
			err := apperrors.WithMetadata(apperrors.CodeDuelRoundLimitReached, "round limit reached", map[string]string{
				"limit": strconv.Itoa(limit),
			})
			span.RecordError(err)
			return r.snapshot(result, match), err
		}
		if _, err := match.PlayRound(ctx); err != nil {
			span.RecordError(err)
			return r.snapshot(result, match), err
		}
		r.logf("round %d: %s %d/%d, %s %d/%d", match.CurrentRound(),
			match.Player().Name(), match.Player().Health(), match.Player().MaxHealth(),
			match.Enemy().Name(), match.Enemy().Health(), match.Enemy().MaxHealth())
	}
	result = r.snapshot(result, match)
	r.logf("scenario done: %s, %s wins by %s in %d rounds", sc.Name, result.Outcome.Winner, result.Outcome.Reason, result.Outcome.Rounds)

	if err := r.assertions.Report(verify(sc.Expect, result)); err != nil {
		span.RecordError(err)
		return result, err
	}
	return result, nil
}

func (r *Runner) snapshot(result Result, match *engine.Match) Result {
	result.Outcome, _ = match.Outcome()
	result.Player = match.Player().Snapshot()
	result.Enemy = match.Enemy().Snapshot()
	return result
}

func (r *Runner) build(sc *Scenario, seed int64) (engine.Config, error) {
	player, err := buildCombatant("player", sc.Player)
	if err != nil {
		return engine.Config{}, err
	}
	enemy, err := buildCombatant("enemy", sc.Enemy)
	if err != nil {
		return engine.Config{}, err
	}
	if player.Name() == enemy.Name() {
		return engine.Config{}, apperrors.WithMetadata(apperrors.CodeScenarioInvalid, "combatant names must be distinct", map[string]string{
			"name": player.Name(),
		})
	}
	if err := validateExpectations(sc.Expect, player.Name(), enemy.Name()); err != nil {
		return engine.Config{}, err
	}

	mode, err := engine.ParseDefendMode(sc.DefendMode)
	if err != nil {
		return engine.Config{}, apperrors.Wrap(apperrors.CodeDuelInvalidDefendMode, "defend mode", err)
	}

	// Both random policies draw from one source so a seed replays the whole match.
	rng := random.New(seed)
	playerPolicy, err := buildPolicy("player", sc.PlayerActions, rng)
	if err != nil {
		return engine.Config{}, err
	}
	enemyPolicy, err := buildPolicy("enemy", sc.EnemyActions, rng)
	if err != nil {
		return engine.Config{}, err
	}

	return engine.Config{
		Player:       player,
		Enemy:        enemy,
		PlayerPolicy: playerPolicy,
		EnemyPolicy:  enemyPolicy,
		Sink:         r.sink,
		DefendMode:   mode,
	}, nil
}

func buildCombatant(side string, spec *CombatantSpec) (*combatant.Combatant, error) {
	if spec == nil {
		return nil, apperrors.WithMetadata(apperrors.CodeScenarioMissingCombatant, "combatant is required", map[string]string{
			"side": side,
		})
	}
	arch, err := combatant.ParseArchetype(spec.Archetype)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeDuelInvalidArchetype, "archetype", map[string]string{
			"side": side,
		}, err)
	}
	profile, _ := combatant.ProfileFor(arch)
	if spec.Health != nil {
		profile.MaxHealth = *spec.Health
	}
	if spec.Attack != nil {
		profile.AttackPower = *spec.Attack
	}
	if spec.Defense != nil {
		profile.Defense = *spec.Defense
	}
	c, err := combatant.NewWithProfile(spec.Name, arch, profile)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeScenarioInvalid, "combatant", map[string]string{
			"side": side,
		}, err)
	}
	return c, nil
}

func buildPolicy(side string, actions []string, rng *rand.Rand) (*policy.Policy, error) {
	if actions == nil {
		return policy.NewRandomAI(rng), nil
	}
	choices := make([]action.Choice, 0, len(actions))
	for i, value := range actions {
		choice, err := action.Parse(value)
		if err != nil {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeScenarioInvalidAction, "action", map[string]string{
				"side":  side,
				"index": strconv.Itoa(i + 1),
			}, err)
		}
		choices = append(choices, choice)
	}
	return policy.NewScripted(choices...), nil
}

func validateExpectations(expect Expectations, names ...string) error {
	known := func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
	if expect.Winner != "" && !known(expect.Winner) {
		return apperrors.WithMetadata(apperrors.CodeScenarioInvalid, "expected winner is not a combatant", map[string]string{
			"name": expect.Winner,
		})
	}
	switch event.EndReason(expect.Reason) {
	case "", event.EndReasonDefeat, event.EndReasonSurrender:
	default:
		return apperrors.WithMetadata(apperrors.CodeScenarioInvalid, "unknown end reason", map[string]string{
			"reason": expect.Reason,
		})
	}
	for _, name := range expect.Names() {
		if !known(name) {
			return apperrors.WithMetadata(apperrors.CodeScenarioInvalid, "expected health for unknown combatant", map[string]string{
				"name": name,
			})
		}
	}
	return nil
}

func verify(expect Expectations, result Result) []error {
	var failures []error
	mismatch := func(field, want, got string) {
		failures = append(failures, apperrors.WithMetadata(apperrors.CodeScenarioExpectationFailed,
			fmt.Sprintf("%s mismatch", field), map[string]string{"want": want, "got": got}))
	}
	if expect.Winner != "" && expect.Winner != result.Outcome.Winner {
		mismatch("winner", expect.Winner, result.Outcome.Winner)
	}
	if expect.Reason != "" && expect.Reason != string(result.Outcome.Reason) {
		mismatch("reason", expect.Reason, string(result.Outcome.Reason))
	}
	if expect.Rounds != 0 && expect.Rounds != result.Outcome.Rounds {
		mismatch("rounds", strconv.Itoa(expect.Rounds), strconv.Itoa(result.Outcome.Rounds))
	}
	for _, name := range expect.Names() {
		want := expect.Health[name]
		got := result.Player.Health
		if name == result.Enemy.Name {
			got = result.Enemy.Health
		}
		if want != got {
			mismatch(name+" health", strconv.Itoa(want), strconv.Itoa(got))
		}
	}
	return failures
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
