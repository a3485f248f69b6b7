// Package duel parses duel command flags and plays a match in the terminal.
package duel

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/platform/i18n"
	"github.com/louisbranch/skirmish/internal/random"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/combatant"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/policy"
	"github.com/louisbranch/skirmish/internal/services/duel/engine"
	"github.com/louisbranch/skirmish/internal/services/duel/narrate"
	"github.com/louisbranch/skirmish/internal/services/duel/scenario"
)

// Config holds duel command configuration.
type Config struct {
	Player      string        `env:"SKIRMISH_DUEL_PLAYER"`
	PlayerName  string        `env:"SKIRMISH_DUEL_PLAYER_NAME" envDefault:"Hero"`
	EnemyName   string        `env:"SKIRMISH_DUEL_ENEMY_NAME"  envDefault:"Dark Knight"`
	Seed        int64         `env:"SKIRMISH_DUEL_SEED"`
	Interactive bool          `env:"SKIRMISH_DUEL_INTERACTIVE"`
	Scenario    string        `env:"SKIRMISH_DUEL_SCENARIO"`
	DefendMode  string        `env:"SKIRMISH_DUEL_DEFEND_MODE" envDefault:"momentary"`
	Pace        time.Duration `env:"SKIRMISH_DUEL_PACE"        envDefault:"0s"`
	Locale      string        `env:"SKIRMISH_DUEL_LOCALE"      envDefault:"en-US"`
	MaxRounds   int           `env:"SKIRMISH_DUEL_MAX_ROUNDS"  envDefault:"200"`
}

// Validate checks values that flags and env can both set.
func (c Config) Validate() error {
	if c.Player != "" {
		if _, err := parsePlayerArchetype(c.Player); err != nil {
			return err
		}
	}
	if _, err := engine.ParseDefendMode(c.DefendMode); err != nil {
		return apperrors.Wrap(apperrors.CodeDuelInvalidDefendMode, "defend mode", err)
	}
	if _, ok := i18n.ParseTag(c.Locale); !ok {
		return apperrors.WithMetadata(apperrors.CodeDuelInvalidLocale, "unsupported locale", map[string]string{
			"locale": c.Locale,
		})
	}
	if c.MaxRounds <= 0 {
		return apperrors.WithMetadata(apperrors.CodeDuelInvalidRoundLimit, "max rounds must be positive", map[string]string{
			"max_rounds": strconv.Itoa(c.MaxRounds),
		})
	}
	if c.Pace < 0 {
		return errors.New("pace must not be negative")
	}
	if c.Interactive && c.Scenario != "" {
		return errors.New("interactive and scenario modes are mutually exclusive")
	}
	return nil
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Player, "player", cfg.Player, "player class: warrior, mage, rogue (or 1-3); asked for when interactive and unset")
	fs.StringVar(&cfg.PlayerName, "player-name", cfg.PlayerName, "player display name")
	fs.StringVar(&cfg.EnemyName, "enemy-name", cfg.EnemyName, "enemy display name")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "AI seed (0 picks a random seed)")
	fs.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "read player actions from stdin")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to a scenario lua file")
	fs.StringVar(&cfg.DefendMode, "defend-mode", cfg.DefendMode, "defend behavior: momentary or until_next_turn")
	fs.DurationVar(&cfg.Pace, "pace", cfg.Pace, "pause before each enemy turn")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "output locale (en-US, pt-BR)")
	fs.IntVar(&cfg.MaxRounds, "max-rounds", cfg.MaxRounds, "abort after this many rounds")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run plays one duel. Player actions are read from in when interactive.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(errOut, "", 0)
	tag, _ := i18n.ParseTag(cfg.Locale)
	narrator := narrate.New(out, tag, narrate.WithPace(cfg.Pace))

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceDuel, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		var err error
		if cfg.Scenario != "" {
			err = runScenario(ctx, cfg, narrator, logger)
		} else {
			err = runMatch(ctx, cfg, in, narrator, logger)
		}
		if err != nil {
			return err
		}
		if err := narrator.Err(); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	})
}

func runScenario(ctx context.Context, cfg Config, narrator *narrate.Narrator, logger *log.Logger) error {
	result, err := scenario.RunFile(ctx, scenario.Config{
		Logger:    logger,
		MaxRounds: cfg.MaxRounds,
		Sink:      narrator,
	}, cfg.Scenario)
	if err != nil {
		return err
	}
	logger.Printf("scenario %s: %s wins by %s in %d rounds (seed %d)",
		result.Name, result.Outcome.Winner, result.Outcome.Reason, result.Outcome.Rounds, result.Seed)
	return nil
}

func runMatch(ctx context.Context, cfg Config, in io.Reader, narrator *narrate.Narrator, logger *log.Logger) error {
	var lines <-chan string
	if cfg.Interactive {
		readCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		lines = readLines(readCtx, in)
	}
	arch, err := choosePlayerArchetype(ctx, cfg, lines, narrator, logger)
	if err != nil {
		return err
	}
	mode, err := engine.ParseDefendMode(cfg.DefendMode)
	if err != nil {
		return err
	}
	player, err := combatant.New(cfg.PlayerName, arch)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	enemy, err := combatant.New(cfg.EnemyName, combatant.ArchetypeEnemy)
	if err != nil {
		return fmt.Errorf("enemy: %w", err)
	}
	seed, err := random.ResolveSeed(cfg.Seed)
	if err != nil {
		return err
	}
	rng := random.New(seed)

	playerPolicy := policy.NewRandomAI(rng)
	if cfg.Interactive {
		playerPolicy = policy.NewExternal(promptInput(lines, narrator))
	}

	match, err := engine.NewMatch(engine.Config{
		Player:       player,
		Enemy:        enemy,
		PlayerPolicy: playerPolicy,
		EnemyPolicy:  policy.NewRandomAI(rng),
		Sink:         narrator,
		DefendMode:   mode,
	})
	if err != nil {
		return err
	}
	logger.Printf("match %s: seed %d", match.ID(), seed)

	for !match.Done() {
		if match.CurrentRound() >= cfg.MaxRounds {
			return apperrors.WithMetadata(apperrors.CodeDuelRoundLimitReached, "round limit reached", map[string]string{
				"max_rounds": strconv.Itoa(cfg.MaxRounds),
			})
		}
		if _, err := match.PlayRound(ctx); err != nil {
			return err
		}
		if cfg.Interactive && !match.Done() {
			narrator.Continue()
			if _, err := nextLine(ctx, lines); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
		}
	}
	return nil
}

// choosePlayerArchetype uses the configured class or, when interactive and
// unset, asks for one. Unreadable answers default to Warrior.
func choosePlayerArchetype(ctx context.Context, cfg Config, lines <-chan string, narrator *narrate.Narrator, logger *log.Logger) (combatant.Archetype, error) {
	if cfg.Player != "" {
		return parsePlayerArchetype(cfg.Player)
	}
	if !cfg.Interactive {
		return combatant.ArchetypeWarrior, nil
	}
	narrator.ClassMenu()
	answer, err := nextLine(ctx, lines)
	if err != nil && !errors.Is(err, io.EOF) {
		return combatant.ArchetypeUnspecified, err
	}
	arch, parseErr := parsePlayerArchetype(answer)
	if err != nil || parseErr != nil {
		narrator.ClassFallback()
		logger.Printf("player class %q: defaulting to warrior", answer)
		return combatant.ArchetypeWarrior, nil
	}
	return arch, nil
}

// parsePlayerArchetype accepts only the three playable classes.
func parsePlayerArchetype(value string) (combatant.Archetype, error) {
	arch, err := combatant.ParseArchetype(value)
	if err == nil && arch == combatant.ArchetypeEnemy {
		err = fmt.Errorf("%w: %q is not playable", combatant.ErrUnknownArchetype, value)
	}
	if err != nil {
		return combatant.ArchetypeUnspecified, apperrors.WrapWithMetadata(apperrors.CodeDuelInvalidArchetype, "player class", map[string]string{
			"player": value,
		}, err)
	}
	return arch, nil
}

func promptInput(lines <-chan string, narrator *narrate.Narrator) policy.InputFunc {
	return func(ctx context.Context, view policy.View) (string, error) {
		narrator.Menu(view.Self)
		return nextLine(ctx, lines)
	}
}

// readLines scans in on a goroutine so callers can stop waiting on ctx. The
// channel closes at EOF, or at the next line read after ctx is done. A Scan
// blocked on in does not observe ctx; the goroutine exits only when in
// returns, so callers that need it gone must close in.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	if in == nil {
		close(lines)
		return lines
	}
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func nextLine(ctx context.Context, lines <-chan string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}
