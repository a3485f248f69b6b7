// Package scenario parses scenario command flags and runs duel scripts.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
	"github.com/louisbranch/skirmish/internal/services/duel/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string        `env:"SKIRMISH_SCENARIO_FILE"`
	Assertions bool          `env:"SKIRMISH_SCENARIO_ASSERT"     envDefault:"true"`
	Verbose    bool          `env:"SKIRMISH_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"SKIRMISH_SCENARIO_TIMEOUT"    envDefault:"10s"`
	MaxRounds  int           `env:"SKIRMISH_SCENARIO_MAX_ROUNDS" envDefault:"200"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to a scenario lua file or a directory of them")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per scenario")
	fs.IntVar(&cfg.MaxRounds, "max-rounds", cfg.MaxRounds, "round limit for scenarios that set none")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes every scenario under cfg.Scenario and prints one line each.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}
	paths, err := scenarioPaths(cfg.Scenario)
	if err != nil {
		return err
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}
	logger := log.New(errOut, "", 0)
	runCfg := scenario.Config{
		Assertions: mode,
		Verbose:    cfg.Verbose,
		Logger:     logger,
		MaxRounds:  cfg.MaxRounds,
	}

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceScenario, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		failed := 0
		for _, path := range paths {
			if err := runOne(ctx, runCfg, cfg.Timeout, path, out); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, len(paths))
		}
		return nil
	})
}

func runOne(ctx context.Context, cfg scenario.Config, timeout time.Duration, path string, out io.Writer) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	result, err := scenario.RunFile(ctx, cfg, path)
	if err != nil {
		fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
		return err
	}
	fmt.Fprintf(out, "ok   %s: %s wins by %s in %d rounds (seed %d, %s)\n",
		result.Name, result.Outcome.Winner, result.Outcome.Reason, result.Outcome.Rounds, result.Seed,
		time.Since(start).Round(time.Millisecond))
	return nil
}

// scenarioPaths expands a directory into its sorted *.lua files.
func scenarioPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat scenario: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	paths, err := filepath.Glob(filepath.Join(path, "*.lua"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", path)
	}
	sort.Strings(paths)
	return paths, nil
}
