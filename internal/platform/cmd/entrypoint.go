// Package cmd holds the startup plumbing shared by the skirmish binaries:
// env-then-flag configuration, signal handling and tracing lifetime.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/louisbranch/skirmish/internal/platform/config"
	"github.com/louisbranch/skirmish/internal/platform/otel"
)

const defaultShutdownTimeout = 5 * time.Second

// Service names reported in telemetry resources.
const (
	ServiceDuel     = "duel"
	ServiceScenario = "scenario"
)

// RunOptions tunes RunWithTelemetryAndOptions.
type RunOptions struct {
	// ShutdownTimeout bounds the tracer flush. Defaults to five seconds.
	ShutdownTimeout time.Duration
	// Logger receives flush failures. Defaults to the std logger.
	Logger *log.Logger
}

// ParseConfig loads env defaults into cfg, validating it when cfg
// implements config.Validator.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses args into fs. A nil args slice parses as empty so the
// process arguments are never read implicitly.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag set is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Main parses the process arguments with parse, then calls run under a
// signal-aware context. Failures exit the process through config.
func Main[T any](parse func(*flag.FlagSet, []string) (T, error), run func(context.Context, T) error) {
	cfg, err := parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := SignalContext(context.Background())
	err = run(ctx, cfg)
	stop()
	config.ExitErr(err)
}

// RunWithTelemetry runs fn with tracing configured for service.
func RunWithTelemetry(ctx context.Context, service string, fn func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, fn)
}

// RunWithTelemetryAndOptions runs fn with tracing configured for service and
// flushes the tracer afterwards, even when ctx was cancelled.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, fn func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if fn == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}

	logger := options.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := options.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Printf("%s: flush traces: %v", service, err)
		}
	}()
	return fn(ctx)
}
