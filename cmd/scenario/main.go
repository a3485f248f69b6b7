// Package main provides a CLI for running Lua duel scenarios.
package main

import (
	"context"
	"os"

	scenariocmd "github.com/louisbranch/skirmish/internal/cmd/scenario"
	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
)

func main() {
	entrypoint.Main(scenariocmd.ParseConfig, func(ctx context.Context, cfg scenariocmd.Config) error {
		return scenariocmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
}
