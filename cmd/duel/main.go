// Package main provides a terminal duel between a player and the Dark Knight.
package main

import (
	"context"
	"os"

	duelcmd "github.com/louisbranch/skirmish/internal/cmd/duel"
	entrypoint "github.com/louisbranch/skirmish/internal/platform/cmd"
)

func main() {
	entrypoint.Main(duelcmd.ParseConfig, func(ctx context.Context, cfg duelcmd.Config) error {
		return duelcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	})
}
