// Package main is the linkvault command line: the API server plus the operator
// commands that share its configuration.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/linkvault/internal/app"
	"github.com/allisson/linkvault/internal/config"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "linkvault",
		Usage:   "Passwordless sign-in links and per-user file storage",
		Version: version,
		Commands: concat(
			serverCommands(version),
			authCommands(),
			keyCommands(),
		),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func concat(groups ...[]*cli.Command) []*cli.Command {
	var cmds []*cli.Command
	for _, group := range groups {
		cmds = append(cmds, group...)
	}
	return cmds
}

// containerAction wraps run so it receives a container built from the
// environment, shut down once run returns.
func containerAction(
	run func(ctx context.Context, cmd *cli.Command, container *app.Container) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() {
			if err := container.Shutdown(ctx); err != nil {
				container.Logger().Error("failed to shutdown container", slog.Any("error", err))
			}
		}()
		return run(ctx, cmd, container)
	}
}
