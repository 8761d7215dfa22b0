package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/linkvault/cmd/app/commands"
	"github.com/allisson/linkvault/internal/app"
)

func serverCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:     "server",
			Category: "server",
			Usage:    "Start the API server, the metrics server and the ledger pruner",
			Action: containerAction(func(ctx context.Context, _ *cli.Command, container *app.Container) error {
				return commands.RunServer(ctx, container, version)
			}),
		},
		{
			Name:     "migrate",
			Category: "server",
			Usage:    "Create or upgrade the redemption ledger schema (postgres, mysql, sqlite3)",
			Action: containerAction(func(_ context.Context, _ *cli.Command, container *app.Container) error {
				cfg := container.Config()
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			}),
		},
	}
}
