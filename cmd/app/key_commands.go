package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/linkvault/cmd/app/commands"
	"github.com/allisson/linkvault/internal/app"
)

func keyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "create-signing-key",
			Category: "keys",
			Usage:    "Generate the AUTH_SIGNING_KEY both token keys are derived from",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Usage: "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI that wraps the secret (e.g., base64key://, awskms:///alias/...)",
				},
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				return commands.RunCreateSigningKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.Stdout,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			}),
		},
	}
}
