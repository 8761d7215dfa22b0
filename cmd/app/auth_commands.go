package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/linkvault/cmd/app/commands"
	"github.com/allisson/linkvault/internal/app"
)

func authCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "clean-redemptions",
			Category: "sign-in",
			Usage:    "Delete expired entries from the redemption ledger",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:    "older-than",
					Aliases: []string{"o"},
					Usage:   "Only delete entries that expired more than this long ago (e.g., 24h)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Usage:   "Count matching entries without deleting them",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				redemptionUseCase, err := container.RedemptionUseCase()
				if err != nil {
					return err
				}
				return commands.RunCleanRedemptions(
					ctx,
					redemptionUseCase,
					container.Logger(),
					commands.Stdout,
					cmd.Duration("older-than"),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			}),
		},
		{
			Name:      "send-link",
			Category:  "sign-in",
			Usage:     "Mail a sign-in link to an address through the configured mailer",
			ArgsUsage: "--email <address>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Recipient email address",
				},
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				magicLinkUseCase, err := container.MagicLinkUseCase()
				if err != nil {
					return err
				}
				return commands.RunSendLink(
					ctx,
					magicLinkUseCase,
					container.Logger(),
					commands.Stdout,
					cmd.String("email"),
				)
			}),
		},
	}
}
