package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/piivault/cmd/app/commands"
	"github.com/allisson/piivault/internal/app"
	"github.com/allisson/piivault/internal/config"
)

func getDataCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "reencrypt",
			Usage: "Move stored fields to the active key version",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "table",
					Aliases: []string{"t"},
					Value:   "",
					Usage:   "Only re-encrypt this table (default: every registered table)",
				},
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   0,
					Usage:   "Rows per transaction (defaults to ROTATION_BATCH_SIZE)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.FieldStore()
				if err != nil {
					return err
				}

				return commands.RunReencrypt(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("table"),
					batchSize(cmd, cfg),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "backfill",
			Usage: "Encrypt a legacy plaintext column into the encrypted columns of a field",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "table",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Registered table (e.g., contacts)",
				},
				&cli.StringFlag{
					Name:     "field",
					Required: true,
					Usage:    "Field to fill (email, phone_number, address, city)",
				},
				&cli.StringFlag{
					Name:  "legacy-column",
					Value: "",
					Usage: "Plaintext source column (default: the column registered for the table)",
				},
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   0,
					Usage:   "Rows per transaction (defaults to ROTATION_BATCH_SIZE)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.FieldStore()
				if err != nil {
					return err
				}

				return commands.RunBackfill(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("table"),
					cmd.String("field"),
					cmd.String("legacy-column"),
					batchSize(cmd, cfg),
					cmd.String("format"),
				)
			},
		},
	}
}
