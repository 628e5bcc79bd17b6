package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/piivault/cmd/app/commands"
	"github.com/allisson/piivault/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API, the metrics server and the key refresher",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply database migrations",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "rollback",
					Value: 0,
					Usage: "Roll back this many migrations instead of applying pending ones",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
				return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString, int(cmd.Int("rollback")))
			},
		},
	}
}
