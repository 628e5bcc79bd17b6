package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/piivault/cmd/app/commands"
	"github.com/allisson/piivault/internal/app"
	"github.com/allisson/piivault/internal/config"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-root-key",
			Usage: "Generate a new root key for key version derivation",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Root key ID (e.g., prod-root-key-2026)",
				},
				&cli.StringFlag{
					Name:  "kms-provider",
					Value: "",
					Usage: "KMS provider wrapping the key (localsecrets, gcpkms, awskms, azurekeyvault, hashivault); omit for plaintext",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateRootKey(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "rotate-root-key",
			Usage: "Generate a new root key and append it to ROOT_KEYS as the active one",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "New root key ID (e.g., prod-root-key-2027)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunRotateRootKey(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cfg.KMSProvider,
					cfg.KMSKeyURI,
					cfg.RootKeys,
					cfg.ActiveRootKeyID,
				)
			},
		},
		{
			Name:  "rotate-keys",
			Usage: "Activate a new key version and optionally re-encrypt every stored field",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "reencrypt",
					Value: false,
					Usage: "Re-encrypt every stored field under the new key version",
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

				pii, err := container.PIIService()
				if err != nil {
					return err
				}

				return commands.RunRotateKeys(
					ctx,
					pii,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("reencrypt"),
					batchSize(cmd, cfg),
					cmd.String("format"),
				)
			},
		},
		{
			Name:        "purge-key",
			Usage:       "Delete a retired key version no stored field references",
			Description: "The version must have been retired for at least KEY_REFRESH_INTERVAL_SECONDS so\n" +
				"every running server has switched to the newer version. Run rotate-keys and\n" +
				"backfill first, then purge once the interval has passed.",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "version",
					Required: true,
					Usage:    "Key version to purge",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyManager, err := container.KeyManager()
				if err != nil {
					return err
				}

				return commands.RunPurgeKey(
					ctx,
					keyManager,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("version")),
				)
			},
		},
		{
			Name:  "key-status",
			Usage: "List key versions with their record counts and pending re-encryption",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyManager, err := container.KeyManager()
				if err != nil {
					return err
				}

				store, err := container.FieldStore()
				if err != nil {
					return err
				}

				return commands.RunKeyStatus(
					ctx,
					keyManager,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// batchSize returns the --batch-size flag, falling back to ROTATION_BATCH_SIZE.
func batchSize(cmd *cli.Command, cfg *config.Config) int {
	if size := int(cmd.Int("batch-size")); size > 0 {
		return size
	}
	return cfg.RotationBatchSize
}
