package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/credvault/credvault/cmd/app/commands"
	"github.com/credvault/credvault/internal/app"
	"github.com/credvault/credvault/internal/config"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a new Master Key for envelope encryption",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Master key ID (e.g., prod-master-key-2025)",
				},
				&cli.StringFlag{
					Name:     "kms-provider",
					Value:    "",
					Required: true,
					Usage:    "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:     "kms-key-uri",
					Value:    "",
					Required: true,
					Usage:    "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterKey(
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
			Name:  "rotate-master-key",
			Usage: "Rotate the Master Key by generating a new key and combining with existing keys",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "New master key ID (e.g., prod-master-key-2026)",
				},
				&cli.StringFlag{
					Name:     "kms-provider",
					Value:    "",
					Required: true,
					Usage:    "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:     "kms-key-uri",
					Value:    "",
					Required: true,
					Usage:    "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunRotateMasterKey(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
					os.Getenv("MASTER_KEYS"),
					os.Getenv("ACTIVE_MASTER_KEY_ID"),
				)
			},
		},
		{
			Name:  "create-kek",
			Usage: "Create a new Key Encryption Key (KEK)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Value:   "aes-gcm",
					Usage:   "Encryption algorithm to use (aes-gcm or chacha20-poly1305)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				kekUseCase, err := container.KekUseCase()
				if err != nil {
					return err
				}

				masterKeyChain, err := container.MasterKeyChain()
				if err != nil {
					return err
				}

				return commands.RunCreateKek(
					ctx,
					kekUseCase,
					masterKeyChain,
					container.Logger(),
					cmd.String("algorithm"),
				)
			},
		},
		{
			Name:  "rotate-kek",
			Usage: "Rotate the Key Encryption Key (KEK)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Value:   "aes-gcm",
					Usage:   "Encryption algorithm to use (aes-gcm or chacha20-poly1305)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				kekUseCase, err := container.KekUseCase()
				if err != nil {
					return err
				}

				masterKeyChain, err := container.MasterKeyChain()
				if err != nil {
					return err
				}

				return commands.RunRotateKek(
					ctx,
					kekUseCase,
					masterKeyChain,
					container.Logger(),
					cmd.String("algorithm"),
				)
			},
		},
		{
			Name:  "rewrap-deks",
			Usage: "Rewrap all DEKs that are not encrypted with a specific KEK",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kek-id",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Target KEK ID to encrypt the DEKs with",
				},
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   100,
					Usage:   "Number of DEKs to process per batch",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				masterKeyChain, err := container.MasterKeyChain()
				if err != nil {
					return err
				}

				kekUseCase, err := container.KekUseCase()
				if err != nil {
					return err
				}

				dekUseCase, err := container.DekUseCase()
				if err != nil {
					return err
				}

				return commands.RunRewrapDeks(
					ctx,
					masterKeyChain,
					kekUseCase,
					dekUseCase,
					container.Logger(),
					cmd.String("kek-id"),
					int(cmd.Int("batch-size")),
				)
			},
		},
	}
}
