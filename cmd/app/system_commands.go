package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/credvault/credvault/cmd/app/commands"
	"github.com/credvault/credvault/internal/app"
	"github.com/credvault/credvault/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "create-company",
			Usage: "Register a company with its first super admin user",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Required: true,
					Usage:    "Company name",
				},
				&cli.StringFlag{
					Name:     "admin-email",
					Required: true,
					Usage:    "Email of the initial super admin user",
				},
				&cli.StringFlag{
					Name:     "admin-name",
					Required: true,
					Usage:    "Display name of the initial super admin user",
				},
				&cli.StringFlag{
					Name:     "password",
					Required: true,
					Usage:    "Password for the initial super admin user",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				authUseCase, err := container.AuthUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateCompany(
					ctx,
					authUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("admin-email"),
					cmd.String("admin-name"),
					cmd.String("password"),
				)
			},
		},
		{
			Name:  "purge-trash",
			Usage: "Permanently delete trash records older than the retention window",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "retention-days",
					Value: 30,
					Usage: "Purge trash records older than this many days",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				trashRepository, err := container.TrashRepository()
				if err != nil {
					return err
				}

				return commands.RunPurgeTrash(
					ctx,
					trashRepository,
					container.Logger(),
					int(cmd.Int("retention-days")),
				)
			},
		},
	}
}
