package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/timetable/scheduler/internal/app/repositories"
	"github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/bootstrap"
	"github.com/timetable/scheduler/internal/config"
	"github.com/timetable/scheduler/internal/db"
	"github.com/timetable/scheduler/internal/pkg/cache"
	"github.com/timetable/scheduler/internal/pkg/logger"
	"github.com/timetable/scheduler/internal/seed"
)

func main() {
	app := &cli.App{
		Name:  "scheduler-admin",
		Usage: "operator tasks for the timetable scheduler",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply pending SQL migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "migrations directory (defaults to database.migrations_dir)"},
				},
				Action: migrate,
			},
			{
				Name:  "create-deo",
				Usage: "create a DEO account unless the username exists",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", EnvVars: []string{"DEO_PASSWORD"}, Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "department"},
				},
				Action: createDEO,
			},
			{
				Name:   "flush-tokens",
				Usage:  "delete expired refresh tokens",
				Action: flushTokens,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func connect() (*config.Config, *pgxpool.Pool, zerolog.Logger, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, nil, lgr, err
	}
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, nil, lgr, err
	}
	return cfg, database.Pool, lgr, nil
}

func migrate(c *cli.Context) error {
	cfg, pool, lgr, err := connect()
	if err != nil {
		return err
	}
	defer pool.Close()

	dir := c.String("dir")
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Minute)
	defer cancel()
	return bootstrap.RunMigrations(ctx, pool, dir, lgr)
}

func createDEO(c *cli.Context) error {
	_, pool, lgr, err := connect()
	if err != nil {
		return err
	}
	defer pool.Close()

	created, err := seed.EnsureDEO(c.Context, pool, seed.DEOAccount{
		Username:   c.String("username"),
		Password:   c.String("password"),
		Email:      c.String("email"),
		Department: c.String("department"),
	}, lgr)
	if err != nil {
		return err
	}
	if !created {
		return errors.New("username already exists")
	}
	fmt.Fprintf(c.App.Writer, "DEO %q created\n", c.String("username"))
	return nil
}

func flushTokens(c *cli.Context) error {
	cfg, pool, lgr, err := connect()
	if err != nil {
		return err
	}
	defer pool.Close()

	authService := services.NewAuthService(
		repositories.NewUserRepository(pool),
		repositories.NewTokenRepository(pool),
		cache.NoopBlacklist{},
		bootstrap.NewJWTService(cfg),
		lgr,
	)

	removed, err := authService.CleanupExpiredTokens(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d expired refresh tokens removed\n", removed)
	return nil
}
