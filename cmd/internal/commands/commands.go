package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"orgadmin/internal/app"
	"orgadmin/internal/config"
	"orgadmin/internal/logger"
	"orgadmin/internal/repository"
)

type Globals struct {
	Debug   bool
	Version string
}

type ServeCmd struct{}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if globals.Debug {
		cfg.LogLevel = "debug"
		cfg.LogPretty = true
	}

	log.Logger = logger.Setup(cfg.LogLevel, cfg.LogPretty)
	log.Info().Str("version", globals.Version).Msg("Starting orgadmin")

	a, err := app.NewApp(ctx, app.WithConfig(cfg), app.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	a.Run()
	return nil
}

type MigrateCmd struct {
	Up   MigrateUpCmd   `cmd:"" help:"Apply all pending migrations."`
	Down MigrateDownCmd `cmd:"" help:"Revert all migrations, dropping every table."`
}

type MigrateUpCmd struct{}

func (m *MigrateUpCmd) Run(ctx context.Context, globals *Globals) error {
	return migrate(ctx, globals, (*repository.Repository).MigrateUp)
}

type MigrateDownCmd struct{}

func (m *MigrateDownCmd) Run(ctx context.Context, globals *Globals) error {
	return migrate(ctx, globals, (*repository.Repository).MigrateDown)
}

func migrate(ctx context.Context, globals *Globals, step func(*repository.Repository) error) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log.Logger = logger.Setup(cfg.LogLevel, cfg.LogPretty || globals.Debug)

	pgCfg := cfg.PostgresConfig
	pgCfg.AutoMigrateUp = false
	pgCfg.AutoMigrateDown = false

	repo, err := repository.NewRepository(ctx, nil, &pgCfg)
	if err != nil {
		return fmt.Errorf("commands.migrate: %w", err)
	}
	defer repo.Close()

	err = step(repo)
	if err != nil {
		return fmt.Errorf("commands.migrate: %w", err)
	}

	log.Info().Msg("Migrations applied")
	return nil
}
