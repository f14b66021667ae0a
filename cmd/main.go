package main

import (
	"context"

	"github.com/alecthomas/kong"

	"orgadmin/cmd/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug logging with human readable output."`
		Version kong.VersionFlag
		Serve   commands.ServeCmd   `cmd:"" default:"1" help:"Start the admin web server (pages + API)."`
		Migrate commands.MigrateCmd `cmd:"" help:"Apply or revert database migrations."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("orgadmin"),
		kong.Description("Administration of B2B organizations and their users."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
