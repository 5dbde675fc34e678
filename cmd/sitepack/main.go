package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/sitepack/cmd/sitepack/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool   `help:"Enable debug mode."`
		Root    string `help:"Project root directory." default:"." type:"existingdir"`
		Config  string `help:"Project layout file (YAML)." type:"path" env:"SITEPACK_CONFIG"`
		Mode    string `help:"Build mode, only 'development' enables development behaviour." env:"NODE_ENV"`
		Version kong.VersionFlag

		Build   commands.BuildCmd   `cmd:"" help:"Build the site once"`
		Serve   commands.ServeCmd   `cmd:"" help:"Build the site and serve the output directory"`
		Inspect commands.InspectCmd `cmd:"" help:"Print the assembled build configuration"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("sitepack"),
		kong.Description("Build a multi-page site from pug templates, scripts and styles."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:   cli.Debug,
		Version: version,
		Root:    cli.Root,
		Config:  cli.Config,
		Mode:    cli.Mode,
	})
	cmd.FatalIfErrorf(err)
}
