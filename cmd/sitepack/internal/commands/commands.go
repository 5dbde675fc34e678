package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/sitepack/internal/buildconfig"
)

type Globals struct {
	Debug   bool
	Version string
	Root    string
	Config  string
	Mode    string
}

// layout returns the project layout, read from the config file when one is set.
func (g *Globals) layout() (buildconfig.Layout, error) {
	if g.Config == "" {
		return buildconfig.DefaultLayout(), nil
	}
	l, err := buildconfig.LoadLayout(g.Config)
	if err != nil {
		return buildconfig.Layout{}, fmt.Errorf("failed to load layout %s: %w", g.Config, err)
	}
	return l, nil
}

// assemble builds a fresh configuration from the current state of the project.
func (g *Globals) assemble() (*buildconfig.BuildConfiguration, error) {
	layout, err := g.layout()
	if err != nil {
		return nil, err
	}
	return buildconfig.Assemble(buildconfig.ParseMode(g.Mode), g.Root, layout)
}

func logConfiguration(log zerolog.Logger, cfg *buildconfig.BuildConfiguration) {
	log.Debug().
		Str("mode", cfg.Mode.String()).
		Str("hash", cfg.Hash).
		Str("output", cfg.Output.Dir).
		Int("entries", len(cfg.Entries)).
		Int("pages", len(cfg.Pages)).
		Bool("minify", !cfg.Optimizer.Empty()).
		Msg("Assembled build configuration")
}
