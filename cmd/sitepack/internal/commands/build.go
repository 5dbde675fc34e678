package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/sitepack/internal/assets"
	"github.com/wolfeidau/sitepack/internal/logger"
)

// BuildCmd builds the site once.
type BuildCmd struct {
	Precompress bool   `help:"Write gzip copies of text outputs in production builds" default:"false" env:"SITEPACK_PRECOMPRESS"`
	SassBinary  string `help:"Dart Sass binary used for .scss/.sass sources" default:"" env:"SITEPACK_SASS_BINARY"`
	PublicPath  string `help:"URL prefix the output directory is served under" default:"/"`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	cfg, err := globals.assemble()
	if err != nil {
		return fmt.Errorf("failed to assemble build configuration: %w", err)
	}
	logConfiguration(log, cfg)

	config := assets.DefaultConfig()
	config.Precompress = c.Precompress
	config.SassBinary = c.SassBinary
	config.PublicPath = c.PublicPath

	pipeline := assets.New(cfg, config, log)
	defer func() {
		if err := pipeline.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop sass compiler")
		}
	}()

	res, err := pipeline.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	log.Info().Str("build_id", res.BuildID).Int("pages", len(res.Pages)).Str("output", cfg.Output.Dir).Msg("Site built")
	return nil
}
