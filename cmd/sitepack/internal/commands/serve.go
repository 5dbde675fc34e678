package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wolfeidau/sitepack/internal/assets"
	"github.com/wolfeidau/sitepack/internal/devserver"
	"github.com/wolfeidau/sitepack/internal/logger"
)

// ServeCmd builds the site and serves the output directory. In development
// mode it rebuilds on source changes and reloads connected pages.
type ServeCmd struct {
	Host        string        `help:"Host to bind the dev server to" default:"localhost" env:"SITEPACK_HOST"`
	Debounce    time.Duration `help:"Quiet period after a change before rebuilding" default:"100ms"`
	CORSOrigins []string      `help:"Origins allowed to fetch assets cross-origin" env:"SITEPACK_CORS_ORIGINS"`
	SassBinary  string        `help:"Dart Sass binary used for .scss/.sass sources" default:"" env:"SITEPACK_SASS_BINARY"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	layout, err := globals.layout()
	if err != nil {
		return err
	}

	cfg, err := globals.assemble()
	if err != nil {
		return fmt.Errorf("failed to assemble build configuration: %w", err)
	}
	logConfiguration(log, cfg)

	config := assets.DefaultConfig()
	config.SassBinary = c.SassBinary

	pipeline := assets.New(cfg, config, log)
	defer func() {
		if err := pipeline.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop sass compiler")
		}
	}()

	if _, err := pipeline.Build(ctx); err != nil {
		if !cfg.DevServer.Hot {
			return fmt.Errorf("build failed: %w", err)
		}
		log.Error().Err(err).Msg("Initial build failed, waiting for changes")
	}

	// every rebuild starts from a fresh scan of the project
	rebuild := func(ctx context.Context) error {
		next, err := globals.assemble()
		if err != nil {
			return err
		}
		pipeline.Reconfigure(next)
		_, err = pipeline.Build(ctx)
		return err
	}

	srv := devserver.New(cfg.DevServer, devserver.Options{
		Host:        c.Host,
		WatchDir:    filepath.Join(cfg.Root, layout.SourceDir),
		Debounce:    c.Debounce,
		CORSOrigins: c.CORSOrigins,
	}, rebuild, log)

	return srv.Run(ctx)
}
