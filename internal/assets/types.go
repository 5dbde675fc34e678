package assets

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/sitepack/internal/buildconfig"
)

// BuildMetadata is the subset of the esbuild metafile the pipeline reads.
type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	CSSBundle  string       `json:"cssBundle"`
	Imports    []ImportInfo `json:"imports"`
}

type ImportInfo struct {
	Path string `json:"path"`
}

// EntryAssets lists the public URLs emitted for one entry point.
type EntryAssets struct {
	Name    string
	Scripts []string
	Styles  []string
}

// Result summarises a completed build.
type Result struct {
	BuildID  string
	Files    []string
	Pages    []string
	Duration time.Duration
}

// Pipeline executes a build configuration
type Pipeline struct {
	build  *buildconfig.BuildConfiguration
	config Config
	log    zerolog.Logger
	sass   *sassCompiler
	assets []EntryAssets
	mu     sync.Mutex
}

// New creates a new asset pipeline for the given build configuration
func New(build *buildconfig.BuildConfiguration, config Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		build:  build,
		config: config,
		log:    log,
		sass:   newSassCompiler(config.SassBinary, build.ResolveDirs),
	}
}

// Reconfigure swaps the build configuration used by subsequent builds.
func (p *Pipeline) Reconfigure(build *buildconfig.BuildConfiguration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.build = build
	p.sass.includePaths = build.ResolveDirs
}

// Assets returns the outputs of the most recent build, in entry order.
func (p *Pipeline) Assets() []EntryAssets {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]EntryAssets(nil), p.assets...)
}

// Close releases the Sass compiler process if one was started.
func (p *Pipeline) Close() error {
	return p.sass.Close()
}
