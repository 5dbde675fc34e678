package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/wolfeidau/sitepack/internal/buildconfig"
)

// ErrBundle is returned when esbuild reports errors.
var ErrBundle = errors.New("esbuild failed with errors")

// Build runs every step of the configured build: clean, bundle, fonts, pages,
// manifest and optional precompression. Steps run in order and the first
// failure aborts the build.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := time.Now()
	cfg := p.build
	res := &Result{BuildID: uuid.NewString()}

	log := p.log.With().Str("build_id", res.BuildID).Str("mode", cfg.Mode.String()).Logger()
	log.Info().Str("root", cfg.Root).Int("pages", len(cfg.Pages)).Msg("Building site")

	if cfg.Clean {
		if err := cleanDir(cfg.Output.Dir); err != nil {
			return nil, fmt.Errorf("failed to clean output directory: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, assets, err := p.bundle(cfg)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, files...)
	p.assets = assets

	fonts, err := copyFonts(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to copy fonts: %w", err)
	}
	res.Files = append(res.Files, fonts...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, page := range cfg.Pages {
		out, err := p.renderPage(cfg, page, assets)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", filepath.Base(page.Template), err)
		}
		log.Debug().Str("page", out).Msg("Wrote page")
		res.Pages = append(res.Pages, out)
	}
	res.Files = append(res.Files, res.Pages...)

	manifest, err := p.writeManifest(cfg, res, assets)
	if err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	res.Files = append(res.Files, manifest)

	if p.config.Precompress && cfg.Mode.IsProd() {
		compressed, err := precompress(res.Files)
		if err != nil {
			return nil, fmt.Errorf("failed to precompress outputs: %w", err)
		}
		res.Files = append(res.Files, compressed...)
	}

	res.Duration = time.Since(started)
	log.Info().Int("files", len(res.Files)).Dur("duration", res.Duration).Msg("Build complete")

	return res, nil
}

func (p *Pipeline) bundle(cfg *buildconfig.BuildConfiguration) ([]string, []EntryAssets, error) {
	entryPoints := make([]api.EntryPoint, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		entryPoints = append(entryPoints, api.EntryPoint{InputPath: e.Path, OutputPath: e.Name})
	}

	p.log.Info().Int("entrypoints", len(entryPoints)).Msg("Bundling entry points")

	plugins := []api.Plugin{xmlPlugin(), p.sass.plugin()}
	if rule, ok := cfg.Rule(buildconfig.RuleFonts); ok {
		plugins = append([]api.Plugin{fontPlugin(rule)}, plugins...)
	}

	minifyJS := cfg.Optimizer.Enabled(buildconfig.JSMinifier)

	result := api.Build(api.BuildOptions{
		EntryPointsAdvanced: entryPoints,
		AbsWorkingDir:       cfg.Root,
		Bundle:              true,
		Write:               false,
		Outdir:              cfg.Output.Dir,
		Format:              api.FormatIIFE,
		NodePaths:           cfg.ResolveDirs,
		Loader:              loaders(cfg),
		AssetNames:          "[hash]",
		PublicPath:          p.config.PublicPath,
		Plugins:             plugins,
		MinifyWhitespace:    minifyJS,
		MinifyIdentifiers:   minifyJS,
		MinifySyntax:        minifyJS,
		Sourcemap:           cond(cfg.Mode.IsDev(), api.SourceMapLinked, api.SourceMapNone),
		Define:              map[string]string{"process.env.NODE_ENV": `"` + cfg.Mode.String() + `"`},
		LogLevel:            api.LogLevelSilent,
		Metafile:            true,
	})

	for _, msg := range result.Warnings {
		p.log.Warn().Str("warning", formatMessage(msg)).Msg("Build warning")
	}
	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			p.log.Error().Str("error", formatMessage(msg)).Msg("Build error")
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrBundle, formatMessage(result.Errors[0]))
	}

	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return nil, nil, err
	}

	renames, assets := p.outputNames(cfg, &metadata)

	var minifier *minify.M
	if cfg.Optimizer.Enabled(buildconfig.CSSMinifier) {
		minifier = minify.New()
		minifier.AddFunc("text/css", css.Minify)
	}

	written := make([]string, 0, len(result.OutputFiles))
	for _, file := range result.OutputFiles {
		target := file.Path
		if name, ok := renames[file.Path]; ok {
			target = filepath.Join(cfg.Output.Dir, name)
		}

		contents := file.Contents
		if minifier != nil && strings.EqualFold(filepath.Ext(target), ".css") {
			minified, err := minifier.Bytes("text/css", contents)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to minify %s: %w", filepath.Base(target), err)
			}
			contents = minified
		}

		if err := writeFile(target, contents); err != nil {
			return nil, nil, err
		}
		p.log.Debug().Str("file", target).Msg("Built file")
		written = append(written, target)
	}

	return written, assets, nil
}

// outputNames maps esbuild output paths to policy filenames and collects the
// public URLs per entry. Entries are matched through the metafile's
// entryPoint and cssBundle fields.
func (p *Pipeline) outputNames(cfg *buildconfig.BuildConfiguration, metadata *BuildMetadata) (map[string]string, []EntryAssets) {
	renames := map[string]string{}
	assets := make([]EntryAssets, 0, len(cfg.Entries))

	for _, e := range cfg.Entries {
		entry := EntryAssets{Name: e.Name}

		for outputPath, info := range metadata.Outputs {
			if info.EntryPoint == "" || !samePath(cfg.Root, info.EntryPoint, e.Path) {
				continue
			}

			script := cfg.Filename(e.Name, "js")
			renames[filepath.Join(cfg.Root, outputPath)] = script
			entry.Scripts = append(entry.Scripts, p.config.PublicPath+script)

			if info.CSSBundle != "" {
				style := cfg.Filename(e.Name, "css")
				renames[filepath.Join(cfg.Root, info.CSSBundle)] = style
				entry.Styles = append(entry.Styles, p.config.PublicPath+style)
			}
		}

		assets = append(assets, entry)
	}

	return renames, assets
}

func samePath(root, metaPath, absPath string) bool {
	if !filepath.IsAbs(metaPath) {
		metaPath = filepath.Join(root, metaPath)
	}
	return filepath.Clean(metaPath) == filepath.Clean(absPath)
}

func loaders(cfg *buildconfig.BuildConfiguration) map[string]api.Loader {
	l := map[string]api.Loader{
		".js":  api.LoaderJS,
		".css": api.LoaderCSS,
	}
	for _, name := range []buildconfig.RuleName{buildconfig.RuleImages, buildconfig.RuleFonts} {
		rule, ok := cfg.Rule(name)
		if !ok {
			continue
		}
		for _, ext := range rule.Extensions {
			l["."+ext] = api.LoaderFile
		}
	}
	return l
}

func formatMessage(msg api.Message) string {
	if msg.Location == nil {
		return msg.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec
}

// htmlMinifier collapses whitespace while keeping the document structure intact.
func htmlMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc("text/css", css.Minify)
	return m
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
