package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bep/godartsass/v2"
	"github.com/evanw/esbuild/pkg/api"
)

// sassCompiler starts Dart Sass on first use and keeps it for later builds.
type sassCompiler struct {
	binary       string
	includePaths []string

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

func newSassCompiler(binary string, includePaths []string) *sassCompiler {
	return &sassCompiler{binary: binary, includePaths: includePaths}
}

func (s *sassCompiler) get() (*godartsass.Transpiler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transpiler != nil {
		return s.transpiler, nil
	}

	t, err := godartsass.Start(godartsass.Options{DartSassEmbeddedFilename: s.binary})
	if err != nil {
		return nil, fmt.Errorf("failed to start dart sass: %w", err)
	}
	s.transpiler = t
	return t, nil
}

func (s *sassCompiler) compile(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	t, err := s.get()
	if err != nil {
		return "", err
	}

	syntax := godartsass.SourceSyntaxSCSS
	if strings.EqualFold(filepath.Ext(path), ".sass") {
		syntax = godartsass.SourceSyntaxSASS
	}

	res, err := t.Execute(godartsass.Args{
		Source:       string(source),
		URL:          "file://" + filepath.ToSlash(path),
		SourceSyntax: syntax,
		OutputStyle:  godartsass.OutputStyleExpanded,
		IncludePaths: append([]string{filepath.Dir(path)}, s.includePaths...),
	})
	if err != nil {
		return "", fmt.Errorf("failed to compile %s: %w", path, err)
	}

	return res.CSS, nil
}

func (s *sassCompiler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transpiler == nil {
		return nil
	}
	err := s.transpiler.Close()
	s.transpiler = nil
	return err
}

// plugin loads .scss and .sass modules as CSS.
func (s *sassCompiler) plugin() api.Plugin {
	return api.Plugin{
		Name: "sitepack-sass",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `\.s[ac]ss$`}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				css, err := s.compile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				return api.OnLoadResult{
					Contents:   &css,
					Loader:     api.LoaderCSS,
					ResolveDir: filepath.Dir(args.Path),
				}, nil
			})
		},
	}
}
