package buildconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a script designated as a root of the bundle graph.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

type DevServerLayout struct {
	Port int `yaml:"port"`
}

// Layout describes where a project keeps its sources and where output goes.
// All paths are relative to the project root.
type Layout struct {
	// Source root, digested into the production compilation hash
	SourceDir string `yaml:"source_dir"`
	// Scripts bundled into named outputs, in injection order
	Entries []Entry `yaml:"entries"`
	// Output directory, cleaned before each build
	OutputDir string `yaml:"output_dir"`
	// Directory scanned (non-recursively) for page templates
	PagesDir string `yaml:"pages_dir"`
	// Suffix identifying page templates, including the dot
	TemplateExt string `yaml:"template_ext"`
	// Font sources copied verbatim into OutputDir/fonts
	FontsDir       string   `yaml:"fonts_dir"`
	FontExtensions []string `yaml:"font_extensions"`
	// Roots consulted when resolving bare module imports
	ResolveDirs []string        `yaml:"resolve_dirs"`
	DevServer   DevServerLayout `yaml:"dev_server"`
}

// DefaultLayout returns the conventional project layout.
func DefaultLayout() Layout {
	return Layout{
		SourceDir: "src",
		Entries: []Entry{
			{Name: "main", Path: "src/index.js"},
			{Name: "analytics", Path: "src/analytics.js"},
		},
		OutputDir:      "dist",
		PagesDir:       "src/pug/pages",
		TemplateExt:    ".pug",
		FontsDir:       "src/assets/fonts",
		FontExtensions: []string{"woff", "woff2", "ttf", "eot", "svg"},
		ResolveDirs:    []string{"node_modules", "src"},
		DevServer:      DevServerLayout{Port: 8081},
	}
}

// LoadLayout reads a YAML layout file. Keys missing from the file keep their
// default values, unknown keys are rejected.
func LoadLayout(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, err
	}
	defer f.Close()

	return DecodeLayout(f)
}

func DecodeLayout(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, err
	}

	layout := DefaultLayout()
	if len(bytes.TrimSpace(data)) == 0 {
		return layout, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layout); err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}

	return layout, nil
}

// Validate checks the layout for values the build cannot work with.
func (l Layout) Validate() error {
	if len(l.Entries) == 0 {
		return ErrNoEntries
	}

	seen := make(map[string]bool, len(l.Entries))
	for _, e := range l.Entries {
		if e.Name == "" {
			return fmt.Errorf("%w: entry with empty name", ErrInvalidLayout)
		}
		if strings.ContainsAny(e.Name, `/\`) {
			return fmt.Errorf("%w: entry name %q must not contain path separators", ErrInvalidLayout, e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: duplicate entry name %q", ErrInvalidLayout, e.Name)
		}
		seen[e.Name] = true

		if err := validateRelPath("entry "+e.Name, e.Path); err != nil {
			return err
		}
	}

	paths := map[string]string{
		"source_dir": l.SourceDir,
		"output_dir": l.OutputDir,
		"pages_dir":  l.PagesDir,
		"fonts_dir":  l.FontsDir,
	}
	for name, p := range paths {
		if err := validateRelPath(name, p); err != nil {
			return err
		}
	}

	if filepath.Clean(l.OutputDir) == "." {
		return fmt.Errorf("%w: output_dir must not be the project root", ErrInvalidLayout)
	}

	for _, dir := range l.ResolveDirs {
		if err := validateRelPath("resolve_dirs", dir); err != nil {
			return err
		}
	}

	// The output dir is wiped before every build and must not share a tree
	// with anything the build reads.
	inputs := []struct{ name, path string }{
		{"source_dir", l.SourceDir},
		{"pages_dir", l.PagesDir},
		{"fonts_dir", l.FontsDir},
	}
	for _, e := range l.Entries {
		inputs = append(inputs, struct{ name, path string }{"entry " + e.Name, e.Path})
	}
	for _, dir := range l.ResolveDirs {
		inputs = append(inputs, struct{ name, path string }{"resolve_dirs", dir})
	}
	for _, in := range inputs {
		if overlaps(l.OutputDir, in.path) {
			return fmt.Errorf("%w: output_dir %q overlaps %s %q", ErrInvalidLayout, l.OutputDir, in.name, in.path)
		}
	}

	if !strings.HasPrefix(l.TemplateExt, ".") || len(l.TemplateExt) < 2 {
		return fmt.Errorf("%w: template_ext %q must start with a dot", ErrInvalidLayout, l.TemplateExt)
	}

	if len(l.FontExtensions) == 0 {
		return fmt.Errorf("%w: font_extensions must not be empty", ErrInvalidLayout)
	}
	for _, ext := range l.FontExtensions {
		if ext == "" || strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: font extension %q must be non-empty and without a dot", ErrInvalidLayout, ext)
		}
	}

	if l.DevServer.Port < 1 || l.DevServer.Port > 65535 {
		return fmt.Errorf("%w: dev_server port %d out of range", ErrInvalidLayout, l.DevServer.Port)
	}

	return nil
}

// validateRelPath rejects empty, absolute and root-escaping paths.
func validateRelPath(name, p string) error {
	if p == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidLayout, name)
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("%w: %s %q must be relative to the project root", ErrInvalidLayout, name, p)
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s %q escapes the project root", ErrInvalidLayout, name, p)
	}
	return nil
}

// IsLayoutError reports whether err came from layout validation.
func IsLayoutError(err error) bool {
	return errors.Is(err, ErrInvalidLayout) || errors.Is(err, ErrNoEntries)
}

// overlaps reports whether two root-relative paths are equal or one contains
// the other.
func overlaps(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(a, b+sep) || strings.HasPrefix(b, a+sep)
}
