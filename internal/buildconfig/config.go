package buildconfig

import (
	"fmt"
	"path/filepath"
)

// DevServer holds the development server parameters.
type DevServer struct {
	ContentBase string `json:"content_base" yaml:"content_base"`
	Port        int    `json:"port" yaml:"port"`
	Hot         bool   `json:"hot" yaml:"hot"`
}

// Output names where bundles are written and how they are named.
type Output struct {
	Dir     string `json:"dir" yaml:"dir"`
	Scripts string `json:"scripts" yaml:"scripts"`
	Styles  string `json:"styles" yaml:"styles"`
}

// BuildConfiguration is the complete, immutable description of one build pass.
type BuildConfiguration struct {
	Mode        Mode              `json:"mode" yaml:"mode"`
	Root        string            `json:"root" yaml:"root"`
	Hash        string            `json:"hash,omitempty" yaml:"hash,omitempty"`
	Entries     []Entry           `json:"entries" yaml:"entries"`
	Output      Output            `json:"output" yaml:"output"`
	ResolveDirs []string          `json:"resolve_dirs" yaml:"resolve_dirs"`
	FontsDir    string            `json:"fonts_dir" yaml:"fonts_dir"`
	Pages       []PageDirective   `json:"pages" yaml:"pages"`
	Rules       []AssetRule       `json:"rules" yaml:"rules"`
	Optimizer   OptimizerSettings `json:"optimizer" yaml:"optimizer"`
	DevServer   DevServer         `json:"dev_server" yaml:"dev_server"`
	Clean       bool              `json:"clean" yaml:"clean"`

	policy FilenamePolicy
}

// Filename applies the configuration's naming policy.
func (c *BuildConfiguration) Filename(name, ext string) string {
	return c.policy.Filename(name, ext)
}

// Rule returns the named asset rule.
func (c *BuildConfiguration) Rule(name RuleName) (AssetRule, bool) {
	for _, r := range c.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return AssetRule{}, false
}

// Assemble builds a fresh configuration for the project at root. The pages
// directory is scanned on every call, and in production the source and resolve
// trees are digested for the compilation hash. Filesystem errors are returned as is.
func Assemble(mode Mode, root string, layout Layout) (*BuildConfiguration, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var hash string
	if mode.IsProd() {
		hash, err = CompilationHash(mode, root, layout)
		if err != nil {
			return nil, fmt.Errorf("failed to compute compilation hash: %w", err)
		}
	}

	policy := NewFilenamePolicy(mode, hash)

	pages, err := ScanPages(filepath.Join(root, layout.PagesDir), layout.TemplateExt, mode, policy)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(layout.Entries))
	for _, e := range layout.Entries {
		entries = append(entries, Entry{Name: e.Name, Path: filepath.Join(root, e.Path)})
	}

	resolveDirs := make([]string, 0, len(layout.ResolveDirs))
	for _, dir := range layout.ResolveDirs {
		resolveDirs = append(resolveDirs, filepath.Join(root, dir))
	}

	outDir := filepath.Join(root, layout.OutputDir)

	return &BuildConfiguration{
		Mode:    mode,
		Root:    root,
		Hash:    hash,
		Entries: entries,
		Output: Output{
			Dir:     outDir,
			Scripts: policy.Filename("[name]", "js"),
			Styles:  policy.Filename("[name]", "css"),
		},
		ResolveDirs: resolveDirs,
		FontsDir:    filepath.Join(root, layout.FontsDir),
		Pages:       pages,
		Rules:       assembleRules(root, layout, mode, policy),
		Optimizer:   SelectOptimizers(mode),
		DevServer: DevServer{
			ContentBase: outDir,
			Port:        layout.DevServer.Port,
			Hot:         mode.IsDev(),
		},
		Clean:  true,
		policy: policy,
	}, nil
}
