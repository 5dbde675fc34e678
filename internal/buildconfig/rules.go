package buildconfig

import (
	"path/filepath"
	"slices"
	"strings"
)

// RuleName identifies an asset transformation rule.
type RuleName string

const (
	RuleStyles RuleName = "styles"
	RuleImages RuleName = "images"
	RuleFonts  RuleName = "fonts"
	RuleData   RuleName = "data"
)

// AssetRule describes how files matched by extension are handled.
type AssetRule struct {
	Name       RuleName `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	// Directories the rule is restricted to, empty means everywhere
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	// Output filename template relative to the output directory
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`
	PublicPath string `json:"public_path,omitempty" yaml:"public_path,omitempty"`
	Hot        bool   `json:"hot,omitempty" yaml:"hot,omitempty"`
}

// Matches reports whether path falls under the rule.
func (r AssetRule) Matches(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !slices.Contains(r.Extensions, strings.ToLower(ext)) {
		return false
	}
	if len(r.Include) == 0 {
		return true
	}
	for _, dir := range r.Include {
		if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

func assembleRules(root string, layout Layout, mode Mode, policy FilenamePolicy) []AssetRule {
	return []AssetRule{
		{
			Name:       RuleStyles,
			Extensions: []string{"css", "scss", "sass"},
			Output:     policy.Filename("[name]", "css"),
			Hot:        mode.IsDev(),
		},
		{
			Name:       RuleImages,
			Extensions: []string{"png", "jpg", "svg", "gif"},
			Output:     "[hash].[ext]",
		},
		{
			Name:       RuleFonts,
			Extensions: slices.Clone(layout.FontExtensions),
			Include:    []string{filepath.Join(root, layout.FontsDir)},
			Output:     "fonts/[name].[ext]",
			PublicPath: "/fonts/",
		},
		{
			Name:       RuleData,
			Extensions: []string{"xml"},
		},
	}
}
