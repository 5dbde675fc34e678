package buildconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// PageDirective maps one page template to one generated HTML file.
type PageDirective struct {
	Template         string `json:"template" yaml:"template"`
	Filename         string `json:"filename" yaml:"filename"`
	MinifyWhitespace bool   `json:"minify_whitespace" yaml:"minify_whitespace"`
}

// ScanPages lists dir non-recursively and emits a directive for every regular
// file ending in ext, including one named exactly ext, which maps to ".html".
// os.ReadDir sorts by filename, which makes the directive
// order independent of the filesystem's own listing order.
func ScanPages(dir, ext string, mode Mode, policy FilenamePolicy) ([]PageDirective, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	pages := []PageDirective{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ext)

		pages = append(pages, PageDirective{
			Template:         filepath.Join(dir, e.Name()),
			Filename:         policy.Filename(base, "html"),
			MinifyWhitespace: mode.IsProd(),
		})
	}

	return pages, nil
}
