package assets

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Joker/jade"
	"github.com/wolfeidau/sitepack/internal/buildconfig"
)

// PageData is passed to every page template.
type PageData struct {
	Mode   string
	Dev    bool
	Hash   string
	Page   string
	Assets []EntryAssets
}

// jade keeps parser state in package globals.
var jadeMu sync.Mutex

func compileTemplate(path string) (*template.Template, error) {
	jadeMu.Lock()
	text, err := jade.ParseFile(path)
	jadeMu.Unlock()
	if err != nil {
		return nil, err
	}

	return template.New(filepath.Base(path)).Parse(text)
}

// renderPage compiles one page template, injects the bundle tags and writes
// the result to the directive's filename.
func (p *Pipeline) renderPage(cfg *buildconfig.BuildConfiguration, page buildconfig.PageDirective, assets []EntryAssets) (string, error) {
	tmpl, err := compileTemplate(page.Template)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PageData{
		Mode:   cfg.Mode.String(),
		Dev:    cfg.Mode.IsDev(),
		Hash:   cfg.Hash,
		Page:   page.Filename,
		Assets: assets,
	})
	if err != nil {
		return "", err
	}

	doc := injectTags(buf.String(), headTags(assets), bodyTags(assets, cfg.DevServer.Hot))

	out := []byte(doc)
	if page.MinifyWhitespace {
		out, err = htmlMinifier().Bytes("text/html", out)
		if err != nil {
			return "", fmt.Errorf("failed to minify: %w", err)
		}
	}

	target := filepath.Join(cfg.Output.Dir, page.Filename)
	if err := writeFile(target, out); err != nil {
		return "", err
	}
	return target, nil
}

func headTags(assets []EntryAssets) string {
	var b strings.Builder
	for _, a := range assets {
		for _, href := range a.Styles {
			fmt.Fprintf(&b, `<link href="%s" rel="stylesheet">`, template.HTMLEscapeString(href))
		}
	}
	return b.String()
}

func bodyTags(assets []EntryAssets, hot bool) string {
	var b strings.Builder
	for _, a := range assets {
		for _, src := range a.Scripts {
			fmt.Fprintf(&b, `<script src="%s"></script>`, template.HTMLEscapeString(src))
		}
	}
	if hot {
		fmt.Fprintf(&b, `<script>new EventSource(%q).onmessage=function(){location.reload()}</script>`, ReloadPath)
	}
	return b.String()
}

// injectTags places head before the last </head> and body before the last
// </body>. Documents without those tags get head prepended and body appended.
func injectTags(doc, head, body string) string {
	if head != "" {
		if i := lastIndexFold(doc, "</head>"); i >= 0 {
			doc = doc[:i] + head + doc[i:]
		} else {
			doc = head + doc
		}
	}
	if body != "" {
		if i := lastIndexFold(doc, "</body>"); i >= 0 {
			doc = doc[:i] + body + doc[i:]
		} else {
			doc += body
		}
	}
	return doc
}

func lastIndexFold(s, substr string) int {
	return strings.LastIndex(strings.ToLower(s), substr)
}
