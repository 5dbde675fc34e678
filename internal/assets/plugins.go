package assets

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/sitepack/internal/buildconfig"
)

// fontPlugin leaves references to files under the fonts rule as external URLs
// below the rule's public path. The files themselves are copied by copyFonts.
func fontPlugin(rule buildconfig.AssetRule) api.Plugin {
	quoted := make([]string, 0, len(rule.Extensions))
	for _, ext := range rule.Extensions {
		quoted = append(quoted, regexp.QuoteMeta(ext))
	}
	filter := `\.(` + strings.Join(quoted, "|") + `)(\?.*)?$`

	return api.Plugin{
		Name: "sitepack-fonts",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: filter}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				path, _, _ := strings.Cut(args.Path, "?")
				if !filepath.IsAbs(path) {
					path = filepath.Join(args.ResolveDir, path)
				}
				if !rule.Matches(path) {
					return api.OnResolveResult{}, nil
				}
				return api.OnResolveResult{
					Path:     rule.PublicPath + filepath.Base(path),
					External: true,
				}, nil
			})
		},
	}
}

// xmlPlugin loads .xml files as JSON modules.
func xmlPlugin() api.Plugin {
	return api.Plugin{
		Name: "sitepack-xml",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `\.xml$`}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				f, err := os.Open(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				defer f.Close()

				doc, err := xmlToJSON(f)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				contents := string(doc)
				return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJSON}, nil
			})
		},
	}
}

// xmlToJSON converts a document to nested objects keyed by element name.
// Attributes are stored under "$", character data under "_" and child
// elements as arrays, so repeated elements keep their order.
func xmlToJSON(r io.Reader) ([]byte, error) {
	type node struct {
		name     string
		fields   map[string]any
		text     strings.Builder
		children map[string][]any
	}

	dec := xml.NewDecoder(r)
	var (
		stack []*node
		root  map[string]any
	)

	finish := func(n *node) any {
		text := strings.TrimSpace(n.text.String())
		if len(n.fields) == 0 && len(n.children) == 0 {
			return text
		}
		obj := map[string]any{}
		if len(n.fields) > 0 {
			obj["$"] = n.fields
		}
		for k, v := range n.children {
			obj[k] = v
		}
		if text != "" {
			obj["_"] = text
		}
		return obj
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, children: map[string][]any{}}
			if len(t.Attr) > 0 {
				n.fields = map[string]any{}
				for _, a := range t.Attr {
					n.fields[a.Name.Local] = a.Value
				}
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			value := finish(n)
			if len(stack) == 0 {
				root = map[string]any{n.name: value}
				continue
			}
			parent := stack[len(stack)-1]
			parent.children[n.name] = append(parent.children[n.name], value)
		}
	}

	if root == nil {
		return nil, errors.New("xml document has no root element")
	}
	return json.Marshal(root)
}
