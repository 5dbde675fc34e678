package assets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/wolfeidau/sitepack/internal/buildconfig"
)

// Manifest maps logical asset names to the files a build emitted.
type Manifest struct {
	BuildID string            `json:"build_id"`
	Mode    string            `json:"mode"`
	Hash    string            `json:"hash,omitempty"`
	Files   map[string]string `json:"files"`
	Pages   map[string]string `json:"pages"`
}

func (p *Pipeline) writeManifest(cfg *buildconfig.BuildConfiguration, res *Result, assets []EntryAssets) (string, error) {
	m := Manifest{
		BuildID: res.BuildID,
		Mode:    cfg.Mode.String(),
		Hash:    cfg.Hash,
		Files:   map[string]string{},
		Pages:   map[string]string{},
	}

	for _, a := range assets {
		for _, s := range a.Scripts {
			m.Files[a.Name+".js"] = s
		}
		for _, s := range a.Styles {
			m.Files[a.Name+".css"] = s
		}
	}

	for _, page := range cfg.Pages {
		base := strings.TrimSuffix(filepath.Base(page.Template), filepath.Ext(page.Template))
		m.Pages[base+".html"] = p.config.PublicPath + page.Filename
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}

	target := filepath.Join(cfg.Output.Dir, p.config.ManifestName)
	return target, writeFile(target, data)
}

// ReadManifest loads a manifest written by a previous build.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
