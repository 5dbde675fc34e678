package assets

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wolfeidau/sitepack/internal/buildconfig"
)

// cleanDir empties dir, creating it when missing.
func cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// copyFonts copies the files directly under the fonts directory that match
// the fonts rule into the output fonts directory, keeping their names. A
// missing fonts directory is not an error.
func copyFonts(cfg *buildconfig.BuildConfiguration) ([]string, error) {
	rule, ok := cfg.Rule(buildconfig.RuleFonts)
	if !ok {
		return nil, nil
	}

	entries, err := os.ReadDir(cfg.FontsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	outDir := filepath.Join(cfg.Output.Dir, "fonts")
	var copied []string
	for _, e := range entries {
		src := filepath.Join(cfg.FontsDir, e.Name())
		if !e.Type().IsRegular() || !rule.Matches(src) {
			continue
		}

		dst := filepath.Join(outDir, e.Name())
		if err := copyFile(src, dst); err != nil {
			return nil, err
		}
		copied = append(copied, dst)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
