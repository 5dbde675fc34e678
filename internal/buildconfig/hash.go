package buildconfig

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// CompilationHash digests every input a production build can read: the mode,
// the layout, and the relative path and content of each regular file below
// the source dir and the resolve dirs. Resolve dirs that do not exist are
// skipped, the source dir must exist. WalkDir visits entries in lexical order
// so the result is stable for an unchanged project.
func CompilationHash(mode Mode, root string, layout Layout) (string, error) {
	h := xxhash.New()

	_, _ = h.WriteString(mode.String())
	_, _ = h.Write([]byte{0})

	encoded, err := yaml.Marshal(layout)
	if err != nil {
		return "", fmt.Errorf("failed to encode layout: %w", err)
	}
	_, _ = h.Write(encoded)
	_, _ = h.Write([]byte{0})

	if err := hashTree(h, root, layout.SourceDir); err != nil {
		return "", err
	}

	seen := map[string]bool{filepath.Clean(layout.SourceDir): true}
	for _, dir := range layout.ResolveDirs {
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true

		if _, err := os.Stat(filepath.Join(root, dir)); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := hashTree(h, root, dir); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// hashTree writes each regular file below root/dir as its root-relative path,
// a zero byte and its content.
func hashTree(h hash.Hash64, root, dir string) error {
	return filepath.WalkDir(filepath.Join(root, dir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		_, _ = h.Write([]byte(filepath.ToSlash(rel)))
		_, _ = h.Write([]byte{0})

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(h, f); err != nil {
			return fmt.Errorf("failed to hash %s: %w", rel, err)
		}
		return nil
	})
}
