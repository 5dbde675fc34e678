package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"

	"github.com/klauspost/compress/gzip"
)

var compressibleExts = []string{".js", ".css", ".html", ".json", ".svg"}

// precompress writes a .gz sibling for every compressible file.
func precompress(files []string) ([]string, error) {
	var written []string
	for _, path := range files {
		if !slices.Contains(compressibleExts, filepath.Ext(path)) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}

		target := path + ".gz"
		if err := writeFile(target, buf.Bytes()); err != nil {
			return nil, err
		}
		written = append(written, target)
	}
	return written, nil
}
