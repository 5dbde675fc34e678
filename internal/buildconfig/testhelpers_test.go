package buildconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeProject lays out a minimal project under a temp dir with the given page files.
func writeProject(t *testing.T, pages ...string) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"src/index.js":               "import './style.css'\n",
		"src/analytics.js":           "console.log('analytics')\n",
		"src/style.css":              "body { color: red; }\n",
		"src/assets/fonts/site.woff": "font",
	}
	for _, p := range pages {
		files[filepath.Join("src/pug/pages", p)] = "html\n  body\n"
	}

	for name, content := range files {
		writeFile(t, root, name, content)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src/pug/pages"), 0o755))

	return root
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()

	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
