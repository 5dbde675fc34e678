package buildconfig

import (
	"io/fs"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilenamePolicy_development(t *testing.T) {
	p := NewFilenamePolicy(Development, "0123abcd")

	require.Equal(t, "main.js", p.Filename("main", "js"))
	require.Equal(t, "[name].css", p.Filename("[name]", "css"))
	require.Equal(t, "index.html", p.Filename("index", "html"))
}

func TestFilenamePolicy_production(t *testing.T) {
	root := writeProject(t, "index.pug")
	hash, err := CompilationHash(Production, root, DefaultLayout())
	require.NoError(t, err)

	p := NewFilenamePolicy(Production, hash)

	require.Regexp(t, regexp.MustCompile(`^main\.[0-9a-f]+\.js$`), p.Filename("main", "js"))
	require.Equal(t, "main."+hash+".js", p.Filename("main", "js"))
	require.Equal(t, "about."+hash+".html", p.Filename("about", "html"))
}

func TestCompilationHash(t *testing.T) {
	root := writeProject(t, "index.pug")

	first, err := CompilationHash(Production, root, DefaultLayout())
	require.NoError(t, err)
	require.Len(t, first, 16)

	second, err := CompilationHash(Production, root, DefaultLayout())
	require.NoError(t, err)
	require.Equal(t, first, second)

	other := writeProject(t, "index.pug", "about.pug")
	changed, err := CompilationHash(Production, other, DefaultLayout())
	require.NoError(t, err)
	require.NotEqual(t, first, changed)
}

func TestCompilationHash_inputs(t *testing.T) {
	tests := []struct {
		name   string
		change func(t *testing.T, root string, l *Layout, mode *Mode)
	}{
		{
			name: "node module content",
			change: func(t *testing.T, root string, _ *Layout, _ *Mode) {
				writeFile(t, root, "node_modules/lib/index.js", "module.exports = 'v2'\n")
			},
		},
		{
			name: "new node module",
			change: func(t *testing.T, root string, _ *Layout, _ *Mode) {
				writeFile(t, root, "node_modules/other/index.js", "module.exports = 1\n")
			},
		},
		{
			name: "extra resolve dir",
			change: func(t *testing.T, root string, l *Layout, _ *Mode) {
				writeFile(t, root, "vendor/lib.js", "export default 1\n")
				l.ResolveDirs = append(l.ResolveDirs, "vendor")
			},
		},
		{
			name: "layout",
			change: func(_ *testing.T, _ string, l *Layout, _ *Mode) {
				l.FontExtensions = []string{"woff2"}
			},
		},
		{
			name: "mode",
			change: func(_ *testing.T, _ string, _ *Layout, mode *Mode) {
				*mode = Development
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeProject(t, "index.pug")
			writeFile(t, root, "node_modules/lib/index.js", "module.exports = 'v1'\n")

			layout, mode := DefaultLayout(), Production
			before, err := CompilationHash(mode, root, layout)
			require.NoError(t, err)

			tt.change(t, root, &layout, &mode)

			after, err := CompilationHash(mode, root, layout)
			require.NoError(t, err)
			require.NotEqual(t, before, after)
		})
	}
}

func TestCompilationHash_missingResolveDir(t *testing.T) {
	root := writeProject(t, "index.pug")

	layout := DefaultLayout()
	layout.ResolveDirs = append(layout.ResolveDirs, "vendor")

	_, err := CompilationHash(Production, root, layout)
	require.NoError(t, err)
}

func TestCompilationHash_missingSourceDir(t *testing.T) {
	_, err := CompilationHash(Production, t.TempDir(), DefaultLayout())
	require.ErrorIs(t, err, fs.ErrNotExist)
}
