package buildconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLayout_valid(t *testing.T) {
	require.NoError(t, DefaultLayout().Validate())
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *Layout)
		errType error
	}{
		{
			name:    "no entries",
			mutate:  func(l *Layout) { l.Entries = nil },
			errType: ErrNoEntries,
		},
		{
			name:    "duplicate entry",
			mutate:  func(l *Layout) { l.Entries = append(l.Entries, Entry{Name: "main", Path: "src/other.js"}) },
			errType: ErrInvalidLayout,
		},
		{
			name:    "entry name with separator",
			mutate:  func(l *Layout) { l.Entries[0].Name = "js/main" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "absolute pages dir",
			mutate:  func(l *Layout) { l.PagesDir = "/etc" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "output escapes root",
			mutate:  func(l *Layout) { l.OutputDir = "../dist" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "output is root",
			mutate:  func(l *Layout) { l.OutputDir = "./" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "output is source dir",
			mutate:  func(l *Layout) { l.OutputDir = "src" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "output inside source dir",
			mutate:  func(l *Layout) { l.OutputDir = "src/dist" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "output is pages dir",
			mutate:  func(l *Layout) { l.OutputDir = "src/pug/pages" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "output contains source dir",
			mutate:  func(l *Layout) { l.SourceDir = "site/src"; l.OutputDir = "site" },
			errType: ErrInvalidLayout,
		},
		{
			name: "output contains entry",
			mutate: func(l *Layout) {
				l.Entries = append(l.Entries, Entry{Name: "vendor", Path: "public/vendor.js"})
				l.OutputDir = "public"
			},
			errType: ErrInvalidLayout,
		},
		{
			name:    "output is resolve dir",
			mutate:  func(l *Layout) { l.OutputDir = "node_modules" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "output inside fonts dir",
			mutate:  func(l *Layout) { l.FontsDir = "fonts"; l.OutputDir = "fonts/out" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "template ext without dot",
			mutate:  func(l *Layout) { l.TemplateExt = "pug" },
			errType: ErrInvalidLayout,
		},
		{
			name:    "font extension with dot",
			mutate:  func(l *Layout) { l.FontExtensions = []string{".woff"} },
			errType: ErrInvalidLayout,
		},
		{
			name:    "port out of range",
			mutate:  func(l *Layout) { l.DevServer.Port = 70000 },
			errType: ErrInvalidLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout()
			tt.mutate(&l)

			err := l.Validate()
			require.ErrorIs(t, err, tt.errType)
			require.True(t, IsLayoutError(err))
		})
	}
}

func TestDecodeLayout(t *testing.T) {
	l, err := DecodeLayout(strings.NewReader(`
output_dir: public
entries:
  - name: app
    path: src/app.js
dev_server:
  port: 3000
`))
	require.NoError(t, err)
	require.Equal(t, "public", l.OutputDir)
	require.Equal(t, []Entry{{Name: "app", Path: "src/app.js"}}, l.Entries)
	require.Equal(t, 3000, l.DevServer.Port)
	// untouched keys keep their defaults
	require.Equal(t, "src/pug/pages", l.PagesDir)
	require.Equal(t, ".pug", l.TemplateExt)
}

func TestDecodeLayout_empty(t *testing.T) {
	l, err := DecodeLayout(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultLayout(), l)
}

func TestDecodeLayout_unknownKey(t *testing.T) {
	_, err := DecodeLayout(strings.NewReader("pages_directory: src/pages\n"))
	require.ErrorIs(t, err, ErrInvalidLayout)
}
