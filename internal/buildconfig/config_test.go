package buildconfig

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAssemble_developmentSinglePage(t *testing.T) {
	root := writeProject(t, "index.pug")

	cfg, err := Assemble(Development, root, DefaultLayout())
	require.NoError(t, err)

	want := []PageDirective{{
		Template:         filepath.Join(root, "src/pug/pages/index.pug"),
		Filename:         "index.html",
		MinifyWhitespace: false,
	}}
	if diff := cmp.Diff(want, cfg.Pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}

	require.Empty(t, cfg.Hash)
	require.Equal(t, "main.js", cfg.Filename("main", "js"))
	require.Equal(t, "[name].js", cfg.Output.Scripts)
	require.Equal(t, "[name].css", cfg.Output.Styles)
	require.True(t, cfg.Optimizer.Empty())
	require.True(t, cfg.DevServer.Hot)
	require.Equal(t, 8081, cfg.DevServer.Port)
	require.Equal(t, filepath.Join(root, "dist"), cfg.DevServer.ContentBase)
}

func TestAssemble_productionSinglePage(t *testing.T) {
	root := writeProject(t, "index.pug")

	cfg, err := Assemble(Production, root, DefaultLayout())
	require.NoError(t, err)
	require.Len(t, cfg.Pages, 1)

	page := cfg.Pages[0]
	require.Regexp(t, regexp.MustCompile(`^index\.[0-9a-f]+\.html$`), page.Filename)
	require.True(t, page.MinifyWhitespace)

	require.Regexp(t, regexp.MustCompile(`^main\.[0-9a-f]+\.js$`), cfg.Filename("main", "js"))
	require.False(t, cfg.Optimizer.Empty())
	require.False(t, cfg.DevServer.Hot)
}

func TestAssemble_productionNodeModuleChange(t *testing.T) {
	root := writeProject(t, "index.pug")
	writeFile(t, root, "src/analytics.js", "import lib from 'lib'\nconsole.log(lib)\n")
	writeFile(t, root, "node_modules/lib/index.js", "module.exports = 'v1'\n")

	first, err := Assemble(Production, root, DefaultLayout())
	require.NoError(t, err)

	writeFile(t, root, "node_modules/lib/index.js", "module.exports = 'v2'\n")

	second, err := Assemble(Production, root, DefaultLayout())
	require.NoError(t, err)

	require.NotEqual(t, first.Filename("analytics", "js"), second.Filename("analytics", "js"))
	require.NotEqual(t, first.Pages[0].Filename, second.Pages[0].Filename)
}

func TestAssemble_bareExtensionPage(t *testing.T) {
	root := writeProject(t, ".pug", "index.pug")

	cfg, err := Assemble(Development, root, DefaultLayout())
	require.NoError(t, err)
	require.Len(t, cfg.Pages, 2)
	require.Equal(t, filepath.Join(root, "src/pug/pages/.pug"), cfg.Pages[0].Template)
	require.Equal(t, ".html", cfg.Pages[0].Filename)
	require.Equal(t, "index.html", cfg.Pages[1].Filename)
}

func TestAssemble_filtersTemplateExtension(t *testing.T) {
	root := writeProject(t, "home.pug", "about.pug", "readme.txt")
	require.NoError(t, os.Mkdir(filepath.Join(root, "src/pug/pages/partials.pug"), 0o755))

	for _, mode := range []Mode{Development, Production} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg, err := Assemble(mode, root, DefaultLayout())
			require.NoError(t, err)
			require.Len(t, cfg.Pages, 2)
			require.Equal(t, filepath.Join(root, "src/pug/pages/about.pug"), cfg.Pages[0].Template)
			require.Equal(t, filepath.Join(root, "src/pug/pages/home.pug"), cfg.Pages[1].Template)
		})
	}
}

func TestAssemble_idempotent(t *testing.T) {
	root := writeProject(t, "c.pug", "a.pug", "b.pug")

	for _, mode := range []Mode{Development, Production} {
		first, err := Assemble(mode, root, DefaultLayout())
		require.NoError(t, err)
		second, err := Assemble(mode, root, DefaultLayout())
		require.NoError(t, err)

		if diff := cmp.Diff(first.Pages, second.Pages); diff != "" {
			t.Errorf("%s: pages differ between runs:\n%s", mode, diff)
		}
		require.Equal(t, first.Hash, second.Hash)
	}
}

func TestAssemble_freshScan(t *testing.T) {
	root := writeProject(t, "index.pug")

	cfg, err := Assemble(Development, root, DefaultLayout())
	require.NoError(t, err)
	require.Len(t, cfg.Pages, 1)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src/pug/pages/contact.pug"), []byte("p hi\n"), 0o600))

	cfg, err = Assemble(Development, root, DefaultLayout())
	require.NoError(t, err)
	require.Len(t, cfg.Pages, 2)
}

func TestAssemble_missingPagesDir(t *testing.T) {
	root := writeProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "src/pug/pages")))

	for _, mode := range []Mode{Development, Production} {
		_, err := Assemble(mode, root, DefaultLayout())
		require.ErrorIs(t, err, fs.ErrNotExist)
	}
}

func TestAssemble_invalidLayout(t *testing.T) {
	l := DefaultLayout()
	l.Entries = nil

	_, err := Assemble(Development, t.TempDir(), l)
	require.ErrorIs(t, err, ErrNoEntries)
}

func TestAssemble_rules(t *testing.T) {
	root := writeProject(t, "index.pug")

	cfg, err := Assemble(Development, root, DefaultLayout())
	require.NoError(t, err)

	fonts, ok := cfg.Rule(RuleFonts)
	require.True(t, ok)
	require.Equal(t, "/fonts/", fonts.PublicPath)
	require.True(t, fonts.Matches(filepath.Join(root, "src/assets/fonts/site.woff2")))
	require.False(t, fonts.Matches(filepath.Join(root, "src/images/logo.svg")))
	require.False(t, fonts.Matches(filepath.Join(root, "src/assets/fonts/readme.md")))

	styles, ok := cfg.Rule(RuleStyles)
	require.True(t, ok)
	require.True(t, styles.Hot)
	require.Equal(t, "[name].css", styles.Output)

	images, ok := cfg.Rule(RuleImages)
	require.True(t, ok)
	require.True(t, images.Matches("/anywhere/logo.PNG"))
}
