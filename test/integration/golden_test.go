package integration

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpolish/internal/config"
	"git.home.luguber.info/inful/docpolish/internal/pipeline"
	"git.home.luguber.info/inful/docpolish/internal/site"
)

var updateGolden = flag.Bool("update-golden", false, "rewrite the golden tree from the current pipeline output")

// generatedAssets are rebuilt on every run and asserted separately:
// sitemap.xml embeds file modification dates and the stylesheet bytes are
// owned by the site package.
var generatedAssets = map[string]bool{
	site.ThemeFileName: true,
	"robots.txt":       true,
	"CNAME":            true,
	"sitemap.xml":      true,
}

func siteConfig(root string) *config.Config {
	return &config.Config{
		Generator: config.GeneratorConfig{Skip: true, Dir: "."},
		Docs:      config.DocsConfig{Root: root, Suffix: ".html"},
		Highlight: config.HighlightConfig{Workers: 2},
		Site: config.SiteConfig{
			Theme:   true,
			Robots:  config.RobotsAllow,
			BaseURL: "https://docs.example.org",
			Domain:  "docs.example.org",
		},
	}
}

// polishFixture copies the fixture tree into a scratch root and runs a full
// build over it.
func polishFixture(t *testing.T) (string, *pipeline.Report) {
	t.Helper()
	root := t.TempDir()
	copyTree(t, filepath.Join("..", "testdata", "site"), root)

	rep, err := pipeline.Build(t.Context(), siteConfig(root),
		pipeline.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	return root, rep
}

func treeKeys(tree map[string]string) []string {
	out := make([]string, 0, len(tree))
	for rel := range tree {
		out = append(out, rel)
	}
	return out
}

func TestGoldenPolishedTree(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping golden comparison in short mode")
	}

	root, rep := polishFixture(t)

	assert.Equal(t, 6, rep.Pages)
	assert.Equal(t, 5, rep.Rewritten)
	assert.Equal(t, 1, rep.Unchanged)

	got := readTree(t, root)
	for rel := range got {
		if generatedAssets[rel] {
			delete(got, rel)
		}
	}

	goldenDir := filepath.Join("..", "testdata", "golden")
	if *updateGolden {
		require.NoError(t, os.RemoveAll(goldenDir))
		writeTree(t, goldenDir, got)
		t.Logf("golden tree rewritten with %d files", len(got))
		return
	}

	want := readTree(t, goldenDir)
	assert.ElementsMatch(t, treeKeys(want), treeKeys(got))
	for rel, content := range want {
		assert.Equal(t, content, got[rel], "%s diverges from the golden tree", rel)
	}
}

func TestGoldenSecondRunIsStable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping golden comparison in short mode")
	}

	root, _ := polishFixture(t)
	first := readTree(t, root)

	rep, err := pipeline.Build(t.Context(), siteConfig(root),
		pipeline.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Rewritten)
	assert.Equal(t, 6, rep.Unchanged)

	assert.Equal(t, first, readTree(t, root))
}

func TestGoldenGeneratedAssets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping golden comparison in short mode")
	}

	root, rep := polishFixture(t)

	assert.Equal(t, []string{site.ThemeFileName, "robots.txt", "CNAME", "sitemap.xml"}, rep.Assets)

	assert.Equal(t,
		"User-agent: *\nAllow: /\nSitemap: https://docs.example.org/sitemap.xml\n",
		readFile(t, filepath.Join(root, "robots.txt")))

	assert.Equal(t, "docs.example.org\n", readFile(t, filepath.Join(root, "CNAME")))

	assert.Contains(t, readFile(t, filepath.Join(root, site.ThemeFileName)), "span.kw-2")

	sitemap := readFile(t, filepath.Join(root, "sitemap.xml"))
	assert.Contains(t, sitemap, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for _, loc := range []string{
		"<loc>https://docs.example.org/demo/enum.Token.html</loc>",
		"<loc>https://docs.example.org/demo/fn.as_ptr.html</loc>",
		"<loc>https://docs.example.org/demo/fn.process.html</loc>",
		"<loc>https://docs.example.org/demo/index.html</loc>",
		"<loc>https://docs.example.org/demo/struct.Config.html</loc>",
		"<loc>https://docs.example.org/index.html</loc>",
	} {
		assert.Contains(t, sitemap, loc)
	}
	assert.NotContains(t, sitemap, "rustdoc-mock.css")
}
