package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpolish/internal/errors"
)

const fixturePage = `<!DOCTYPE html><html><body>
<p>const is a keyword</p>
<pre class="rust item-decl"><code>pub fn process(input: &amp;mut String) -&gt; usize</code></pre>
</body></html>`

// writeFixtureConfig writes a config whose generator is skipped and whose
// docs root is a fresh tree holding one rewritable page. It returns the
// config path and the page path.
func writeFixtureConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	docsRoot := filepath.Join(dir, "doc")
	require.NoError(t, os.MkdirAll(docsRoot, 0o755))

	pagePath := filepath.Join(docsRoot, "index.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(fixturePage), 0o644))

	cfgPath := filepath.Join(dir, "docpolish.yaml")
	cfgYAML := fmt.Sprintf("generator:\n  skip: true\ndocs:\n  root: %q\n", docsRoot)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))
	return cfgPath, pagePath
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, ExitOK},
		{"config", errors.New("config", errors.CategoryConfig, "bad"), ExitConfig},
		{"io", errors.New("walk", errors.CategoryIO, "bad"), ExitIO},
		{"upstream", errors.New("generate", errors.CategoryUpstream, "bad"), ExitUpstream},
		{"internal", errors.New("highlight", errors.CategoryInternal, "bad"), ExitInternal},
		{"unclassified", fmt.Errorf("boom"), ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCode(tt.err))
		})
	}
}

func TestBuildCmdPolishesTree(t *testing.T) {
	cfgPath, pagePath := writeFixtureConfig(t)
	root := &CLI{Config: cfgPath}

	cmd := &BuildCmd{}
	require.NoError(t, cmd.Run(&Global{}, root))

	data, err := os.ReadFile(pagePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<span class="kw">pub fn</span>`)
	assert.Contains(t, string(data), "<p>const is a keyword</p>")
}

func TestBuildCmdMissingConfig(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}

	err := (&BuildCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestBuildCmdRootOverride(t *testing.T) {
	cfgPath, _ := writeFixtureConfig(t)
	override := t.TempDir()
	pagePath := filepath.Join(override, "index.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(fixturePage), 0o644))

	cmd := &BuildCmd{Root: override}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: cfgPath}))

	data, err := os.ReadFile(pagePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<span class="kw">`)
}

func TestCheckCmdDoesNotWrite(t *testing.T) {
	cfgPath, pagePath := writeFixtureConfig(t)

	cmd := &CheckCmd{Quiet: true}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: cfgPath}))

	data, err := os.ReadFile(pagePath)
	require.NoError(t, err)
	assert.Equal(t, fixturePage, string(data), "check must never modify pages")
}

func TestCheckCmdMissingRoot(t *testing.T) {
	cfgPath, _ := writeFixtureConfig(t)

	cmd := &CheckCmd{Root: filepath.Join(t.TempDir(), "absent"), Quiet: true}
	err := cmd.Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Equal(t, ExitIO, ExitCode(err))
}

func TestInitCmdScaffoldsLoadableConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "docpolish.yaml")
	root := &CLI{Config: cfgPath}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))

	// Fails without --force once the file exists.
	err := (&InitCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))

	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))

	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "cargo", cfg.Generator.Command)
}

func TestHistoryCmdRequiresEnabledStore(t *testing.T) {
	cfgPath, _ := writeFixtureConfig(t)

	err := (&HistoryCmd{Limit: 5}).Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestHistoryCmdListsRecordedRuns(t *testing.T) {
	dir := t.TempDir()
	docsRoot := filepath.Join(dir, "doc")
	require.NoError(t, os.MkdirAll(docsRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docsRoot, "index.html"), []byte(fixturePage), 0o644))

	cfgPath := filepath.Join(dir, "docpolish.yaml")
	cfgYAML := fmt.Sprintf("generator:\n  skip: true\ndocs:\n  root: %q\nhistory:\n  enabled: true\n  path: %q\n",
		docsRoot, filepath.Join(dir, "history.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	root := &CLI{Config: cfgPath}
	require.NoError(t, (&BuildCmd{}).Run(&Global{}, root))
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(&Global{}, root))
}
