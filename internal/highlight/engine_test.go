package highlight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herrors "git.home.luguber.info/inful/docpolish/internal/highlight/errors"
)

func TestApplyFullSequence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "method header gets keywords and operators",
			input: `<h4 class="code-header">pub fn insert(&amp;mut self, key: K) -&gt; Option&lt;V&gt;</h4>`,
			want:  `<h4 class="code-header"><span class="kw">pub fn</span> insert(<span class="kw-2">&amp;</span><span class="kw">mut self</span>, key: K) <span class="kw-2">-&gt;</span> Option&lt;V&gt;</h4>`,
		},
		{
			name:  "receiver fragment",
			input: `(&amp;mut self)`,
			want:  `(<span class="kw-2">&amp;</span><span class="kw">mut self</span>)`,
		},
		{
			name:  "raw pointers in a signature",
			input: `<code>unsafe fn as_ptr(x: *const u8) -&gt; *mut T</code>`,
			want:  `<code><span class="kw">unsafe fn</span> as_ptr(x: <span class="kw-2">*</span><span class="kw">const</span> u8) <span class="kw-2">-&gt;</span> <span class="kw-2">*</span><span class="kw">mut</span> T</code>`,
		},
		{
			name:  "linked path expression",
			input: `<code><a href="struct.Vec.html">Vec</a>::new()</code>`,
			want:  `<code><a href="struct.Vec.html">Vec</a><span class="kw-2">::</span>new()</code>`,
		},
		{
			name:  "where clause container",
			input: `<div class="where">where T: Display,</div>`,
			want:  `<div class="where"><span class="kw">where</span> T: Display,</div>`,
		},
		{
			name:  "prose stays untouched",
			input: `<p>const is a keyword</p>`,
			want:  `<p>const is a keyword</p>`,
		},
		{
			name:  "generator highlighted listing stays untouched",
			input: `<pre class="rust"><span class="kw">fn</span> main() {}</pre>`,
			want:  `<pre class="rust"><span class="kw">fn</span> main() {}</pre>`,
		},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := e.Apply(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestApplyIdempotence feeds every sample through the full sequence twice and
// requires byte-for-byte stability on the second application.
func TestApplyIdempotence(t *testing.T) {
	samples := []string{
		`<h4 class="code-header">pub fn insert(&amp;mut self, key: K) -&gt; Option&lt;V&gt;</h4>`,
		`(&amp;mut self)`,
		`<code>unsafe fn as_ptr(x: *const u8) -&gt; *mut T</code>`,
		`<code><a href="struct.Vec.html">Vec</a>::new()</code>`,
		`<div class="where">where T: Display,</div>`,
		`<code>use self::x;</code>`,
		`<code>a &amp;&amp; b</code>`,
		`<pre class="rust"><span class="kw">fn</span> main() {}</pre>`,
		`<p>const is a keyword</p>`,
		"<code>where\nT: A</code>",
	}

	e := NewEngine()
	for _, sample := range samples {
		once, _ := e.Apply(sample)
		twice, changed := e.Apply(once)
		assert.False(t, changed, "second application reported a change for %q", sample)
		assert.Equal(t, once, twice, "second application altered %q", sample)
	}
}

func TestApplyIdempotenceWithExtraPass(t *testing.T) {
	e := NewEngine()
	p, err := NewExtraPass("todo", `>(TODO):`, "attr")
	require.NoError(t, err)
	e.Add(p)

	input := `<p>TODO: wrap pub fn here: <code>pub fn run()</code></p>`
	once, changed := e.Apply(input)
	require.True(t, changed)
	twice, changed := e.Apply(once)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

// TestPassOrderIsLoadBearing runs the table in reverse on input whose result
// depends on keyword passes preceding the operator pass. Reversed order must
// produce a different, unhighlighted-modifier result.
func TestPassOrderIsLoadBearing(t *testing.T) {
	input := `(&amp;mut self)`

	canonical, _ := NewEngine().Apply(input)

	reversed := &Engine{passes: []*Pass{passWhere, passOperators, passModifiers, passKeywords}}
	got, _ := reversed.Apply(input)

	assert.NotEqual(t, canonical, got)
	assert.Equal(t, `(<span class="kw-2">&amp;</span>mut self)`, got)
	assert.Equal(t, `(<span class="kw-2">&amp;</span><span class="kw">mut self</span>)`, canonical)
}

func TestEnginePassNames(t *testing.T) {
	e := NewEngine()
	p, err := NewExtraPass("todo", `>(TODO):`, "attr")
	require.NoError(t, err)
	e.Add(p)

	assert.Equal(t, []string{"keywords", "modifiers", "operators", "where-clause", "todo"}, e.Passes())
}

func TestRewriteFile(t *testing.T) {
	t.Run("rewrites and reports change", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "page.html")
		require.NoError(t, os.WriteFile(path, []byte(`<code>const x</code>`), 0o644))

		changed, err := NewEngine().RewriteFile(path)
		require.NoError(t, err)
		assert.True(t, changed)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `<code><span class="kw">const</span> x</code>`, string(data))
	})

	t.Run("token free file is left alone", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "plain.html")
		original := `<p>Nothing code-like at all.</p>`
		require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

		changed, err := NewEngine().RewriteFile(path)
		require.NoError(t, err)
		assert.False(t, changed)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, string(data))
	})

	t.Run("missing file surfaces a read error", func(t *testing.T) {
		_, err := NewEngine().RewriteFile(filepath.Join(t.TempDir(), "absent.html"))
		assert.ErrorIs(t, err, herrors.ErrPageReadFailed)
	})
}
