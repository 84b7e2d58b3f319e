package diagram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hesusruiz/specmark/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"
)

func TestAssetName(t *testing.T) {
	a := AssetName("d2", "a -> b")
	assert.True(t, strings.HasPrefix(a, "builtassets/d2_"))
	assert.True(t, strings.HasSuffix(a, ".svg"))
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(a, "builtassets/d2_"), ".svg"), 64)

	assert.Equal(t, a, AssetName("d2", "a -> b"))
	assert.NotEqual(t, a, AssetName("d2", "a -> c"))
}

func TestProcess(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<pre class="language-d2" title="Flow">a -&gt; b</pre><pre class="language-go">x</pre>`))
	require.NoError(t, err)
	body := dom.Body(doc)

	dir := t.TempDir()
	calls := 0
	g := NewGenerator(dir, zaptest.NewLogger(t).Sugar())
	g.Render = func(ctx context.Context, src string) ([]byte, error) {
		calls++
		assert.Equal(t, "a -> b", src)
		return []byte("<svg></svg>"), nil
	}

	require.NoError(t, g.Process(context.Background(), body))
	assert.Equal(t, 1, calls)

	img := dom.SelectFirst(body, "figure > img.figureshadow")
	require.NotNil(t, img)
	name := AssetName("d2", "a -> b")
	assert.Equal(t, name, dom.GetAttr(img, "src"))
	assert.Equal(t, "Flow", dom.GetAttr(img, "alt"))
	assert.NotNil(t, dom.SelectFirst(body, "pre.language-go"))

	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(content))

	// A second document with the same diagram reuses the file
	doc, err = html.Parse(strings.NewReader(`<pre class="language-d2">a -&gt; b</pre>`))
	require.NoError(t, err)
	require.NoError(t, g.Process(context.Background(), dom.Body(doc)))
	assert.Equal(t, 1, calls)
}

func TestProcessRenderError(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<pre class="language-d2">a -&gt;</pre>`))
	require.NoError(t, err)

	g := NewGenerator(t.TempDir(), zaptest.NewLogger(t).Sugar())
	boom := errors.New("boom")
	g.Render = func(context.Context, string) ([]byte, error) { return nil, boom }

	err = g.Process(context.Background(), dom.Body(doc))
	assert.ErrorIs(t, err, boom)
}
