package highlight

import (
	"strings"
	"testing"

	"github.com/hesusruiz/specmark/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{class: "language-go", want: "go"},
		{class: "example language-json", want: "json"},
		{class: "example", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			pre := dom.NewElement("pre", "class", tt.class)
			assert.Equal(t, tt.want, Language(pre))
		})
	}
}

func TestHighlight(t *testing.T) {
	src := `<pre class="language-go">func main() { x := "&lt;b&gt;" }</pre>` +
		`<pre class="language-d2">a -&gt; b</pre>` +
		`<pre>plain</pre>`
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	body := dom.Body(doc)

	require.NoError(t, New("github").Highlight(body, "d2"))

	wrappers := dom.Select(body, "div.codecolor")
	require.Len(t, wrappers, 1)

	pre := dom.SelectFirst(wrappers[0], "pre")
	require.NotNil(t, pre)
	assert.True(t, dom.HasClass(pre, "precolor"))
	assert.NotEmpty(t, dom.Select(pre, "span"))
	// Highlighting must not change the text
	assert.Equal(t, `func main() { x := "<b>" }`, dom.TextContent(pre))

	d2 := dom.SelectFirst(body, "pre.language-d2")
	require.NotNil(t, d2)
	assert.Empty(t, dom.Select(d2, "span"))
	assert.Equal(t, "a -> b", dom.TextContent(d2))
}

func TestCodeUnknownLanguage(t *testing.T) {
	out, err := New("no-such-style").Code("no-such-language", "some text")
	require.NoError(t, err)

	nodes, err := html.ParseFragment(strings.NewReader(out), dom.NewElement("pre"))
	require.NoError(t, err)
	var text strings.Builder
	for _, n := range nodes {
		text.WriteString(dom.TextContent(n))
	}
	assert.Equal(t, "some text", strings.TrimSpace(text.String()))
}
