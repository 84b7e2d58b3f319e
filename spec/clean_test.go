package spec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hesusruiz/specmark/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// renderBody parses src, applies fn and renders the children of body.
func renderBody(t *testing.T, src string, fn func(*html.Node)) string {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	body := dom.Body(root)
	require.NotNil(t, body)

	fn(body)

	var out bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&out, c))
	}
	return out.String()
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		src  string
		fn   func(*html.Node)
		want string
	}{
		{
			name: "author h1 replaces the title",
			src:  `<h1 id="title">Generated</h1><p>x</p><h1>Mine</h1>`,
			fn:   correctH1,
			want: `<h1>Mine</h1><p>x</p>`,
		},
		{
			name: "single h1 stays",
			src:  `<h1 id="title">Generated</h1><p>x</p>`,
			fn:   correctH1,
			want: `<h1 id="title">Generated</h1><p>x</p>`,
		},
		{
			name: "dt paragraph unwrapped",
			src:  `<dl><dt data-md><p>term</p></dt><dt><p>kept</p></dt></dl>`,
			fn:   cleanDefinitionTerms,
			want: `<dl><dt data-md="">term</dt><dt><p>kept</p></dt></dl>`,
		},
		{
			name: "dt with more than a paragraph",
			src:  `<dl><dt data-md><p>a</p><p>b</p></dt></dl>`,
			fn:   cleanDefinitionTerms,
			want: `<dl><dt data-md=""><p>a</p><p>b</p></dt></dl>`,
		},
		{
			name: "html list absorbs markdown list",
			src:  `<ul class="x"><ul data-md><li>a</li><li>b</li></ul></ul>`,
			fn:   mergeLists,
			want: `<ul class="x"><li>a</li><li>b</li></ul>`,
		},
		{
			name: "start moves to the outer list",
			src:  `<ol><ol data-md start="3"><li>a</li></ol></ol>`,
			fn:   mergeLists,
			want: `<ol start="3"><li>a</li></ol>`,
		},
		{
			name: "different kinds are not merged",
			src:  `<ol><ul data-md><li>a</li></ul></ol>`,
			fn:   mergeLists,
			want: `<ol><ul><li>a</li></ul></ol>`,
		},
		{
			name: "markdown list loses the marker",
			src:  `<ul data-md><li>a</li></ul>`,
			fn:   mergeLists,
			want: `<ul><li>a</li></ul>`,
		},
		{
			name: "properties get the css class",
			src:  `<p><dfn data-dfn-type="property">color</dfn><a data-link-type="property">color</a><dfn data-dfn-type="dfn">x</dfn></p>`,
			fn:   markProperties,
			want: `<p><dfn data-dfn-type="property" class="css">color</dfn><a data-link-type="property" class="css">color</a><dfn data-dfn-type="dfn">x</dfn></p>`,
		},
		{
			name: "headings are settled",
			src:  `<h1>T</h1><h2>A</h2><h3 class="no-num">B</h3>`,
			fn:   markHeadings,
			want: `<h1>T</h1><h2 class="heading settled">A</h2><h3 class="no-num heading settled">B</h3>`,
		},
		{
			name: "apostrophes",
			src:  `<p>it's the user's a'b'c</p>`,
			fn:   fixTypography,
			want: `<p>it’s the user’s a’b’c</p>`,
		},
		{
			name: "quotes are left alone",
			src:  `<p>say 'hi'</p>`,
			fn:   fixTypography,
			want: `<p>say &#39;hi&#39;</p>`,
		},
		{
			name: "code keeps its apostrophes",
			src:  `<pre>don't</pre><p><code>can't</code> won't</p>`,
			fn:   fixTypography,
			want: `<pre>don&#39;t</pre><p><code>can&#39;t</code> won’t</p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderBody(t, tt.src, tt.fn))
		})
	}
}
