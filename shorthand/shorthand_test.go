package shorthand

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hesusruiz/specmark/config"
	"github.com/hesusruiz/specmark/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func run(t *testing.T, src string, shorthands string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	body := dom.Body(doc)
	require.NotNil(t, body)

	Transform(body, config.ParseShorthands(shorthands))

	var b bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&b, c))
	}
	return b.String()
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "normative biblio",
			src:  `<p>See [[!RFC2119]].</p>`,
			want: `<p>See <a data-link-type="biblio" data-lt="RFC2119" data-biblio-type="normative">[RFC2119]</a>.</p>`,
		},
		{
			name: "informative biblio with text",
			src:  `<p>[[HTML|the HTML standard]]</p>`,
			want: `<p><a data-link-type="biblio" data-lt="HTML" data-biblio-type="informative">the HTML standard</a></p>`,
		},
		{
			name: "biblio status",
			src:  `<p>[[DOM current]]</p>`,
			want: `<p><a data-link-type="biblio" data-lt="DOM" data-biblio-type="informative" data-biblio-status="current">[DOM]</a></p>`,
		},
		{
			name: "escaped biblio",
			src:  `<p>\[[HTML]]</p>`,
			want: `<p>[[HTML]]</p>`,
		},
		{
			name: "dfn link",
			src:  `<p>the [=user agent=] does</p>`,
			want: `<p>the <a data-link-type="dfn" data-lt="user agent">user agent</a> does</p>`,
		},
		{
			name: "dfn link with for",
			src:  `<p>[=url/origin=]</p>`,
			want: `<p><a data-link-type="dfn" data-lt="origin" data-link-for="url">origin</a></p>`,
		},
		{
			name: "dfn link with display text",
			src:  `<p>[=navigate|navigating=]</p>`,
			want: `<p><a data-link-type="dfn" data-lt="navigate">navigating</a></p>`,
		},
		{
			name: "property",
			src:  `<p>The 'color' property</p>`,
			want: `<p>The <a data-link-type="property" data-lt="color">color</a> property</p>`,
		},
		{
			name: "apostrophes are not properties",
			src:  `<p>it's the author's</p>`,
			want: `<p>it&#39;s the author&#39;s</p>`,
		},
		{
			name: "variable",
			src:  `<p>Let |node list| be</p>`,
			want: `<p>Let <var>node list</var> be</p>`,
		},
		{
			name: "inline markdown",
			src:  `<p>**bold** and *em* and ` + "`x*y*`" + `</p>`,
			want: `<p><strong>bold</strong> and <em>em</em> and <code>x*y*</code></p>`,
		},
		{
			name: "inline link",
			src:  `<p>[spec](https://example.org "Example")</p>`,
			want: `<p><a href="https://example.org" title="Example">spec</a></p>`,
		},
		{
			name: "escaped asterisk",
			src:  `<p>\*not em\*</p>`,
			want: `<p>*not em*</p>`,
		},
		{
			name: "code and pre untouched",
			src:  `<pre>[[HTML]] |x|</pre><code>*a*</code>`,
			want: `<pre>[[HTML]] |x|</pre><code>*a*</code>`,
		},
		{
			name: "existing links untouched",
			src:  `<a href="#x">[=x=]</a>`,
			want: `<a href="#x">[=x=]</a>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.src, ""))
		})
	}
}

func TestTransformGroups(t *testing.T) {
	src := `<p>[[HTML]] |x| *y*</p>`
	assert.Equal(t, `<p>[[HTML]] <var>x</var> <em>y</em></p>`, run(t, src, "-biblio"))
	assert.Equal(t, `<p><a data-link-type="biblio" data-lt="HTML" data-biblio-type="informative">[HTML]</a> |x| *y*</p>`, run(t, src, "biblio"))
}
