package datablock

import (
	"errors"
	"strings"
	"testing"

	"github.com/hesusruiz/specmark/link"
	"github.com/hesusruiz/specmark/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(src string) []markdown.Line {
	return markdown.NewLines(strings.Split(src, "\n"))
}

const doc = `<p>before</p>
<pre class="anchors">
urlPrefix: https://example.org/spec
    type: dfn
        text: frobnicate
        text: twiddle
    type: property; text: widget-size; for: widget
    type: element
        url: https://example.org/other#the-gizmo-element
            text: gizmo
</pre>
<p>after</p>`

func TestExtract(t *testing.T) {
	rest, anchors, err := Extract("doc.md", lines(doc), 4)
	require.NoError(t, err)

	var texts []string
	for _, l := range rest {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{"<p>before</p>", "<p>after</p>"}, texts)
	assert.Equal(t, 12, rest[1].Number)

	tests := []struct {
		typ     string
		text    string
		wantURL string
		wantFor []string
	}{
		{typ: "dfn", text: "frobnicate", wantURL: "https://example.org/spec#frobnicate"},
		{typ: "dfn", text: "twiddle", wantURL: "https://example.org/spec#twiddle"},
		{typ: "property", text: "widget-size", wantURL: "https://example.org/spec#widget-size", wantFor: []string{"widget"}},
		{typ: "element", text: "gizmo", wantURL: "https://example.org/other#the-gizmo-element"},
	}
	require.Len(t, anchors, len(tests))
	for i, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			a := anchors[i]
			assert.Equal(t, tt.typ, a.Type)
			assert.Equal(t, []string{tt.text}, a.Texts)
			assert.Equal(t, tt.wantURL, a.URLFor(tt.text))
			assert.Equal(t, tt.wantFor, a.For)
		})
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{
			name:     "unclosed",
			src:      "<pre class=anchors>\ntype: dfn; text: a; url: #a",
			wantLine: 1,
		},
		{
			name:     "indent jump",
			src:      "<pre class=anchors>\ntype: dfn\n        text: a\n</pre>",
			wantLine: 3,
		},
		{
			name:     "not a pair",
			src:      "<pre class=anchors>\ntype dfn\n</pre>",
			wantLine: 2,
		},
		{
			name:     "missing text",
			src:      "<pre class=anchors>\ntype: dfn; url: #a\n</pre>",
			wantLine: 2,
		},
		{
			name:     "unknown key",
			src:      "<pre class=anchors>\ntype: dfn; text: a; colour: red\n</pre>",
			wantLine: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Extract("doc.md", lines(tt.src), 4)
			var se *markdown.SyntaxError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.wantLine, se.Line)
		})
	}
}

func TestRegister(t *testing.T) {
	_, anchors, err := Extract("doc.md", lines(doc), 4)
	require.NoError(t, err)

	m := link.NewManager(nil)
	Register(anchors, m)

	ref, err := m.GetReference(link.Query{LinkType: "property", LinkText: "widget-size", For: []string{"widget"}}, false)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/spec#widget-size", ref.URL)
	assert.Equal(t, 4, m.AnchorBlock.Len())
}
