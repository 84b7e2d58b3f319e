package biblio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hesusruiz/specmark/specdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const htmlShard = `d html
HTML
2023-01-01
Living Standard
HTML Standard
https://html.spec.whatwg.org/multipage/
Anne van Kesteren
Domenic Denicola
-
a html5
HTML5
html
-
s htmlnote
HTMLNOTE
<a href="https://example.org/note">HTML note</a>.
-
a htloop
HTLOOP
htloop2
-
a htloop2
HTLOOP2
htloop
-
`

func writeShard(t *testing.T, dir, group, content string) {
	t.Helper()
	path := specdata.ShardPath(dir, "biblio", group)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGet(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "ht", htmlShard)
	s := NewSource(dir)

	tests := []struct {
		key        string
		wantFormat Format
		wantTitle  string
		wantData   string
	}{
		{key: "html", wantFormat: Dict, wantTitle: "HTML Standard"},
		{key: "HTML", wantFormat: Dict, wantTitle: "HTML Standard"},
		{key: "html5", wantFormat: Dict, wantTitle: "HTML Standard"},
		{key: "HTMLNote", wantFormat: String, wantData: `<a href="https://example.org/note">HTML note</a>.`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			e, err := s.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, e.Format)
			assert.Equal(t, tt.wantTitle, e.Title)
			assert.Equal(t, tt.wantData, e.Data)
		})
	}
}

func TestGetAliasEqualsDirect(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "ht", htmlShard)
	s := NewSource(dir)

	direct, err := s.Get("html")
	require.NoError(t, err)
	viaAlias, err := s.Get("html5")
	require.NoError(t, err)
	assert.Equal(t, direct, viaAlias)
	assert.Equal(t, []string{"Anne van Kesteren", "Domenic Denicola"}, direct.Authors)
	assert.Equal(t, "https://html.spec.whatwg.org/multipage/", direct.URL)
}

func TestGetAliasCycle(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "ht", htmlShard)
	s := NewSource(dir)

	_, err := s.Get("htloop")
	assert.True(t, errors.Is(err, ErrAliasCycle), "got %v", err)
}

func TestGetLocalFirst(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "ht", htmlShard)
	s := NewSource(dir)
	s.AddEntry("HTML", Entry{Format: Dict, Title: "My HTML"})

	e, err := s.Get("html")
	require.NoError(t, err)
	assert.Equal(t, "My HTML", e.Title)
}

func TestGetNotFound(t *testing.T) {
	tests := []struct {
		name string
		dir  bool
		key  string
	}{
		{name: "missing shard", dir: true, key: "zz-top"},
		{name: "missing key", dir: true, key: "htmx"},
		{name: "no data dir", key: "html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := ""
			if tt.dir {
				dir = t.TempDir()
				writeShard(t, dir, "ht", htmlShard)
			}
			_, err := NewSource(dir).Get(tt.key)
			var nf *NotFoundError
			require.True(t, errors.As(err, &nf), "got %v", err)
		})
	}
}

func TestMalformedShard(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated", content: "d html\nHTML\n2023\n"},
		{name: "no terminator", content: "s html\nHTML\ndata\n"},
		{name: "bad kind", content: "x html\nHTML\n-\n"},
		{name: "bad key line", content: "html\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeShard(t, dir, "ht", tt.content)
			_, err := NewSource(dir).Get("html")
			var fe *specdata.FormatError
			assert.True(t, errors.As(err, &fe), "got %v", err)
		})
	}
}
