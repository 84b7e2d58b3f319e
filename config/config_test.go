package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShorthands(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		enabled []string
		off     []string
	}{
		{name: "defaults", list: "", enabled: []string{"biblio", "dfn", "markdown", "algorithm", "css"}},
		{name: "explicit list", list: "biblio, dfn", enabled: []string{"biblio", "dfn"}, off: []string{"markdown"}},
		{name: "disable one", list: "-markdown", enabled: []string{"biblio", "dfn"}, off: []string{"markdown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseShorthands(tt.list)
			for _, name := range tt.enabled {
				assert.True(t, s.Enabled(name), name)
			}
			for _, name := range tt.off {
				assert.False(t, s.Enabled(name), name)
			}
		})
	}
}

func TestSplitForValues(t *testing.T) {
	tests := []struct {
		val  string
		want []string
	}{
		{val: "", want: nil},
		{val: "Foo", want: []string{"Foo"}},
		{val: "Foo, Bar", want: []string{"Foo", "Bar"}},
		{val: "foo(a, b), Bar", want: []string{"foo(a, b)", "Bar"}},
		{val: "/", want: []string{"/"}},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitForValues(tt.val))
		})
	}
}

func TestDfnTypeTables(t *testing.T) {
	assert.True(t, DfnTypes["dfn"])
	assert.True(t, DfnTypes["property"])
	assert.False(t, DfnTypes["bogus"])
	assert.Equal(t, "propdef", DfnTypeToClass["property"])
	assert.Equal(t, "descdef", DfnTypeToClass["descriptor"])
	_, ok := DfnTypeToClass["dfn"]
	assert.False(t, ok)
}

func TestSplitFrontMatter(t *testing.T) {
	src := []string{
		"",
		"---",
		"title: A spec",
		"---",
		"# Intro",
	}
	front, body, err := SplitFrontMatter(src)
	require.NoError(t, err)
	assert.Equal(t, "title: A spec\n", front)
	require.Len(t, body, 1)
	assert.Equal(t, 5, body[0].Number)
	assert.Equal(t, "# Intro", body[0].Text)

	front, body, err = SplitFrontMatter([]string{"# Intro"})
	require.NoError(t, err)
	assert.Equal(t, "", front)
	assert.Len(t, body, 1)

	_, _, err = SplitFrontMatter([]string{"---", "title: x"})
	assert.ErrorIs(t, err, ErrNoEndOfFrontMatter)
}

func TestParseMetadata(t *testing.T) {
	m, err := ParseMetadata("title: A spec\nshortname: aspec\nlevel: \"2\"\nindent: \"2\"\ninexactLinks: false\ncodeStyle: dracula\n")
	require.NoError(t, err)

	assert.Equal(t, "A spec", m.Title)
	assert.Equal(t, "aspec", m.Shortname)
	assert.Equal(t, 2, m.TabSize)
	assert.False(t, m.InexactLinks)
	assert.True(t, m.Diagrams)
	assert.Equal(t, "dracula", m.CodeStyle)
	assert.Equal(t, "spec-data", m.SpecData)
	assert.Equal(t, "aspec", m.Macros()["SHORTNAME"])
}

func TestParseMetadataEmpty(t *testing.T) {
	m, err := ParseMetadata("")
	require.NoError(t, err)
	assert.Equal(t, 4, m.TabSize)
	assert.True(t, m.InexactLinks)
	assert.True(t, m.Shorthands.Enabled(ShorthandBiblio))

	_, ok := m.LocalBiblio("missing")
	assert.False(t, ok)
}

func TestLocalBiblio(t *testing.T) {
	m, err := ParseMetadata("localBiblio:\n  rite:\n    title: \"Rite syntax\"\n    href: \"https://example.com/rite\"\n    date: \"2023\"\n    authors: \"J. Ruiz; A. Other\"\n")
	require.NoError(t, err)

	e, ok := m.LocalBiblio("rite")
	require.True(t, ok)
	assert.Equal(t, "Rite syntax", e.Title)
	assert.Equal(t, "https://example.com/rite", e.Href)
	assert.Equal(t, []string{"J. Ruiz", "A. Other"}, e.Authors)
	assert.Equal(t, []string{"rite"}, m.LocalBiblioKeys())
}
