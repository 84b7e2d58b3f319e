// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit extends the functionalities of rsc.io/edit to
// implement eficient buffered editing of byte slices.
// It requires a single allocation for many operations.
package sliceedit

import (
	"regexp"
	"sort"

	"golang.org/x/net/html"
	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
// Edits are expressed in offsets of the original data and must not overlap.
type Buffer struct {
	ed  *edit.Buffer
	buf []byte
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must ensure
// the data is not modified until after the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{ed: edit.NewBuffer(buf), buf: buf}
}

// ReplaceAllFunc queues the replacement of every match of re. repl receives
// the offset of each match in the original data and its submatches, and
// returns the replacement text and whether to replace at all.
// It returns the number of replacements queued.
func (b *Buffer) ReplaceAllFunc(re *regexp.Regexp, repl func(start int, groups [][]byte) ([]byte, bool)) int {
	n := 0
	for _, loc := range re.FindAllSubmatchIndex(b.buf, -1) {
		groups := make([][]byte, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = b.buf[loc[2*i]:loc[2*i+1]]
			}
		}
		if text, ok := repl(loc[0], groups); ok {
			b.ed.Replace(loc[0], loc[1], string(text))
			n++
		}
	}
	return n
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}

// The optional brackets around the macro catch biblio shorthands like [[HTML]]
var reMacro = regexp.MustCompile(`(\[)?(\\)?\[([A-Z][A-Z0-9-]*)\](\])?`)

// Macros are left alone in verbatim elements and code spans
var reVerbatim = regexp.MustCompile("(?is)<pre\\b.*?</pre>|<xmp\\b.*?</xmp>|<code\\b.*?</code>|`[^`\\n]+`")

// ExpandMacros replaces the [NAME] macros of the markup src with their
// values, escaped as HTML text. A macro preceded by a backslash is left as
// written, without the backslash. Names with no value are left untouched and
// returned, sorted and once each.
func ExpandMacros(src []byte, macros map[string]string) ([]byte, []string) {
	verbatim := reVerbatim.FindAllIndex(src, -1)
	isVerbatim := func(pos int) bool {
		i := sort.Search(len(verbatim), func(i int) bool { return verbatim[i][1] > pos })
		return i < len(verbatim) && verbatim[i][0] <= pos
	}

	b := NewBuffer(src)
	unknown := map[string]bool{}

	b.ReplaceAllFunc(reMacro, func(start int, g [][]byte) ([]byte, bool) {
		if g[1] != nil || g[4] != nil || isVerbatim(start) {
			return nil, false
		}
		if g[2] != nil {
			return g[0][1:], true
		}
		val, ok := macros[string(g[3])]
		if !ok {
			unknown[string(g[3])] = true
			return nil, false
		}
		return []byte(html.EscapeString(val)), true
	})

	var names []string
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)
	return b.Bytes(), names
}
