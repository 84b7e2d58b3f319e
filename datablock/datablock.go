// Package datablock extracts the anchor data blocks of a document.
//
// An anchor block declares references to terms defined elsewhere that the
// spec data does not know about:
//
//	<pre class="anchors">
//	urlPrefix: https://example.org/spec
//	    type: dfn
//	        text: frobnicate
//	        text: twiddle
//	    type: property; text: widget-size
//	</pre>
//
// Each line is a "key: value" pair, or several separated by ';'. Lines
// indented one level deeper extend the pairs of the line above, and every
// leaf of the tree is one anchor.
package datablock

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hesusruiz/specmark/config"
	"github.com/hesusruiz/specmark/dom"
	"github.com/hesusruiz/specmark/link"
	"github.com/hesusruiz/specmark/markdown"
)

var (
	reBlockStart = regexp.MustCompile(`(?i)^\s*<pre\s[^>]*class=[^>]*\banchors\b[^>]*>\s*$`)
	reBlockEnd   = regexp.MustCompile(`(?i)^\s*</pre>\s*$`)
	rePair       = regexp.MustCompile(`^([^:]+):\s*(.*)$`)
)

// Anchor is one entry of an anchor block.
type Anchor struct {
	Line   int
	Type   string
	Texts  []string
	URL    string
	Prefix string
	For    []string
	Spec   string
	Status string
}

// URLFor returns the url of the anchor for one of its texts.
func (a Anchor) URLFor(text string) string {
	if a.URL != "" {
		return a.URL
	}
	if strings.HasSuffix(a.Prefix, "#") {
		return a.Prefix + dom.GenerateName(text)
	}
	return a.Prefix + "#" + dom.GenerateName(text)
}

// Extract removes the anchor blocks from lines and returns the remaining
// lines and the anchors found.
func Extract(filename string, lines []markdown.Line, tabSize int) ([]markdown.Line, []Anchor, error) {
	var rest []markdown.Line
	var anchors []Anchor

	var block []markdown.Line
	var start markdown.Line
	inBlock := false

	for _, l := range lines {
		switch {
		case !inBlock && reBlockStart.MatchString(l.Text):
			inBlock = true
			start = l
			block = block[:0]
		case inBlock && reBlockEnd.MatchString(l.Text):
			inBlock = false
			found, err := parseBlock(filename, block, tabSize)
			if err != nil {
				return nil, nil, err
			}
			anchors = append(anchors, found...)
		case inBlock:
			block = append(block, l)
		default:
			rest = append(rest, l)
		}
	}

	if inBlock {
		return nil, nil, &markdown.SyntaxError{Filename: filename, Line: start.Number, Column: 1, Msg: "anchor block not closed"}
	}
	return rest, anchors, nil
}

type pair struct {
	key, val string
}

// parseBlock reads the info tree of one block.
func parseBlock(filename string, lines []markdown.Line, tabSize int) ([]Anchor, error) {
	errorf := func(l markdown.Line, format string, a ...any) error {
		return &markdown.SyntaxError{Filename: filename, Line: l.Number, Column: 1, Msg: fmt.Sprintf(format, a...)}
	}

	// Strip the indentation common to all the lines
	base := -1
	for _, l := range lines {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		if lvl := markdown.GetIndentLevel(l.Text, tabSize); base < 0 || lvl < base {
			base = lvl
		}
	}

	var anchors []Anchor
	var levels [][]pair
	var leafLine markdown.Line
	last := -1

	flush := func() error {
		if last < 0 {
			return nil
		}
		var all []pair
		for _, ps := range levels[:last+1] {
			all = append(all, ps...)
		}
		a, err := newAnchor(all)
		if err != nil {
			return errorf(leafLine, "%v", err)
		}
		a.Line = leafLine.Number
		anchors = append(anchors, a)
		return nil
	}

	for _, l := range lines {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}

		level := markdown.GetIndentLevel(l.Text, tabSize) - base
		if level > last+1 {
			return nil, errorf(l, "line jumps %d indent levels", level-last)
		}
		if level <= last {
			if err := flush(); err != nil {
				return nil, err
			}
		}

		text, err := markdown.TrimIndent(l.Text, level+base, tabSize)
		if err != nil {
			return nil, errorf(l, "%v", err)
		}

		var ps []pair
		for _, piece := range strings.Split(text, ";") {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			m := rePair.FindStringSubmatch(strings.TrimSpace(piece))
			if m == nil {
				return nil, errorf(l, "expected \"key: value\", got %q", piece)
			}
			ps = append(ps, pair{key: strings.TrimSpace(m[1]), val: strings.TrimSpace(m[2])})
		}

		if level < len(levels) {
			levels = levels[:level]
		}
		levels = append(levels, ps)
		last = level
		leafLine = l
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return anchors, nil
}

func newAnchor(pairs []pair) (Anchor, error) {
	var a Anchor
	for _, p := range pairs {
		switch p.key {
		case "type":
			a.Type = p.val
		case "text":
			a.Texts = append(a.Texts, p.val)
		case "url":
			a.URL = p.val
		case "urlPrefix":
			a.Prefix += p.val
		case "for":
			a.For = append(a.For, config.SplitForValues(p.val)...)
		case "spec":
			a.Spec = p.val
		case "status":
			a.Status = p.val
		default:
			return Anchor{}, fmt.Errorf("unknown anchor key %q", p.key)
		}
	}

	if a.Type == "" {
		return Anchor{}, fmt.Errorf("anchor without type")
	}
	if len(a.Texts) == 0 {
		return Anchor{}, fmt.Errorf("anchor without text")
	}
	if a.URL == "" && a.Prefix == "" {
		return Anchor{}, fmt.Errorf("anchor %q without url or urlPrefix", a.Texts[0])
	}
	return a, nil
}

// Register adds the anchors to the anchor block source of m.
func Register(anchors []Anchor, m *link.Manager) {
	for _, a := range anchors {
		for _, text := range a.Texts {
			m.AddAnchor(text, link.Reference{
				LinkType: a.Type,
				Spec:     a.Spec,
				Status:   a.Status,
				URL:      a.URLFor(text),
				For:      a.For,
				Export:   true,
			})
		}
	}
}
