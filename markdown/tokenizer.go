package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	reOpaqueStart = regexp.MustCompile(`(?i)^\s*<(pre|xmp|script|style)(\s|>|$)`)
	reFence       = regexp.MustCompile("^(\\s*)(`{3,}|~{3,})([^`]*)$")
	reEqualsLine  = regexp.MustCompile(`^={3,}\s*$`)
	reDashLine    = regexp.MustCompile(`^-{3,}\s*$`)
	reHRule       = regexp.MustCompile(`^\s*((\*\s*){3,}|(-\s*){3,}|(_\s*){3,})$`)
	reHeading     = regexp.MustCompile(`^(#{1,5})\s+([^#]+)((#{1,5})\s*\{#([^}]+)\})?\s*$`)
	reNumbered    = regexp.MustCompile(`^\s*(-?[0-9]+)\.(\s+(.*)|$)`)
	reBulleted    = regexp.MustCompile(`^\s*[*+-](\s+(.*)|$)`)
	reDefinition  = regexp.MustCompile(`^\s*(:{1,2})(\s+(.*)|$)`)
	reQuote       = regexp.MustCompile(`^\s*>\s?(.*)$`)
	reStartTag    = regexp.MustCompile(`^\s*</?([\w-]+)`)
)

// inlineElements start lines that are still paragraph text.
var inlineElements = map[string]bool{
	"a": true, "em": true, "strong": true, "small": true, "s": true, "cite": true,
	"q": true, "dfn": true, "abbr": true, "data": true, "time": true, "code": true,
	"var": true, "samp": true, "kbd": true, "sub": true, "sup": true, "i": true,
	"b": true, "u": true, "mark": true, "ruby": true, "bdi": true, "bdo": true,
	"span": true, "br": true, "wbr": true, "img": true, "meter": true,
	"progress": true, "css": true, "l": true,
}

// IsInlineElement reports whether a line starting with tag is paragraph text.
func IsInlineElement(tag string) bool {
	return inlineElements[strings.ToLower(tag)]
}

type regionKind int

const (
	elementRegion regionKind = iota
	fencedRegion
)

// A rawRegion is an open block whose lines are not classified.
type rawRegion struct {
	kind      regionKind
	tag       string
	nestable  bool
	depth     int
	fenceChar byte
	fenceLen  int
	line      int
}

type tokenizer struct {
	filename string
	tabSize  int
	stack    []*rawRegion
	tokens   []Token
}

// Tokenize classifies lines with the default file name and the given tab size.
func Tokenize(lines []Line, tabSize int) ([]Token, error) {
	return (&Parser{TabSize: tabSize}).Tokenize(lines)
}

// Tokenize classifies every line into a Token.
func (p *Parser) Tokenize(lines []Line) ([]Token, error) {
	t := &tokenizer{filename: p.Filename, tabSize: p.tabSize()}
	for _, l := range lines {
		t.line(l)
	}

	if len(t.stack) > 0 {
		open := t.stack[len(t.stack)-1]
		what := "fenced code block"
		if open.kind == elementRegion {
			what = "<" + open.tag + "> element"
		}
		return nil, &SyntaxError{
			Filename: p.Filename,
			Line:     open.line,
			Column:   1,
			Msg:      fmt.Sprintf("unterminated %s", what),
		}
	}
	return t.tokens, nil
}

func (t *tokenizer) emit(kind TokenKind, l Line) {
	level := maxIndent
	if kind != Blank {
		level = GetIndentLevel(l.Text, t.tabSize)
	}
	t.tokens = append(t.tokens, Token{Kind: kind, Line: l, IndentLevel: level})
}

func (t *tokenizer) emitRaw(l Line) {
	t.tokens = append(t.tokens, Token{Kind: Raw, Line: l, IndentLevel: maxIndent})
}

func (t *tokenizer) top() *rawRegion {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

func (t *tokenizer) pop() {
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *tokenizer) line(l Line) {
	text := l.Text

	// Inside a raw region every line is copied
	if region := t.top(); region != nil {
		switch region.kind {
		case fencedRegion:
			if m := reFence.FindStringSubmatch(text); m != nil &&
				m[2][0] == region.fenceChar && len(m[2]) >= region.fenceLen &&
				strings.TrimSpace(m[3]) == "" {
				t.pop()
				t.emitRaw(Line{Number: l.Number, Text: m[1] + "</pre>"})
				return
			}
			t.emitRaw(Line{Number: l.Number, Text: html.EscapeString(text)})
		case elementRegion:
			lower := strings.ToLower(text)
			if region.nestable {
				region.depth += countStartTags(lower, region.tag) - strings.Count(lower, "</"+region.tag)
				if region.depth <= 0 {
					t.pop()
				}
			} else if strings.Contains(lower, "</"+region.tag) {
				t.pop()
			}
			t.emitRaw(l)
		}
		return
	}

	if isBlank(text) {
		t.emit(Blank, l)
		return
	}

	if m := reOpaqueStart.FindStringSubmatch(text); m != nil {
		tag := strings.ToLower(m[1])
		lower := strings.ToLower(text)
		if tag == "pre" {
			depth := countStartTags(lower, tag) - strings.Count(lower, "</pre")
			if depth > 0 {
				t.stack = append(t.stack, &rawRegion{kind: elementRegion, tag: tag, nestable: true, depth: depth, line: l.Number})
				t.emit(Raw, l)
				return
			}
		} else if !strings.Contains(lower, "</"+tag) {
			t.stack = append(t.stack, &rawRegion{kind: elementRegion, tag: tag, line: l.Number})
			t.emit(Raw, l)
			return
		}
		// Start and end tags on the same line, classified as any other line
	}

	if m := reFence.FindStringSubmatch(text); m != nil {
		t.stack = append(t.stack, &rawRegion{
			kind:      fencedRegion,
			fenceChar: m[2][0],
			fenceLen:  len(m[2]),
			line:      l.Number,
		})
		open := "<pre>"
		if lang := strings.Fields(m[3]); len(lang) > 0 {
			open = `<pre class="language-` + html.EscapeString(lang[0]) + `">`
		}
		t.emit(Raw, Line{Number: l.Number, Text: m[1] + open})
		return
	}

	switch {
	case reEqualsLine.MatchString(text):
		t.emit(EqualsLine, l)
	case reDashLine.MatchString(text):
		t.emit(DashLine, l)
	case reHRule.MatchString(text):
		t.emit(HorizontalRule, l)
	case isHeading(text):
		t.emit(Head, l)
	case reNumbered.MatchString(text):
		t.emit(Numbered, l)
	case reBulleted.MatchString(text):
		t.emit(Bulleted, l)
	case reDefinition.MatchString(text):
		if m := reDefinition.FindStringSubmatch(text); len(m[1]) == 2 {
			t.emit(Dd, l)
		} else {
			t.emit(Dt, l)
		}
	case reQuote.MatchString(text):
		t.emit(QuoteBlock, l)
	default:
		if m := reStartTag.FindStringSubmatch(text); m != nil && !IsInlineElement(m[1]) {
			t.emit(MarkupBlock, l)
		} else {
			t.emit(Text, l)
		}
	}
}

// isHeading matches single line headings. When a closing run of hashes is
// present it must be as long as the opening one.
func isHeading(text string) bool {
	m := reHeading.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	return m[4] == "" || len(m[4]) == len(m[1])
}

func countStartTags(lower string, tag string) int {
	n := 0
	open := "<" + tag
	for i := strings.Index(lower, open); i >= 0; {
		end := i + len(open)
		if end == len(lower) || lower[end] == '>' || lower[end] == ' ' || lower[end] == '\t' {
			n++
		}
		next := strings.Index(lower[end:], open)
		if next < 0 {
			break
		}
		i = end + next
	}
	return n
}
