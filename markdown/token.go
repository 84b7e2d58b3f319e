package markdown

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultTabSize is the width in spaces of one indentation unit when the
// document does not configure one.
const DefaultTabSize = 4

// A TokenKind is the classification of one source line.
type TokenKind uint32

const (
	// Blank is an empty or whitespace-only line.
	Blank TokenKind = iota
	// EqualsLine is a line of three or more '=' (underline of an h2).
	EqualsLine
	// DashLine is a line of three or more '-' (underline of an h3, or a rule).
	DashLine
	// HorizontalRule looks like "* * *" or "___".
	HorizontalRule
	// Head is a single line heading like "## Title" or "## Title ## {#id}".
	Head
	// Numbered is an ordered list item like "1. text".
	Numbered
	// Bulleted is an unordered list item like "- text".
	Bulleted
	// Dt is a definition term like ": term".
	Dt
	// Dd is a definition description like ":: description".
	Dd
	// Raw is a line copied verbatim, inside pre-like elements or fenced code.
	Raw
	// QuoteBlock is a line like "> text".
	QuoteBlock
	// MarkupBlock is a line starting with a block level tag.
	MarkupBlock
	// Text is any other line.
	Text
	// End marks the end of the stream.
	End
)

var kindNames = [...]string{
	Blank:          "Blank",
	EqualsLine:     "EqualsLine",
	DashLine:       "DashLine",
	HorizontalRule: "HorizontalRule",
	Head:           "Head",
	Numbered:       "Numbered",
	Bulleted:       "Bulleted",
	Dt:             "Dt",
	Dd:             "Dd",
	Raw:            "Raw",
	QuoteBlock:     "QuoteBlock",
	MarkupBlock:    "MarkupBlock",
	Text:           "Text",
	End:            "End",
}

// String returns a string representation of the TokenKind.
func (k TokenKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// isListItem reports whether tokens of kind k open a list.
func (k TokenKind) isListItem() bool {
	return k == Numbered || k == Bulleted || k == Dt || k == Dd
}

// Line is a source line together with its line number in the input file.
type Line struct {
	Number int
	Text   string
}

// NewLines numbers src starting at 1.
func NewLines(src []string) []Line {
	lines := make([]Line, len(src))
	for i, s := range src {
		lines[i] = Line{Number: i + 1, Text: s}
	}
	return lines
}

// A Token is one classified source line. Line holds the text that the parser
// emits or re-parses, which is not always the original source text (fenced
// code is rewritten into pre elements and escaped).
type Token struct {
	Kind        TokenKind
	Line        Line
	IndentLevel int
}

// String returns a string representation of the Token, for debugging.
func (t Token) String() string {
	return fmt.Sprintf("%s(%d)@%d: %q", t.Kind, t.IndentLevel, t.Line.Number, t.Line.Text)
}

// maxIndent is the indentation level of tokens that never terminate a list
// item: blank lines and lines inside raw regions.
const maxIndent = math.MaxInt

// A TokenStream is a cursor over a token slice. Reads before the start return a
// Blank token and reads past the end return an End token.
type TokenStream struct {
	tokens []Token
	pos    int
}

// NewTokenStream returns a stream positioned at the first token.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

func (s *TokenStream) at(i int) Token {
	if i < 0 {
		return Token{Kind: Blank, IndentLevel: maxIndent}
	}
	if i >= len(s.tokens) {
		return Token{Kind: End, IndentLevel: maxIndent}
	}
	return s.tokens[i]
}

// Curr returns the token under the cursor.
func (s *TokenStream) Curr() Token { return s.at(s.pos) }

// Prev returns the token before the cursor.
func (s *TokenStream) Prev() Token { return s.at(s.pos - 1) }

// Next returns the token after the cursor.
func (s *TokenStream) Next() Token { return s.at(s.pos + 1) }

// NextNext returns the token two positions after the cursor.
func (s *TokenStream) NextNext() Token { return s.at(s.pos + 2) }

// Advance moves the cursor forward and returns the new current token.
func (s *TokenStream) Advance() Token {
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return s.Curr()
}

// SyntaxError is a fatal error found while tokenizing or parsing.
type SyntaxError struct {
	Filename string
	Line     int
	Column   int
	Msg      string
}

func (e *SyntaxError) Error() string {
	name := e.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, e.Line, e.Column, e.Msg)
}
