package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// MaxDepth is the default limit of nested list items and quote blocks.
const MaxDepth = 100

var reTextWithID = regexp.MustCompile(`^(.*?)\s*\{\s*#([^}]+)\s*\}\s*$`)

// Parser lowers markdown-flavoured lines into HTML markup lines.
// The same Parser is used for the recursive parsing of list items and quote
// blocks, so heading levels are checked across the whole document.
type Parser struct {
	// Filename is used in error messages
	Filename string

	// TabSize is the width of an indentation unit in spaces
	TabSize int

	// MaxDepth limits recursion. Zero means the package default.
	MaxDepth int

	lastHeading int
}

// Parse parses src with the given tab size.
func Parse(src []string, tabSize int) ([]string, error) {
	p := &Parser{TabSize: tabSize}
	return p.Parse(NewLines(src))
}

// ParseLines parses numbered lines with the given tab size.
func ParseLines(lines []Line, tabSize int) ([]string, error) {
	p := &Parser{TabSize: tabSize}
	return p.Parse(lines)
}

// Parse converts the source lines into markup lines.
func (p *Parser) Parse(lines []Line) ([]string, error) {
	return p.parse(lines, 0, false)
}

func (p *Parser) tabSize() int {
	if p.TabSize <= 0 {
		return DefaultTabSize
	}
	return p.TabSize
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return MaxDepth
	}
	return p.MaxDepth
}

func (p *Parser) errorf(line int, format string, a ...any) error {
	return &SyntaxError{
		Filename: p.Filename,
		Line:     line,
		Column:   1,
		Msg:      fmt.Sprintf(format, a...),
	}
}

// parse is the entry point for the document and for every nested body.
// In tight mode (list items without blank lines) paragraphs are not wrapped.
func (p *Parser) parse(lines []Line, depth int, tight bool) ([]string, error) {
	if depth > p.maxDepth() {
		num := 0
		if len(lines) > 0 {
			num = lines[0].Number
		}
		return nil, p.errorf(num, "nesting deeper than %d levels", p.maxDepth())
	}

	tokens, err := p.Tokenize(lines)
	if err != nil {
		return nil, err
	}
	s := NewTokenStream(tokens)

	var out []string
	for tok := s.Curr(); tok.Kind != End; tok = s.Advance() {
		var result []string

		switch tok.Kind {
		case Raw, MarkupBlock:
			result = []string{tok.Line.Text}

		case Blank:
			result = []string{""}

		case Head:
			result, err = p.parseHeading(tok)

		case Text:
			next := s.Next()
			switch {
			case next.Kind == EqualsLine || next.Kind == DashLine:
				result, err = p.parseMultiLineHeading(s)
			case s.Prev().Kind == Blank:
				result = p.parseParagraph(s, tight)
			default:
				result = []string{tok.Line.Text}
			}

		case HorizontalRule, DashLine:
			result = []string{"<hr>"}

		case Numbered, Bulleted, Dt, Dd:
			result, err = p.parseList(s, depth)

		case QuoteBlock:
			result, err = p.parseQuoteBlock(s, depth)

		default:
			result = []string{tok.Line.Text}
		}

		if err != nil {
			return nil, err
		}
		out = append(out, result...)
	}

	return out, nil
}

// checkHeading rejects headings more than one level deeper than the previous one.
func (p *Parser) checkHeading(level int, line int) error {
	if p.lastHeading > 0 && level > p.lastHeading+1 {
		return p.errorf(line, "heading level jumps from h%d to h%d", p.lastHeading, level)
	}
	p.lastHeading = level
	return nil
}

func headingLine(level int, text string, id string) string {
	tag := "h" + strconv.Itoa(level)
	if id == "" {
		return "<" + tag + ">" + text + "</" + tag + ">"
	}
	return "<" + tag + ` id="` + html.EscapeString(id) + `">` + text + "</" + tag + ">"
}

func (p *Parser) parseHeading(tok Token) ([]string, error) {
	m := reHeading.FindStringSubmatch(tok.Line.Text)
	if m == nil {
		return nil, p.errorf(tok.Line.Number, "malformed heading")
	}

	// One hash is an h2, h1 is kept for the document title
	level := len(m[1]) + 1
	if err := p.checkHeading(level, tok.Line.Number); err != nil {
		return nil, err
	}

	return []string{headingLine(level, strings.TrimSpace(m[2]), strings.TrimSpace(m[5]))}, nil
}

func (p *Parser) parseMultiLineHeading(s *TokenStream) ([]string, error) {
	textTok := s.Curr()
	underline := s.Advance()

	level := 2
	if underline.Kind == DashLine {
		level = 3
	}

	text := strings.TrimSpace(textTok.Line.Text)
	id := ""
	if m := reTextWithID.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
		id = strings.TrimSpace(m[2])
	}
	if text == "" {
		return nil, p.errorf(textTok.Line.Number, "heading with empty text")
	}

	if err := p.checkHeading(level, textTok.Line.Number); err != nil {
		return nil, err
	}
	return []string{headingLine(level, text, id)}, nil
}

func (p *Parser) parseParagraph(s *TokenStream, tight bool) []string {
	lines := []string{strings.TrimLeft(s.Curr().Line.Text, " \t")}

	// Stop before a line that is the text of a multi-line heading
	for s.Next().Kind == Text {
		nn := s.NextNext().Kind
		if nn == EqualsLine || nn == DashLine {
			break
		}
		lines = append(lines, s.Advance().Line.Text)
	}

	if tight {
		return lines
	}

	lines[0] = "<p>" + lines[0]
	lines[len(lines)-1] = strings.TrimRight(lines[len(lines)-1], " \t") + "</p>"
	return lines
}

type listKind struct {
	outer string
	inner func(TokenKind) string
	same  func(TokenKind) bool
}

func listKindFor(k TokenKind) listKind {
	switch k {
	case Numbered:
		return listKind{
			outer: "ol",
			inner: func(TokenKind) string { return "li" },
			same:  func(o TokenKind) bool { return o == Numbered },
		}
	case Bulleted:
		return listKind{
			outer: "ul",
			inner: func(TokenKind) string { return "li" },
			same:  func(o TokenKind) bool { return o == Bulleted },
		}
	default:
		return listKind{
			outer: "dl",
			inner: func(o TokenKind) string {
				if o == Dd {
					return "dd"
				}
				return "dt"
			},
			same: func(o TokenKind) bool { return o == Dt || o == Dd },
		}
	}
}

// itemContent returns the text after the list marker.
func itemContent(tok Token) (content string, number string) {
	switch tok.Kind {
	case Numbered:
		m := reNumbered.FindStringSubmatch(tok.Line.Text)
		return m[3], m[1]
	case Bulleted:
		m := reBulleted.FindStringSubmatch(tok.Line.Text)
		return m[2], ""
	default:
		m := reDefinition.FindStringSubmatch(tok.Line.Text)
		return m[3], ""
	}
}

func (p *Parser) parseList(s *TokenStream, depth int) ([]string, error) {
	first := s.Curr()
	kind := listKindFor(first.Kind)
	top := first.IndentLevel

	open := "<" + kind.outer + " data-md>"
	if first.Kind == Numbered {
		_, number := itemContent(first)
		if n, err := strconv.Atoi(number); err == nil && n != 1 {
			open = "<" + kind.outer + ` data-md start="` + number + `">`
		}
	}
	out := []string{open}

	for {
		tok := s.Curr()
		content, _ := itemContent(tok)
		lines := []Line{{Number: tok.Line.Number, Text: content}}
		tight := true

		// Collect the body of the item
		for {
			next := s.Next()
			if next.Kind == End {
				break
			}

			if next.Kind == Blank {
				// A single blank line is kept only before an indented continuation
				nn := s.NextNext()
				if nn.Kind == Blank || nn.Kind == End || nn.IndentLevel <= top {
					break
				}
				s.Advance()
				lines = append(lines, Line{Number: next.Line.Number, Text: ""})
				tight = false
				continue
			}

			if next.IndentLevel <= top {
				break
			}
			s.Advance()

			var text string
			if next.IndentLevel == maxIndent {
				text = trimIndentLenient(next.Line.Text, top+1, p.tabSize())
			} else {
				var err error
				text, err = TrimIndent(next.Line.Text, top+1, p.tabSize())
				if err != nil {
					return nil, p.errorf(next.Line.Number, "list item: %v", err)
				}
			}
			lines = append(lines, Line{Number: next.Line.Number, Text: text})
		}

		body, err := p.parse(lines, depth+1, tight)
		if err != nil {
			return nil, err
		}

		tag := kind.inner(tok.Kind)
		out = append(out, "<"+tag+" data-md>")
		out = append(out, body...)
		out = append(out, "</"+tag+">")

		// Decide if the list goes on with another item
		next := s.Next()
		if next.Kind == Blank {
			nn := s.NextNext()
			if kind.same(nn.Kind) && nn.IndentLevel == top {
				s.Advance()
				s.Advance()
				continue
			}
			break
		}
		if kind.same(next.Kind) && next.IndentLevel == top {
			s.Advance()
			continue
		}
		break
	}

	out = append(out, "</"+kind.outer+">")
	return out, nil
}

func (p *Parser) parseQuoteBlock(s *TokenStream, depth int) ([]string, error) {
	first := s.Curr()
	top := first.IndentLevel

	lines := []Line{{Number: first.Line.Number, Text: reQuote.FindStringSubmatch(first.Line.Text)[1]}}
	for {
		next := s.Next()
		if next.IndentLevel < top {
			break
		}
		if next.Kind == QuoteBlock {
			lines = append(lines, Line{Number: next.Line.Number, Text: reQuote.FindStringSubmatch(next.Line.Text)[1]})
		} else if next.Kind == Text {
			lines = append(lines, Line{Number: next.Line.Number, Text: strings.TrimLeft(next.Line.Text, " \t")})
		} else {
			break
		}
		s.Advance()
	}

	body, err := p.parse(lines, depth+1, false)
	if err != nil {
		return nil, err
	}

	out := []string{"<blockquote>"}
	out = append(out, body...)
	out = append(out, "</blockquote>")
	return out, nil
}
