// Package highlight colours the fenced code blocks of a document with chroma.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/hesusruiz/specmark/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const languagePrefix = "language-"

// Highlighter renders code with one chroma style.
type Highlighter struct {
	style     *chroma.Style
	formatter *hlhtml.Formatter
}

// New returns a highlighter using the named chroma style. Unknown names get
// chroma's fallback style.
func New(styleName string) *Highlighter {
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true)),
	}
}

// Language returns the X of the language-X class of a pre element.
func Language(pre *html.Node) string {
	for _, class := range strings.Fields(dom.GetAttr(pre, "class")) {
		if strings.HasPrefix(class, languagePrefix) {
			return strings.TrimPrefix(class, languagePrefix)
		}
	}
	return ""
}

// Code returns src as highlighted HTML, without the surrounding pre.
func (h *Highlighter) Code(lang string, src string) (string, error) {
	l := lexers.Get(lang)
	if l == nil {
		l = lexers.Analyse(src)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	it, err := l.Tokenise(nil, src)
	if err != nil {
		return "", err
	}
	var b bytes.Buffer
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Highlight replaces the content of every pre element with a language-X
// class, except the ones listed in skip, by its highlighted version. The pre
// is wrapped in a div.codecolor.
func (h *Highlighter) Highlight(root *html.Node, skip ...string) error {
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}

	for _, pre := range dom.Select(root, `pre[class*="language-"]`) {
		lang := Language(pre)
		if lang == "" || skipped[lang] {
			continue
		}

		var src strings.Builder
		for c := pre.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				src.WriteString(c.Data)
			}
		}

		out, err := h.Code(lang, src.String())
		if err != nil {
			return err
		}
		context := &html.Node{Type: html.ElementNode, Data: "pre", DataAtom: atom.Pre}
		nodes, err := html.ParseFragment(strings.NewReader(out), context)
		if err != nil {
			return err
		}

		for c := pre.FirstChild; c != nil; c = pre.FirstChild {
			pre.RemoveChild(c)
		}
		for _, n := range nodes {
			pre.AppendChild(n)
		}
		dom.AddClass(pre, "nohighlight")
		dom.AddClass(pre, "precolor")

		wrapper := dom.NewElement("div", "class", "codecolor")
		dom.ReplaceNode(pre, wrapper)
		wrapper.AppendChild(pre)
	}
	return nil
}
