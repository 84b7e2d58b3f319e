// Package shorthand expands the inline markup shorthands found in the text of
// a document into elements: biblio and dfn autolinks, property links,
// variables and inline markdown.
package shorthand

import (
	"regexp"

	"github.com/hesusruiz/specmark/config"
	"github.com/hesusruiz/specmark/dom"
	"golang.org/x/net/html"
)

// Elements whose text is never rewritten.
var opaque = map[string]bool{
	"pre":    true,
	"code":   true,
	"script": true,
	"style":  true,
	"xmp":    true,
	"a":      true,
}

// A rule rewrites the matches of re into nodes. groups[0] is the full match
// and groups[i] the i-th submatch, or "" when it did not participate.
type rule struct {
	group   string
	re      *regexp.Regexp
	replace func(groups []string) []*html.Node
}

// Rules are applied in order. The nodes created by one rule are not seen by
// the following ones, so code spans go first to keep their content literal.
var rules = []rule{
	{
		group:   config.ShorthandMarkdown,
		re:      regexp.MustCompile("(\\\\)?`([^`]+)`"),
		replace: codeSpan,
	},
	{
		group:   config.ShorthandBiblio,
		re:      regexp.MustCompile(`(\\)?\[\[(!)?([\w.+-]+)(?:\s+(current|snapshot))?(?:\|([^\]]+))?\]\]`),
		replace: biblioLink,
	},
	{
		group:   config.ShorthandDfn,
		re:      regexp.MustCompile(`(\\)?\[=(?:([^=|\]]+)/)?([^=|\]/]+)(?:\|([^=\]]+))?=\]`),
		replace: dfnLink,
	},
	{
		group:   config.ShorthandCSS,
		re:      regexp.MustCompile(`(^|[^\w\\'])'([a-z*-][a-z0-9*-]*)'`),
		replace: propertyLink,
	},
	{
		group:   config.ShorthandAlgorithm,
		re:      regexp.MustCompile(`(\\)?\|(\w(?:[\w\s-]*\w)?)\|`),
		replace: variable,
	},
	{
		group:   config.ShorthandMarkdown,
		re:      regexp.MustCompile(`(\\)?\[([^\]]*)\]\(\s*([^\s)]+)(?:\s+"([^"]*)")?\s*\)`),
		replace: inlineLink,
	},
	{
		group:   config.ShorthandMarkdown,
		re:      regexp.MustCompile(`(^|[^\\*])\*\*([^\s*](?:[^*]*[^\s*\\])?)\*\*`),
		replace: wrapper("strong"),
	},
	{
		group:   config.ShorthandMarkdown,
		re:      regexp.MustCompile(`(^|[^\\*])\*([^\s*](?:[^*]*[^\s*\\])?)\*`),
		replace: wrapper("em"),
	},
	{
		group:   config.ShorthandMarkdown,
		re:      regexp.MustCompile(`\\\*`),
		replace: func([]string) []*html.Node { return []*html.Node{dom.NewText("*")} },
	},
}

// Transform rewrites the text nodes under root with the shorthand groups
// enabled in s.
func Transform(root *html.Node, s config.Shorthands) {
	var active []rule
	for _, r := range rules {
		if s.Enabled(r.group) {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return
	}
	transform(root, active)
}

func transform(n *html.Node, active []rule) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			if nodes, changed := expand(c.Data, active); changed {
				for _, nn := range nodes {
					n.InsertBefore(nn, c)
				}
				n.RemoveChild(c)
			}
		case html.ElementNode:
			if !opaque[c.Data] {
				transform(c, active)
			}
		}
		c = next
	}
}

func expand(text string, active []rule) ([]*html.Node, bool) {
	nodes := []*html.Node{dom.NewText(text)}
	changed := false
	for _, r := range active {
		var out []*html.Node
		for _, n := range nodes {
			if n.Type != html.TextNode {
				out = append(out, n)
				continue
			}
			replaced, ok := r.replaceAll(n.Data)
			if !ok {
				out = append(out, n)
				continue
			}
			changed = true
			out = append(out, replaced...)
		}
		nodes = out
	}
	return nodes, changed
}

func (r rule) replaceAll(text string) ([]*html.Node, bool) {
	matches := r.re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return nil, false
	}

	var out []*html.Node
	last := 0
	for _, loc := range matches {
		if loc[0] > last {
			out = append(out, dom.NewText(text[last:loc[0]]))
		}
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		out = append(out, r.replace(groups)...)
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, dom.NewText(text[last:]))
	}
	return out, true
}

// escaped returns the match without its leading backslash.
func escaped(groups []string) []*html.Node {
	return []*html.Node{dom.NewText(groups[0][1:])}
}

func codeSpan(g []string) []*html.Node {
	if g[1] != "" {
		return escaped(g)
	}
	code := dom.NewElement("code")
	code.AppendChild(dom.NewText(g[2]))
	return []*html.Node{code}
}

func biblioLink(g []string) []*html.Node {
	if g[1] != "" {
		return escaped(g)
	}
	bibType := "informative"
	if g[2] != "" {
		bibType = "normative"
	}
	term := g[3]
	text := g[5]
	if text == "" {
		text = "[" + term + "]"
	}

	a := dom.NewElement("a", "data-link-type", "biblio", "data-lt", term, "data-biblio-type", bibType)
	if g[4] != "" {
		dom.SetAttr(a, "data-biblio-status", g[4])
	}
	a.AppendChild(dom.NewText(text))
	return []*html.Node{a}
}

func dfnLink(g []string) []*html.Node {
	if g[1] != "" {
		return escaped(g)
	}
	text := g[3]
	display := g[4]
	if display == "" {
		display = text
	}

	a := dom.NewElement("a", "data-link-type", "dfn", "data-lt", text)
	if g[2] != "" {
		dom.SetAttr(a, "data-link-for", g[2])
	}
	a.AppendChild(dom.NewText(display))
	return []*html.Node{a}
}

func propertyLink(g []string) []*html.Node {
	a := dom.NewElement("a", "data-link-type", "property", "data-lt", g[2])
	a.AppendChild(dom.NewText(g[2]))

	var out []*html.Node
	if g[1] != "" {
		out = append(out, dom.NewText(g[1]))
	}
	return append(out, a)
}

func variable(g []string) []*html.Node {
	if g[1] != "" {
		return escaped(g)
	}
	v := dom.NewElement("var")
	v.AppendChild(dom.NewText(g[2]))
	return []*html.Node{v}
}

func inlineLink(g []string) []*html.Node {
	if g[1] != "" {
		return escaped(g)
	}
	a := dom.NewA(g[3], g[2])
	if g[4] != "" {
		dom.SetAttr(a, "title", g[4])
	}
	return []*html.Node{a}
}

// wrapper returns a replacement putting the second submatch inside a tag,
// keeping the character matched before the opening delimiter.
func wrapper(tag string) func([]string) []*html.Node {
	return func(g []string) []*html.Node {
		el := dom.NewElement(tag)
		el.AppendChild(dom.NewText(g[2]))

		var out []*html.Node
		if g[1] != "" {
			out = append(out, dom.NewText(g[1]))
		}
		return append(out, el)
	}
}
