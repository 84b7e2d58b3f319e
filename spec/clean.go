package spec

import (
	"regexp"
	"strings"

	"github.com/hesusruiz/specmark/config"
	"github.com/hesusruiz/specmark/dom"
	"golang.org/x/net/html"
)

// clean tidies the tree once everything else is done.
func clean(root *html.Node) {
	cleanDefinitionTerms(root)
	mergeLists(root)
	markProperties(root)
	markHeadings(root)
	fixTypography(root)
}

// correctH1 lets an h1 written by the author take the place of the one
// generated from the title.
func correctH1(root *html.Node) {
	h1s := dom.Select(root, "h1")
	if len(h1s) < 2 {
		return
	}
	h1s[1].Parent.RemoveChild(h1s[1])
	dom.ReplaceNode(h1s[0], h1s[1])
}

// onlyChild returns the single element child of n, ignoring whitespace.
func onlyChild(n *html.Node) *html.Node {
	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.Type != html.ElementNode || only != nil {
			return nil
		}
		only = c
	}
	return only
}

// cleanDefinitionTerms unwraps the paragraph of a dt that has nothing else.
func cleanDefinitionTerms(root *html.Node) {
	for _, dt := range dom.Select(root, "dt[data-md]") {
		if p := onlyChild(dt); p != nil && p.Data == "p" {
			dom.Unwrap(p)
		}
	}
}

// mergeLists lets an HTML list wrap a markdown list of the same kind: the
// items move up into the outer list. The data-md marker is dropped from
// every list.
func mergeLists(root *html.Node) {
	for _, list := range dom.Select(root, "ol, ul, dl") {
		inner := onlyChild(list)
		if inner != nil && inner.Data == list.Data &&
			!dom.HasAttr(list, "data-md") && dom.HasAttr(inner, "data-md") {
			if start, ok := dom.Attr(inner, "start"); ok && !dom.HasAttr(list, "start") {
				dom.SetAttr(list, "start", start)
			}
			dom.ReparentChildren(list, inner)
			list.RemoveChild(inner)
			continue
		}
		dom.RemoveAttr(list, "data-md")
	}
}

// markProperties adds the css class to property definitions and links.
func markProperties(root *html.Node) {
	for _, n := range dom.Select(root, config.DfnSelector) {
		if dom.GetAttr(n, "data-dfn-type") == "property" {
			dom.AddClass(n, "css")
		}
	}
	for _, a := range dom.Select(root, `a[data-link-type="property"]`) {
		dom.AddClass(a, "css")
	}
}

func markHeadings(root *html.Node) {
	for _, h := range dom.Select(root, "h2, h3, h4, h5, h6") {
		dom.AddClass(h, "heading")
		dom.AddClass(h, "settled")
	}
}

var reApostrophe = regexp.MustCompile(`([\p{L}\p{N}_])'([\p{L}\p{N}_])`)

// verbatim elements keep their text as written
var verbatim = map[string]bool{"pre": true, "code": true, "xmp": true, "script": true, "style": true}

// fixTypography turns the apostrophes between two letters of the text into
// typographic ones.
func fixTypography(root *html.Node) {
	dom.Walk(root, func(n *html.Node) bool {
		switch n.Type {
		case html.ElementNode:
			return !verbatim[n.Data]
		case html.TextNode:
			for reApostrophe.MatchString(n.Data) {
				n.Data = reApostrophe.ReplaceAllString(n.Data, "$1’$2")
			}
		}
		return true
	})
}
