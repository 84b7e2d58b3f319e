// Package dom has the helpers to query and mutate the element tree produced
// from the markup. The tree is a golang.org/x/net/html tree; selectors are
// compiled with cascadia.
package dom

import (
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HeadingElements are the elements that open a section.
var HeadingElements = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

var (
	selMu    sync.Mutex
	selCache = map[string]cascadia.Selector{}
)

func compile(query string) cascadia.Selector {
	selMu.Lock()
	defer selMu.Unlock()
	if sel, ok := selCache[query]; ok {
		return sel
	}
	sel := cascadia.MustCompile(query)
	selCache[query] = sel
	return sel
}

// Select returns the descendants of root matching the CSS selector query, in
// document order. It panics if query is not a valid selector.
func Select(root *html.Node, query string) []*html.Node {
	return cascadia.QueryAll(root, compile(query))
}

// SelectFirst returns the first descendant of root matching query, or nil.
func SelectFirst(root *html.Node, query string) *html.Node {
	return cascadia.Query(root, compile(query))
}

// Matches reports whether n matches the CSS selector query.
func Matches(n *html.Node, query string) bool {
	return compile(query).Match(n)
}

// IsElement reports whether n is an element with one of the given tag names.
// With no names it only checks that n is an element.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Attr returns the value of the attribute key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the value of the attribute key, or "" when absent.
func GetAttr(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

// HasAttr reports whether n carries the attribute key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets the attribute key, keeping its position when it already exists.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether class is one of the classes of n.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(GetAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to the class attribute unless it is already there.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	current := strings.TrimSpace(GetAttr(n, "class"))
	if current == "" {
		SetAttr(n, "class", class)
		return
	}
	SetAttr(n, "class", current+" "+class)
}

// TextContent returns the concatenated text of all descendants of n, with
// surrounding whitespace trimmed.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// NewElement creates a detached element. attrs are key/value pairs.
func NewElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// NewA creates an anchor pointing to href with the given text.
func NewA(href string, text string, attrs ...string) *html.Node {
	a := NewElement("a", append([]string{"href", href}, attrs...)...)
	if text != "" {
		a.AppendChild(NewText(text))
	}
	return a
}

// AppendElement creates an element, appends it to parent and returns it.
func AppendElement(parent *html.Node, tag string, attrs ...string) *html.Node {
	n := NewElement(tag, attrs...)
	parent.AppendChild(n)
	return n
}

// InsertAfter inserts newChild as the next sibling of ref.
func InsertAfter(ref, newChild *html.Node) {
	if ref.NextSibling != nil {
		ref.Parent.InsertBefore(newChild, ref.NextSibling)
		return
	}
	ref.Parent.AppendChild(newChild)
}

// ReplaceNode puts newNode in the place of old, which is detached.
func ReplaceNode(old, newNode *html.Node) {
	old.Parent.InsertBefore(newNode, old)
	old.Parent.RemoveChild(old)
}

// Unwrap replaces n with its children.
func Unwrap(n *html.Node) {
	parent := n.Parent
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// ReparentChildren moves all children of src to the end of dst.
func ReparentChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; c = src.FirstChild {
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

// ClosestAttr walks from n up through its ancestors and returns the value of
// the first attribute found among keys, and the key it was found under.
func ClosestAttr(n *html.Node, keys ...string) (key string, val string, found bool) {
	for el := n; el != nil; el = el.Parent {
		if el.Type != html.ElementNode {
			continue
		}
		for _, k := range keys {
			if v, ok := Attr(el, k); ok {
				return k, v, true
			}
		}
	}
	return "", "", false
}

// Body returns the body element of a parsed document, or nil.
func Body(doc *html.Node) *html.Node {
	return SelectFirst(doc, "body")
}

// Walk calls fn for n and every descendant in document order. When fn returns
// false the children of that node are skipped.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}
