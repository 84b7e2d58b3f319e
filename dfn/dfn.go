// Package dfn classifies the definitions of a document and registers them as
// local references for link resolution.
package dfn

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/specmark/config"
	"github.com/hesusruiz/specmark/dom"
	"github.com/hesusruiz/specmark/link"
	"golang.org/x/net/html"
)

// LocalStatus is the status of references to definitions of the document.
const LocalStatus = "local"

// Dfn is a classified definition.
type Dfn struct {
	Node      *html.Node
	Type      string
	ID        string
	For       []string
	Export    bool
	LinkTexts []string
}

// ClassifyError reports a definition that cannot be classified.
type ClassifyError struct {
	Type string
	Text string
}

func (e *ClassifyError) Error() string {
	return fmt.Sprintf("unknown dfn type %q on definition %q", e.Type, e.Text)
}

// inherited is what a definition takes from its ancestors.
type inherited struct {
	export *bool
	dfnFor string
	hasFor bool
}

func (c inherited) apply(n *html.Node) inherited {
	if dom.HasAttr(n, "data-export") {
		t := true
		c.export = &t
	} else if dom.HasAttr(n, "data-noexport") {
		f := false
		c.export = &f
	}
	if v, ok := dom.Attr(n, "data-dfn-for"); ok {
		c.dfnFor, c.hasFor = v, true
	}
	return c
}

// Classify finds every definition under root, in document order, and fills
// in the data-dfn-type, data-export or data-noexport and id attributes of the
// ones that lack them.
func Classify(root *html.Node) ([]*Dfn, error) {
	var dfns []*Dfn
	var walk func(n *html.Node, ctx inherited) error
	walk = func(n *html.Node, ctx inherited) error {
		if n.Type == html.ElementNode {
			ctx = ctx.apply(n)
			if dom.Matches(n, config.DfnSelector) {
				d, err := classify(n, ctx)
				if err != nil {
					return err
				}
				dfns = append(dfns, d)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c, ctx); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, inherited{}); err != nil {
		return nil, err
	}
	return dfns, nil
}

func classify(n *html.Node, ctx inherited) (*Dfn, error) {
	text := dom.TextContent(n)

	typ := dfnType(n)
	if !config.DfnTypes[typ] {
		return nil, &ClassifyError{Type: typ, Text: text}
	}
	dom.SetAttr(n, "data-dfn-type", typ)

	d := &Dfn{Node: n, Type: typ}

	switch {
	case ctx.export != nil:
		d.Export = *ctx.export
	default:
		d.Export = typ != "dfn"
	}
	if !dom.HasAttr(n, "data-export") && !dom.HasAttr(n, "data-noexport") {
		if d.Export {
			dom.SetAttr(n, "data-export", "")
		} else {
			dom.SetAttr(n, "data-noexport", "")
		}
	}

	if ctx.hasFor {
		d.For = config.SplitForValues(ctx.dfnFor)
		dom.SetAttr(n, "data-dfn-for", ctx.dfnFor)
	}

	if lt, ok := dom.Attr(n, "data-lt"); ok {
		for _, t := range strings.Split(lt, "|") {
			if t = strings.TrimSpace(t); t != "" {
				d.LinkTexts = append(d.LinkTexts, t)
			}
		}
	}
	if len(d.LinkTexts) == 0 {
		d.LinkTexts = []string{text}
	}

	id, ok := dom.Attr(n, "id")
	if !ok || id == "" {
		id = generateID(typ, text)
		dom.SetAttr(n, "id", id)
	}
	d.ID = id

	return d, nil
}

func dfnType(n *html.Node) string {
	if t, ok := dom.Attr(n, "data-dfn-type"); ok && t != "" {
		return t
	}
	for _, class := range strings.Fields(dom.GetAttr(n, "class")) {
		if t, ok := config.DfnClassToType[class]; ok {
			return t
		}
	}
	return "dfn"
}

func generateID(typ string, text string) string {
	name := dom.GenerateName(text)
	if name == "" {
		name = typ
	}
	if class, ok := config.DfnTypeToClass[typ]; ok {
		return class + "-" + name
	}
	return name
}

// Register adds the definitions to the local source of m, one reference per
// link text. The ids are read again from the tree so that references carry
// the ids left by deduplication.
func Register(dfns []*Dfn, m *link.Manager) {
	for _, d := range dfns {
		d.ID = dom.GetAttr(d.Node, "id")
		ref := link.Reference{
			LinkType: d.Type,
			Status:   LocalStatus,
			URL:      "#" + d.ID,
			For:      d.For,
			Export:   d.Export,
		}
		for _, t := range d.LinkTexts {
			m.AddLocal(t, ref)
		}
	}
}
