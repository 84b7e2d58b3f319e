// Package panel builds the generated parts of the document: self-links,
// the "Referenced in" panels of definitions, the index and the references.
package panel

import (
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/hesusruiz/specmark/dfn"
	"github.com/hesusruiz/specmark/dom"
	"golang.org/x/net/html"
)

// AddSelfLinks appends a self-link to every heading with an id. Headings that
// are definitions get theirs from AddDfnPanels.
func AddSelfLinks(root *html.Node) {
	for _, h := range dom.Select(root, "h2[id], h3[id], h4[id], h5[id], h6[id]") {
		if dom.HasAttr(h, "data-dfn-type") {
			continue
		}
		id := dom.GetAttr(h, "id")
		h.AppendChild(dom.NewA("#"+id, "", "class", "self-link"))
	}
}

// AddDfnPanels gives every definition either a self-link, when nothing links
// to it, or a panel listing the sections that cite it. Citations without an
// id get a unique "ref-for-<id>" one so that the panel can point to them.
func AddDfnPanels(root *html.Node, dfns []*dfn.Dfn) {
	sections := dom.NewSectionIndex(root)

	citations := map[string][]*html.Node{}
	ids := map[string]bool{}
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if id, ok := dom.Attr(n, "id"); ok {
			ids[id] = true
		}
		if n.Data == "a" {
			if href := dom.GetAttr(n, "href"); len(href) > 1 && href[0] == '#' {
				citations[href[1:]] = append(citations[href[1:]], n)
			}
		}
		return true
	})

	uniqueID := func(base string) string {
		id := base
		for i := 1; ids[id]; i++ {
			id = base + dom.CircledDigits(i)
		}
		ids[id] = true
		return id
	}

	for _, d := range dfns {
		id := dom.GetAttr(d.Node, "id")
		cites := citations[id]
		if len(cites) == 0 {
			d.Node.AppendChild(dom.NewA("#"+id, "", "class", "self-link"))
			continue
		}

		// section name -> citations, in order of first appearance
		bySection := linkedhashmap.New()
		for _, c := range cites {
			section := sections.Section(c)
			var list []*html.Node
			if v, found := bySection.Get(section); found {
				list = v.([]*html.Node)
			}
			bySection.Put(section, append(list, c))
		}

		dom.AddClass(d.Node, "dfn-paneled")
		aside := dom.NewElement("aside", "class", "dfn-panel", "data-for", id)

		b := dom.AppendElement(aside, "b")
		b.AppendChild(dom.NewA("#"+id, "#"+id, "class", "self-link"))
		dom.AppendElement(aside, "b").AppendChild(dom.NewText("Referenced in:"))

		ul := dom.AppendElement(aside, "ul")
		it := bySection.Iterator()
		for it.Next() {
			section := it.Key().(string)
			li := dom.AppendElement(ul, "li")
			for i, c := range it.Value().([]*html.Node) {
				citeID, ok := dom.Attr(c, "id")
				if !ok || citeID == "" {
					citeID = uniqueID("ref-for-" + id)
					dom.SetAttr(c, "id", citeID)
				}
				if i == 0 {
					li.AppendChild(dom.NewA("#"+citeID, section))
					continue
				}
				li.AppendChild(dom.NewText(" "))
				li.AppendChild(dom.NewA("#"+citeID, "("+strconv.Itoa(i+1)+")"))
			}
		}

		root.AppendChild(aside)
	}
}
