package panel

import (
	"sort"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/hesusruiz/specmark/dfn"
	"github.com/hesusruiz/specmark/dom"
	"github.com/hesusruiz/specmark/link"
	"golang.org/x/net/html"
)

// ExternalTerms collects the terms of other specifications that the document
// links to, by specification.
type ExternalTerms struct {
	// spec -> *treemap.Map of link text -> link.Reference
	specs *treemap.Map
}

// NewExternalTerms returns an empty collection.
func NewExternalTerms() *ExternalTerms {
	return &ExternalTerms{specs: treemap.NewWithStringComparator()}
}

// Add records that the document links to text, defined by spec at ref.
// Only the first reference recorded for a text is kept.
func (e *ExternalTerms) Add(spec string, text string, ref link.Reference) {
	var terms *treemap.Map
	if v, found := e.specs.Get(spec); found {
		terms = v.(*treemap.Map)
	} else {
		terms = treemap.NewWithStringComparator()
		e.specs.Put(spec, terms)
	}
	if _, found := terms.Get(text); !found {
		terms.Put(text, ref)
	}
}

// Len returns the number of specifications.
func (e *ExternalTerms) Len() int { return e.specs.Size() }

// Specs returns the specifications in sorted order.
func (e *ExternalTerms) Specs() []string {
	var out []string
	for _, k := range e.specs.Keys() {
		out = append(out, k.(string))
	}
	return out
}

// container returns the element marked with data-fill-with=name, or root.
func container(root *html.Node, name string) *html.Node {
	if c := dom.SelectFirst(root, `[data-fill-with="`+name+`"]`); c != nil {
		return c
	}
	return root
}

type indexEntry struct {
	text          string
	disambiguator string
	id            string
	section       string
	typ           string
}

// AddIndexSection appends the index of the terms defined by the document
// and of the terms it links to in other specifications.
func AddIndexSection(root *html.Node, dfns []*dfn.Dfn, external *ExternalTerms) {
	if len(dfns) == 0 && (external == nil || external.Len() == 0) {
		return
	}

	sections := dom.NewSectionIndex(root)
	c := container(root, "index")

	h2 := dom.AppendElement(c, "h2", "class", "no-num no-ref", "id", "index")
	h2.AppendChild(dom.NewText("Index"))

	if len(dfns) > 0 {
		h3 := dom.AppendElement(c, "h3", "class", "no-num no-ref", "id", "index-defined-here")
		h3.AppendChild(dom.NewText("Terms defined by this specification"))

		var entries []indexEntry
		for _, d := range dfns {
			e := indexEntry{
				text:          dom.TextContent(d.Node),
				disambiguator: d.Type,
				id:            dom.GetAttr(d.Node, "id"),
				section:       sections.Section(d.Node),
				typ:           d.Type,
			}
			if d.Type == "dfn" {
				e.disambiguator = "definition of"
			}
			entries = append(entries, e)
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].disambiguator != entries[j].disambiguator {
				return entries[i].disambiguator < entries[j].disambiguator
			}
			return entries[i].text < entries[j].text
		})

		ul := dom.AppendElement(c, "ul", "class", "index")
		for _, e := range entries {
			li := dom.AppendElement(ul, "li")
			li.AppendChild(dom.NewA("#"+e.id, e.text))
			if e.typ != "dfn" {
				li.AppendChild(dom.NewText(" (" + e.typ + ")"))
			}
			span := dom.AppendElement(li, "span")
			span.AppendChild(dom.NewText(", in " + e.section))
		}
	}

	if external != nil && external.Len() > 0 {
		h3 := dom.AppendElement(c, "h3", "class", "no-num no-ref", "id", "index-defined-elsewhere")
		h3.AppendChild(dom.NewText("Terms defined by reference"))

		ul := dom.AppendElement(c, "ul", "class", "index")
		it := external.specs.Iterator()
		for it.Next() {
			spec := it.Key().(string)
			li := dom.AppendElement(ul, "li")
			li.AppendChild(dom.NewText("[" + BiblioLabel(spec) + "] defines the following terms:"))

			terms := dom.AppendElement(li, "ul")
			tt := it.Value().(*treemap.Map).Iterator()
			for tt.Next() {
				ref := tt.Value().(link.Reference)
				dom.AppendElement(terms, "li").AppendChild(dom.NewA(ref.URL, tt.Key().(string)))
			}
		}
	}
}
