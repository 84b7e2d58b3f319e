package panel

import (
	"strings"
	"unicode"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/hesusruiz/specmark/biblio"
	"github.com/hesusruiz/specmark/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Bibliography is a set of cited entries sorted by key.
type Bibliography struct {
	entries *treemap.Map
}

// NewBibliography returns an empty bibliography.
func NewBibliography() *Bibliography {
	return &Bibliography{entries: treemap.NewWithStringComparator()}
}

// Add records the entry cited as key. A key is recorded once.
func (b *Bibliography) Add(key string, e biblio.Entry) {
	key = strings.ToLower(key)
	if _, found := b.entries.Get(key); !found {
		b.entries.Put(key, e)
	}
}

// Has reports whether key was recorded.
func (b *Bibliography) Has(key string) bool {
	_, found := b.entries.Get(strings.ToLower(key))
	return found
}

// Len returns the number of entries.
func (b *Bibliography) Len() int { return b.entries.Size() }

// BiblioID returns the id of the references entry for key.
func BiblioID(key string) string {
	return "biblio-" + dom.GenerateName(key)
}

var upper = cases.Upper(language.Und)

// BiblioLabel returns how a key is shown: uppercased when written all in
// lowercase, as is otherwise.
func BiblioLabel(key string) string {
	for _, r := range key {
		if unicode.IsLetter(r) && !unicode.IsLower(r) {
			return key
		}
	}
	return upper.String(key)
}

// FormatAuthors returns the author list of a references entry: the only
// author, up to three separated by ';', or the first one and "et al.".
func FormatAuthors(authors []string) string {
	switch {
	case len(authors) == 0:
		return ""
	case len(authors) == 1:
		return authors[0] + "."
	case len(authors) < 4:
		return strings.Join(authors, "; ") + "."
	default:
		return authors[0] + "; et al."
	}
}

// AddReferencesSection appends the normative and informative references.
// Entries cited both ways are only listed as normative.
func AddReferencesSection(root *html.Node, normative, informative *Bibliography) {
	if normative.Len() == 0 && informative.Len() == 0 {
		return
	}

	c := container(root, "references")
	h2 := dom.AppendElement(c, "h2", "class", "no-num no-ref", "id", "references")
	h2.AppendChild(dom.NewText("References"))

	if normative.Len() > 0 {
		h3 := dom.AppendElement(c, "h3", "class", "no-num no-ref", "id", "normative")
		h3.AppendChild(dom.NewText("Normative References"))
		addEntries(c, normative, nil)
	}

	informativeOnly := informative.Len()
	it := informative.entries.Iterator()
	for it.Next() {
		if normative.Has(it.Key().(string)) {
			informativeOnly--
		}
	}
	if informativeOnly > 0 {
		h3 := dom.AppendElement(c, "h3", "class", "no-num no-ref", "id", "informative")
		h3.AppendChild(dom.NewText("Informative References"))
		addEntries(c, informative, normative)
	}
}

func addEntries(c *html.Node, b *Bibliography, skip *Bibliography) {
	dl := dom.AppendElement(c, "dl")
	it := b.entries.Iterator()
	for it.Next() {
		key := it.Key().(string)
		if skip != nil && skip.Has(key) {
			continue
		}
		e := it.Value().(biblio.Entry)

		label := e.LinkText
		if label == "" {
			label = key
		}
		dt := dom.AppendElement(dl, "dt", "id", BiblioID(key))
		dt.AppendChild(dom.NewText("[" + BiblioLabel(label) + "]"))
		dl.AppendChild(EntryNode(e))
	}
}

// EntryNode renders an entry as the dd of the references list.
func EntryNode(e biblio.Entry) *html.Node {
	dd := dom.NewElement("dd")

	if e.Format == biblio.String {
		context := &html.Node{Type: html.ElementNode, Data: "dd", DataAtom: atom.Dd}
		nodes, err := html.ParseFragment(strings.NewReader(e.Data), context)
		if err != nil {
			dd.AppendChild(dom.NewText(e.Data))
			return dd
		}
		for _, n := range nodes {
			dd.AppendChild(n)
		}
		return dd
	}

	if authors := FormatAuthors(e.Authors); authors != "" {
		dd.AppendChild(dom.NewText(authors + " "))
	}

	var title *html.Node
	if e.URL != "" {
		title = dom.NewA(e.URL, "")
	} else {
		title = dom.NewElement("span")
	}
	cite := dom.AppendElement(title, "cite")
	cite.AppendChild(dom.NewText(e.Title))
	dd.AppendChild(title)

	tail := ". "
	if e.Date != "" {
		tail += e.Date + ". "
	}
	if e.Status != "" {
		tail += e.Status + ". "
	}
	if e.URL == "" {
		dd.AppendChild(dom.NewText(strings.TrimSpace(tail)))
		return dd
	}
	dd.AppendChild(dom.NewText(tail + "URL: "))
	dd.AppendChild(dom.NewA(e.URL, e.URL))
	return dd
}
