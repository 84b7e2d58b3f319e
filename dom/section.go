package dom

import (
	"golang.org/x/net/html"
)

// UnnumberedSection is the section name of content before any heading.
const UnnumberedSection = "Unnumbered section"

// SectionIndex maps every node of a tree to the name of the section it is in,
// that is the closest heading before it in document order.
type SectionIndex struct {
	section map[*html.Node]string
}

// NewSectionIndex walks root once and records the section of every node.
func NewSectionIndex(root *html.Node) *SectionIndex {
	idx := &SectionIndex{section: map[*html.Node]string{}}
	current := UnnumberedSection

	Walk(root, func(n *html.Node) bool {
		if IsElement(n, HeadingElements...) {
			current = HeadingLabel(n)
		}
		idx.section[n] = current
		return true
	})
	return idx
}

// Section returns the section name of n.
func (idx *SectionIndex) Section(n *html.Node) string {
	if s, ok := idx.section[n]; ok {
		return s
	}
	return UnnumberedSection
}

// HeadingLabel returns the text of a heading, prefixed with its section
// number when the heading carries a data-level attribute.
func HeadingLabel(heading *html.Node) string {
	text := TextContent(heading)
	if level, ok := Attr(heading, "data-level"); ok && level != "" {
		return "§ " + level + " " + text
	}
	return text
}
