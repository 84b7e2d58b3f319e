package spec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hesusruiz/specmark/biblio"
	"github.com/hesusruiz/specmark/config"
	"github.com/hesusruiz/specmark/dom"
	"github.com/hesusruiz/specmark/link"
	"github.com/hesusruiz/specmark/panel"
)

// processBiblioLinks points every citation to its entry in the references
// section and records the entry as normative or informative.
func (d *Document) processBiblioLinks() error {
	for _, a := range dom.Select(d.body, `a[data-link-type="biblio"]`) {
		key, ok := dom.Attr(a, "data-lt")
		if !ok {
			key = dom.TextContent(a)
		}
		key = strings.TrimSpace(strings.Trim(key, "[]"))
		if key == "" {
			continue
		}

		e, err := d.biblio.Get(key)
		if err != nil {
			return fmt.Errorf("%s: citation [%s]: %w", d.FileName, key, err)
		}
		if e.LinkText == "" {
			e.LinkText = key
		}

		dom.SetAttr(a, "href", "#"+panel.BiblioID(key))
		if dom.GetAttr(a, "data-biblio-type") == "normative" {
			d.normative.Add(key, e)
		} else {
			d.informative.Add(key, e)
		}
	}
	return nil
}

// processAutoLinks resolves the links without href against the definitions
// of the document, its anchor blocks and the anchors of other specs.
// A link that cannot be resolved stops the processing with a
// *link.ResolveError carrying the suggestions.
func (d *Document) processAutoLinks() error {
	for _, a := range dom.Select(d.body, `a:not([href]):not([data-link-type="biblio"])`) {
		linkType := dom.GetAttr(a, "data-link-type")
		if linkType == "" {
			linkType = "dfn"
			dom.SetAttr(a, "data-link-type", linkType)
		}

		text, ok := dom.Attr(a, "data-lt")
		if !ok {
			text = dom.TextContent(a)
		}
		if text == "" {
			continue
		}

		q := link.Query{
			LinkType: linkType,
			LinkText: text,
			Status:   dom.GetAttr(a, "data-link-status"),
		}
		if v, ok := dom.Attr(a, "data-link-for"); ok {
			q.For = config.SplitForValues(v)
			q.ExplicitFor = true
		}

		ref, err := d.links.GetReference(q, d.Metadata.InexactLinks)
		if err != nil {
			var re *link.ResolveError
			if errors.As(err, &re) {
				return fmt.Errorf("%s: %w", d.FileName, re)
			}
			return fmt.Errorf("%s: resolving %s: %w", d.FileName, q, err)
		}

		dom.SetAttr(a, "href", ref.URL)
		if !dom.HasAttr(a, "id") {
			if frag := ref.Fragment(); frag != "" {
				dom.SetAttr(a, "id", "ref-for-"+frag)
			}
		}

		if ref.Spec != "" && !strings.EqualFold(ref.Spec, d.Metadata.Shortname) {
			if err := d.addExternal(ref, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// addExternal records a term defined by another spec. The spec itself becomes
// a normative reference when the bibliography knows it.
func (d *Document) addExternal(ref link.Reference, text string) error {
	d.external.Add(ref.Spec, text, ref)

	e, err := d.biblio.Get(ref.Spec)
	if err != nil {
		var nf *biblio.NotFoundError
		if errors.As(err, &nf) {
			d.log.Debugw("no biblio entry for linked spec", "spec", ref.Spec)
			return nil
		}
		return fmt.Errorf("%s: biblio entry of %s: %w", d.FileName, ref.Spec, err)
	}
	if e.LinkText == "" {
		e.LinkText = ref.Spec
	}
	d.normative.Add(ref.Spec, e)
	return nil
}
