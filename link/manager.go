package link

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/derekparker/trie"
)

// maxSuggestions caps the near misses listed in a ResolveError.
const maxSuggestions = 5

// Manager resolves queries against the sources in precedence order: the
// definitions of the document, the anchor data blocks, and the external
// anchor shards.
type Manager struct {
	Local       *MemorySource
	AnchorBlock *MemorySource
	External    Source

	known *trie.Trie
}

// NewManager returns a manager with empty local sources. external may be nil
// when no spec data is available.
func NewManager(external Source) *Manager {
	return &Manager{
		Local:       NewMemorySource("local"),
		AnchorBlock: NewMemorySource("anchor block"),
		External:    external,
		known:       trie.New(),
	}
}

// AddLocal registers a definition of the document.
func (m *Manager) AddLocal(text string, ref Reference) {
	m.Local.Add(text, ref)
	m.remember(text, ref)
}

// AddAnchor registers a reference declared in an anchor data block.
func (m *Manager) AddAnchor(text string, ref Reference) {
	m.AnchorBlock.Add(text, ref)
	m.remember(text, ref)
}

func (m *Manager) remember(text string, ref Reference) {
	m.known.Add(strings.ToLower(NormalizeText(text)), ref.LinkType)
}

// ResolveError is returned when no tier has a reference for a query.
type ResolveError struct {
	Query Query
	// Err is the failure of the last tier tried
	Err *QueryError
	// Suggestions are known link texts close to the one of the query
	Suggestions []string
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("cannot resolve %s: %s", e.Query, e.Err.Kind)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ResolveError) Unwrap() error { return e.Err }

type tier struct {
	source Source
	match  Match
}

// GetReference returns the first reference matching q. The tiers are tried
// in order and the first one with a surviving candidate wins. With inexact
// set, the external anchors are finally searched with link text variations.
func (m *Manager) GetReference(q Query, inexact bool) (Reference, error) {
	tiers := []tier{
		{m.Local, Exact},
		{m.AnchorBlock, Exact},
	}
	if m.External != nil {
		tiers = append(tiers, tier{m.External, Exact})
		if inexact {
			tiers = append(tiers, tier{m.External, Inexact})
		}
	}

	var last *QueryError
	for _, t := range tiers {
		refs, err := t.source.QueryReferences(q, t.match)
		if err == nil {
			return refs[0], nil
		}

		var qe *QueryError
		if !errors.As(err, &qe) {
			return Reference{}, err
		}
		last = qe
	}

	return Reference{}, &ResolveError{
		Query:       q,
		Err:         last,
		Suggestions: m.suggest(q.LinkText),
	}
}

func (m *Manager) suggest(text string) []string {
	key := strings.ToLower(NormalizeText(text))
	if key == "" {
		return nil
	}

	seen := map[string]bool{}
	var out []string
	add := func(keys []string) {
		sort.Strings(keys)
		for _, k := range keys {
			if len(out) == maxSuggestions {
				return
			}
			if k != key && !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}

	if ext, ok := m.External.(interface{ Keys() []string }); ok {
		for _, k := range ext.Keys() {
			if _, found := m.known.Find(strings.ToLower(k)); !found {
				m.known.Add(strings.ToLower(k), nil)
			}
		}
	}

	add(m.known.PrefixSearch(key))
	add(m.known.FuzzySearch(key))
	return out
}
