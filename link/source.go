package link

// A Source answers reference queries.
type Source interface {
	// QueryReferences returns the references matching q, in the order they
	// were added to the source. A *QueryError tells which filter stage left
	// no candidates; any other error is a failure of the source itself.
	QueryReferences(q Query, match Match) ([]Reference, error)
}

// MemorySource is a source fully held in memory. It backs the definitions
// of the document and the anchor data blocks.
type MemorySource struct {
	name string
	refs map[string][]Reference
	keys []string
}

// NewMemorySource returns an empty source. name is used in log messages.
func NewMemorySource(name string) *MemorySource {
	return &MemorySource{name: name, refs: map[string][]Reference{}}
}

// Name returns the name of the source.
func (s *MemorySource) Name() string { return s.name }

// Add registers ref under the link text text.
func (s *MemorySource) Add(text string, ref Reference) {
	text = NormalizeText(text)
	if _, ok := s.refs[text]; !ok {
		s.keys = append(s.keys, text)
	}
	s.refs[text] = append(s.refs[text], ref)
}

// Len returns the number of distinct link texts.
func (s *MemorySource) Len() int { return len(s.keys) }

// Keys returns the link texts in insertion order.
func (s *MemorySource) Keys() []string { return s.keys }

// QueryReferences implements Source.
func (s *MemorySource) QueryReferences(q Query, match Match) ([]Reference, error) {
	candidates, err := fetch(q, match, s.lookup)
	if err != nil {
		return nil, err
	}
	return filterReferences(candidates, q)
}

func (s *MemorySource) lookup(text string) ([]Reference, error) {
	return s.refs[text], nil
}

// fetch collects the candidates for the query text, or for all its variants
// in inexact mode.
func fetch(q Query, match Match, lookup func(string) ([]Reference, error)) ([]Reference, error) {
	texts := []string{NormalizeText(q.LinkText)}
	if match == Inexact {
		texts = LinkTextVariations(q.LinkType, texts[0])
	}

	var out []Reference
	for _, t := range texts {
		refs, err := lookup(t)
		if err != nil {
			return nil, err
		}
		out = append(out, refs...)
	}
	return out, nil
}
