package link

import (
	"github.com/hesusruiz/specmark/specdata"
)

// ExternalSource serves the anchors of other specifications from the shards
// in <dir>/anchors. A shard is read the first time one of its keys is asked
// for, and never again during the life of the source, even when it was
// missing or did not have the key.
type ExternalSource struct {
	dir    string
	refs   map[string][]Reference
	keys   []string
	loaded map[string]bool
}

// NewExternalSource returns a source reading shards under dir.
func NewExternalSource(dir string) *ExternalSource {
	return &ExternalSource{
		dir:    dir,
		refs:   map[string][]Reference{},
		loaded: map[string]bool{},
	}
}

// QueryReferences implements Source.
func (s *ExternalSource) QueryReferences(q Query, match Match) ([]Reference, error) {
	candidates, err := fetch(q, match, s.lookup)
	if err != nil {
		return nil, err
	}
	return filterReferences(candidates, q)
}

// Keys returns the link texts loaded so far.
func (s *ExternalSource) Keys() []string { return s.keys }

// LoadedGroups returns the number of shards read, including missing ones.
func (s *ExternalSource) LoadedGroups() int { return len(s.loaded) }

func (s *ExternalSource) lookup(text string) ([]Reference, error) {
	if err := s.loadGroup(specdata.GroupName(text)); err != nil {
		return nil, err
	}
	return s.refs[text], nil
}

func (s *ExternalSource) loadGroup(group string) error {
	if s.loaded[group] {
		return nil
	}
	s.loaded[group] = true

	path := specdata.ShardPath(s.dir, "anchors", group)
	lines, found, err := specdata.ReadShard(path)
	if err != nil || !found {
		return err
	}

	r := specdata.NewReader(path, lines)
	for r.More() {
		key, ref, err := readAnchor(r)
		if err != nil {
			return err
		}
		key = NormalizeText(key)
		if _, ok := s.refs[key]; !ok {
			s.keys = append(s.keys, key)
		}
		s.refs[key] = append(s.refs[key], ref)
	}
	return nil
}

// readAnchor reads one anchor record:
//
//	key
//	link type
//	spec
//	shortname
//	level
//	status
//	url
//	export ("1" or empty)
//	normative ("1" or empty)
//	for-values, one per line
//	-
func readAnchor(r *specdata.Reader) (string, Reference, error) {
	var fields [9]string
	names := [9]string{"key", "link type", "spec", "shortname", "level", "status", "url", "export", "normative"}
	for i, name := range names {
		v, err := r.Field(name)
		if err != nil {
			return "", Reference{}, err
		}
		fields[i] = v
	}

	fors, err := r.UntilTerminator("for-values")
	if err != nil {
		return "", Reference{}, err
	}

	ref := Reference{
		LinkType:  fields[1],
		Spec:      fields[2],
		Status:    fields[5],
		URL:       fields[6],
		Export:    fields[7] == "1",
		Normative: fields[8] == "1",
		For:       fors,
	}
	return fields[0], ref, nil
}
