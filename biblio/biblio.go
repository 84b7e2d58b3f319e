// Package biblio looks up bibliography entries by citation key, in the
// entries declared by the document and in the biblio shards of the spec data
// directory.
package biblio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hesusruiz/specmark/specdata"
	"golang.org/x/text/cases"
)

// Format is the shape of a bibliography record.
type Format int

const (
	// Dict entries carry the full set of fields
	Dict Format = iota
	// String entries carry preformatted reference text in Data
	String
	// Alias entries point to another key
	Alias
)

func (f Format) String() string {
	switch f {
	case Dict:
		return "dict"
	case String:
		return "string"
	case Alias:
		return "alias"
	}
	return "unknown"
}

// Entry is a bibliography entry.
type Entry struct {
	Format   Format
	LinkText string
	Date     string
	Status   string
	Title    string
	URL      string
	Authors  []string
	Data     string
	AliasOf  string
}

// ErrAliasCycle is returned when the alias chain of a key comes back to a
// key already visited.
var ErrAliasCycle = errors.New("biblio alias cycle")

// NotFoundError is returned when no entry has the key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("biblio entry not found: %s", e.Key)
}

// Source resolves citation keys.
type Source struct {
	dir     string
	local   map[string]Entry
	entries map[string]Entry
	loaded  map[string]bool
	fold    cases.Caser
}

// NewSource returns a source reading the shards under dir. dir may be empty,
// and then only the local entries are known.
func NewSource(dir string) *Source {
	return &Source{
		dir:     dir,
		local:   map[string]Entry{},
		entries: map[string]Entry{},
		loaded:  map[string]bool{},
		fold:    cases.Fold(),
	}
}

// AddEntry registers an entry declared by the document. It takes precedence
// over the entries of the shards.
func (s *Source) AddEntry(key string, e Entry) {
	s.local[s.fold.String(key)] = e
}

// Get returns the entry for key, following aliases.
func (s *Source) Get(key string) (Entry, error) {
	visited := map[string]bool{}
	chain := []string{}
	for {
		k := s.fold.String(key)
		chain = append(chain, key)
		if visited[k] {
			return Entry{}, fmt.Errorf("%w: %s", ErrAliasCycle, strings.Join(chain, " -> "))
		}
		visited[k] = true

		e, err := s.lookup(k)
		if err != nil {
			return Entry{}, err
		}
		if e.Format != Alias {
			return e, nil
		}
		key = e.AliasOf
	}
}

func (s *Source) lookup(key string) (Entry, error) {
	if e, ok := s.local[key]; ok {
		return e, nil
	}
	if s.dir == "" {
		return Entry{}, &NotFoundError{Key: key}
	}

	if err := s.loadGroup(specdata.GroupName(key)); err != nil {
		return Entry{}, err
	}
	if e, ok := s.entries[key]; ok {
		return e, nil
	}
	return Entry{}, &NotFoundError{Key: key}
}

func (s *Source) loadGroup(group string) error {
	if s.loaded[group] {
		return nil
	}
	s.loaded[group] = true

	path := specdata.ShardPath(s.dir, "biblio", group)
	lines, found, err := specdata.ReadShard(path)
	if err != nil || !found {
		return err
	}

	r := specdata.NewReader(path, lines)
	for r.More() {
		head, err := r.Field("key")
		if err != nil {
			return err
		}
		kind, key, ok := strings.Cut(head, " ")
		if !ok || key == "" {
			return &specdata.FormatError{File: path, Line: r.Line(), Msg: fmt.Sprintf("malformed key line %q", head)}
		}

		e, err := readEntry(r, path, kind)
		if err != nil {
			return err
		}
		s.entries[s.fold.String(key)] = e
	}
	return nil
}

// readEntry reads the body of a record after its key line.
//
//	d KEY               s KEY           a KEY
//	link text           link text       link text
//	date                data            alias-of
//	status              -               -
//	title
//	url
//	authors, one per line
//	-
func readEntry(r *specdata.Reader, path string, kind string) (Entry, error) {
	var names []string
	var e Entry
	switch kind {
	case "d":
		e.Format = Dict
		names = []string{"link text", "date", "status", "title", "url"}
	case "s":
		e.Format = String
		names = []string{"link text", "data"}
	case "a":
		e.Format = Alias
		names = []string{"link text", "alias-of"}
	default:
		return Entry{}, &specdata.FormatError{File: path, Line: r.Line(), Msg: fmt.Sprintf("unknown record kind %q", kind)}
	}

	fields := make([]string, len(names))
	for i, name := range names {
		v, err := r.Field(name)
		if err != nil {
			return Entry{}, err
		}
		fields[i] = v
	}
	rest, err := r.UntilTerminator("record")
	if err != nil {
		return Entry{}, err
	}

	e.LinkText = fields[0]
	switch e.Format {
	case Dict:
		e.Date, e.Status, e.Title, e.URL = fields[1], fields[2], fields[3], fields[4]
		e.Authors = rest
	case String:
		e.Data = fields[1]
	case Alias:
		e.AliasOf = fields[1]
	}
	if e.Format != Dict && len(rest) > 0 {
		return Entry{}, &specdata.FormatError{File: path, Line: r.Line(), Msg: "unexpected lines before terminator"}
	}
	return e, nil
}
