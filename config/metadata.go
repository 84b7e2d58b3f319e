package config

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hesusruiz/specmark/markdown"
	"github.com/hesusruiz/vcutils/yaml"
)

// ErrNoEndOfFrontMatter is returned when the opening "---" line of the front
// matter has no matching closing line.
var ErrNoEndOfFrontMatter = errors.New("end of file reached but no end of YAML section found")

// Metadata is the document configuration.
type Metadata struct {
	Title     string
	Shortname string
	Level     string
	Status    string
	Date      string

	// TabSize is the width of one indentation unit
	TabSize int

	Shorthands Shorthands

	// SpecData is the directory with the anchors/ and biblio/ data shards
	SpecData string

	// InexactLinks enables the retry of external lookups with link text variants
	InexactLinks bool

	// CodeStyle is the chroma style for highlighted code
	CodeStyle string

	// Diagrams enables rendering of d2 blocks
	Diagrams bool

	cfg *yaml.YAML
}

// SplitFrontMatter separates the YAML front matter from the document body.
// The front matter must start at the first non-blank line with "---" and end
// with another "---" line. Body lines keep their original line numbers.
func SplitFrontMatter(src []string) (front string, body []markdown.Line, err error) {
	lines := markdown.NewLines(src)

	first := 0
	for first < len(lines) && strings.TrimSpace(lines[first].Text) == "" {
		first++
	}
	if first == len(lines) || !strings.HasPrefix(lines[first].Text, "---") {
		return "", lines, nil
	}

	var b strings.Builder
	for i := first + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i].Text, "---") {
			return b.String(), lines[i+1:], nil
		}
		b.WriteString(lines[i].Text)
		b.WriteString("\n")
	}

	return "", nil, ErrNoEndOfFrontMatter
}

// ParseMetadata parses the YAML front matter and applies the defaults.
func ParseMetadata(front string) (*Metadata, error) {
	cfg, err := yaml.ParseYaml(front)
	if err != nil {
		return nil, err
	}

	m := &Metadata{
		cfg:       cfg,
		Title:     cfg.String("title", ""),
		Shortname: cfg.String("shortname", ""),
		Level:     cfg.String("level", ""),
		Status:    cfg.String("status", ""),
		Date:      cfg.String("date", time.Now().Format("2006-01-02")),
		SpecData:  cfg.String("specData", "spec-data"),
		CodeStyle: cfg.String("codeStyle", "github"),

		InexactLinks: true,
		Diagrams:     true,
		TabSize:      markdown.DefaultTabSize,
	}

	if n, err := strconv.Atoi(cfg.String("indent", "")); err == nil && n > 0 {
		m.TabSize = n
	}
	m.Shorthands = ParseShorthands(cfg.String("markupShorthands", ""))

	if m.has("inexactLinks") {
		m.InexactLinks = cfg.Bool("inexactLinks")
	}
	if m.has("diagrams") {
		m.Diagrams = cfg.Bool("diagrams")
	}

	return m, nil
}

func (m *Metadata) has(key string) bool {
	v, err := m.cfg.Get(key)
	return err == nil && v != nil
}

// Macros returns the values for the [NAME] macros of the document text.
func (m *Metadata) Macros() map[string]string {
	return map[string]string{
		"TITLE":     m.Title,
		"SHORTNAME": m.Shortname,
		"LEVEL":     m.Level,
		"STATUS":    m.Status,
		"DATE":      m.Date,
	}
}

// LocalBiblioEntry is a bibliography entry declared in the front matter
// under localBiblio.
type LocalBiblioEntry struct {
	Title   string
	Href    string
	Date    string
	Status  string
	Authors []string
}

// LocalBiblioKeys returns the sorted keys under localBiblio.
func (m *Metadata) LocalBiblioKeys() []string {
	if m.cfg == nil {
		return nil
	}
	var keys []string
	for k := range m.cfg.Map("localBiblio") {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LocalBiblio returns the entry localBiblio.<key> of the front matter.
func (m *Metadata) LocalBiblio(key string) (LocalBiblioEntry, bool) {
	if m.cfg == nil {
		return LocalBiblioEntry{}, false
	}
	bibData, err := m.cfg.Get("localBiblio." + key)
	if err != nil || bibData == nil {
		return LocalBiblioEntry{}, false
	}

	e := LocalBiblioEntry{
		Title:  bibData.String("title"),
		Href:   bibData.String("href"),
		Date:   bibData.String("date"),
		Status: bibData.String("status"),
	}
	for _, a := range strings.Split(bibData.String("authors"), ";") {
		if a = strings.TrimSpace(a); a != "" {
			e.Authors = append(e.Authors, a)
		}
	}
	if e.Title == "" && e.Href == "" {
		return LocalBiblioEntry{}, false
	}
	return e, true
}
