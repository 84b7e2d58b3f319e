// Package link resolves auto-links against the layered reference sources:
// definitions of the document itself, anchor data blocks, and the anchor
// shards of other specifications.
package link

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Reference is a linkable definition.
type Reference struct {
	LinkType string
	// Spec is the shortname of the defining specification. Empty for
	// references of the document being processed.
	Spec      string
	Status    string
	URL       string
	For       []string
	Export    bool
	Normative bool
}

// Fragment returns the part of the url after '#'.
func (r Reference) Fragment() string {
	if i := strings.LastIndexByte(r.URL, '#'); i >= 0 {
		return r.URL[i+1:]
	}
	return ""
}

// NoFor is the for-value that requires a reference without for-values.
const NoFor = "/"

// Query describes a link to be resolved.
type Query struct {
	LinkType string
	LinkText string
	// Status filters by status when not empty
	Status string
	// For is nil when the link says nothing about for-values
	For []string
	// ExplicitFor is set when the link declared its for-values itself
	ExplicitFor bool
}

func (q Query) String() string {
	s := fmt.Sprintf("%s %q", q.LinkType, q.LinkText)
	if len(q.For) > 0 {
		s += fmt.Sprintf(" for %q", strings.Join(q.For, ", "))
	}
	if q.Status != "" {
		s += " status " + q.Status
	}
	return s
}

// Match selects how link texts are looked up.
type Match int

const (
	// Exact looks up the link text as written
	Exact Match = iota
	// Inexact also looks up the variants of the link text
	Inexact
)

// QueryErrorKind tells which filter stage left no candidates.
type QueryErrorKind int

const (
	ErrorText QueryErrorKind = iota
	ErrorLinkType
	ErrorStatus
	ErrorFor
)

func (k QueryErrorKind) String() string {
	switch k {
	case ErrorText:
		return "no reference with this text"
	case ErrorLinkType:
		return "no reference of this link type"
	case ErrorStatus:
		return "no reference with this status"
	case ErrorFor:
		return "no reference for these for-values"
	}
	return "unknown"
}

// QueryError is returned by a source when no reference survives the filters.
type QueryError struct {
	Kind  QueryErrorKind
	Query Query
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Query)
}

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeText is the canonical form of link texts used as lookup keys:
// NFC normalized, with runs of whitespace collapsed and trimmed.
func NormalizeText(text string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(norm.NFC.String(text), " "))
}
