// Package config holds the document metadata read from the YAML front matter
// and the fixed vocabularies of the preprocessor (definition types, shorthands).
package config

import "strings"

// DfnClassToType maps the classes that can mark a definition to its type.
var DfnClassToType = map[string]string{
	"propdef":          "property",
	"valdef":           "value",
	"at-ruledef":       "at-rule",
	"descdef":          "descriptor",
	"typedef":          "type",
	"funcdef":          "function",
	"selectordef":      "selector",
	"elementdef":       "element",
	"element-attrdef":  "element-attr",
	"attr-valuedef":    "attr-value",
	"element-statedef": "element-state",
	"eventdef":         "event",
	"interfacedef":     "interface",
	"namespacedef":     "namespace",
	"extendedattrdef":  "extended-attribute",
	"constructordef":   "constructor",
	"methoddef":        "method",
	"argdef":           "argument",
	"attrdef":          "attribute",
	"callbackdef":      "callback",
	"dictdef":          "dictionary",
	"dict-memberdef":   "dict-member",
	"enumdef":          "enum",
	"enum-valuedef":    "enum-value",
	"exceptiondef":     "exception",
	"constdef":         "const",
	"typedefdef":       "typedef",
	"stringifierdef":   "stringifier",
	"serializerdef":    "serializer",
	"iterdef":          "iterator",
	"mapdef":           "maplike",
	"setdef":           "setlike",
	"grammardef":       "grammar",
	"schemedef":        "scheme",
	"statedef":         "state",
	"modedef":          "mode",
	"contextdef":       "context",
	"facetdef":         "facet",
	"http-headerdef":   "http-header",
	"permissiondef":    "permission",
}

// DfnTypeToClass is the inverse of DfnClassToType. Generated ids of typed
// definitions are prefixed with the class, as in "propdef-color".
var DfnTypeToClass = map[string]string{}

// DfnTypes is the set of valid definition types.
var DfnTypes = map[string]bool{"dfn": true}

func init() {
	for class, typ := range DfnClassToType {
		DfnTypeToClass[typ] = class
		DfnTypes[typ] = true
	}
}

// DfnSelector selects every definition element of a document.
const DfnSelector = "dfn, h2[data-dfn-type], h3[data-dfn-type], h4[data-dfn-type], h5[data-dfn-type], h6[data-dfn-type]"

// Markup shorthand groups that can be enabled per document.
const (
	ShorthandBiblio    = "biblio"
	ShorthandDfn       = "dfn"
	ShorthandMarkdown  = "markdown"
	ShorthandAlgorithm = "algorithm"
	ShorthandCSS       = "css"
)

// DefaultShorthands is used when the front matter does not set markupShorthands.
const DefaultShorthands = "biblio dfn markdown algorithm css"

// Shorthands is the set of enabled shorthand groups.
type Shorthands map[string]bool

// ParseShorthands reads a list like "biblio, dfn -markdown". A leading '-'
// disables a group that would otherwise be enabled by default.
func ParseShorthands(list string) Shorthands {
	s := Shorthands{}
	for _, name := range strings.Fields(DefaultShorthands) {
		s[name] = true
	}
	if strings.TrimSpace(list) == "" {
		return s
	}

	explicit := Shorthands{}
	disabled := map[string]bool{}
	for _, name := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		name = strings.ToLower(name)
		if strings.HasPrefix(name, "-") {
			disabled[name[1:]] = true
			continue
		}
		explicit[name] = true
	}

	// A plain list replaces the defaults
	if len(explicit) > 0 {
		s = explicit
	}
	for name := range disabled {
		delete(s, name)
	}
	return s
}

// Enabled reports whether the shorthand group name is on.
func (s Shorthands) Enabled(name string) bool {
	return s[name]
}

// SplitForValues splits a data-dfn-for or data-link-for attribute into its
// values. Commas inside parentheses do not split, so method signatures like
// "foo(a, b)" stay together.
func SplitForValues(val string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range val {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if v := strings.TrimSpace(val[start:i]); v != "" {
					out = append(out, v)
				}
				start = i + 1
			}
		}
	}
	if v := strings.TrimSpace(val[start:]); v != "" {
		out = append(out, v)
	}
	return out
}
