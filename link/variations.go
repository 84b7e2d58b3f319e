package link

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// consonants that are doubled before -ed and -ing, as in snap, snapped.
const doublingConsonants = "bdfgklmnprstvz"

// LinkTextVariations returns text together with the plausible inflections of
// it, so that a link to "navigating" can find the definition of "navigate".
// Only dfn links have variations.
func LinkTextVariations(linkType string, text string) []string {
	out := []string{text}
	if linkType != "dfn" {
		return out
	}

	seen := map[string]bool{text: true}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	runes := []rune(text)
	n := len(runes)
	last := func(k int) string {
		if n < k {
			return ""
		}
		return string(runes[n-k:])
	}
	stem := func(k int) string { return string(runes[:n-k]) }

	// Berries <-> Berry
	if last(3) == "ies" {
		add(stem(3) + "y")
	}
	if last(1) == "y" {
		add(stem(1) + "ies")
	}

	// Blockified <-> blockify
	if last(3) == "ied" {
		add(stem(3) + "y")
	}
	if last(1) == "y" {
		add(stem(1) + "ied")
	}

	// Zeroes <-> Zero
	if last(2) == "es" {
		add(stem(2))
	} else {
		add(text + "es")
	}

	// Bikeshed's <-> Bikeshed
	if last(2) == "'s" || last(2) == "’s" {
		add(stem(2))
	} else {
		add(text + "'s")
	}

	// Bikesheds <-> Bikeshed
	if last(1) == "s" {
		add(stem(1))
	} else {
		add(text + "s")
	}

	// Bikesheded <-> Bikeshed
	if last(2) == "ed" {
		add(stem(2))
	} else {
		add(text + "ed")
	}

	// Bikeshedd <-> Bikeshed
	if last(1) == "d" {
		add(stem(1))
	} else {
		add(text + "d")
	}

	// Navigating <-> Navigate
	switch {
	case last(3) == "ing":
		add(stem(3))
		add(stem(3) + "e")
	case last(1) == "e":
		add(stem(1) + "ing")
	default:
		add(text + "ing")
	}

	final := last(1)
	doubling := final != "" && strings.Contains(doublingConsonants, final)

	// Snapped <-> Snap
	if last(2) == "ed" && n >= 4 && runes[n-3] == runes[n-4] {
		add(stem(3))
	} else if doubling {
		add(text + final + "ed")
	}

	// Snapping <-> Snap
	if last(3) == "ing" && n >= 5 && runes[n-4] == runes[n-5] {
		add(stem(4))
	} else if doubling {
		add(text + final + "ing")
	}

	// Insensitively <-> Insensitive
	if last(2) == "ly" {
		add(stem(2))
	} else {
		add(text + "ly")
	}

	// Irregular forms
	if alt, ok := irregular[strings.ToLower(text)]; ok {
		add(matchCase(text, alt))
	}

	return out
}

var irregular = map[string]string{
	"throw":  "thrown",
	"thrown": "throw",
}

// matchCase writes word with the capitalisation of model: all upper, first
// letter upper, or as is.
func matchCase(model string, word string) string {
	if model == strings.ToUpper(model) && model != strings.ToLower(model) {
		return strings.ToUpper(word)
	}
	if r, _ := utf8.DecodeRuneInString(model); unicode.IsUpper(r) {
		first, size := utf8.DecodeRuneInString(word)
		return string(unicode.ToUpper(first)) + word[size:]
	}
	return word
}
