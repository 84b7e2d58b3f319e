package markdown

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientIndent is returned by TrimIndent when a line has fewer
// indentation units than requested.
var ErrInsufficientIndent = errors.New("insufficient indentation")

// GetIndentLevel counts the indentation units at the start of text. A unit is
// either a tab character or exactly tabSize consecutive spaces. Counting stops
// at the first position that does not start a full unit.
func GetIndentLevel(text string, tabSize int) int {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}

	level := 0
	i := 0
	for i < len(text) {
		if text[i] == '\t' {
			level++
			i++
			continue
		}
		if !hasSpaceUnit(text[i:], tabSize) {
			break
		}
		level++
		i += tabSize
	}
	return level
}

// TrimIndent removes level indentation units from the start of text, using the
// same matching rule as GetIndentLevel. Blank lines are returned unchanged.
func TrimIndent(text string, level int, tabSize int) (string, error) {
	if isBlank(text) {
		return text, nil
	}
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}

	rest := text
	for n := 0; n < level; n++ {
		switch {
		case strings.HasPrefix(rest, "\t"):
			rest = rest[1:]
		case hasSpaceUnit(rest, tabSize):
			rest = rest[tabSize:]
		default:
			return "", fmt.Errorf("%w: wanted %d levels in %q", ErrInsufficientIndent, level, text)
		}
	}
	return rest, nil
}

// trimIndentLenient removes up to level indentation units and never fails.
// Lines inside raw regions are trimmed this way, since their content is opaque.
func trimIndentLenient(text string, level int, tabSize int) string {
	rest := text
	for n := 0; n < level; n++ {
		switch {
		case strings.HasPrefix(rest, "\t"):
			rest = rest[1:]
		case hasSpaceUnit(rest, tabSize):
			rest = rest[tabSize:]
		default:
			return strings.TrimLeft(rest, " ")
		}
	}
	return rest
}

func hasSpaceUnit(s string, tabSize int) bool {
	if len(s) < tabSize {
		return false
	}
	for i := 0; i < tabSize; i++ {
		if s[i] != ' ' {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
