package dom

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reDashable = regexp.MustCompile(`[\s/(,]+`)
	reUseless  = regexp.MustCompile(`[^a-z0-9_-]+`)

	lower = cases.Lower(language.Und)
)

// GenerateName converts free text into a name usable as an id or url fragment.
// The result only has characters in [a-z0-9_-], and GenerateName of its own
// result returns it unchanged.
func GenerateName(text string) string {
	text = lower.String(text)
	text = strings.ReplaceAll(text, "()", "")
	text = reDashable.ReplaceAllString(text, "-")
	text = reUseless.ReplaceAllString(text, "")
	return text
}

// circledDigits[d] is the circled glyph for the decimal digit d.
var circledDigits = [10]string{"⓪", "①", "②", "③", "④", "⑤", "⑥", "⑦", "⑧", "⑨"}

// CircledDigits encodes n with one circled glyph per decimal digit.
func CircledDigits(n int) string {
	var b strings.Builder
	for _, d := range strconv.Itoa(n) {
		b.WriteString(circledDigits[d-'0'])
	}
	return b.String()
}

// DedupIDs makes every id in the tree unique. For each id found more than
// once, the first element keeps it and the following ones get a circled
// occurrence number appended: "foo", "foo①", "foo②"...
func DedupIDs(root *html.Node) {
	ids := map[string][]*html.Node{}
	var order []string

	Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if id, ok := Attr(n, "id"); ok {
			if _, seen := ids[id]; !seen {
				order = append(order, id)
			}
			ids[id] = append(ids[id], n)
		}
		return true
	})

	for _, id := range order {
		els := ids[id]
		if len(els) < 2 {
			continue
		}

		i := 1
		for _, el := range els[1:] {
			for {
				candidate := id + CircledDigits(i)
				i++
				if _, taken := ids[candidate]; !taken {
					SetAttr(el, "id", candidate)
					ids[candidate] = []*html.Node{el}
					break
				}
			}
		}
	}
}
