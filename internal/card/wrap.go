package card

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Columns is the wrap width in half-width cells.  Full-width runes take
// two cells.
const Columns = 44

// Wrap splits text into display lines no wider than cols cells.  Existing
// line breaks are kept; a rune that would overflow starts the next line.
func Wrap(text string, cols int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrapLine(para, cols)...)
	}
	return out
}

func wrapLine(s string, cols int) []string {
	if s == "" {
		return []string{""}
	}
	var (
		lines []string
		b     strings.Builder
		width int
	)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if width > 0 && width+w > cols {
			lines = append(lines, b.String())
			b.Reset()
			width = 0
		}
		b.WriteRune(r)
		width += w
	}
	return append(lines, b.String())
}
