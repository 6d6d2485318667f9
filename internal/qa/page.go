package qa

// DefaultPageSize is the number of answered questions per timeline page.
const DefaultPageSize = 20

// Page describes one timeline page.  Number 0 is the newest page.  "Prev"
// walks to older answers (higher number), "Next" to newer ones.
type Page struct {
	Number int
	Size   int
	Total  int
}

// NewPage clamps number and size to sane values.
func NewPage(number, size, total int) Page {
	if number < 0 {
		number = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size, Total: total}
}

// Offset is Number * Size.
func (p Page) Offset() int { return p.Number * p.Size }

// HasPrev reports whether older answers exist beyond this page.
func (p Page) HasPrev() bool { return p.Offset()+p.Size < p.Total }

// HasNext reports whether a newer page exists.  Page 0 has none.
func (p Page) HasNext() bool { return p.Number > 0 }

// Prev is the page number of the older page.
func (p Page) Prev() int { return p.Number + 1 }

// Next is the page number of the newer page.
func (p Page) Next() int {
	if p.Number == 0 {
		return 0
	}
	return p.Number - 1
}
