// Package pagination lays a markdown-flavoured brief out into fixed-size
// pages of styled lines, ready for a PDF writer.
package pagination

// LineKind records how a source line was classified.
type LineKind int

const (
	Paragraph LineKind = iota
	Heading
	Bullet
	Numbered
	Footer
)

// StyledLine is one placed line of text. X and YPosition are in points from
// the top-left corner of the page; YPosition is the top of the line box.
type StyledLine struct {
	Text       string
	FontSizePt float64
	Bold       bool
	X          float64
	YPosition  float64
	Kind       LineKind
	Level      int // heading level, 0 for other kinds
}

// Page is a single laid-out page.
type Page struct {
	Number int // 1-indexed
	Lines  []StyledLine
	Footer []StyledLine
}

// PageLayout is the result of pagination.
type PageLayout struct {
	Width  float64
	Height float64
	Pages  []Page
}

// LineCount returns the number of body lines across all pages.
func (l *PageLayout) LineCount() int {
	n := 0
	for _, p := range l.Pages {
		n += len(p.Lines)
	}
	return n
}
