package pagination

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const bulletGlyph = "• "

// Font sizes per heading level, index 1..6.
var headingSizes = [...]float64{0, 20, 17, 14.5, 13, 12, 11.5}

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	boldLineRe = regexp.MustCompile(`^\*\*(.+)\*\*$`)
	bulletRe   = regexp.MustCompile(`^[-*]\s+(.*)$`)
	numberedRe = regexp.MustCompile(`^\d+\.\s`)

	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	starItalicRe = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	underItalRe  = regexp.MustCompile(`(^|[^\w])_([^_\s][^_]*?)_([^\w]|$)`)
)

// block is a classified source line before wrapping.
type block struct {
	text   string
	kind   LineKind
	level  int
	size   float64
	bold   bool
	indent string // prefix for the first wrapped line
}

// Paginate lays text out into pages. Layout always yields at least one page
// so an empty brief still exports as a valid document.
//
// A blank line advances the cursor by half a body line, except at the top of
// a page where it adds no space, so leading blank lines never push the first
// line below the top margin.
func Paginate(text string, cfg Config) PageLayout {
	cfg = cfg.withDefaults()
	l := &layouter{cfg: cfg}
	l.newPage()

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			l.blank()
			continue
		}
		b, ok := classify(line, cfg.BaseFontSize)
		if !ok {
			continue
		}
		l.place(b)
	}

	l.stampFooters()
	return PageLayout{Width: cfg.PageWidth, Height: cfg.PageHeight, Pages: l.pages}
}

func classify(line string, base float64) (block, bool) {
	var b block
	switch {
	case headingRe.MatchString(line):
		m := headingRe.FindStringSubmatch(line)
		b.level = len(m[1])
		b.kind = Heading
		b.size = headingSizes[b.level]
		b.bold = true
		b.text = stripBold(m[2])
	case boldLineRe.MatchString(line) && !strings.Contains(boldLineRe.FindStringSubmatch(line)[1], "**"):
		b.level = 3
		b.kind = Heading
		b.size = headingSizes[3]
		b.bold = true
		b.text = strings.TrimSpace(boldLineRe.FindStringSubmatch(line)[1])
	case bulletRe.MatchString(line):
		b.kind = Bullet
		b.size = base
		b.indent = bulletGlyph
		b.text = stripEmphasis(bulletRe.FindStringSubmatch(line)[1])
	case numberedRe.MatchString(line):
		b.kind = Numbered
		b.size = base
		b.text = stripBold(line)
	default:
		b.kind = Paragraph
		b.size = base
		b.text = stripEmphasis(line)
	}
	b.text = strings.TrimSpace(b.text)
	return b, b.text != ""
}

func stripBold(s string) string {
	s = boldRe.ReplaceAllString(s, "$1$2")
	return strings.ReplaceAll(s, "**", "")
}

func stripEmphasis(s string) string {
	s = stripBold(s)
	s = starItalicRe.ReplaceAllString(s, "$1")
	return underItalRe.ReplaceAllString(s, "$1$2$3")
}

type layouter struct {
	cfg   Config
	pages []Page
	y     float64
}

func (l *layouter) newPage() {
	l.pages = append(l.pages, Page{Number: len(l.pages) + 1})
	l.y = l.cfg.Margin
}

func (l *layouter) current() *Page {
	return &l.pages[len(l.pages)-1]
}

func (l *layouter) lineHeight(size float64) float64 {
	return size * l.cfg.LineSpacing
}

// blank advances the cursor by half a body line, except at the top of a page.
func (l *layouter) blank() {
	if l.y > l.cfg.Margin {
		l.y += l.lineHeight(l.cfg.BaseFontSize) / 2
	}
}

func (l *layouter) place(b block) {
	indentCols := runewidth.StringWidth(b.indent)
	cols := l.columns(b.size) - indentCols
	if cols < 1 {
		cols = 1
	}
	indentX := float64(indentCols) * b.size * l.cfg.CharWidth

	for i, text := range wrap(b.text, cols) {
		x := l.cfg.Margin + indentX
		if i == 0 && b.indent != "" {
			text = b.indent + text
			x = l.cfg.Margin
		}
		lh := l.lineHeight(b.size)
		if l.y+lh > l.cfg.BodyLimit() && l.y > l.cfg.Margin {
			l.newPage()
		}
		p := l.current()
		p.Lines = append(p.Lines, StyledLine{
			Text:       text,
			FontSizePt: b.size,
			Bold:       b.bold,
			X:          x,
			YPosition:  l.y,
			Kind:       b.kind,
			Level:      b.level,
		})
		l.y += lh
	}
}

// columns estimates how many characters of the given size fit the width.
func (l *layouter) columns(size float64) int {
	return int(math.Floor(l.cfg.PrintableWidth() / (size * l.cfg.CharWidth)))
}

// stampFooters runs once the page count is final.
func (l *layouter) stampFooters() {
	total := len(l.pages)
	lh := footerFontSize * 1.4
	top := l.cfg.BodyLimit() + footerGap
	for i := range l.pages {
		p := &l.pages[i]
		p.Footer = []StyledLine{
			{
				Text:       l.cfg.FooterLabel,
				FontSizePt: footerFontSize,
				X:          l.cfg.Margin,
				YPosition:  top,
				Kind:       Footer,
			},
			{
				Text:       fmt.Sprintf(l.cfg.PageLabel, p.Number, total),
				FontSizePt: footerFontSize,
				X:          l.cfg.Margin,
				YPosition:  top + lh,
				Kind:       Footer,
			},
		}
	}
}

// wrap word-wraps s to cols display columns, hard-breaking words that are
// longer than a whole line.
func wrap(s string, cols int) []string {
	var out []string
	for _, line := range strings.Split(wordwrap.String(s, cols), "\n") {
		line = strings.TrimRight(line, " ")
		for runewidth.StringWidth(line) > cols {
			head := runewidth.Truncate(line, cols, "")
			if head == "" {
				head = string([]rune(line)[:1])
			}
			out = append(out, head)
			line = strings.TrimLeft(line[len(head):], " ")
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
