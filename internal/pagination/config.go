package pagination

// A4 in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

const (
	footerFontSize = 8.0
	footerGap      = 6.0
)

// Config controls page geometry and typography.
type Config struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	// FooterBand is the space reserved above the bottom margin for the
	// two footer lines.
	FooterBand float64

	BaseFontSize float64
	LineSpacing  float64

	// CharWidth is the average glyph advance as a fraction of the font
	// size, used to estimate how many characters fit on a line.
	CharWidth float64

	FooterLabel string
	PageLabel   string // format with two %d verbs: page, total
}

// DefaultConfig returns an A4 layout with 2cm margins.
func DefaultConfig() Config {
	return Config{
		PageWidth:    A4Width,
		PageHeight:   A4Height,
		Margin:       56.7,
		FooterBand:   2*footerFontSize*1.4 + footerGap,
		BaseFontSize: 11,
		LineSpacing:  1.4,
		CharWidth:    0.5,
		FooterLabel:  "Campaign brief",
		PageLabel:    "Page %d of %d",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageWidth <= 0 {
		c.PageWidth = d.PageWidth
	}
	if c.PageHeight <= 0 {
		c.PageHeight = d.PageHeight
	}
	if c.Margin < 0 || 2*c.Margin >= c.PageWidth || 2*c.Margin >= c.PageHeight {
		c.Margin = d.Margin
	}
	if c.FooterBand <= 0 {
		c.FooterBand = d.FooterBand
	}
	if c.BaseFontSize <= 0 {
		c.BaseFontSize = d.BaseFontSize
	}
	if c.LineSpacing <= 0 {
		c.LineSpacing = d.LineSpacing
	}
	if c.CharWidth <= 0 {
		c.CharWidth = d.CharWidth
	}
	if c.PageLabel == "" {
		c.PageLabel = d.PageLabel
	}
	// A page that cannot hold one body line above the footer band keeps the
	// typography but takes the default page geometry.
	if c.BodyLimit() < c.Margin+c.BaseFontSize*c.LineSpacing {
		c.PageWidth = d.PageWidth
		c.PageHeight = d.PageHeight
		c.Margin = d.Margin
		c.FooterBand = d.FooterBand
	}
	return c
}

// PrintableWidth is the usable line width in points.
func (c Config) PrintableWidth() float64 {
	return c.PageWidth - 2*c.Margin
}

// BodyLimit is the lowest y a body line may reach before the footer band.
func (c Config) BodyLimit() float64 {
	return c.PageHeight - c.Margin - c.FooterBand
}
