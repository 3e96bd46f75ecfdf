// Package export turns a paginated brief into a PDF file.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"brief-cli/internal/pagination"
)

// ErrNoDocument is returned when an export is requested but the
// conversation has no detected brief.
var ErrNoDocument = errors.New("no brief to export")

const fontFamily = "Helvetica"

// Meta is written into the PDF info dictionary.
type Meta struct {
	Title   string
	Created time.Time
}

// Write serializes layout as a PDF to w.
func Write(w io.Writer, layout pagination.PageLayout, meta Meta) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: layout.Width, Ht: layout.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetCreator("brief", false)
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range layout.Pages {
		pdf.AddPage()
		pdf.SetTextColor(0, 0, 0)
		for _, line := range page.Lines {
			drawLine(pdf, tr, line)
		}
		pdf.SetTextColor(110, 110, 110)
		for _, line := range page.Footer {
			drawLine(pdf, tr, line)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func drawLine(pdf *fpdf.Fpdf, tr func(string) string, line pagination.StyledLine) {
	style := ""
	if line.Bold {
		style = "B"
	}
	pdf.SetFont(fontFamily, style, line.FontSizePt)
	// Text takes a baseline; YPosition is the top of the line box.
	pdf.Text(line.X, line.YPosition+line.FontSizePt, tr(line.Text))
}

// Exporter writes PDFs into a directory.
type Exporter struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

func NewExporter(dir string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{dir: dir, logger: logger, now: time.Now}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string { return e.dir }

// Export writes layout to a new timestamped file and returns its path.
// A partially written file is removed on failure.
func (e *Exporter) Export(layout pagination.PageLayout, title string) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	now := e.now()
	path, f, err := e.create(now)
	if err != nil {
		return "", err
	}

	werr := Write(f, layout, Meta{Title: title, Created: now})
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(path)
		e.logger.Error("export failed", zap.String("path", path), zap.Error(werr))
		return "", werr
	}

	e.logger.Info("brief exported",
		zap.String("path", path),
		zap.Int("pages", len(layout.Pages)),
		zap.Int("lines", layout.LineCount()))
	return path, nil
}

// create opens a file that does not exist yet, adding a numeric suffix when
// two exports land in the same second.
func (e *Exporter) create(now time.Time) (string, *os.File, error) {
	base := "brief-" + now.Format("20060102-150405")
	for i := 1; i < 100; i++ {
		name := base + ".pdf"
		if i > 1 {
			name = fmt.Sprintf("%s-%d.pdf", base, i)
		}
		path := filepath.Join(e.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("creating export file: %w", err)
		}
	}
	return "", nil, fmt.Errorf("creating export file: too many exports for %s", base)
}
