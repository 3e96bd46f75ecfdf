// Command layoutpreview prints how a markdown brief would be paginated,
// one line per styled line, so layout changes can be checked without
// opening a PDF.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"brief-cli/internal/config"
	"brief-cli/internal/pagination"
)

// ANSI color helpers
const (
	orange = "\033[38;2;242;140;40m"
	gray   = "\033[38;5;242m"
	white  = "\033[1;37m"
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
)

func main() {
	locale := flag.String("locale", "en", "locale for footer labels")
	height := flag.Float64("height", pagination.A4Height, "page height in points")
	flag.Parse()

	var data []byte
	var err error
	if flag.NArg() == 0 || flag.Arg(0) == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	vocab := config.DefaultVocabulary(*locale)
	cfg := pagination.DefaultConfig()
	cfg.PageHeight = *height
	cfg.FooterLabel = vocab.FooterLabel
	cfg.PageLabel = vocab.PageLabel

	layout := pagination.Paginate(string(data), cfg)

	fmt.Printf("%s%d pages%s %s(%.0f x %.0f pt, %d lines)%s\n",
		bold, len(layout.Pages), reset, gray, layout.Width, layout.Height, layout.LineCount(), reset)

	for _, page := range layout.Pages {
		fmt.Println()
		fmt.Printf("%s═══ Page %d ═══%s\n", orange, page.Number, reset)
		for _, line := range page.Lines {
			text := line.Text
			if line.Bold {
				text = white + text + reset
			}
			fmt.Printf("%s%6.1f %4.1fpt %-9s%s %s%s\n",
				gray, line.YPosition, line.FontSizePt, kindName(line.Kind), reset,
				strings.Repeat(" ", int((line.X-cfg.Margin)/4)), text)
		}
		for _, f := range page.Footer {
			fmt.Printf("%s%6.1f %4.1fpt footer    %s%s\n", dim, f.YPosition, f.FontSizePt, f.Text, reset)
		}
	}
}

func kindName(k pagination.LineKind) string {
	switch k {
	case pagination.Heading:
		return "heading"
	case pagination.Bullet:
		return "bullet"
	case pagination.Numbered:
		return "numbered"
	case pagination.Footer:
		return "footer"
	}
	return "paragraph"
}
