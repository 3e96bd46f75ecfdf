package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"brief-cli/internal/suggest"
)

const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"
)

func Header(text string) {
	fmt.Printf("\n%s%s%s\n", Bold+Cyan, text, Reset)
	fmt.Println(strings.Repeat("─", min(len(text)+4, 80)))
}

func SubHeader(text string) {
	fmt.Printf("%s%s%s\n", Bold+White, text, Reset)
}

func Success(text string) {
	fmt.Printf("%s✓%s %s\n", Green, Reset, text)
}

func Error(text string) {
	fmt.Fprintf(os.Stderr, "%s✗%s %s\n", Red, Reset, text)
}

func Warn(text string) {
	fmt.Printf("%s!%s %s\n", Yellow, Reset, text)
}

func Info(label, value string) {
	fmt.Printf("  %s%-20s%s %s\n", Dim, label, Reset, value)
}

func Spinner(text string) {
	fmt.Printf("\r%s⟳%s %s", Yellow, Reset, text)
}

func ClearLine() {
	fmt.Print("\r\033[K")
}

// SuggestionLabel returns a colored tag describing what a suggestion does.
func SuggestionLabel(s suggest.Suggestion) string {
	switch s.Category {
	case suggest.Confirmatory:
		if s.Affirmative {
			return Green + "✓ Confirm" + Reset
		}
		return Yellow + "✎ Change" + Reset
	case suggest.Action:
		switch s.Action {
		case suggest.ExportDocument:
			return Cyan + "⤓ Export" + Reset
		case suggest.StartOver:
			return Magenta + "↺ Start over" + Reset
		}
	}
	return Gray + "💡 Suggestion" + Reset
}

func DocumentLabel(present bool) string {
	if present {
		return Green + "📄 Brief detected" + Reset
	}
	return Gray + "No brief" + Reset
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
