package display

import (
	"strings"
	"testing"
	"time"

	"brief-cli/internal/suggest"
)

func TestSuggestionLabel(t *testing.T) {
	tests := []struct {
		name     string
		s        suggest.Suggestion
		contains string
		color    string
	}{
		{"plain", suggest.Suggestion{Category: suggest.Plain}, "Suggestion", Gray},
		{"affirmative", suggest.Suggestion{Category: suggest.Confirmatory, Affirmative: true}, "Confirm", Green},
		{"wants changes", suggest.Suggestion{Category: suggest.Confirmatory}, "Change", Yellow},
		{"export", suggest.Suggestion{Category: suggest.Action, Action: suggest.ExportDocument}, "Export", Cyan},
		{"start over", suggest.Suggestion{Category: suggest.Action, Action: suggest.StartOver}, "Start over", Magenta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := SuggestionLabel(tt.s)
			if !strings.Contains(label, tt.contains) {
				t.Errorf("SuggestionLabel() = %q, expected to contain %q", label, tt.contains)
			}
			if !strings.HasPrefix(label, tt.color) || !strings.HasSuffix(label, Reset) {
				t.Errorf("SuggestionLabel() = %q, expected ANSI-colored output", label)
			}
		})
	}
}

func TestDocumentLabel(t *testing.T) {
	if got := DocumentLabel(true); !strings.Contains(got, "Brief detected") {
		t.Errorf("DocumentLabel(true) = %q", got)
	}
	if got := DocumentLabel(false); !strings.Contains(got, "No brief") {
		t.Errorf("DocumentLabel(false) = %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	got := FormatTime(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	if _, err := time.Parse("2006-01-02 15:04:05", got); err != nil {
		t.Errorf("FormatTime() = %q, not in expected layout", got)
	}
	if got := FormatTime(time.Time{}); got != "-" {
		t.Errorf("FormatTime(zero) = %q, want -", got)
	}
}
