package reply

import (
	"encoding/json"
	"fmt"
	"strings"
)

const suggestionsKey = "suggestions"

// ExtractionResult is a reply with its embedded suggestion payload removed.
type ExtractionResult struct {
	CleanContent string
	Suggestions  []string

	// Removed is the block that was cut out of the raw text, empty when no
	// payload was found.
	Removed string
}

// Extract pulls the first parseable {"suggestions": [...]} payload out of raw
// reply text. It never fails: when nothing usable is found the raw text comes
// back unchanged with no suggestions.
func Extract(raw string) ExtractionResult {
	for _, cand := range FindEmbeddedJSON(raw, suggestionsKey) {
		value, _ := cand.Value(suggestionsKey)

		var entries []any
		if err := json.Unmarshal(value, &entries); err != nil {
			continue
		}

		suggestions := make([]string, 0, len(entries))
		for _, entry := range entries {
			suggestions = append(suggestions, normalizeEntry(entry))
		}

		return ExtractionResult{
			CleanContent: cand.Remove(raw),
			Suggestions:  suggestions,
			Removed:      cand.Block,
		}
	}

	return ExtractionResult{CleanContent: raw, Suggestions: []string{}}
}

// normalizeEntry renders one suggestion entry as display text. Objects with an
// indicator and a goal become "indicator: goal".
func normalizeEntry(entry any) string {
	switch v := entry.(type) {
	case string:
		return v
	case map[string]any:
		indicator := coerceString(v["indicator"])
		goal := coerceString(v["goal"])
		switch {
		case indicator != "" && goal != "":
			return indicator + ": " + goal
		case indicator != "":
			return indicator
		case goal != "":
			return goal
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64, bool:
		return fmt.Sprint(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
