// Package reply interprets raw assistant reply text: it finds JSON payloads
// embedded in free-form model output, pulls out suggestion lists, and detects
// long-form briefs.
package reply

import (
	"encoding/json"
	"regexp"
	"strings"
)

// lineFenceRe matches a fenced code block, optionally tagged as json, whose
// opening fence starts a line. inlineFenceRe drops the anchor and is only
// consulted when no line fence holds the payload.
var (
	lineFenceRe   = regexp.MustCompile("(?ms)^[ \\t]*```[ \\t]*(?:json|JSON)?[ \\t]*\\r?\\n?(.*?)```")
	inlineFenceRe = regexp.MustCompile("(?s)```[ \\t]*(?:json|JSON)?[ \\t]*\\r?\\n?(.*?)```")
)

// Embedded is one JSON object found inside reply text that carries a given key.
type Embedded struct {
	// Block is the exact substring of the reply that holds the payload. For a
	// fenced payload this is the whole fence, markers included.
	Block string

	// Start and End delimit Block inside the original text.
	Start int
	End   int

	// Fenced reports whether the object was found inside a code fence.
	Fenced bool

	// Object is the decoded top level of the JSON object.
	Object map[string]json.RawMessage
}

// Value returns the raw JSON value stored under key.
func (e Embedded) Value(key string) (json.RawMessage, bool) {
	v, ok := e.Object[key]
	return v, ok
}

// FindEmbeddedJSON returns every parseable JSON object in text that has key at
// its top level, fenced candidates first and then unfenced ones, each group in
// order of appearance. Candidates that fail to parse are skipped.
//
// Object boundaries come from a string-aware balanced-brace scan starting at
// the nearest '{' before the key. This is a heuristic over free-form model
// output rather than a JSON tokenizer: text that only becomes valid JSON after
// repair is not found.
func FindEmbeddedJSON(text, key string) []Embedded {
	needle := `"` + key + `"`
	if !strings.Contains(text, needle) {
		return nil
	}

	out := fencedObjects(text, needle, lineFenceRe)
	if len(out) == 0 {
		out = fencedObjects(text, needle, inlineFenceRe)
	}

	for _, obj := range scanObjects(text, needle) {
		if insideFence(out, obj.start) {
			continue
		}
		out = append(out, Embedded{
			Block:  text[obj.start:obj.end],
			Start:  obj.start,
			End:    obj.end,
			Object: obj.fields,
		})
	}

	return out
}

func fencedObjects(text, needle string, re *regexp.Regexp) []Embedded {
	var out []Embedded
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		body := text[loc[2]:loc[3]]
		if !strings.Contains(body, needle) {
			continue
		}
		objs := scanObjects(body, needle)
		if len(objs) == 0 {
			continue
		}
		out = append(out, Embedded{
			Block:  text[loc[0]:loc[1]],
			Start:  loc[0],
			End:    loc[1],
			Fenced: true,
			Object: objs[0].fields,
		})
	}
	return out
}

// Remove deletes every occurrence of the embedded block from text and trims
// the result.
func (e Embedded) Remove(text string) string {
	if e.Block == "" {
		return text
	}
	return strings.TrimSpace(strings.ReplaceAll(text, e.Block, ""))
}

func insideFence(found []Embedded, pos int) bool {
	for _, e := range found {
		if e.Fenced && pos >= e.Start && pos < e.End {
			return true
		}
	}
	return false
}

type scannedObject struct {
	start  int
	end    int
	fields map[string]json.RawMessage
}

// scanObjects finds, for each occurrence of needle, the innermost balanced
// object enclosing it whose top level decodes and contains the key.
func scanObjects(text, needle string) []scannedObject {
	key := strings.Trim(needle, `"`)
	var out []scannedObject
	lastEnd := -1

	for from := 0; ; {
		idx := strings.Index(text[from:], needle)
		if idx < 0 {
			break
		}
		keyPos := from + idx
		from = keyPos + len(needle)

		if keyPos < lastEnd {
			// Already covered by the previous object.
			continue
		}

		for open := strings.LastIndexByte(text[:keyPos], '{'); open >= 0; open = strings.LastIndexByte(text[:open], '{') {
			end, ok := balancedEnd(text, open)
			if !ok || end <= keyPos {
				continue
			}
			var fields map[string]json.RawMessage
			if err := json.Unmarshal([]byte(text[open:end]), &fields); err != nil {
				continue
			}
			if _, ok := fields[key]; !ok {
				continue
			}
			out = append(out, scannedObject{start: open, end: end, fields: fields})
			lastEnd = end
			break
		}
	}
	return out
}

// balancedEnd returns the index just past the '}' that closes the object
// opening at text[open]. Braces inside JSON strings are ignored. Iterating
// bytes is safe for these ASCII delimiters under UTF-8.
func balancedEnd(text string, open int) (int, bool) {
	depth := 0
	inString := false
	escape := false
	for i := open; i < len(text); i++ {
		b := text[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
