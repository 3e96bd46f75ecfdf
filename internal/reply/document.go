package reply

import (
	"encoding/json"
	"strings"
)

const briefKey = "brief"

// DocumentDetection reports whether a reply carries a long-form brief and,
// if so, the brief text ready for pagination.
type DocumentDetection struct {
	Present        bool
	NormalizedText string
}

// Detector recognises briefs by their section headings. The heading markers
// are supplied by the caller so new locales only touch configuration.
type Detector struct {
	markers []string
}

// NewDetector returns a detector matching the given heading markers, e.g.
// "## Campaign Brief" or "### Objetivos". Empty markers are ignored.
func NewDetector(markers []string) *Detector {
	d := &Detector{}
	for _, m := range markers {
		if strings.TrimSpace(m) != "" {
			d.markers = append(d.markers, m)
		}
	}
	return d
}

// Markers returns the heading markers the detector matches.
func (d *Detector) Markers() []string {
	return append([]string(nil), d.markers...)
}

// HasMarker reports whether text contains any heading marker. Matching is
// case-sensitive substring containment.
func (d *Detector) HasMarker(text string) bool {
	for _, m := range d.markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Detect inspects raw reply text for an embedded brief, either as a JSON
// "brief" field or as markdown headings in the text itself.
func (d *Detector) Detect(raw string) DocumentDetection {
	if brief, ok := d.jsonBrief(raw); ok {
		return DocumentDetection{Present: true, NormalizedText: brief}
	}
	if !d.HasMarker(raw) {
		return DocumentDetection{}
	}
	if block, ok := ruledBlock(raw); ok {
		return DocumentDetection{Present: true, NormalizedText: block}
	}
	return DocumentDetection{Present: true, NormalizedText: raw}
}

// jsonBrief returns the first embedded "brief" string value that itself
// contains a heading marker, with literal \n sequences unescaped.
func (d *Detector) jsonBrief(raw string) (string, bool) {
	for _, cand := range FindEmbeddedJSON(raw, briefKey) {
		value, _ := cand.Value(briefKey)
		var brief string
		if err := json.Unmarshal(value, &brief); err != nil {
			continue
		}
		brief = unescapeNewlines(brief)
		if d.HasMarker(brief) {
			return brief, true
		}
	}
	return "", false
}

func unescapeNewlines(s string) string {
	s = strings.ReplaceAll(s, `\r\n`, "\n")
	return strings.ReplaceAll(s, `\n`, "\n")
}

// ruledBlock returns the first non-empty block set off by "---" rules, shaped
// as a rule, a blank line, the block, a blank line and a rule. Pairs of rules
// without blank lines on their inner sides, such as YAML front matter, are
// not blocks.
func ruledBlock(raw string) (string, bool) {
	lines := strings.Split(raw, "\n")
	first := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "---" {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		top, bottom := first, i
		first = i
		if bottom-top < 2 || !isBlank(lines[top+1]) || !isBlank(lines[bottom-1]) {
			continue
		}
		block := strings.TrimSpace(strings.Join(lines[top+1:bottom], "\n"))
		if block == "" {
			continue
		}
		return block, true
	}
	return "", false
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
