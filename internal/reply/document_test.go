package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testMarkers = []string{
	"## Campaign Brief",
	"### Objectives",
	"### Target Audience",
	"## Brief de Campaña",
	"### Objetivos",
}

func TestDetect_NoMarkers(t *testing.T) {
	d := NewDetector(testMarkers)

	for _, raw := range []string{
		"",
		"Just chatting about the weather.",
		"## campaign brief", // case differs
		`{"brief": "no headings in here"}`,
	} {
		got := d.Detect(raw)
		assert.False(t, got.Present, "raw %q", raw)
		assert.Empty(t, got.NormalizedText, "raw %q", raw)
	}
}

func TestDetect_InlineHeadings(t *testing.T) {
	d := NewDetector(testMarkers)
	raw := "Here you go:\n## Campaign Brief\n### Objectives\n- Grow reach"

	got := d.Detect(raw)

	assert.True(t, got.Present)
	assert.Equal(t, raw, got.NormalizedText)
}

func TestDetect_SpanishMarkers(t *testing.T) {
	d := NewDetector(testMarkers)

	got := d.Detect("### Objetivos\nCrecer")

	assert.True(t, got.Present)
}

func TestDetect_RuledBlock(t *testing.T) {
	d := NewDetector(testMarkers)
	raw := "Draft below.\n\n---\n\n## Campaign Brief\n### Objectives\nGrow.\n\n---\n\nDoes this look right?"

	got := d.Detect(raw)

	assert.True(t, got.Present)
	assert.Equal(t, "## Campaign Brief\n### Objectives\nGrow.", got.NormalizedText)
}

func TestDetect_EmptyRuledBlockSkipped(t *testing.T) {
	d := NewDetector(testMarkers)
	raw := "---\n\n---\n\n## Campaign Brief\n\n---"

	got := d.Detect(raw)

	assert.True(t, got.Present)
	assert.Equal(t, "## Campaign Brief", got.NormalizedText)
}

func TestDetect_RulesWithoutBlankLinesKeepFullText(t *testing.T) {
	d := NewDetector(testMarkers)
	cases := map[string]string{
		"front matter":   "---\ntitle: x\n---\n## Campaign Brief\n### Objectives\nBody text\n",
		"tight rules":    "---\n## Campaign Brief\n---",
		"section breaks": "Intro\n---\n## Campaign Brief\n### Objectives\nGrow.\n---\nOutro",
	}

	for name, raw := range cases {
		got := d.Detect(raw)

		assert.True(t, got.Present, name)
		assert.Equal(t, raw, got.NormalizedText, name)
	}
}

func TestDetect_JSONBrief(t *testing.T) {
	d := NewDetector(testMarkers)
	raw := "Sure!\n```json\n{\"brief\": \"## Campaign Brief\\\\n### Objectives\\\\nGrow\"}\n```"

	got := d.Detect(raw)

	assert.True(t, got.Present)
	assert.Equal(t, "## Campaign Brief\n### Objectives\nGrow", got.NormalizedText)
}

func TestDetect_JSONBriefUnfencedWithSuggestions(t *testing.T) {
	d := NewDetector(testMarkers)
	raw := `{"brief": "## Brief de Campaña\n### Objetivos\nCrecer", "suggestions": ["Todo es correcto"]}`

	got := d.Detect(raw)

	assert.True(t, got.Present)
	assert.Equal(t, "## Brief de Campaña\n### Objetivos\nCrecer", got.NormalizedText)

	ext := Extract(raw)
	assert.Equal(t, []string{"Todo es correcto"}, ext.Suggestions)
}

func TestDetect_IgnoresEmptyMarkers(t *testing.T) {
	d := NewDetector([]string{"", "  "})

	assert.Empty(t, d.Markers())
	assert.False(t, d.Detect("anything").Present)
}
