package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoPayload(t *testing.T) {
	inputs := []string{
		"",
		"Plain answer with no JSON at all.",
		"Mentions suggestions but never as a key.",
		"Has {\"other\": 1} but no suggestion list.",
		"```go\nfmt.Println(\"hi\")\n```",
	}
	for _, in := range inputs {
		got := Extract(in)
		assert.Equal(t, in, got.CleanContent, "input %q", in)
		assert.Empty(t, got.Suggestions, "input %q", in)
		assert.Empty(t, got.Removed, "input %q", in)
	}
}

func TestExtract_FencedRoundTrip(t *testing.T) {
	raw := "Hello ```json\n{\"suggestions\":[\"A\",\"B\"]}\n``` bye"

	got := Extract(raw)

	assert.Equal(t, []string{"A", "B"}, got.Suggestions)
	assert.Contains(t, got.CleanContent, "Hello")
	assert.Contains(t, got.CleanContent, "bye")
	assert.NotContains(t, got.CleanContent, "```")
	assert.NotContains(t, got.CleanContent, "suggestions")
	assert.Equal(t, got.CleanContent, Extract(got.CleanContent).CleanContent)
}

func TestExtract_Unfenced(t *testing.T) {
	raw := "Here is what I found.\n{\"suggestions\": [\"Tell me more\", \"Skip\"]}"

	got := Extract(raw)

	assert.Equal(t, "Here is what I found.", got.CleanContent)
	assert.Equal(t, []string{"Tell me more", "Skip"}, got.Suggestions)
	assert.Equal(t, "{\"suggestions\": [\"Tell me more\", \"Skip\"]}", got.Removed)
}

func TestExtract_FencedPreferredOverUnfenced(t *testing.T) {
	raw := "{\"suggestions\":[\"inline\"]}\n```json\n{\"suggestions\":[\"fenced\"]}\n```"

	got := Extract(raw)

	assert.Equal(t, []string{"fenced"}, got.Suggestions)
	assert.Contains(t, got.CleanContent, "inline")
}

func TestExtract_InlineBackticksBeforeFence(t *testing.T) {
	raw := "Wrap code in ``` marks.\n```json\n{\"suggestions\":[\"A\"]}\n```\nThanks"

	got := Extract(raw)

	assert.Equal(t, []string{"A"}, got.Suggestions)
	assert.Equal(t, "Wrap code in ``` marks.\n\nThanks", got.CleanContent)
	assert.NotContains(t, got.CleanContent, "```json")
}

func TestExtract_ObjectEntries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "indicator and goal",
			raw:  `{"suggestions":[{"indicator":"Risk","goal":"reduce churn"}]}`,
			want: []string{"Risk: reduce churn"},
		},
		{
			name: "indicator only",
			raw:  `{"suggestions":[{"indicator":"Reach"}]}`,
			want: []string{"Reach"},
		},
		{
			name: "goal only",
			raw:  `{"suggestions":[{"goal":"grow signups"}]}`,
			want: []string{"grow signups"},
		},
		{
			name: "neither field",
			raw:  `{"suggestions":[{"label":"x"}]}`,
			want: []string{`{"label":"x"}`},
		},
		{
			name: "numbers and booleans",
			raw:  `{"suggestions":[3, true]}`,
			want: []string{"3", "true"},
		},
		{
			name: "mixed",
			raw:  `{"suggestions":["plain", {"indicator":"KPI","goal":"CTR 2%"}]}`,
			want: []string{"plain", "KPI: CTR 2%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			assert.Equal(t, tt.want, got.Suggestions)
			assert.Equal(t, "", got.CleanContent)
		})
	}
}

func TestExtract_MalformedFallsThrough(t *testing.T) {
	raw := "```json\n{\"suggestions\": [\"broken\",}\n```\nThen {\"suggestions\": [\"ok\"]}"

	got := Extract(raw)

	require.Equal(t, []string{"ok"}, got.Suggestions)
	assert.Contains(t, got.CleanContent, "broken")
}

func TestExtract_MalformedOnly(t *testing.T) {
	raw := "Reply {\"suggestions\": [\"a\", \"b\""

	got := Extract(raw)

	assert.Equal(t, raw, got.CleanContent)
	assert.Empty(t, got.Suggestions)
}

func TestExtract_NonArrayValueIgnored(t *testing.T) {
	raw := `Text {"suggestions": "not a list"}`

	got := Extract(raw)

	assert.Equal(t, raw, got.CleanContent)
	assert.Empty(t, got.Suggestions)
}

func TestExtract_BracesInsideStrings(t *testing.T) {
	raw := `Answer {"suggestions":["use {braces}", "and \"quotes\""]} end`

	got := Extract(raw)

	assert.Equal(t, []string{"use {braces}", `and "quotes"`}, got.Suggestions)
	assert.Equal(t, "Answer  end", got.CleanContent)
}

func TestExtract_Idempotent(t *testing.T) {
	raws := []string{
		"Intro\n```json\n{\"suggestions\":[\"x\"]}\n```\nOutro",
		"Intro {\"suggestions\":[{\"indicator\":\"a\",\"goal\":\"b\"}]} Outro",
		"No payload here",
	}
	for _, raw := range raws {
		first := Extract(raw)
		second := Extract(first.CleanContent)
		assert.Equal(t, first.CleanContent, second.CleanContent)
		assert.Empty(t, second.Suggestions)
	}
}

func TestExtract_CleanNeverContainsRemovedBlock(t *testing.T) {
	block := `{"suggestions":["dup"]}`
	raw := "a " + block + " b " + block

	got := Extract(raw)

	assert.Equal(t, block, got.Removed)
	assert.NotContains(t, got.CleanContent, block)
}
