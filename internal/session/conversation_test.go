package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brief-cli/internal/config"
	"brief-cli/internal/export"
	"brief-cli/internal/pagination"
	"brief-cli/internal/store"
	"brief-cli/internal/suggest"
)

const (
	greeting = "Hi! Tell me about your campaign."
	question = "What is the budget?\n```json\n{\"suggestions\":[\"Ten thousand\",\"Not sure yet\"]}\n```"
	draft    = "Here is the draft.\n\n---\n\n## Campaign Brief\n### Objectives\n- Grow reach\n\n---\n\n" +
		"```json\n{\"suggestions\":[\"Everything is correct\",\"I want to change the budget\"]}\n```"
)

func newTestConversation(opts ...Option) *Conversation {
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return New(NewPipeline(config.DefaultVocabulary("en")), opts...)
}

func texts(list []suggest.Suggestion) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Text
	}
	return out
}

func TestAnalyze(t *testing.T) {
	p := NewPipeline(config.DefaultVocabulary("en"))

	a := p.Analyze(draft)

	assert.True(t, a.Document.Present)
	assert.Equal(t, "## Campaign Brief\n### Objectives\n- Grow reach", a.DocumentText())
	assert.NotContains(t, a.Extraction.CleanContent, "suggestions")
	assert.Equal(t, []string{"Everything is correct", "I want to change the budget"}, texts(a.Suggestions.Confirmatory))
	assert.Equal(t, []string{"Download brief as PDF", "Start a new brief"}, texts(a.Suggestions.Action))
	assert.Empty(t, a.Suggestions.Plain)
}

func TestDocumentTextDropsPayload(t *testing.T) {
	p := NewPipeline(config.DefaultVocabulary("en"))

	a := p.Analyze("## Campaign Brief\nGrow\n{\"suggestions\":[\"x\"]}")

	assert.Equal(t, "## Campaign Brief\nGrow", a.DocumentText())
}

func TestDocumentTextEmptyWithoutBrief(t *testing.T) {
	p := NewPipeline(config.DefaultVocabulary("en"))

	assert.Empty(t, p.Analyze(question).DocumentText())
}

func TestVisibleSuggestions(t *testing.T) {
	ctx := context.Background()
	c := newTestConversation()

	assert.Nil(t, c.VisibleSuggestions(), "empty conversation")

	c.AppendAssistant(ctx, question)
	assert.Nil(t, c.VisibleSuggestions(), "first assistant turn")

	c.AppendUser(ctx, "A summer campaign", nil)
	c.AppendAssistant(ctx, question)
	assert.Equal(t, []string{"Ten thousand", "Not sure yet"}, texts(c.VisibleSuggestions()))

	c.AppendUser(ctx, "typing a reply", nil)
	assert.Nil(t, c.VisibleSuggestions(), "user spoke last")
}

func TestClickOutcomes(t *testing.T) {
	ctx := context.Background()
	c := newTestConversation()
	c.AppendAssistant(ctx, greeting)
	c.AppendUser(ctx, "go", nil)
	c.AppendAssistant(ctx, draft)

	visible := c.VisibleSuggestions()
	require.Len(t, visible, 4)

	byText := map[string]suggest.Suggestion{}
	for _, s := range visible {
		byText[s.Text] = s
	}

	tests := []struct {
		text string
		want Outcome
	}{
		{"Everything is correct", OutcomeSend},
		{"I want to change the budget", OutcomeSend},
		{"Download brief as PDF", OutcomeExport},
		{"Start a new brief", OutcomeStartOver},
	}
	for _, tt := range tests {
		res := c.Click(byText[tt.text])
		assert.Equal(t, tt.want, res.Outcome, tt.text)
		assert.Equal(t, tt.text, res.Text)
	}

	assert.Empty(t, c.VisibleSuggestions())
	assert.Empty(t, c.Selection().Committed)
}

func TestClickPlainMergesOnce(t *testing.T) {
	ctx := context.Background()
	c := newTestConversation()
	c.AppendAssistant(ctx, greeting)
	c.AppendUser(ctx, "hi", nil)
	c.AppendAssistant(ctx, question)

	s := c.VisibleSuggestions()[0]

	first := c.Click(s)
	second := c.Click(s)

	assert.Equal(t, OutcomeMerge, first.Outcome)
	assert.Equal(t, "Ten thousand", first.Text)
	assert.Equal(t, OutcomeNone, second.Outcome)
	assert.Equal(t, []string{"Ten thousand"}, c.Selection().Committed)
	assert.Equal(t, []string{"Not sure yet"}, texts(c.VisibleSuggestions()))

	// The same text offered again in a later turn stays hidden.
	c.AppendUser(ctx, "Ten thousand", nil)
	c.AppendAssistant(ctx, question)
	assert.Equal(t, []string{"Not sure yet"}, texts(c.VisibleSuggestions()))
}

type fakeExporter struct {
	layout pagination.PageLayout
	title  string
	err    error
}

func (f *fakeExporter) Export(layout pagination.PageLayout, title string) (string, error) {
	f.layout, f.title = layout, title
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/brief.pdf", nil
}

func TestExportBrief(t *testing.T) {
	ctx := context.Background()
	c := newTestConversation()
	exp := &fakeExporter{}

	_, err := c.ExportBrief(exp)
	assert.ErrorIs(t, err, export.ErrNoDocument)

	c.AppendAssistant(ctx, greeting)
	c.AppendUser(ctx, "go", nil)
	c.AppendAssistant(ctx, draft)
	c.AppendUser(ctx, "Everything is correct", nil)
	c.AppendAssistant(ctx, "Great, thanks!")

	path, err := c.ExportBrief(exp)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/brief.pdf", path)
	assert.Equal(t, "Campaign Brief", exp.title)
	require.Len(t, exp.layout.Pages, 1)
	assert.Equal(t, "Campaign Brief", exp.layout.Pages[0].Lines[0].Text)
	assert.Equal(t, "Page 1 of 1", exp.layout.Pages[0].Footer[1].Text)

	exp.err = errors.New("disk full")
	_, err = c.ExportBrief(exp)
	assert.ErrorContains(t, err, "disk full")
}

func TestResetAndRestore(t *testing.T) {
	ctx := context.Background()
	c := newTestConversation(WithID("fixed"))
	c.AppendAssistant(ctx, greeting)
	c.AppendUser(ctx, "hi", nil)
	c.AppendAssistant(ctx, question)
	c.Click(c.VisibleSuggestions()[0])

	c.Reset()

	assert.NotEqual(t, "fixed", c.ID())
	assert.Empty(t, c.Messages())
	assert.Empty(t, c.Selection().Clicked)
	_, _, ok := c.Latest()
	assert.False(t, ok)
}

func TestTranscriptResume(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "brief.db"))
	require.NoError(t, err)
	defer st.Close()

	c := newTestConversation(WithTranscript(st))
	c.AppendAssistant(ctx, greeting)
	c.AppendUser(ctx, "hi", &AudioRef{Path: "/tmp/note.ogg"})
	c.AppendAssistant(ctx, draft)
	id := c.ID()

	other := newTestConversation(WithTranscript(st))
	require.NoError(t, other.Resume(ctx, id))

	assert.Equal(t, id, other.ID())
	msgs := other.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleUser, msgs[1].Role)
	require.NotNil(t, msgs[1].Audio)
	assert.Equal(t, "/tmp/note.ogg", msgs[1].Audio.Path)
	assert.Len(t, other.VisibleSuggestions(), 4)

	assert.ErrorIs(t, other.Resume(ctx, "missing"), store.ErrNotFound)
}

func TestResumeWithoutTranscript(t *testing.T) {
	assert.Error(t, newTestConversation().Resume(context.Background(), "x"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Campaign Brief", Title("\n## **Campaign Brief**\n### Objectives"))
	assert.Equal(t, "", Title("\n\n"))
}
