package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brief-cli/internal/export"
	"brief-cli/internal/pagination"
	"brief-cli/internal/store"
	"brief-cli/internal/suggest"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AudioRef points at a voice note recorded for a message.
type AudioRef struct {
	Path     string
	MimeType string
}

// Message is immutable once appended.
type Message struct {
	Role       Role
	RawContent string
	Audio      *AudioRef
	CreatedAt  time.Time
}

// Transcript persists messages. *store.Store satisfies it.
type Transcript interface {
	Append(ctx context.Context, id string, r store.Record) (int, error)
	Messages(ctx context.Context, id string) ([]store.Record, error)
}

// Exporter writes a laid-out brief somewhere and returns its location.
// *export.Exporter satisfies it.
type Exporter interface {
	Export(layout pagination.PageLayout, title string) (string, error)
}

// Outcome tells the caller what a suggestion click should do.
type Outcome int

const (
	OutcomeNone      Outcome = iota // already clicked
	OutcomeSend                     // send Text as the next user message
	OutcomeMerge                    // append Text to the pending input
	OutcomeExport                   // export the latest brief
	OutcomeStartOver                // reset the conversation
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSend:
		return "send"
	case OutcomeMerge:
		return "merge"
	case OutcomeExport:
		return "export"
	case OutcomeStartOver:
		return "start-over"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type ClickResult struct {
	Outcome Outcome
	Text    string
}

// Conversation is safe for concurrent use.
type Conversation struct {
	mu         sync.Mutex
	id         string
	messages   []Message
	analyses   map[int]Analysis
	tracker    *suggest.Tracker
	pipeline   *Pipeline
	transcript Transcript
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Conversation)

func WithTranscript(t Transcript) Option {
	return func(c *Conversation) { c.transcript = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Conversation) { c.logger = l }
}

func WithID(id string) Option {
	return func(c *Conversation) { c.id = id }
}

func New(p *Pipeline, opts ...Option) *Conversation {
	c := &Conversation{
		pipeline: p,
		analyses: make(map[int]Analysis),
		tracker:  suggest.NewTracker(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	return c
}

func (c *Conversation) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// AppendUser records a user message. Persistence failures are logged and
// do not interrupt the conversation.
func (c *Conversation) AppendUser(ctx context.Context, text string, audio *AudioRef) Message {
	m := Message{Role: RoleUser, RawContent: text, Audio: audio, CreatedAt: c.now()}
	c.append(ctx, m)
	return m
}

// AppendAssistant records a reply and returns its analysis.
func (c *Conversation) AppendAssistant(ctx context.Context, raw string) Analysis {
	m := Message{Role: RoleAssistant, RawContent: raw, CreatedAt: c.now()}
	idx := c.append(ctx, m)

	c.mu.Lock()
	a := c.analysisLocked(idx)
	c.mu.Unlock()

	c.logger.Debug("assistant reply analyzed",
		zap.String("conversation", c.ID()),
		zap.Int("suggestions", a.Suggestions.Len()),
		zap.Bool("document", a.Document.Present))
	return a
}

func (c *Conversation) append(ctx context.Context, m Message) int {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	idx := len(c.messages) - 1
	id := c.id
	c.mu.Unlock()

	if c.transcript == nil {
		return idx
	}
	rec := store.Record{Role: string(m.Role), Content: m.RawContent, CreatedAt: m.CreatedAt}
	if m.Audio != nil {
		rec.AudioPath = m.Audio.Path
	}
	if _, err := c.transcript.Append(ctx, id, rec); err != nil {
		c.logger.Warn("saving message failed", zap.String("conversation", id), zap.Error(err))
	}
	return idx
}

func (c *Conversation) analysisLocked(idx int) Analysis {
	if a, ok := c.analyses[idx]; ok {
		return a
	}
	a := c.pipeline.Analyze(c.messages[idx].RawContent)
	c.analyses[idx] = a
	return a
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Latest returns the most recent assistant message and its analysis.
func (c *Conversation) Latest() (Message, Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleAssistant {
			return c.messages[i], c.analysisLocked(i), true
		}
	}
	return Message{}, Analysis{}, false
}

// VisibleSuggestions returns the suggestions to offer now. Only the newest
// message is considered, it must be an assistant reply, and the opening
// assistant turn never shows suggestions. Clicked texts are hidden.
func (c *Conversation) VisibleSuggestions() []suggest.Suggestion {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := len(c.messages) - 1
	if last < 0 || c.messages[last].Role != RoleAssistant {
		return nil
	}
	turns := 0
	for _, m := range c.messages {
		if m.Role == RoleAssistant {
			turns++
		}
	}
	if turns < 2 {
		return nil
	}
	return c.tracker.Available(c.analysisLocked(last).Suggestions.All())
}

// Click consumes a suggestion. A second click on the same text returns
// OutcomeNone.
func (c *Conversation) Click(s suggest.Suggestion) ClickResult {
	if !c.currentTracker().Click(s) {
		return ClickResult{Outcome: OutcomeNone}
	}

	res := ClickResult{Text: s.Text}
	switch s.Category {
	case suggest.Plain:
		res.Outcome = OutcomeMerge
	case suggest.Confirmatory:
		res.Outcome = OutcomeSend
	case suggest.Action:
		if s.Action == suggest.ExportDocument {
			res.Outcome = OutcomeExport
		} else {
			res.Outcome = OutcomeStartOver
		}
	}
	c.logger.Debug("suggestion clicked",
		zap.String("id", s.ID),
		zap.Stringer("category", s.Category),
		zap.Stringer("outcome", res.Outcome))
	return res
}

// Selection returns the clicked and committed suggestion texts.
func (c *Conversation) Selection() suggest.Selection {
	return c.currentTracker().Snapshot()
}

func (c *Conversation) currentTracker() *suggest.Tracker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker
}

// LatestDocument returns the text of the newest reply that carried a brief.
func (c *Conversation) LatestDocument() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role != RoleAssistant {
			continue
		}
		if text := c.analysisLocked(i).DocumentText(); text != "" {
			return text, nil
		}
	}
	return "", export.ErrNoDocument
}

// ExportBrief paginates the latest brief and hands it to exp.
func (c *Conversation) ExportBrief(exp Exporter) (string, error) {
	text, err := c.LatestDocument()
	if err != nil {
		return "", err
	}
	layout := c.pipeline.Layout(text)
	path, err := exp.Export(layout, Title(text))
	if err != nil {
		return "", fmt.Errorf("exporting brief: %w", err)
	}
	c.logger.Info("brief exported", zap.String("conversation", c.ID()), zap.String("path", path))
	return path, nil
}

// Title returns the first line of a brief with markdown markers removed.
func Title(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "#*_ "))
		if line != "" {
			return line
		}
	}
	return ""
}

// Reset starts a fresh conversation with a new ID.
func (c *Conversation) Reset() {
	c.Restore(uuid.NewString(), nil)
}

// Restore replaces the conversation with a previously saved one. Selection
// state is not persisted, so every suggestion starts unclicked.
func (c *Conversation) Restore(id string, messages []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
	c.messages = append([]Message(nil), messages...)
	c.analyses = make(map[int]Analysis)
	c.tracker = suggest.NewTracker()
}

// Resume loads conversation id from the transcript.
func (c *Conversation) Resume(ctx context.Context, id string) error {
	if c.transcript == nil {
		return errors.New("no transcript store configured")
	}
	recs, err := c.transcript.Messages(ctx, id)
	if err != nil {
		return err
	}
	msgs := make([]Message, 0, len(recs))
	for _, r := range recs {
		m := Message{Role: Role(r.Role), RawContent: r.Content, CreatedAt: r.CreatedAt}
		if r.AudioPath != "" {
			m.Audio = &AudioRef{Path: r.AudioPath}
		}
		msgs = append(msgs, m)
	}
	c.Restore(id, msgs)
	c.logger.Info("conversation resumed", zap.String("conversation", id), zap.Int("messages", len(msgs)))
	return nil
}
