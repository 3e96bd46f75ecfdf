// Package suggest classifies suggested replies and tracks which of them the
// user has already used.
package suggest

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Category is the behavioural bucket a suggestion falls into.
type Category int

const (
	Plain Category = iota
	Confirmatory
	Action
)

func (c Category) String() string {
	switch c {
	case Plain:
		return "plain"
	case Confirmatory:
		return "confirmatory"
	case Action:
		return "action"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ActionKind is set only on Action suggestions.
type ActionKind int

const (
	NoAction ActionKind = iota
	ExportDocument
	StartOver
)

func (k ActionKind) String() string {
	switch k {
	case NoAction:
		return "none"
	case ExportDocument:
		return "export"
	case StartOver:
		return "start-over"
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Origin says whether a suggestion came from the reply or was added locally.
type Origin int

const (
	Natural Origin = iota
	Synthesized
)

// Suggestion is one reply option. Text is its identity for selection
// tracking; ID is a stable key for rendering that never collides between
// natural and synthesized entries.
type Suggestion struct {
	ID          string
	Text        string
	Category    Category
	Affirmative bool
	Action      ActionKind
	Origin      Origin
}

// Buckets holds classified suggestions, each in input order.
type Buckets struct {
	Plain        []Suggestion
	Confirmatory []Suggestion
	Action       []Suggestion
}

// All returns every suggestion in display order: confirmatory, plain, then
// actions.
func (b Buckets) All() []Suggestion {
	out := make([]Suggestion, 0, len(b.Plain)+len(b.Confirmatory)+len(b.Action))
	out = append(out, b.Confirmatory...)
	out = append(out, b.Plain...)
	out = append(out, b.Action...)
	return out
}

// Len returns the total number of suggestions.
func (b Buckets) Len() int {
	return len(b.Plain) + len(b.Confirmatory) + len(b.Action)
}

// Phrases are the tables the classifier matches against.
type Phrases struct {
	Export         []string
	StartOver      []string
	Confirm        []string
	WantsChanges   []string
	ExportLabel    string
	StartOverLabel string
}

// Classifier partitions suggestion lists. It holds no state beyond its
// phrase tables and is safe for concurrent use.
type Classifier struct {
	export    map[string]bool
	startOver map[string]bool
	confirm   []string
	changes   []string

	exportLabel    string
	startOverLabel string
}

const (
	synthesizedExportID    = "synthesized:export"
	synthesizedStartOverID = "synthesized:start-over"
)

// NewClassifier builds a classifier from p.
func NewClassifier(p Phrases) *Classifier {
	fold := cases.Fold()
	c := &Classifier{
		export:         toSet(p.Export),
		startOver:      toSet(p.StartOver),
		exportLabel:    p.ExportLabel,
		startOverLabel: p.StartOverLabel,
	}
	for _, s := range p.Confirm {
		c.confirm = append(c.confirm, fold.String(s))
	}
	for _, s := range p.WantsChanges {
		if s != "" {
			c.changes = append(c.changes, fold.String(s))
		}
	}
	if c.exportLabel == "" && len(p.Export) > 0 {
		c.exportLabel = p.Export[0]
	}
	if c.startOverLabel == "" && len(p.StartOver) > 0 {
		c.startOverLabel = p.StartOver[0]
	}
	return c
}

func toSet(list []string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, s := range list {
		m[s] = true
	}
	return m
}

// Classify sorts texts into buckets. When documentDetected is true, missing
// export and start-over actions are appended as synthesized suggestions.
func (c *Classifier) Classify(texts []string, documentDetected bool) Buckets {
	var b Buckets
	hasExport, hasStartOver := false, false
	fold := cases.Fold()

	for i, text := range texts {
		s := c.classifyOne(fold, text)
		s.ID = fmt.Sprintf("natural:%d", i)
		switch s.Category {
		case Action:
			if s.Action == ExportDocument {
				hasExport = true
			} else {
				hasStartOver = true
			}
			b.Action = append(b.Action, s)
		case Confirmatory:
			b.Confirmatory = append(b.Confirmatory, s)
		default:
			b.Plain = append(b.Plain, s)
		}
	}

	if !documentDetected {
		return b
	}
	if !hasExport {
		b.Action = append(b.Action, Suggestion{
			ID:       synthesizedExportID,
			Text:     c.exportLabel,
			Category: Action,
			Action:   ExportDocument,
			Origin:   Synthesized,
		})
	}
	if !hasStartOver {
		b.Action = append(b.Action, Suggestion{
			ID:       synthesizedStartOverID,
			Text:     c.startOverLabel,
			Category: Action,
			Action:   StartOver,
			Origin:   Synthesized,
		})
	}
	return b
}

// Category returns the category text would receive, ignoring synthesis.
func (c *Classifier) Category(text string) Category {
	return c.classifyOne(cases.Fold(), text).Category
}

func (c *Classifier) classifyOne(fold cases.Caser, text string) Suggestion {
	s := Suggestion{Text: text, Origin: Natural}
	if c.export[text] {
		s.Category, s.Action = Action, ExportDocument
		return s
	}
	if c.startOver[text] {
		s.Category, s.Action = Action, StartOver
		return s
	}

	folded := fold.String(text)
	for _, p := range c.confirm {
		if folded == p {
			s.Category, s.Affirmative = Confirmatory, true
			return s
		}
	}
	for _, p := range c.changes {
		if strings.Contains(folded, p) {
			s.Category = Confirmatory
			return s
		}
	}
	s.Category = Plain
	return s
}
