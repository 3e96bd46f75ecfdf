// Package session owns one conversation: its message log, the analysis of
// each assistant reply and the record of which suggestions were used.
package session

import (
	"strings"

	"brief-cli/internal/config"
	"brief-cli/internal/pagination"
	"brief-cli/internal/reply"
	"brief-cli/internal/suggest"
)

// Analysis is everything derived from one assistant reply.
type Analysis struct {
	Extraction  reply.ExtractionResult
	Document    reply.DocumentDetection
	Suggestions suggest.Buckets
}

// DocumentText returns the brief ready for pagination, without any
// suggestion payload that was embedded alongside it.
func (a Analysis) DocumentText() string {
	if !a.Document.Present {
		return ""
	}
	text := a.Document.NormalizedText
	if a.Extraction.Removed != "" {
		text = strings.ReplaceAll(text, a.Extraction.Removed, "")
	}
	return strings.TrimSpace(text)
}

// Pipeline runs extraction, detection and classification over a reply.
type Pipeline struct {
	detector   *reply.Detector
	classifier *suggest.Classifier
	layout     pagination.Config
}

func NewPipeline(v config.Vocabulary) *Pipeline {
	layout := pagination.DefaultConfig()
	if v.FooterLabel != "" {
		layout.FooterLabel = v.FooterLabel
	}
	if v.PageLabel != "" {
		layout.PageLabel = v.PageLabel
	}
	return &Pipeline{
		detector: reply.NewDetector(v.DocumentMarkers),
		classifier: suggest.NewClassifier(suggest.Phrases{
			Export:         v.ExportPhrases,
			StartOver:      v.StartOverPhrases,
			Confirm:        v.ConfirmPhrases,
			WantsChanges:   v.ChangePhrases,
			ExportLabel:    v.ExportLabel,
			StartOverLabel: v.StartOverLabel,
		}),
		layout: layout,
	}
}

// Analyze is pure: the same raw text always yields the same analysis.
func (p *Pipeline) Analyze(raw string) Analysis {
	ext := reply.Extract(raw)
	doc := p.detector.Detect(raw)
	return Analysis{
		Extraction:  ext,
		Document:    doc,
		Suggestions: p.classifier.Classify(ext.Suggestions, doc.Present),
	}
}

// Layout paginates a brief with the pipeline's page settings.
func (p *Pipeline) Layout(text string) pagination.PageLayout {
	return pagination.Paginate(text, p.layout)
}

// LayoutConfig returns the page settings used by Layout.
func (p *Pipeline) LayoutConfig() pagination.Config {
	return p.layout
}
