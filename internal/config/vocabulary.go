package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the phrase and heading tables used to interpret replies.
// The lists are bilingual regardless of the active locale; the locale only
// picks the labels the client itself displays.
type Vocabulary struct {
	// DocumentMarkers are heading lines whose presence marks a brief.
	// Matching is substring containment, so "## Context" also matches
	// "### Context" and "#### Context".
	DocumentMarkers []string `yaml:"document_markers"`

	ExportPhrases    []string `yaml:"export_phrases"`
	StartOverPhrases []string `yaml:"start_over_phrases"`
	ConfirmPhrases   []string `yaml:"confirm_phrases"`
	ChangePhrases    []string `yaml:"change_phrases"`

	ExportLabel    string `yaml:"export_label"`
	StartOverLabel string `yaml:"start_over_label"`
	FooterLabel    string `yaml:"footer_label"`
	PageLabel      string `yaml:"page_label"`
}

var defaultMarkers = []string{
	// en
	"## Campaign Brief",
	"## Creative Brief",
	"### Context",
	"### Objectives",
	"### Risks",
	"### Budget",
	"### Target Audience",
	// es
	"## Brief de Campaña",
	"## Brief Creativo",
	"### Contexto",
	"### Objetivos",
	"### Riesgos",
	"### Presupuesto",
	"### Público Objetivo",
}

var labels = map[string]struct {
	export, startOver, footer, page string
}{
	"en": {"Download brief as PDF", "Start a new brief", "Campaign brief", "Page %d of %d"},
	"es": {"Descargar brief en PDF", "Empezar un nuevo brief", "Brief de campaña", "Página %d de %d"},
}

// DefaultVocabulary returns the built-in tables with labels for locale.
// Unknown locales fall back to English labels.
func DefaultVocabulary(locale string) Vocabulary {
	l, ok := labels[baseLocale(locale)]
	if !ok {
		l = labels["en"]
	}
	return Vocabulary{
		DocumentMarkers: append([]string(nil), defaultMarkers...),
		ExportPhrases: []string{
			"Download brief as PDF",
			"Export brief to PDF",
			"Descargar brief en PDF",
			"Exportar brief a PDF",
		},
		StartOverPhrases: []string{
			"Start a new brief",
			"Create a new brief",
			"Empezar un nuevo brief",
			"Crear un nuevo brief",
		},
		ConfirmPhrases: []string{
			"Everything is correct",
			"Todo es correcto",
		},
		ChangePhrases: []string{
			"i want to change",
			"make changes",
			"quiero cambiar",
			"hacer cambios",
		},
		ExportLabel:    l.export,
		StartOverLabel: l.startOver,
		FooterLabel:    l.footer,
		PageLabel:      l.page,
	}
}

// LoadVocabulary returns the default vocabulary for locale, extended by the
// YAML file at path when path is non-empty. Lists in the file are appended to
// the defaults; labels in the file replace the defaults.
func LoadVocabulary(path, locale string) (Vocabulary, error) {
	v := DefaultVocabulary(locale)
	if path == "" {
		return v, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("reading vocabulary: %w", err)
	}

	var extra Vocabulary
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return v, fmt.Errorf("parsing vocabulary: %w", err)
	}

	v.DocumentMarkers = appendUnique(v.DocumentMarkers, extra.DocumentMarkers)
	v.ExportPhrases = appendUnique(v.ExportPhrases, extra.ExportPhrases)
	v.StartOverPhrases = appendUnique(v.StartOverPhrases, extra.StartOverPhrases)
	v.ConfirmPhrases = appendUnique(v.ConfirmPhrases, extra.ConfirmPhrases)
	v.ChangePhrases = appendUnique(v.ChangePhrases, extra.ChangePhrases)

	if extra.ExportLabel != "" {
		v.ExportLabel = extra.ExportLabel
	}
	if extra.StartOverLabel != "" {
		v.StartOverLabel = extra.StartOverLabel
	}
	if extra.FooterLabel != "" {
		v.FooterLabel = extra.FooterLabel
	}
	if extra.PageLabel != "" {
		if strings.Count(extra.PageLabel, "%d") != 2 {
			return v, fmt.Errorf("page_label %q must contain two %%d verbs", extra.PageLabel)
		}
		v.PageLabel = extra.PageLabel
	}
	return v, nil
}

func appendUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s] = true
	}
	for _, s := range extra {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		base = append(base, s)
	}
	return base
}

func baseLocale(locale string) string {
	locale = strings.ToLower(locale)
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}
