package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabularyLabels(t *testing.T) {
	tests := []struct {
		locale    string
		export    string
		pageLabel string
	}{
		{"en", "Download brief as PDF", "Page %d of %d"},
		{"es", "Descargar brief en PDF", "Página %d de %d"},
		{"es-MX", "Descargar brief en PDF", "Página %d de %d"},
		{"fr", "Download brief as PDF", "Page %d of %d"},
		{"", "Download brief as PDF", "Page %d of %d"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			v := DefaultVocabulary(tt.locale)
			assert.Equal(t, tt.export, v.ExportLabel)
			assert.Equal(t, tt.pageLabel, v.PageLabel)
		})
	}
}

func TestDefaultVocabularyIsBilingual(t *testing.T) {
	v := DefaultVocabulary("en")

	assert.Contains(t, v.DocumentMarkers, "## Campaign Brief")
	assert.Contains(t, v.DocumentMarkers, "### Objetivos")
	assert.Contains(t, v.ExportPhrases, "Descargar brief en PDF")
	assert.Contains(t, v.ConfirmPhrases, "Everything is correct")
	assert.Contains(t, v.ConfirmPhrases, "Todo es correcto")
}

func TestDefaultVocabularyLabelsAreKnownPhrases(t *testing.T) {
	for _, loc := range []string{"en", "es"} {
		v := DefaultVocabulary(loc)
		assert.Contains(t, v.ExportPhrases, v.ExportLabel, loc)
		assert.Contains(t, v.StartOverPhrases, v.StartOverLabel, loc)
	}
}

func TestLoadVocabularyEmptyPath(t *testing.T) {
	v, err := LoadVocabulary("", "en")
	require.NoError(t, err)
	assert.Equal(t, DefaultVocabulary("en"), v)
}

func TestLoadVocabularyMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	data := `
document_markers:
  - "## Briefing de Campanha"
  - "## Campaign Brief"
export_phrases:
  - "Baixar brief em PDF"
footer_label: "Acme brief"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	v, err := LoadVocabulary(path, "en")
	require.NoError(t, err)

	def := DefaultVocabulary("en")
	assert.Len(t, v.DocumentMarkers, len(def.DocumentMarkers)+1)
	assert.Contains(t, v.DocumentMarkers, "## Briefing de Campanha")
	assert.Contains(t, v.ExportPhrases, "Baixar brief em PDF")
	assert.Equal(t, "Acme brief", v.FooterLabel)
	assert.Equal(t, def.PageLabel, v.PageLabel)
}

func TestLoadVocabularyErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadVocabulary(filepath.Join(dir, "missing.yaml"), "en")
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("document_markers: [unclosed"), 0600))
	_, err = LoadVocabulary(bad, "en")
	assert.Error(t, err)

	label := filepath.Join(dir, "label.yaml")
	require.NoError(t, os.WriteFile(label, []byte("page_label: \"Page %d\"\n"), 0600))
	_, err = LoadVocabulary(label, "en")
	assert.Error(t, err)
}
