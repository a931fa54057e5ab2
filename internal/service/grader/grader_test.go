package grader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func TestGradeAllRulesPass(t *testing.T) {
	g := New(nil, 0)

	text := words(600) + " consensus replication"
	result := g.Grade(".pdf", text, []string{"consensus", "replication"})

	assert.Equal(t, 5.0, result.Grade)
	assert.Equal(t, 602, result.WordCount)
	assert.Contains(t, result.Feedback, "Word count is sufficient (602 words)")
	assert.Contains(t, result.Feedback, "All required keywords are present")
}

func TestGradeShortDocumentTerminates(t *testing.T) {
	g := New(nil, 0)

	// Провал по длине прекращает проверку: ни ключевые слова, ни
	// дополнительный балл не начисляются.
	text := words(300) + " consensus replication"
	result := g.Grade(".pdf", text, []string{"consensus", "replication"})

	assert.Equal(t, 1.0, result.Grade)
	assert.Contains(t, result.Feedback, "Word count is below 500. Current count: 302.")
	assert.NotContains(t, result.Feedback, "keywords")
}

func TestGradeMissingKeywords(t *testing.T) {
	g := New(nil, 0)

	text := words(600) + " consensus"
	result := g.Grade(".docx", text, []string{"consensus", "summary"})

	// 1 (формат) + 1 (длина) + 0 (слова) + 1 (дополнительный) = 3.
	assert.Equal(t, 3.0, result.Grade)
	assert.Contains(t, result.Feedback, "Missing keywords: summary.")
}

func TestGradeUnsupportedFormat(t *testing.T) {
	g := New(nil, 0)

	text := words(600)
	result := g.Grade(".txt", text, nil)

	// 0 (формат) + 1 (длина) + 2 (слова) + 1 = 4.
	assert.Equal(t, 4.0, result.Grade)
	assert.Contains(t, result.Feedback, "Unsupported file format")
}

func TestGradeUnsupportedFormatAndShort(t *testing.T) {
	g := New(nil, 0)

	result := g.Grade(".txt", words(10), nil)

	assert.Equal(t, 0.0, result.Grade)
	assert.Equal(t, 10, result.WordCount)
}

func TestGradeEmptyText(t *testing.T) {
	g := New(nil, 0)

	result := g.Grade(".pdf", "", []string{"consensus"})

	assert.Equal(t, 1.0, result.Grade)
	assert.Equal(t, 0, result.WordCount)
}

func TestGradeKeywordsCaseInsensitive(t *testing.T) {
	g := New(nil, 0)

	text := words(600) + " CONSENSUS Replication"
	result := g.Grade(".pdf", text, []string{"consensus", "replication"})

	assert.Equal(t, 5.0, result.Grade)
}

func TestGradeNeverExceedsMax(t *testing.T) {
	g := New(nil, 0)

	tests := []struct {
		name     string
		ext      string
		text     string
		keywords []string
	}{
		{"all pass", ".pdf", words(600) + " x", []string{"x"}},
		{"no keywords required", ".docx", words(500), nil},
		{"bad format long text", ".txt", words(700), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Grade(tt.ext, tt.text, tt.keywords)
			assert.LessOrEqual(t, result.Grade, float64(MaxGrade))
			assert.GreaterOrEqual(t, result.Grade, 0.0)
		})
	}
}

func TestGradeExtensionCaseInsensitive(t *testing.T) {
	g := New(nil, 0)

	result := g.Grade(".PDF", words(600), nil)
	assert.Equal(t, 5.0, result.Grade)
}
