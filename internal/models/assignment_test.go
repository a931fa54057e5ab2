package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "consensus", []string{"consensus"}},
		{"spaces and case", " Consensus , REPLICATION ", []string{"consensus", "replication"}},
		{"empty entries dropped", "a,,b,  ,c", []string{"a", "b", "c"}},
		{"trailing comma", "summary,", []string{"summary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKeywords(tt.raw)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeKeywordsIdempotent(t *testing.T) {
	raw := " Alpha , beta ,GAMMA"
	once := NormalizeKeywords(raw)

	// Повторная нормализация уже нормализованного списка ничего не меняет.
	for i, kw := range once {
		again := NormalizeKeywords(kw)
		assert.Equal(t, []string{once[i]}, again)
	}
}

func TestSubmissionIsGraded(t *testing.T) {
	var s Submission
	assert.False(t, s.IsGraded())

	zero := 0.0
	s.Grade = &zero
	assert.False(t, s.IsGraded())

	positive := 3.0
	s.Grade = &positive
	assert.True(t, s.IsGraded())
}

func TestIsValidAnswerOption(t *testing.T) {
	assert.True(t, IsValidAnswerOption(AnswerOption1))
	assert.True(t, IsValidAnswerOption(AnswerOption4))
	assert.False(t, IsValidAnswerOption("Option5"))
	assert.False(t, IsValidAnswerOption(""))
	assert.False(t, IsValidAnswerOption("option1"))
}

func TestQuestionForStudentHidesAnswer(t *testing.T) {
	q := Question{
		ID:      "q1",
		Text:    "What is a quorum?",
		Option1: "a",
		Option2: "b",
		Option3: "c",
		Option4: "d",
		Answer:  AnswerOption2,
		Marks:   3,
	}

	sq := q.ForStudent()
	assert.Equal(t, q.ID, sq.ID)
	assert.Equal(t, q.Marks, sq.Marks)
	// StudentQuestion вообще не имеет поля с ответом.
}
