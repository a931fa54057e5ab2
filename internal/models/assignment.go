package models

import (
	"strings"
	"time"
)

type Assignment struct {
	ID               string    `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	DueDate          time.Time `json:"due_date" db:"due_date"`
	RequiredKeywords string    `json:"required_keywords" db:"required_keywords"`
	CreatedBy        string    `json:"created_by" db:"created_by"`
	Course           string    `json:"course,omitempty" db:"course"`
	Marks            int       `json:"marks" db:"marks"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// RequiredKeywordsList splits the stored comma-separated keywords into
// normalized terms: lowercased, trimmed, empty entries dropped. The list is
// always derived from the raw string, never stored pre-split, and the
// normalization is idempotent.
func (a *Assignment) RequiredKeywordsList() []string {
	return NormalizeKeywords(a.RequiredKeywords)
}

func NormalizeKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		kw := strings.ToLower(strings.TrimSpace(p))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
