// Package grader applies the rule-based scoring used for assignment
// submissions: format, length, required keywords and a discretionary point,
// on a fixed five-point scale.
package grader

import (
	"fmt"
	"strings"
)

const (
	// MaxGrade is the total of all obtainable points (1+1+2+1).
	MaxGrade = 5

	formatPoints        = 1
	lengthPoints        = 1
	keywordPoints       = 2
	discretionaryPoints = 1
)

type Result struct {
	Grade     float64
	Feedback  string
	WordCount int
}

type Grader struct {
	allowedExtensions []string
	minWordCount      int
}

func New(allowedExtensions []string, minWordCount int) *Grader {
	if len(allowedExtensions) == 0 {
		allowedExtensions = []string{".pdf", ".docx"}
	}
	if minWordCount <= 0 {
		minWordCount = 500
	}
	return &Grader{
		allowedExtensions: allowedExtensions,
		minWordCount:      minWordCount,
	}
}

// Grade evaluates extracted text against the assignment's required keywords.
// Checks run in a fixed order; an insufficient word count terminates
// evaluation immediately so the keyword and discretionary checks are never
// reached. Keywords must already be normalized (see models.NormalizeKeywords).
func (g *Grader) Grade(ext, text string, keywords []string) Result {
	var grade float64
	var feedback strings.Builder

	// 1. File format check.
	if g.isAllowedExtension(ext) {
		grade += formatPoints
	} else {
		feedback.WriteString("Unsupported file format. Only PDF and DOCX files are allowed. ")
	}

	// 2. Word count check. Failing it permits resubmission, so stop here.
	wordCount := len(strings.Fields(text))
	if wordCount >= g.minWordCount {
		grade += lengthPoints
		fmt.Fprintf(&feedback, "Word count is sufficient (%d words). ", wordCount)
	} else {
		fmt.Fprintf(&feedback, "Word count is below %d. Current count: %d. ", g.minWordCount, wordCount)
		return Result{Grade: grade, Feedback: feedback.String(), WordCount: wordCount}
	}

	// 3. Keyword check: every required keyword must appear as a
	// case-insensitive substring.
	lowerText := strings.ToLower(text)
	var missing []string
	for _, kw := range keywords {
		if !strings.Contains(lowerText, kw) {
			missing = append(missing, kw)
		}
	}
	if len(missing) == 0 {
		grade += keywordPoints
		feedback.WriteString("All required keywords are present. ")
	} else {
		fmt.Fprintf(&feedback, "Missing keywords: %s. ", strings.Join(missing, ", "))
	}

	// 4. Discretionary point. The guard can only ever see grades in 0..4
	// here; kept as-is to preserve the reference scoring.
	if grade <= 4 {
		grade += discretionaryPoints
	}

	return Result{Grade: grade, Feedback: feedback.String(), WordCount: wordCount}
}

func (g *Grader) isAllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range g.allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
