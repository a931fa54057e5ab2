package models

import (
	"time"
)

type Submission struct {
	ID           string    `json:"id" db:"id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	FileKey      string    `json:"file_key" db:"file_key"`
	FileName     string    `json:"file_name" db:"file_name"`
	Grade        *float64  `json:"grade,omitempty" db:"grade"`
	Feedback     *string   `json:"feedback,omitempty" db:"feedback"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type SubmissionWithDetails struct {
	Submission
	StudentName     string `json:"student_name" db:"student_name"`
	StudentEmail    string `json:"student_email" db:"student_email"`
	AssignmentTitle string `json:"assignment_title" db:"assignment_title"`
}

// IsGraded reports whether the submission carries a terminal grade. A grade
// above zero means no further resubmission is permitted.
func (s *Submission) IsGraded() bool {
	return s.Grade != nil && *s.Grade > 0
}
