package models

import (
	"time"
)

type Course struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	QuestionNumber  int       `json:"question_number" db:"question_number"`
	TotalMarks      int       `json:"total_marks" db:"total_marks"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Answer option tags. The stored correct answer is always one of these four.
const (
	AnswerOption1 = "Option1"
	AnswerOption2 = "Option2"
	AnswerOption3 = "Option3"
	AnswerOption4 = "Option4"
)

func IsValidAnswerOption(opt string) bool {
	switch opt {
	case AnswerOption1, AnswerOption2, AnswerOption3, AnswerOption4:
		return true
	default:
		return false
	}
}

type Question struct {
	ID       string `json:"id" db:"id"`
	CourseID string `json:"course_id" db:"course_id"`
	Text     string `json:"text" db:"text"`
	Option1  string `json:"option1" db:"option1"`
	Option2  string `json:"option2" db:"option2"`
	Option3  string `json:"option3" db:"option3"`
	Option4  string `json:"option4" db:"option4"`
	Answer   string `json:"answer" db:"answer"`
	Marks    int    `json:"marks" db:"marks"`
}

// StudentQuestion is the question payload served to students during an exam:
// same options, no correct answer.
type StudentQuestion struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
	Option3 string `json:"option3"`
	Option4 string `json:"option4"`
	Marks   int    `json:"marks"`
}

func (q *Question) ForStudent() StudentQuestion {
	return StudentQuestion{
		ID:      q.ID,
		Text:    q.Text,
		Option1: q.Option1,
		Option2: q.Option2,
		Option3: q.Option3,
		Option4: q.Option4,
		Marks:   q.Marks,
	}
}

type ExamAttempt struct {
	ID             string     `json:"id" db:"id"`
	StudentID      string     `json:"student_id" db:"student_id"`
	CourseID       string     `json:"course_id" db:"course_id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	Completed      bool       `json:"completed" db:"completed"`
	MarksObtained  *int       `json:"marks_obtained,omitempty" db:"marks_obtained"`
	SubmissionTime *time.Time `json:"submission_time,omitempty" db:"submission_time"`
}

type ExamAttemptWithCourse struct {
	ExamAttempt
	CourseName string `json:"course_name" db:"course_name"`
	TotalMarks int    `json:"total_marks" db:"total_marks"`
}
