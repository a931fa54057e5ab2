package models

import "time"

// Data Transfer Objects

type CreateAssignmentRequest struct {
	Title            string    `json:"title" validate:"required,min=3,max=255"`
	Description      string    `json:"description" validate:"max=2000"`
	DueDate          time.Time `json:"due_date" validate:"required"`
	RequiredKeywords string    `json:"required_keywords" validate:"max=255"`
	Course           string    `json:"course" validate:"max=100"`
	Marks            int       `json:"marks" validate:"omitempty,min=1,max=100"`
}

type CreateStudentRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Email  string `json:"email" validate:"required,email,max=255"`
}

type UpdateStudentRequest struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=255"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
}

type CreateCourseRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	QuestionNumber  int    `json:"question_number" validate:"required,min=1"`
	TotalMarks      int    `json:"total_marks" validate:"required,min=1"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1"`
}

type CreateQuestionRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
	Text     string `json:"text" validate:"required,max=600"`
	Option1  string `json:"option1" validate:"required,max=200"`
	Option2  string `json:"option2" validate:"required,max=200"`
	Option3  string `json:"option3" validate:"required,max=200"`
	Option4  string `json:"option4" validate:"required,max=200"`
	Answer   string `json:"answer" validate:"required,oneof=Option1 Option2 Option3 Option4"`
	Marks    int    `json:"marks" validate:"required,min=1"`
}

// SubmissionResult is returned to the student after a grading attempt.
// Accepted is false when the submission was disqualified and deleted, in
// which case the student may submit again.
type SubmissionResult struct {
	SubmissionID string  `json:"submission_id,omitempty"`
	Accepted     bool    `json:"accepted"`
	Grade        float64 `json:"grade"`
	MaxGrade     int     `json:"max_grade"`
	Feedback     string  `json:"feedback"`
	WordCount    int     `json:"word_count"`
}

type StartExamResponse struct {
	AttemptID       string            `json:"attempt_id"`
	CourseID        string            `json:"course_id"`
	CourseName      string            `json:"course_name"`
	DurationMinutes int               `json:"duration_minutes"`
	StartedAt       time.Time         `json:"started_at"`
	Resumed         bool              `json:"resumed"`
	Questions       []StudentQuestion `json:"questions"`
}

type SubmitExamRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

type SubmitExamResponse struct {
	CourseID       string    `json:"course_id"`
	MarksObtained  int       `json:"marks_obtained"`
	TotalMarks     int       `json:"total_marks"`
	SubmissionTime time.Time `json:"submission_time"`
	TimeExceeded   bool      `json:"time_exceeded"`
}

type ExamInfoResponse struct {
	Course         Course `json:"course"`
	TotalQuestions int    `json:"total_questions"`
	TotalMarks     int    `json:"total_marks"`
}

type SubmissionsResponse struct {
	Submissions []SubmissionWithDetails `json:"submissions"`
	Total       int                     `json:"total"`
	Page        int                     `json:"page"`
	Limit       int                     `json:"limit"`
}
