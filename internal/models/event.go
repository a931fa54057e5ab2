package models

type SubmissionGradedEvent struct {
	SubmissionID string  `json:"submission_id"`
	AssignmentID string  `json:"assignment_id"`
	StudentID    string  `json:"student_id"`
	Grade        float64 `json:"grade"`
	Accepted     bool    `json:"accepted"`
	Timestamp    int64   `json:"timestamp"`
}

type ExamCompletedEvent struct {
	AttemptID     string `json:"attempt_id"`
	CourseID      string `json:"course_id"`
	StudentID     string `json:"student_id"`
	MarksObtained int    `json:"marks_obtained"`
	TotalMarks    int    `json:"total_marks"`
	Timestamp     int64  `json:"timestamp"`
}
