package service

import "errors"

// Типизированные ошибки для корректного маппинга на HTTP-коды в delivery-слое.
var (
	// Ошибки отсутствия сущностей.
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrQuestionNotFound   = errors.New("question not found")

	// Ошибки состояния домена.
	ErrDeadlinePassed    = errors.New("assignment deadline has passed")
	ErrAlreadyGraded     = errors.New("submission has already been graded")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrStudentExists     = errors.New("student already exists for this user")
	ErrAlreadyAttempted  = errors.New("exam has already been completed")
	ErrAttemptExists     = errors.New("exam attempt already exists")
	ErrSessionMissing    = errors.New("no exam session found")
	ErrNoActiveAttempt   = errors.New("no active exam attempt")
)
