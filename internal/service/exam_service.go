package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
	"github.com/studyhall/portal/internal/repository"
	"github.com/studyhall/portal/internal/service/integration"
	"github.com/studyhall/portal/internal/session"
)

type ExamService interface {
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListCourses(ctx context.Context, limit, offset int) ([]models.Course, int, error)
	DeleteCourse(ctx context.Context, id string) error
	AddQuestion(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error)
	ListQuestions(ctx context.Context, courseID string) ([]models.Question, error)
	GetExamInfo(ctx context.Context, courseID string) (*models.ExamInfoResponse, error)
	StartExam(ctx context.Context, studentID, courseID string) (*models.StartExamResponse, error)
	SubmitExam(ctx context.Context, studentID string, answers map[string]string) (*models.SubmitExamResponse, error)
	GetResults(ctx context.Context, studentID string) ([]models.ExamAttemptWithCourse, error)
	GetCourseResult(ctx context.Context, studentID, courseID string) ([]models.ExamAttemptWithCourse, error)
}

type examService struct {
	courseRepo   repository.CourseRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	studentRepo  repository.StudentRepository
	sessions     *session.Store
	publisher    integration.EventPublisher
	logger       zerolog.Logger

	defaultDurationMinutes int
}

func NewExamService(
	courseRepo repository.CourseRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	studentRepo repository.StudentRepository,
	sessions *session.Store,
	publisher integration.EventPublisher,
	defaultDurationMinutes int,
	logger zerolog.Logger,
) ExamService {
	return &examService{
		courseRepo:             courseRepo,
		questionRepo:           questionRepo,
		attemptRepo:            attemptRepo,
		studentRepo:            studentRepo,
		sessions:               sessions,
		publisher:              publisher,
		defaultDurationMinutes: defaultDurationMinutes,
		logger:                 logger,
	}
}

func (s *examService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.defaultDurationMinutes
	}

	now := time.Now()
	course := &models.Course{
		ID:              uuid.New().String(),
		Name:            req.Name,
		QuestionNumber:  req.QuestionNumber,
		TotalMarks:      req.TotalMarks,
		DurationMinutes: duration,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("name", course.Name).
		Msg("Course created")

	return course, nil
}

func (s *examService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	return course, nil
}

func (s *examService) ListCourses(ctx context.Context, limit, offset int) ([]models.Course, int, error) {
	return s.courseRepo.GetAll(ctx, limit, offset)
}

func (s *examService) DeleteCourse(ctx context.Context, id string) error {
	exists, err := s.courseRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return ErrCourseNotFound
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info().Str("course_id", id).Msg("Course deleted")

	return nil
}

func (s *examService) AddQuestion(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error) {
	exists, err := s.courseRepo.Exists(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	question := &models.Question{
		ID:       uuid.New().String(),
		CourseID: req.CourseID,
		Text:     req.Text,
		Option1:  req.Option1,
		Option2:  req.Option2,
		Option3:  req.Option3,
		Option4:  req.Option4,
		Answer:   req.Answer,
		Marks:    req.Marks,
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info().
		Str("question_id", question.ID).
		Str("course_id", req.CourseID).
		Msg("Question added")

	return question, nil
}

func (s *examService) ListQuestions(ctx context.Context, courseID string) ([]models.Question, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	return s.questionRepo.GetByCourseID(ctx, courseID)
}

// GetExamInfo returns what a student sees before starting: the course plus the
// actual question count and marks total, which may differ from the declared
// course figures while the exam is still being authored.
func (s *examService) GetExamInfo(ctx context.Context, courseID string) (*models.ExamInfoResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	questions, err := s.questionRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	totalMarks, err := s.questionRepo.SumMarksByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum marks: %w", err)
	}

	return &models.ExamInfoResponse{
		Course:         *course,
		TotalQuestions: len(questions),
		TotalMarks:     totalMarks,
	}, nil
}

// StartExam creates the single attempt for this (student, course) pair, or
// resumes the active one keeping its original start time. A completed attempt
// blocks any further start. The timer state lives in the session store until
// SubmitExam clears it.
func (s *examService) StartExam(ctx context.Context, studentID, courseID string) (*models.StartExamResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	attempt, err := s.attemptRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check attempt: %w", err)
	}

	resumed := false
	switch {
	case attempt != nil && attempt.Completed:
		return nil, ErrAlreadyAttempted
	case attempt != nil:
		// Возобновление: таймер отсчитывается от первоначального старта.
		resumed = true
	default:
		attempt = &models.ExamAttempt{
			ID:        uuid.New().String(),
			StudentID: studentID,
			CourseID:  courseID,
			StartedAt: time.Now(),
			Completed: false,
		}
		if err := s.attemptRepo.Create(ctx, attempt); err != nil {
			if err == repository.ErrDuplicateAttempt {
				return nil, ErrAttemptExists
			}
			return nil, fmt.Errorf("failed to create attempt: %w", err)
		}
	}

	questions, err := s.questionRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	studentQuestions := make([]models.StudentQuestion, 0, len(questions))
	for _, q := range questions {
		studentQuestions = append(studentQuestions, q.ForStudent())
	}

	s.sessions.Put(studentID, session.ExamState{
		CourseID:        courseID,
		StartTime:       attempt.StartedAt.Format(time.RFC3339),
		DurationMinutes: course.DurationMinutes,
	})

	s.logger.Info().
		Str("student_id", studentID).
		Str("course_id", courseID).
		Bool("resumed", resumed).
		Msg("Exam started")

	return &models.StartExamResponse{
		AttemptID:       attempt.ID,
		CourseID:        courseID,
		CourseName:      course.Name,
		DurationMinutes: course.DurationMinutes,
		StartedAt:       attempt.StartedAt,
		Resumed:         resumed,
		Questions:       studentQuestions,
	}, nil
}

// SubmitExam scores the answers against the stored correct options and marks
// the attempt completed. The completion is a compare-and-set on the attempt
// row; if no active attempt matched, nothing is recorded. The session state is
// cleared in every outcome that reaches completion.
func (s *examService) SubmitExam(ctx context.Context, studentID string, answers map[string]string) (*models.SubmitExamResponse, error) {
	state, ok := s.sessions.Get(studentID)
	if !ok || !state.Valid() {
		return nil, ErrSessionMissing
	}

	course, err := s.courseRepo.GetByID(ctx, state.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		s.sessions.Clear(studentID)
		return nil, ErrCourseNotFound
	}

	startTime, err := time.Parse(time.RFC3339, state.StartTime)
	if err != nil {
		s.sessions.Clear(studentID)
		return nil, fmt.Errorf("corrupt session start time: %w", err)
	}

	submissionTime := time.Now()
	deadline := startTime.Add(time.Duration(state.DurationMinutes) * time.Minute)
	timeExceeded := submissionTime.After(deadline)

	// Просрочка не блокирует подсчёт: флаг только предупреждает.
	questions, err := s.questionRepo.GetByCourseID(ctx, state.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	marksObtained := 0
	for _, q := range questions {
		if answers[q.ID] == q.Answer {
			marksObtained += q.Marks
		}
	}

	completed, err := s.attemptRepo.Complete(ctx, studentID, state.CourseID, marksObtained, submissionTime)
	if err != nil {
		return nil, fmt.Errorf("failed to complete attempt: %w", err)
	}
	if !completed {
		s.sessions.Clear(studentID)
		return nil, ErrNoActiveAttempt
	}

	s.sessions.Clear(studentID)

	s.logger.Info().
		Str("student_id", studentID).
		Str("course_id", state.CourseID).
		Int("marks_obtained", marksObtained).
		Bool("time_exceeded", timeExceeded).
		Msg("Exam submitted")

	if s.publisher != nil {
		attempt, err := s.attemptRepo.GetByStudentAndCourse(ctx, studentID, state.CourseID)
		if err == nil && attempt != nil {
			event := &models.ExamCompletedEvent{
				AttemptID:     attempt.ID,
				CourseID:      state.CourseID,
				StudentID:     studentID,
				MarksObtained: marksObtained,
				TotalMarks:    course.TotalMarks,
				Timestamp:     time.Now().Unix(),
			}
			if err := s.publisher.PublishExamCompleted(ctx, event); err != nil {
				s.logger.Error().Err(err).
					Str("student_id", studentID).
					Msg("Failed to publish exam completed event")
			}
		}
	}

	return &models.SubmitExamResponse{
		CourseID:       state.CourseID,
		MarksObtained:  marksObtained,
		TotalMarks:     course.TotalMarks,
		SubmissionTime: submissionTime,
		TimeExceeded:   timeExceeded,
	}, nil
}

func (s *examService) GetResults(ctx context.Context, studentID string) ([]models.ExamAttemptWithCourse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return s.attemptRepo.GetCompletedByStudent(ctx, studentID)
}

func (s *examService) GetCourseResult(ctx context.Context, studentID, courseID string) ([]models.ExamAttemptWithCourse, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	return s.attemptRepo.GetByStudentAndCourseCompleted(ctx, studentID, courseID)
}
