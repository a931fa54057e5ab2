package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
	"github.com/studyhall/portal/internal/repository"
	"github.com/studyhall/portal/internal/service/extractor"
	"github.com/studyhall/portal/internal/service/grader"
	"github.com/studyhall/portal/internal/service/integration"
	"github.com/studyhall/portal/internal/service/storage"
)

// disqualifyThreshold: a grade at or below this value rejects the submission
// outright. The row and its artifact are removed so the student can try again.
const disqualifyThreshold = 1.0

type SubmissionService interface {
	SubmitAssignment(ctx context.Context, studentID, assignmentID, fileName string, content []byte) (*models.SubmissionResult, error)
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error)
	ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error)
	ListForTeacher(ctx context.Context, teacherID string, limit, offset int) ([]models.SubmissionWithDetails, int, error)
	DownloadArtifact(ctx context.Context, id string) (*models.Submission, []byte, error)
	DeleteSubmission(ctx context.Context, id string) error
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	studentRepo    repository.StudentRepository
	storage        storage.Storage
	extractor      *extractor.Extractor
	grader         *grader.Grader
	publisher      integration.EventPublisher
	logger         zerolog.Logger
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	studentRepo repository.StudentRepository,
	storage storage.Storage,
	extractor *extractor.Extractor,
	grader *grader.Grader,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		studentRepo:    studentRepo,
		storage:        storage,
		extractor:      extractor,
		grader:         grader,
		publisher:      publisher,
		logger:         logger,
	}
}

// SubmitAssignment runs the full submission lifecycle: deadline guard,
// already-graded guard, artifact persistence, text extraction, grading, and
// either acceptance or disqualification. Grading is synchronous; the student
// gets the verdict in the response.
func (s *submissionService) SubmitAssignment(ctx context.Context, studentID, assignmentID, fileName string, content []byte) (*models.SubmissionResult, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	// 1. Дедлайн проверяем до любой записи.
	if time.Now().After(assignment.DueDate) {
		return nil, ErrDeadlinePassed
	}

	// 2. Принятая работа с оценкой > 0 финальна.
	existing, err := s.submissionRepo.GetByStudentAndAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}
	if existing != nil && existing.IsGraded() {
		return nil, ErrAlreadyGraded
	}

	ext := strings.ToLower(filepath.Ext(fileName))

	// 3. Сохраняем артефакт. Пересдача пишет по старому ключу.
	submission := existing
	now := time.Now()
	if submission == nil {
		submission = &models.Submission{
			ID:           uuid.New().String(),
			AssignmentID: assignmentID,
			StudentID:    studentID,
			FileKey:      fmt.Sprintf("%s/%s%s", assignmentID, uuid.New().String(), ext),
			FileName:     fileName,
			SubmittedAt:  now,
			UpdatedAt:    now,
		}

		if err := s.storage.Upload(ctx, submission.FileKey, bytes.NewReader(content), int64(len(content))); err != nil {
			return nil, fmt.Errorf("failed to store artifact: %w", err)
		}

		if err := s.submissionRepo.Create(ctx, submission); err != nil {
			// Не оставляем объект без строки.
			if delErr := s.storage.Delete(ctx, submission.FileKey); delErr != nil {
				s.logger.Error().Err(delErr).Str("file_key", submission.FileKey).Msg("Failed to clean up artifact")
			}
			return nil, fmt.Errorf("failed to create submission: %w", err)
		}
	} else {
		if err := s.storage.Upload(ctx, submission.FileKey, bytes.NewReader(content), int64(len(content))); err != nil {
			return nil, fmt.Errorf("failed to store artifact: %w", err)
		}

		submission.FileName = fileName
		submission.SubmittedAt = now
		if err := s.submissionRepo.UpdateArtifact(ctx, submission.ID, fileName, now); err != nil {
			return nil, fmt.Errorf("failed to update submission: %w", err)
		}
	}

	// 4. Извлечение текста. Сбой извлечения оценивается как пустой текст.
	text, err := s.extractor.ExtractBytes(content, ext)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("submission_id", submission.ID).
			Str("file_name", fileName).
			Msg("Text extraction failed, grading as empty document")
		text = ""
	}

	// 5. Оценка по правилам.
	result := s.grader.Grade(ext, text, assignment.RequiredKeywordsList())

	// 6. Дисквалификация: строка и артефакт удаляются, пересдача разрешена.
	if result.Grade <= disqualifyThreshold {
		if err := s.submissionRepo.Delete(ctx, submission.ID); err != nil {
			return nil, fmt.Errorf("failed to delete disqualified submission: %w", err)
		}
		if err := s.storage.Delete(ctx, submission.FileKey); err != nil {
			s.logger.Error().Err(err).
				Str("file_key", submission.FileKey).
				Msg("Failed to delete disqualified artifact")
		}

		s.logger.Info().
			Str("student_id", studentID).
			Str("assignment_id", assignmentID).
			Float64("grade", result.Grade).
			Msg("Submission disqualified")

		s.publishGraded(ctx, submission, result.Grade, false)

		return &models.SubmissionResult{
			Accepted:  false,
			Grade:     result.Grade,
			MaxGrade:  grader.MaxGrade,
			Feedback:  result.Feedback,
			WordCount: result.WordCount,
		}, nil
	}

	if err := s.submissionRepo.UpdateGrade(ctx, submission.ID, result.Grade, result.Feedback); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("student_id", studentID).
		Str("assignment_id", assignmentID).
		Float64("grade", result.Grade).
		Int("word_count", result.WordCount).
		Msg("Submission graded")

	s.publishGraded(ctx, submission, result.Grade, true)

	return &models.SubmissionResult{
		SubmissionID: submission.ID,
		Accepted:     true,
		Grade:        result.Grade,
		MaxGrade:     grader.MaxGrade,
		Feedback:     result.Feedback,
		WordCount:    result.WordCount,
	}, nil
}

func (s *submissionService) publishGraded(ctx context.Context, submission *models.Submission, grade float64, accepted bool) {
	if s.publisher == nil {
		return
	}

	event := &models.SubmissionGradedEvent{
		SubmissionID: submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		Grade:        grade,
		Accepted:     accepted,
		Timestamp:    time.Now().Unix(),
	}

	if err := s.publisher.PublishSubmissionGraded(ctx, event); err != nil {
		s.logger.Error().Err(err).
			Str("submission_id", submission.ID).
			Msg("Failed to publish submission graded event")
	}
}

func (s *submissionService) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	return submission, nil
}

func (s *submissionService) ListByAssignment(ctx context.Context, assignmentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	exists, err := s.assignmentRepo.Exists(ctx, assignmentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !exists {
		return nil, 0, ErrAssignmentNotFound
	}

	return s.submissionRepo.GetByAssignmentID(ctx, assignmentID, limit, offset)
}

func (s *submissionService) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	return s.submissionRepo.GetByStudentID(ctx, studentID, limit, offset)
}

func (s *submissionService) ListForTeacher(ctx context.Context, teacherID string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	return s.submissionRepo.GetByAssignments(ctx, teacherID, limit, offset)
}

func (s *submissionService) DownloadArtifact(ctx context.Context, id string) (*models.Submission, []byte, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, nil, ErrSubmissionNotFound
	}

	reader, size, err := s.storage.Download(ctx, submission.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download artifact: %w", err)
	}
	defer reader.Close()

	buf := bytes.NewBuffer(make([]byte, 0, size))
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	return submission, buf.Bytes(), nil
}

// DeleteSubmission removes the row and its artifact. The row goes first; an
// orphaned object is recoverable, an orphaned row pointing at nothing is not.
func (s *submissionService) DeleteSubmission(ctx context.Context, id string) error {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return ErrSubmissionNotFound
	}

	if err := s.submissionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	if err := s.storage.Delete(ctx, submission.FileKey); err != nil {
		s.logger.Error().Err(err).
			Str("submission_id", id).
			Str("file_key", submission.FileKey).
			Msg("Failed to delete submission artifact")
	}

	s.logger.Info().Str("submission_id", id).Msg("Submission deleted")

	return nil
}
