package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
	"github.com/studyhall/portal/internal/repository"
	"github.com/studyhall/portal/internal/service/storage"
)

const defaultAssignmentMarks = 5

type AssignmentService interface {
	CreateAssignment(ctx context.Context, createdBy string, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)
	ListAssignments(ctx context.Context, limit, offset int) ([]models.Assignment, int, error)
	ListAssignmentsByCreator(ctx context.Context, createdBy string, limit, offset int) ([]models.Assignment, int, error)
	ListOpenAssignments(ctx context.Context, limit, offset int) ([]models.Assignment, int, error)
	DeleteAssignment(ctx context.Context, id string) error
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	storage        storage.Storage
	logger         zerolog.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	storage storage.Storage,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		storage:        storage,
		logger:         logger,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, createdBy string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	marks := req.Marks
	if marks == 0 {
		marks = defaultAssignmentMarks
	}

	now := time.Now()
	assignment := &models.Assignment{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		RequiredKeywords: req.RequiredKeywords,
		CreatedBy:        createdBy,
		Course:           req.Course,
		Marks:            marks,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID).
		Str("created_by", createdBy).
		Msg("Assignment created")

	return assignment, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	return assignment, nil
}

func (s *assignmentService) ListAssignments(ctx context.Context, limit, offset int) ([]models.Assignment, int, error) {
	return s.assignmentRepo.GetAll(ctx, limit, offset)
}

func (s *assignmentService) ListAssignmentsByCreator(ctx context.Context, createdBy string, limit, offset int) ([]models.Assignment, int, error) {
	return s.assignmentRepo.GetByCreator(ctx, createdBy, limit, offset)
}

func (s *assignmentService) ListOpenAssignments(ctx context.Context, limit, offset int) ([]models.Assignment, int, error) {
	return s.assignmentRepo.GetOpen(ctx, time.Now(), limit, offset)
}

// DeleteAssignment removes the assignment together with its submissions and
// their stored artifacts. The cascade is explicit: submission rows and the
// assignment row go in one transaction, artifacts are removed afterwards.
// An artifact delete failure is logged, not rolled back; the rows are the
// source of truth and an orphaned object is harmless.
func (s *assignmentService) DeleteAssignment(ctx context.Context, id string) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return ErrAssignmentNotFound
	}

	// 1. Собираем ключи артефактов до удаления строк.
	submissions, err := s.submissionRepo.GetAllByAssignmentID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	// 2. Удаляем строки в одной транзакции.
	tx, err := s.assignmentRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sub := range submissions {
		if err := s.submissionRepo.DeleteTx(ctx, tx, sub.ID); err != nil {
			return fmt.Errorf("failed to delete submission %s: %w", sub.ID, err)
		}
	}

	if err := s.assignmentRepo.DeleteTx(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// 3. Чистим хранилище.
	for _, sub := range submissions {
		if err := s.storage.Delete(ctx, sub.FileKey); err != nil {
			s.logger.Error().Err(err).
				Str("submission_id", sub.ID).
				Str("file_key", sub.FileKey).
				Msg("Failed to delete submission artifact")
		}
	}

	s.logger.Info().
		Str("assignment_id", id).
		Int("submissions_deleted", len(submissions)).
		Msg("Assignment deleted")

	return nil
}
