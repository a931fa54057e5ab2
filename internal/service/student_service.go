package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
	"github.com/studyhall/portal/internal/repository"
)

type StudentService interface {
	CreateStudent(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error)
	ListStudents(ctx context.Context, limit, offset int) ([]models.Student, int, error)
	UpdateStudent(ctx context.Context, id string, req *models.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

type studentService struct {
	studentRepo repository.StudentRepository
	logger      zerolog.Logger
}

func NewStudentService(studentRepo repository.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error) {
	existing, err := s.studentRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing student: %w", err)
	}
	if existing != nil {
		return nil, ErrStudentExists
	}

	now := time.Now()
	student := &models.Student{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info().
		Str("student_id", student.ID).
		Str("user_id", student.UserID).
		Msg("Student created")

	return student, nil
}

func (s *studentService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return student, nil
}

func (s *studentService) GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, limit, offset int) ([]models.Student, int, error) {
	students, total, err := s.studentRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}

	return students, total, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, id string, req *models.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	if req.Name != "" {
		student.Name = req.Name
	}
	if req.Email != "" {
		student.Email = req.Email
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info().Str("student_id", id).Msg("Student updated")

	return student, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id string) error {
	exists, err := s.studentRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check student: %w", err)
	}
	if !exists {
		return ErrStudentNotFound
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.logger.Info().Str("student_id", id).Msg("Student deleted")

	return nil
}
