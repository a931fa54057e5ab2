package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
)

type AssignmentRepository interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Assignment, int, error)
	GetByCreator(ctx context.Context, createdBy string, limit, offset int) ([]models.Assignment, int, error)
	GetOpen(ctx context.Context, now time.Time, limit, offset int) ([]models.Assignment, int, error)
	DeleteTx(ctx context.Context, tx *sql.Tx, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, title, description, due_date, required_keywords, created_by, course, marks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.Title,
		assignment.Description,
		assignment.DueDate,
		assignment.RequiredKeywords,
		assignment.CreatedBy,
		assignment.Course,
		assignment.Marks,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)

	return err
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := `
		SELECT id, title, description, due_date, required_keywords, created_by, course, marks, created_at, updated_at
		FROM assignments
		WHERE id = $1
	`

	assignment := &models.Assignment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.Title,
		&assignment.Description,
		&assignment.DueDate,
		&assignment.RequiredKeywords,
		&assignment.CreatedBy,
		&assignment.Course,
		&assignment.Marks,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assignment, err
}

func (r *assignmentRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Assignment, int, error) {
	countQuery := `SELECT COUNT(*) FROM assignments`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, title, description, due_date, required_keywords, created_by, course, marks, created_at, updated_at
		FROM assignments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) GetByCreator(ctx context.Context, createdBy string, limit, offset int) ([]models.Assignment, int, error) {
	countQuery := `SELECT COUNT(*) FROM assignments WHERE created_by = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, createdBy).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, title, description, due_date, required_keywords, created_by, course, marks, created_at, updated_at
		FROM assignments
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, createdBy, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) GetOpen(ctx context.Context, now time.Time, limit, offset int) ([]models.Assignment, int, error) {
	countQuery := `SELECT COUNT(*) FROM assignments WHERE due_date >= $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, now).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, title, description, due_date, required_keywords, created_by, course, marks, created_at, updated_at
		FROM assignments
		WHERE due_date >= $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, now, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	query := `DELETE FROM assignments WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, id)
	return err
}

func (r *assignmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM assignments WHERE id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

func scanAssignments(rows *sql.Rows) ([]models.Assignment, error) {
	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.DueDate,
			&a.RequiredKeywords,
			&a.CreatedBy,
			&a.Course,
			&a.Marks,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
