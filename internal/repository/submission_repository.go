package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*models.Submission, error)
	GetByAssignmentID(ctx context.Context, assignmentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error)
	GetByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error)
	GetByAssignments(ctx context.Context, createdBy string, limit, offset int) ([]models.SubmissionWithDetails, int, error)
	UpdateArtifact(ctx context.Context, id, fileName string, submittedAt time.Time) error
	UpdateGrade(ctx context.Context, id string, grade float64, feedback string) error
	Delete(ctx context.Context, id string) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id string) error
	GetAllByAssignmentID(ctx context.Context, assignmentID string) ([]models.Submission, error)
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (id, assignment_id, student_id, file_key, file_name, grade, feedback, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.AssignmentID,
		submission.StudentID,
		submission.FileKey,
		submission.FileName,
		submission.Grade,
		submission.Feedback,
		submission.SubmittedAt,
		submission.UpdatedAt,
	)

	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, file_key, file_name, grade, feedback, submitted_at, updated_at
		FROM submissions
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *submissionRepository) GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, file_key, file_name, grade, feedback, submitted_at, updated_at
		FROM submissions
		WHERE student_id = $1 AND assignment_id = $2
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, studentID, assignmentID))
}

func (r *submissionRepository) GetByAssignmentID(ctx context.Context, assignmentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	countQuery := `SELECT COUNT(*) FROM submissions WHERE assignment_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, assignmentID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			sub.id, sub.assignment_id, sub.student_id, sub.file_key, sub.file_name, sub.grade, sub.feedback, sub.submitted_at, sub.updated_at,
			s.name as student_name, s.email as student_email,
			a.title as assignment_title
		FROM submissions sub
		JOIN students s ON sub.student_id = s.id
		JOIN assignments a ON sub.assignment_id = a.id
		WHERE sub.assignment_id = $1
		ORDER BY sub.submitted_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	submissions, err := scanSubmissionDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) GetByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	countQuery := `SELECT COUNT(*) FROM submissions WHERE student_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, studentID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			sub.id, sub.assignment_id, sub.student_id, sub.file_key, sub.file_name, sub.grade, sub.feedback, sub.submitted_at, sub.updated_at,
			s.name as student_name, s.email as student_email,
			a.title as assignment_title
		FROM submissions sub
		JOIN students s ON sub.student_id = s.id
		JOIN assignments a ON sub.assignment_id = a.id
		WHERE sub.student_id = $1
		ORDER BY sub.submitted_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	submissions, err := scanSubmissionDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) GetByAssignments(ctx context.Context, createdBy string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM submissions sub
		JOIN assignments a ON sub.assignment_id = a.id
		WHERE a.created_by = $1
	`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, createdBy).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			sub.id, sub.assignment_id, sub.student_id, sub.file_key, sub.file_name, sub.grade, sub.feedback, sub.submitted_at, sub.updated_at,
			s.name as student_name, s.email as student_email,
			a.title as assignment_title
		FROM submissions sub
		JOIN students s ON sub.student_id = s.id
		JOIN assignments a ON sub.assignment_id = a.id
		WHERE a.created_by = $1
		ORDER BY sub.submitted_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, createdBy, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	submissions, err := scanSubmissionDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) UpdateArtifact(ctx context.Context, id, fileName string, submittedAt time.Time) error {
	query := `
		UPDATE submissions
		SET file_name = $1, submitted_at = $2, updated_at = $3
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query, fileName, submittedAt, time.Now(), id)
	return err
}

func (r *submissionRepository) UpdateGrade(ctx context.Context, id string, grade float64, feedback string) error {
	query := `
		UPDATE submissions
		SET grade = $1, feedback = $2, updated_at = $3
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query, grade, feedback, time.Now(), id)
	return err
}

func (r *submissionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM submissions WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *submissionRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	query := `DELETE FROM submissions WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, id)
	return err
}

func (r *submissionRepository) GetAllByAssignmentID(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, file_key, file_name, grade, feedback, submitted_at, updated_at
		FROM submissions
		WHERE assignment_id = $1
		ORDER BY submitted_at
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var sub models.Submission
		err := rows.Scan(
			&sub.ID,
			&sub.AssignmentID,
			&sub.StudentID,
			&sub.FileKey,
			&sub.FileName,
			&sub.Grade,
			&sub.Feedback,
			&sub.SubmittedAt,
			&sub.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}

	return submissions, rows.Err()
}

func (r *submissionRepository) scanOne(row *sql.Row) (*models.Submission, error) {
	sub := &models.Submission{}
	err := row.Scan(
		&sub.ID,
		&sub.AssignmentID,
		&sub.StudentID,
		&sub.FileKey,
		&sub.FileName,
		&sub.Grade,
		&sub.Feedback,
		&sub.SubmittedAt,
		&sub.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return sub, err
}

func scanSubmissionDetails(rows *sql.Rows) ([]models.SubmissionWithDetails, error) {
	var submissions []models.SubmissionWithDetails
	for rows.Next() {
		var sub models.SubmissionWithDetails
		err := rows.Scan(
			&sub.ID,
			&sub.AssignmentID,
			&sub.StudentID,
			&sub.FileKey,
			&sub.FileName,
			&sub.Grade,
			&sub.Feedback,
			&sub.SubmittedAt,
			&sub.UpdatedAt,
			&sub.StudentName,
			&sub.StudentEmail,
			&sub.AssignmentTitle,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}
