package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
)

// ErrDuplicateAttempt is returned when inserting a second attempt row for the
// same (student, course) pair. The unique constraint is the source of truth;
// it is never resolved by overwriting the existing row.
var ErrDuplicateAttempt = errors.New("attempt already exists for this student and course")

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.ExamAttempt) error
	GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.ExamAttempt, error)
	GetCompletedByStudent(ctx context.Context, studentID string) ([]models.ExamAttemptWithCourse, error)
	GetByStudentAndCourseCompleted(ctx context.Context, studentID, courseID string) ([]models.ExamAttemptWithCourse, error)
	// Complete marks the active attempt as completed within a single guarded
	// update: the completed=false predicate makes the read-modify-write atomic,
	// so concurrent duplicate submissions cannot both succeed. Returns false
	// when no active attempt matched.
	Complete(ctx context.Context, studentID, courseID string, marksObtained int, submissionTime time.Time) (bool, error)
}

type attemptRepository struct {
	*PostgresRepository
}

func NewAttemptRepository(db *sql.DB, logger zerolog.Logger) AttemptRepository {
	return &attemptRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *models.ExamAttempt) error {
	query := `
		INSERT INTO exam_attempts (id, student_id, course_id, started_at, completed, marks_obtained, submission_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.StudentID,
		attempt.CourseID,
		attempt.StartedAt,
		attempt.Completed,
		attempt.MarksObtained,
		attempt.SubmissionTime,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateAttempt
	}

	return err
}

func (r *attemptRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.ExamAttempt, error) {
	query := `
		SELECT id, student_id, course_id, started_at, completed, marks_obtained, submission_time
		FROM exam_attempts
		WHERE student_id = $1 AND course_id = $2
	`

	attempt := &models.ExamAttempt{}
	err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(
		&attempt.ID,
		&attempt.StudentID,
		&attempt.CourseID,
		&attempt.StartedAt,
		&attempt.Completed,
		&attempt.MarksObtained,
		&attempt.SubmissionTime,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return attempt, err
}

func (r *attemptRepository) GetCompletedByStudent(ctx context.Context, studentID string) ([]models.ExamAttemptWithCourse, error) {
	query := `
		SELECT
			ea.id, ea.student_id, ea.course_id, ea.started_at, ea.completed, ea.marks_obtained, ea.submission_time,
			c.name as course_name, c.total_marks
		FROM exam_attempts ea
		JOIN courses c ON ea.course_id = c.id
		WHERE ea.student_id = $1 AND ea.completed = true
		ORDER BY ea.submission_time DESC
	`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttemptsWithCourse(rows)
}

func (r *attemptRepository) GetByStudentAndCourseCompleted(ctx context.Context, studentID, courseID string) ([]models.ExamAttemptWithCourse, error) {
	query := `
		SELECT
			ea.id, ea.student_id, ea.course_id, ea.started_at, ea.completed, ea.marks_obtained, ea.submission_time,
			c.name as course_name, c.total_marks
		FROM exam_attempts ea
		JOIN courses c ON ea.course_id = c.id
		WHERE ea.student_id = $1 AND ea.course_id = $2 AND ea.completed = true
	`

	rows, err := r.db.QueryContext(ctx, query, studentID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttemptsWithCourse(rows)
}

func (r *attemptRepository) Complete(ctx context.Context, studentID, courseID string, marksObtained int, submissionTime time.Time) (bool, error) {
	query := `
		UPDATE exam_attempts
		SET completed = true, marks_obtained = $1, submission_time = $2
		WHERE student_id = $3 AND course_id = $4 AND completed = false
	`

	result, err := r.db.ExecContext(ctx, query, marksObtained, submissionTime, studentID, courseID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func scanAttemptsWithCourse(rows *sql.Rows) ([]models.ExamAttemptWithCourse, error) {
	var attempts []models.ExamAttemptWithCourse
	for rows.Next() {
		var a models.ExamAttemptWithCourse
		err := rows.Scan(
			&a.ID,
			&a.StudentID,
			&a.CourseID,
			&a.StartedAt,
			&a.Completed,
			&a.MarksObtained,
			&a.SubmissionTime,
			&a.CourseName,
			&a.TotalMarks,
		)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
