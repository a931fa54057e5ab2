package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/models"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	GetByCourseID(ctx context.Context, courseID string) ([]models.Question, error)
	SumMarksByCourseID(ctx context.Context, courseID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type questionRepository struct {
	*PostgresRepository
}

func NewQuestionRepository(db *sql.DB, logger zerolog.Logger) QuestionRepository {
	return &questionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	query := `
		INSERT INTO questions (id, course_id, text, option1, option2, option3, option4, answer, marks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		question.ID,
		question.CourseID,
		question.Text,
		question.Option1,
		question.Option2,
		question.Option3,
		question.Option4,
		question.Answer,
		question.Marks,
	)

	return err
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	query := `
		SELECT id, course_id, text, option1, option2, option3, option4, answer, marks
		FROM questions
		WHERE id = $1
	`

	q := &models.Question{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID,
		&q.CourseID,
		&q.Text,
		&q.Option1,
		&q.Option2,
		&q.Option3,
		&q.Option4,
		&q.Answer,
		&q.Marks,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return q, err
}

func (r *questionRepository) GetByCourseID(ctx context.Context, courseID string) ([]models.Question, error) {
	query := `
		SELECT id, course_id, text, option1, option2, option3, option4, answer, marks
		FROM questions
		WHERE course_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		err := rows.Scan(
			&q.ID,
			&q.CourseID,
			&q.Text,
			&q.Option1,
			&q.Option2,
			&q.Option3,
			&q.Option4,
			&q.Answer,
			&q.Marks,
		)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (r *questionRepository) SumMarksByCourseID(ctx context.Context, courseID string) (int, error) {
	query := `SELECT COALESCE(SUM(marks), 0) FROM questions WHERE course_id = $1`
	var total int
	err := r.db.QueryRowContext(ctx, query, courseID).Scan(&total)
	return total, err
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM questions WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
