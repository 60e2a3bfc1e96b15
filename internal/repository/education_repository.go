package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// EducationRepository provides database access for educational content,
// quizzes and quiz attempts.
type EducationRepository struct {
	db *sqlx.DB
}

// NewEducationRepository instantiates the repository.
func NewEducationRepository(db *sqlx.DB) *EducationRepository {
	return &EducationRepository{db: db}
}

const contentColumns = `id, title, slug, content_type, description, content, video_url, file_path, author_id, views, is_published, created_at, updated_at`

// CreateContent inserts an educational resource.
func (r *EducationRepository) CreateContent(ctx context.Context, content *models.EducationalContent) error {
	const query = `INSERT INTO educational_contents (id, title, slug, content_type, description, content, video_url, file_path, author_id, views, is_published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		content.ID, content.Title, content.Slug, content.ContentType, content.Description,
		content.Content, content.VideoURL, content.FilePath, content.AuthorID,
		content.Views, content.IsPublished, content.CreatedAt, content.UpdatedAt); err != nil {
		return fmt.Errorf("create educational content: %w", err)
	}
	return nil
}

// FindContentByID returns a resource by identifier.
func (r *EducationRepository) FindContentByID(ctx context.Context, id string) (*models.EducationalContent, error) {
	query := `SELECT ` + contentColumns + ` FROM educational_contents WHERE id = $1 LIMIT 1`
	var content models.EducationalContent
	if err := r.db.GetContext(ctx, &content, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find educational content: %w", err)
	}
	return &content, nil
}

// FindContentBySlug returns a resource by slug.
func (r *EducationRepository) FindContentBySlug(ctx context.Context, slug string) (*models.EducationalContent, error) {
	query := `SELECT ` + contentColumns + ` FROM educational_contents WHERE slug = $1 LIMIT 1`
	var content models.EducationalContent
	if err := r.db.GetContext(ctx, &content, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find educational content by slug: %w", err)
	}
	return &content, nil
}

// ListContent returns resources, restricted to published ones unless
// includeUnpublished is set, newest first.
func (r *EducationRepository) ListContent(ctx context.Context, contentType models.ContentType, includeUnpublished bool) ([]models.EducationalContent, error) {
	query := `SELECT ` + contentColumns + ` FROM educational_contents WHERE 1=1`
	var args []interface{}
	if !includeUnpublished {
		query += " AND is_published = TRUE"
	}
	if contentType != "" {
		args = append(args, contentType)
		query += fmt.Sprintf(" AND content_type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var contents []models.EducationalContent
	if err := r.db.SelectContext(ctx, &contents, query, args...); err != nil {
		return nil, fmt.Errorf("list educational content: %w", err)
	}
	return contents, nil
}

// UpdateContent persists resource fields.
func (r *EducationRepository) UpdateContent(ctx context.Context, content *models.EducationalContent) error {
	const query = `UPDATE educational_contents SET title = $2, slug = $3, content_type = $4, description = $5, content = $6, video_url = $7, file_path = $8, is_published = $9, updated_at = $10 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		content.ID, content.Title, content.Slug, content.ContentType, content.Description,
		content.Content, content.VideoURL, content.FilePath, content.IsPublished, content.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update educational content: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteContent removes a resource.
func (r *EducationRepository) DeleteContent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM educational_contents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete educational content: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementViews bumps the view counter for a resource.
func (r *EducationRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE educational_contents SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment content views: %w", err)
	}
	return nil
}

const quizColumns = `id, title, description, created_at, updated_at`

// CreateQuiz inserts a quiz and its questions in one transaction.
func (r *EducationRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create quiz: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const quizQuery = `INSERT INTO quizzes (id, title, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.ExecContext(ctx, quizQuery, quiz.ID, quiz.Title, quiz.Description, quiz.CreatedAt, quiz.UpdatedAt); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}

	const questionQuery = `INSERT INTO quiz_questions (id, quiz_id, question, correct_answer, option1, option2, option3, explanation)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, q := range quiz.Questions {
		if _, err = tx.ExecContext(ctx, questionQuery, q.ID, q.QuizID, q.Question, q.CorrectAnswer, q.Option1, q.Option2, q.Option3, q.Explanation); err != nil {
			return fmt.Errorf("create quiz question: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create quiz: %w", err)
	}
	return nil
}

// FindQuizByID returns a quiz with its questions.
func (r *EducationRepository) FindQuizByID(ctx context.Context, id string) (*models.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1 LIMIT 1`
	var quiz models.Quiz
	if err := r.db.GetContext(ctx, &quiz, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find quiz: %w", err)
	}

	questions, err := r.FindQuestionsByQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return &quiz, nil
}

// FindQuestionsByQuiz returns the questions belonging to one quiz.
func (r *EducationRepository) FindQuestionsByQuiz(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
	const query = `SELECT id, quiz_id, question, correct_answer, option1, option2, option3, explanation
FROM quiz_questions WHERE quiz_id = $1 ORDER BY id ASC`
	var questions []models.QuizQuestion
	if err := r.db.SelectContext(ctx, &questions, query, quizID); err != nil {
		return nil, fmt.Errorf("find quiz questions: %w", err)
	}
	return questions, nil
}

// ListQuizzes returns all quizzes without questions, newest first.
func (r *EducationRepository) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes ORDER BY created_at DESC`
	var quizzes []models.Quiz
	if err := r.db.SelectContext(ctx, &quizzes, query); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// UpdateQuiz rewrites a quiz and replaces its question set in one
// transaction.
func (r *EducationRepository) UpdateQuiz(ctx context.Context, quiz *models.Quiz) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update quiz: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const quizQuery = `UPDATE quizzes SET title = $2, description = $3, updated_at = $4 WHERE id = $1`
	res, err := tx.ExecContext(ctx, quizQuery, quiz.ID, quiz.Title, quiz.Description, quiz.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quiz.ID); err != nil {
		return fmt.Errorf("clear quiz questions: %w", err)
	}

	const questionQuery = `INSERT INTO quiz_questions (id, quiz_id, question, correct_answer, option1, option2, option3, explanation)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, q := range quiz.Questions {
		if _, err = tx.ExecContext(ctx, questionQuery, q.ID, q.QuizID, q.Question, q.CorrectAnswer, q.Option1, q.Option2, q.Option3, q.Explanation); err != nil {
			return fmt.Errorf("update quiz question: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update quiz: %w", err)
	}
	return nil
}

// DeleteQuiz removes a quiz; questions cascade via the schema.
func (r *EducationRepository) DeleteQuiz(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateAttempt records a scored quiz submission.
func (r *EducationRepository) CreateAttempt(ctx context.Context, attempt *models.UserQuizAttempt) error {
	const query = `INSERT INTO user_quiz_attempts (id, user_id, quiz_id, score, completed_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, attempt.ID, attempt.UserID, attempt.QuizID, attempt.Score, attempt.CompletedAt); err != nil {
		return fmt.Errorf("create quiz attempt: %w", err)
	}
	return nil
}

// ListAttemptsByUser returns the user's attempts, newest first.
func (r *EducationRepository) ListAttemptsByUser(ctx context.Context, userID string) ([]models.UserQuizAttempt, error) {
	const query = `SELECT id, user_id, quiz_id, score, completed_at FROM user_quiz_attempts WHERE user_id = $1 ORDER BY completed_at DESC`
	var attempts []models.UserQuizAttempt
	if err := r.db.SelectContext(ctx, &attempts, query, userID); err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	return attempts, nil
}
