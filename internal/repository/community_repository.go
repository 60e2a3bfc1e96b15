package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// CommunityRepository provides database access for forum topics, comments
// and FAQ entries.
type CommunityRepository struct {
	db *sqlx.DB
}

// NewCommunityRepository instantiates the repository.
func NewCommunityRepository(db *sqlx.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// CreateTopic inserts a forum topic.
func (r *CommunityRepository) CreateTopic(ctx context.Context, topic *models.ForumTopic) error {
	const query = `INSERT INTO forum_topics (id, title, description, author_id, is_approved, views, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		topic.ID, topic.Title, topic.Description, topic.AuthorID,
		topic.IsApproved, topic.Views, topic.CreatedAt, topic.UpdatedAt); err != nil {
		return fmt.Errorf("create forum topic: %w", err)
	}
	return nil
}

// FindTopicByID returns a topic with its comment count.
func (r *CommunityRepository) FindTopicByID(ctx context.Context, id string) (*models.ForumTopic, error) {
	const query = `SELECT t.id, t.title, t.description, t.author_id, t.is_approved, t.views, t.created_at, t.updated_at,
(SELECT COUNT(*) FROM forum_comments c WHERE c.topic_id = t.id) AS comments_count
FROM forum_topics t WHERE t.id = $1 LIMIT 1`
	var topic models.ForumTopic
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find forum topic: %w", err)
	}
	return &topic, nil
}

// ListTopics returns topics newest first; non-staff callers see approved
// topics only.
func (r *CommunityRepository) ListTopics(ctx context.Context, approvedOnly bool) ([]models.ForumTopic, error) {
	query := `SELECT t.id, t.title, t.description, t.author_id, t.is_approved, t.views, t.created_at, t.updated_at,
(SELECT COUNT(*) FROM forum_comments c WHERE c.topic_id = t.id) AS comments_count
FROM forum_topics t`
	if approvedOnly {
		query += ` WHERE t.is_approved = TRUE`
	}
	query += ` ORDER BY t.created_at DESC`

	var topics []models.ForumTopic
	if err := r.db.SelectContext(ctx, &topics, query); err != nil {
		return nil, fmt.Errorf("list forum topics: %w", err)
	}
	return topics, nil
}

// UpdateTopic persists topic fields including moderation state.
func (r *CommunityRepository) UpdateTopic(ctx context.Context, topic *models.ForumTopic) error {
	const query = `UPDATE forum_topics SET title = $2, description = $3, is_approved = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, topic.ID, topic.Title, topic.Description, topic.IsApproved, topic.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update forum topic: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTopic removes a topic; comments cascade via the schema.
func (r *CommunityRepository) DeleteTopic(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forum_topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete forum topic: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementTopicViews bumps the view counter for a topic.
func (r *CommunityRepository) IncrementTopicViews(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE forum_topics SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment topic views: %w", err)
	}
	return nil
}

// CreateComment inserts a comment on a topic.
func (r *CommunityRepository) CreateComment(ctx context.Context, comment *models.ForumComment) error {
	const query = `INSERT INTO forum_comments (id, topic_id, author_id, content, is_approved, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.TopicID, comment.AuthorID, comment.Content,
		comment.IsApproved, comment.CreatedAt, comment.UpdatedAt); err != nil {
		return fmt.Errorf("create forum comment: %w", err)
	}
	return nil
}

// ListComments returns a topic's comments oldest first.
func (r *CommunityRepository) ListComments(ctx context.Context, topicID string, approvedOnly bool) ([]models.ForumComment, error) {
	query := `SELECT id, topic_id, author_id, content, is_approved, created_at, updated_at
FROM forum_comments WHERE topic_id = $1`
	if approvedOnly {
		query += ` AND is_approved = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	var comments []models.ForumComment
	if err := r.db.SelectContext(ctx, &comments, query, topicID); err != nil {
		return nil, fmt.Errorf("list forum comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment.
func (r *CommunityRepository) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forum_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete forum comment: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const faqColumns = `id, question, answer, category, created_at, updated_at`

// CreateFAQ inserts an FAQ entry.
func (r *CommunityRepository) CreateFAQ(ctx context.Context, faq *models.FAQ) error {
	const query = `INSERT INTO faqs (id, question, answer, category, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, faq.ID, faq.Question, faq.Answer, faq.Category, faq.CreatedAt, faq.UpdatedAt); err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}

// ListFAQs returns FAQ entries, optionally filtered by category.
func (r *CommunityRepository) ListFAQs(ctx context.Context, category string) ([]models.FAQ, error) {
	query := `SELECT ` + faqColumns + ` FROM faqs`
	var args []interface{}
	if category != "" {
		args = append(args, category)
		query += ` WHERE category = $1`
	}
	query += ` ORDER BY category ASC, created_at ASC`

	var faqs []models.FAQ
	if err := r.db.SelectContext(ctx, &faqs, query, args...); err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	return faqs, nil
}

// UpdateFAQ persists FAQ fields.
func (r *CommunityRepository) UpdateFAQ(ctx context.Context, faq *models.FAQ) error {
	const query = `UPDATE faqs SET question = $2, answer = $3, category = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, faq.ID, faq.Question, faq.Answer, faq.Category, faq.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update faq: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteFAQ removes an FAQ entry.
func (r *CommunityRepository) DeleteFAQ(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
