package models

import "time"

// ContentType enumerates supported educational content formats.
type ContentType string

const (
	ContentArticle ContentType = "article"
	ContentVideo   ContentType = "video"
	ContentPDF     ContentType = "pdf"
	ContentQuiz    ContentType = "quiz"
)

// EducationalContent is a published learning resource.
type EducationalContent struct {
	ID          string      `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Slug        string      `db:"slug" json:"slug"`
	ContentType ContentType `db:"content_type" json:"content_type"`
	Description string      `db:"description" json:"description"`
	Content     string      `db:"content" json:"content"`
	VideoURL    *string     `db:"video_url" json:"video_url,omitempty"`
	FilePath    *string     `db:"file_path" json:"-"`
	AuthorID    string      `db:"author_id" json:"author_id"`
	Views       int         `db:"views" json:"views"`
	IsPublished bool        `db:"is_published" json:"is_published"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// Quiz owns an ordered set of questions, removed together with the quiz.
type Quiz struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Questions []QuizQuestion `db:"-" json:"questions,omitempty"`
}

// QuizQuestion holds one question; the correct answer is never serialized.
type QuizQuestion struct {
	ID            string `db:"id" json:"id"`
	QuizID        string `db:"quiz_id" json:"quiz_id"`
	Question      string `db:"question" json:"question"`
	CorrectAnswer string `db:"correct_answer" json:"-"`
	Option1       string `db:"option1" json:"option1"`
	Option2       string `db:"option2" json:"option2"`
	Option3       string `db:"option3" json:"option3"`
	Explanation   string `db:"explanation" json:"explanation"`
}

// UserQuizAttempt is an immutable record of a scored submission. Repeat
// attempts are allowed; no uniqueness is enforced.
type UserQuizAttempt struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	QuizID      string    `db:"quiz_id" json:"quiz_id"`
	Score       float64   `db:"score" json:"score"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}
