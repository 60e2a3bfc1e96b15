package models

import "time"

// ForumTopic is a community discussion thread; non-staff see only approved
// topics.
type ForumTopic struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	IsApproved  bool      `db:"is_approved" json:"is_approved"`
	Views       int       `db:"views" json:"views"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	CommentsCount int `db:"comments_count" json:"comments_count"`
}

// ForumComment belongs to one topic and is removed with it.
type ForumComment struct {
	ID         string    `db:"id" json:"id"`
	TopicID    string    `db:"topic_id" json:"topic_id"`
	AuthorID   string    `db:"author_id" json:"author_id"`
	Content    string    `db:"content" json:"content"`
	IsApproved bool      `db:"is_approved" json:"is_approved"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FAQ is a staff-curated question/answer entry.
type FAQ struct {
	ID        string    `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
