package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type communityRepository interface {
	CreateTopic(ctx context.Context, topic *models.ForumTopic) error
	FindTopicByID(ctx context.Context, id string) (*models.ForumTopic, error)
	ListTopics(ctx context.Context, approvedOnly bool) ([]models.ForumTopic, error)
	UpdateTopic(ctx context.Context, topic *models.ForumTopic) error
	DeleteTopic(ctx context.Context, id string) error
	IncrementTopicViews(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment *models.ForumComment) error
	ListComments(ctx context.Context, topicID string, approvedOnly bool) ([]models.ForumComment, error)
	DeleteComment(ctx context.Context, id string) error
	CreateFAQ(ctx context.Context, faq *models.FAQ) error
	ListFAQs(ctx context.Context, category string) ([]models.FAQ, error)
	UpdateFAQ(ctx context.Context, faq *models.FAQ) error
	DeleteFAQ(ctx context.Context, id string) error
}

// CommunityService handles forum discussion and FAQ curation. Topics and
// comments require staff approval before non-staff can see them.
type CommunityService struct {
	repo      communityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCommunityService constructs the community service.
func NewCommunityService(repo communityRepository, validate *validator.Validate, logger *zap.Logger) *CommunityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunityService{repo: repo, validator: validate, logger: logger}
}

// CreateTopic opens a thread. Staff-created topics are approved immediately.
func (s *CommunityService) CreateTopic(ctx context.Context, actor *models.JWTClaims, req dto.ForumTopicRequest) (*models.ForumTopic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}

	now := time.Now().UTC()
	topic := &models.ForumTopic{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    actor.UserID,
		IsApproved:  actor.IsStaff(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create topic")
	}
	return topic, nil
}

// GetTopic returns a topic with its comments, bumping the view counter.
// Unapproved topics are visible to staff and their author only.
func (s *CommunityService) GetTopic(ctx context.Context, actor *models.JWTClaims, id string) (*models.ForumTopic, []models.ForumComment, error) {
	topic, err := s.repo.FindTopicByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}
	if !topic.IsApproved && !actor.IsStaff() && topic.AuthorID != actor.UserID {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
	}

	comments, err := s.repo.ListComments(ctx, id, !actor.IsStaff())
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load comments")
	}

	if err := s.repo.IncrementTopicViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment topic views", zap.Error(err))
	} else {
		topic.Views++
	}
	return topic, comments, nil
}

// ListTopics returns topics visible to the actor.
func (s *CommunityService) ListTopics(ctx context.Context, actor *models.JWTClaims) ([]models.ForumTopic, error) {
	topics, err := s.repo.ListTopics(ctx, !actor.IsStaff())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list topics")
	}
	return topics, nil
}

// ApproveTopic marks a topic approved. Staff only.
func (s *CommunityService) ApproveTopic(ctx context.Context, actor *models.JWTClaims, id string) (*models.ForumTopic, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may approve topics")
	}
	topic, err := s.repo.FindTopicByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}
	topic.IsApproved = true
	topic.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateTopic(ctx, topic); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve topic")
	}
	return topic, nil
}

// DeleteTopic removes a topic. The author or staff may delete.
func (s *CommunityService) DeleteTopic(ctx context.Context, actor *models.JWTClaims, id string) error {
	topic, err := s.repo.FindTopicByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}
	if !actor.IsStaff() && topic.AuthorID != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this topic")
	}
	if err := s.repo.DeleteTopic(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete topic")
	}
	return nil
}

// AddComment replies to an approved topic. Staff comments are approved
// immediately.
func (s *CommunityService) AddComment(ctx context.Context, actor *models.JWTClaims, topicID string, req dto.ForumCommentRequest) (*models.ForumComment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}

	topic, err := s.repo.FindTopicByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}
	if !topic.IsApproved && !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
	}

	now := time.Now().UTC()
	comment := &models.ForumComment{
		ID:         uuid.NewString(),
		TopicID:    topicID,
		AuthorID:   actor.UserID,
		Content:    req.Content,
		IsApproved: actor.IsStaff(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}

// DeleteComment removes a comment. Staff only.
func (s *CommunityService) DeleteComment(ctx context.Context, actor *models.JWTClaims, id string) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may delete comments")
	}
	if err := s.repo.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete comment")
	}
	return nil
}

// CreateFAQ adds an FAQ entry. Staff only.
func (s *CommunityService) CreateFAQ(ctx context.Context, actor *models.JWTClaims, req dto.FAQRequest) (*models.FAQ, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may manage faqs")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faq payload")
	}

	now := time.Now().UTC()
	faq := &models.FAQ{
		ID:        uuid.NewString(),
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateFAQ(ctx, faq); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faq")
	}
	return faq, nil
}

// ListFAQs returns FAQ entries, optionally filtered by category.
func (s *CommunityService) ListFAQs(ctx context.Context, category string) ([]models.FAQ, error) {
	faqs, err := s.repo.ListFAQs(ctx, category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faqs")
	}
	return faqs, nil
}

// UpdateFAQ replaces an FAQ entry. Staff only.
func (s *CommunityService) UpdateFAQ(ctx context.Context, actor *models.JWTClaims, id string, req dto.FAQRequest) (*models.FAQ, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may manage faqs")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faq payload")
	}

	faq := &models.FAQ{
		ID:        id,
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.UpdateFAQ(ctx, faq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faq not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faq")
	}
	return faq, nil
}

// DeleteFAQ removes an FAQ entry. Staff only.
func (s *CommunityService) DeleteFAQ(ctx context.Context, actor *models.JWTClaims, id string) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may manage faqs")
	}
	if err := s.repo.DeleteFAQ(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faq not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faq")
	}
	return nil
}
