package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type educationRepository interface {
	CreateContent(ctx context.Context, content *models.EducationalContent) error
	FindContentByID(ctx context.Context, id string) (*models.EducationalContent, error)
	FindContentBySlug(ctx context.Context, slug string) (*models.EducationalContent, error)
	ListContent(ctx context.Context, contentType models.ContentType, includeUnpublished bool) ([]models.EducationalContent, error)
	UpdateContent(ctx context.Context, content *models.EducationalContent) error
	DeleteContent(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	CreateQuiz(ctx context.Context, quiz *models.Quiz) error
	FindQuizByID(ctx context.Context, id string) (*models.Quiz, error)
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *models.Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
	CreateAttempt(ctx context.Context, attempt *models.UserQuizAttempt) error
	ListAttemptsByUser(ctx context.Context, userID string) ([]models.UserQuizAttempt, error)
}

// EducationService handles educational content, quizzes and attempt
// scoring.
type EducationService struct {
	repo      educationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEducationService constructs the education service.
func NewEducationService(repo educationRepository, validate *validator.Validate, logger *zap.Logger) *EducationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EducationService{repo: repo, validator: validate, logger: logger}
}

// CreateContent publishes a new educational resource. Staff only.
func (s *EducationService) CreateContent(ctx context.Context, actor *models.JWTClaims, req dto.ContentRequest) (*models.EducationalContent, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may create content")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid content payload")
	}

	now := time.Now().UTC()
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	content := &models.EducationalContent{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slugify(req.Title),
		ContentType: models.ContentType(req.ContentType),
		Description: req.Description,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
		AuthorID:    actor.UserID,
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateContent(ctx, content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create content")
	}
	return content, nil
}

// GetContent returns one resource and bumps its view counter. Unpublished
// resources are visible to staff only.
func (s *EducationService) GetContent(ctx context.Context, actor *models.JWTClaims, id string) (*models.EducationalContent, error) {
	content, err := s.repo.FindContentByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content")
	}
	if !content.IsPublished && !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "content not found")
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment content views", zap.Error(err))
	} else {
		content.Views++
	}
	return content, nil
}

// ListContent returns resources visible to the actor, optionally filtered
// by type.
func (s *EducationService) ListContent(ctx context.Context, actor *models.JWTClaims, contentType string) ([]models.EducationalContent, error) {
	contents, err := s.repo.ListContent(ctx, models.ContentType(contentType), actor.IsStaff())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list content")
	}
	return contents, nil
}

// UpdateContent amends a resource. Staff only.
func (s *EducationService) UpdateContent(ctx context.Context, actor *models.JWTClaims, id string, req dto.ContentRequest) (*models.EducationalContent, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may update content")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid content payload")
	}

	content, err := s.repo.FindContentByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content")
	}

	content.Title = req.Title
	content.Slug = slugify(req.Title)
	content.ContentType = models.ContentType(req.ContentType)
	content.Description = req.Description
	content.Content = req.Content
	content.VideoURL = req.VideoURL
	if req.IsPublished != nil {
		content.IsPublished = *req.IsPublished
	}
	content.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateContent(ctx, content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update content")
	}
	return content, nil
}

// DeleteContent removes a resource. Staff only.
func (s *EducationService) DeleteContent(ctx context.Context, actor *models.JWTClaims, id string) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may delete content")
	}
	if err := s.repo.DeleteContent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete content")
	}
	return nil
}

// CreateQuiz creates a quiz with its questions. Staff only.
func (s *EducationService) CreateQuiz(ctx context.Context, actor *models.JWTClaims, req dto.QuizRequest) (*models.Quiz, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may create quizzes")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quiz payload")
	}

	now := time.Now().UTC()
	quiz := &models.Quiz{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, q := range req.Questions {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			ID:            uuid.NewString(),
			QuizID:        quiz.ID,
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			Option1:       q.Option1,
			Option2:       q.Option2,
			Option3:       q.Option3,
			Explanation:   q.Explanation,
		})
	}

	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create quiz")
	}
	return quiz, nil
}

// GetQuiz returns a quiz with its questions. Correct answers stay
// server-side through the model's serialization rules.
func (s *EducationService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.repo.FindQuizByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}
	return quiz, nil
}

// ListQuizzes returns all quizzes.
func (s *EducationService) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	quizzes, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list quizzes")
	}
	return quizzes, nil
}

// UpdateQuiz rewrites a quiz's metadata and replaces its question set.
// Staff only.
func (s *EducationService) UpdateQuiz(ctx context.Context, actor *models.JWTClaims, id string, req dto.QuizRequest) (*models.Quiz, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may update quizzes")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quiz payload")
	}

	existing, err := s.repo.FindQuizByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}

	quiz := &models.Quiz{
		ID:          existing.ID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
	for _, q := range req.Questions {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			ID:            uuid.NewString(),
			QuizID:        quiz.ID,
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			Option1:       q.Option1,
			Option2:       q.Option2,
			Option3:       q.Option3,
			Explanation:   q.Explanation,
		})
	}

	if err := s.repo.UpdateQuiz(ctx, quiz); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update quiz")
	}
	return quiz, nil
}

// DeleteQuiz removes a quiz and its questions. Staff only.
func (s *EducationService) DeleteQuiz(ctx context.Context, actor *models.JWTClaims, id string) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may delete quizzes")
	}
	if err := s.repo.DeleteQuiz(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete quiz")
	}
	return nil
}

// SubmitAttempt scores a quiz submission and records the attempt. Answers
// compare case-insensitively after trimming; answers to questions outside
// this quiz are ignored; unanswered questions count as wrong. A quiz with
// no questions scores 0.
func (s *EducationService) SubmitAttempt(ctx context.Context, actor *models.JWTClaims, quizID string, req dto.QuizSubmitRequest) (*dto.QuizSubmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}

	result := scoreQuiz(quiz.Questions, req.Answers)

	attempt := &models.UserQuizAttempt{
		ID:          uuid.NewString(),
		UserID:      actor.UserID,
		QuizID:      quizID,
		Score:       result.Score,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attempt")
	}
	return result, nil
}

// ListAttempts returns the actor's quiz history.
func (s *EducationService) ListAttempts(ctx context.Context, actor *models.JWTClaims) ([]models.UserQuizAttempt, error) {
	attempts, err := s.repo.ListAttemptsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attempts")
	}
	return attempts, nil
}

// scoreQuiz computes correct/total*100 over the quiz's own questions.
func scoreQuiz(questions []models.QuizQuestion, answers map[string]string) *dto.QuizSubmitResult {
	total := len(questions)
	if total == 0 {
		return &dto.QuizSubmitResult{Score: 0, CorrectAnswers: 0, TotalQuestions: 0}
	}
	correct := 0
	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer)) {
			correct++
		}
	}
	return &dto.QuizSubmitResult{
		Score:          float64(correct) / float64(total) * 100,
		CorrectAnswers: correct,
		TotalQuestions: total,
	}
}

// slugify reduces a title to a URL-safe slug.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return fmt.Sprintf("content-%d", time.Now().Unix())
	}
	return slug
}
