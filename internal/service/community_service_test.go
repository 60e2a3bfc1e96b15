package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type fakeCommunityRepo struct {
	topics   map[string]models.ForumTopic
	comments map[string]models.ForumComment
	faqs     map[string]models.FAQ
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{
		topics:   make(map[string]models.ForumTopic),
		comments: make(map[string]models.ForumComment),
		faqs:     make(map[string]models.FAQ),
	}
}

func (f *fakeCommunityRepo) CreateTopic(ctx context.Context, topic *models.ForumTopic) error {
	f.topics[topic.ID] = *topic
	return nil
}

func (f *fakeCommunityRepo) FindTopicByID(ctx context.Context, id string) (*models.ForumTopic, error) {
	if t, ok := f.topics[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCommunityRepo) ListTopics(ctx context.Context, approvedOnly bool) ([]models.ForumTopic, error) {
	var result []models.ForumTopic
	for _, t := range f.topics {
		if approvedOnly && !t.IsApproved {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeCommunityRepo) UpdateTopic(ctx context.Context, topic *models.ForumTopic) error {
	if _, ok := f.topics[topic.ID]; !ok {
		return sql.ErrNoRows
	}
	f.topics[topic.ID] = *topic
	return nil
}

func (f *fakeCommunityRepo) DeleteTopic(ctx context.Context, id string) error {
	if _, ok := f.topics[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.topics, id)
	return nil
}

func (f *fakeCommunityRepo) IncrementTopicViews(ctx context.Context, id string) error {
	t, ok := f.topics[id]
	if !ok {
		return sql.ErrNoRows
	}
	t.Views++
	f.topics[id] = t
	return nil
}

func (f *fakeCommunityRepo) CreateComment(ctx context.Context, comment *models.ForumComment) error {
	f.comments[comment.ID] = *comment
	return nil
}

func (f *fakeCommunityRepo) ListComments(ctx context.Context, topicID string, approvedOnly bool) ([]models.ForumComment, error) {
	var result []models.ForumComment
	for _, c := range f.comments {
		if c.TopicID != topicID {
			continue
		}
		if approvedOnly && !c.IsApproved {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (f *fakeCommunityRepo) DeleteComment(ctx context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommunityRepo) CreateFAQ(ctx context.Context, faq *models.FAQ) error {
	f.faqs[faq.ID] = *faq
	return nil
}

func (f *fakeCommunityRepo) ListFAQs(ctx context.Context, category string) ([]models.FAQ, error) {
	var result []models.FAQ
	for _, q := range f.faqs {
		if category != "" && q.Category != category {
			continue
		}
		result = append(result, q)
	}
	return result, nil
}

func (f *fakeCommunityRepo) UpdateFAQ(ctx context.Context, faq *models.FAQ) error {
	if _, ok := f.faqs[faq.ID]; !ok {
		return sql.ErrNoRows
	}
	f.faqs[faq.ID] = *faq
	return nil
}

func (f *fakeCommunityRepo) DeleteFAQ(ctx context.Context, id string) error {
	if _, ok := f.faqs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.faqs, id)
	return nil
}

func TestCreateTopicModerationDefaults(t *testing.T) {
	repo := newFakeCommunityRepo()
	svc := NewCommunityService(repo, nil, nil)
	req := dto.ForumTopicRequest{Title: "Bin collection schedule", Description: "When do trucks come?"}

	userTopic, err := svc.CreateTopic(context.Background(), userClaims("user-1"), req)
	require.NoError(t, err)
	assert.False(t, userTopic.IsApproved, "resident topics wait for moderation")

	staffTopic, err := svc.CreateTopic(context.Background(), staffClaims(), req)
	require.NoError(t, err)
	assert.True(t, staffTopic.IsApproved, "staff topics are approved on creation")
}

func TestListTopicsHidesUnapprovedFromUsers(t *testing.T) {
	repo := newFakeCommunityRepo()
	repo.topics["t1"] = models.ForumTopic{ID: "t1", Title: "Approved", IsApproved: true}
	repo.topics["t2"] = models.ForumTopic{ID: "t2", Title: "Pending", IsApproved: false}
	svc := NewCommunityService(repo, nil, nil)

	visible, err := svc.ListTopics(context.Background(), userClaims("user-1"))
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "t1", visible[0].ID)

	all, err := svc.ListTopics(context.Background(), staffClaims())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetTopicVisibility(t *testing.T) {
	repo := newFakeCommunityRepo()
	repo.topics["t1"] = models.ForumTopic{ID: "t1", AuthorID: "user-1", IsApproved: false}
	svc := NewCommunityService(repo, nil, nil)

	// The author still sees their unapproved topic.
	topic, _, err := svc.GetTopic(context.Background(), userClaims("user-1"), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", topic.ID)

	// Another resident gets a 404, not a 403, so existence leaks nothing.
	_, _, err = svc.GetTopic(context.Background(), userClaims("user-2"), "t1")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGetTopicFiltersUnapprovedComments(t *testing.T) {
	repo := newFakeCommunityRepo()
	repo.topics["t1"] = models.ForumTopic{ID: "t1", AuthorID: "user-1", IsApproved: true}
	repo.comments["c1"] = models.ForumComment{ID: "c1", TopicID: "t1", IsApproved: true}
	repo.comments["c2"] = models.ForumComment{ID: "c2", TopicID: "t1", IsApproved: false}
	svc := NewCommunityService(repo, nil, nil)

	_, comments, err := svc.GetTopic(context.Background(), userClaims("user-2"), "t1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)

	_, comments, err = svc.GetTopic(context.Background(), staffClaims(), "t1")
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestApproveTopicStaffOnly(t *testing.T) {
	repo := newFakeCommunityRepo()
	repo.topics["t1"] = models.ForumTopic{ID: "t1", IsApproved: false}
	svc := NewCommunityService(repo, nil, nil)

	_, err := svc.ApproveTopic(context.Background(), userClaims("user-1"), "t1")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.False(t, repo.topics["t1"].IsApproved)

	approved, err := svc.ApproveTopic(context.Background(), staffClaims(), "t1")
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.True(t, repo.topics["t1"].IsApproved)
}

func TestAddCommentRequiresApprovedTopic(t *testing.T) {
	repo := newFakeCommunityRepo()
	repo.topics["t1"] = models.ForumTopic{ID: "t1", IsApproved: false}
	svc := NewCommunityService(repo, nil, nil)

	_, err := svc.AddComment(context.Background(), userClaims("user-1"), "t1", dto.ForumCommentRequest{Content: "First!"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	repo.topics["t1"] = models.ForumTopic{ID: "t1", IsApproved: true}
	comment, err := svc.AddComment(context.Background(), userClaims("user-1"), "t1", dto.ForumCommentRequest{Content: "First!"})
	require.NoError(t, err)
	assert.False(t, comment.IsApproved, "resident comments wait for moderation")

	staffComment, err := svc.AddComment(context.Background(), staffClaims(), "t1", dto.ForumCommentRequest{Content: "Noted."})
	require.NoError(t, err)
	assert.True(t, staffComment.IsApproved)
}

func TestDeleteTopicAuthorOrStaff(t *testing.T) {
	repo := newFakeCommunityRepo()
	repo.topics["t1"] = models.ForumTopic{ID: "t1", AuthorID: "user-1", IsApproved: true}
	svc := NewCommunityService(repo, nil, nil)

	err := svc.DeleteTopic(context.Background(), userClaims("user-2"), "t1")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	require.NoError(t, svc.DeleteTopic(context.Background(), userClaims("user-1"), "t1"))
	assert.NotContains(t, repo.topics, "t1")
}

func TestFAQWritesStaffOnly(t *testing.T) {
	repo := newFakeCommunityRepo()
	svc := NewCommunityService(repo, nil, nil)
	req := dto.FAQRequest{Question: "What goes in the green bin?", Answer: "Glass only.", Category: "recycling"}

	_, err := svc.CreateFAQ(context.Background(), userClaims("user-1"), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	faq, err := svc.CreateFAQ(context.Background(), staffClaims(), req)
	require.NoError(t, err)
	assert.Equal(t, "recycling", faq.Category)

	faqs, err := svc.ListFAQs(context.Background(), "recycling")
	require.NoError(t, err)
	assert.Len(t, faqs, 1)
}
