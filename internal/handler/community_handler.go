package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/response"
)

// CommunityHandler wires HTTP endpoints to the forum and FAQ service.
type CommunityHandler struct {
	service *service.CommunityService
}

// NewCommunityHandler creates a new handler.
func NewCommunityHandler(community *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: community}
}

// CreateTopic godoc
// @Summary Open forum topic
// @Description Resident topics await moderation; staff topics go live immediately
// @Tags Forum
// @Accept json
// @Produce json
// @Param payload body dto.ForumTopicRequest true "Topic"
// @Success 201 {object} response.Envelope
// @Router /forum-topics [post]
func (h *CommunityHandler) CreateTopic(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ForumTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid topic payload"))
		return
	}

	topic, err := h.service.CreateTopic(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, topic)
}

// ListTopics godoc
// @Summary List forum topics
// @Tags Forum
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /forum-topics [get]
func (h *CommunityHandler) ListTopics(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	topics, err := h.service.ListTopics(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, topics, nil)
}

// GetTopic godoc
// @Summary Get forum topic
// @Description Topic with its visible comments
// @Tags Forum
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forum-topics/{id} [get]
func (h *CommunityHandler) GetTopic(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	topic, comments, err := h.service.GetTopic(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"topic": topic, "comments": comments}, nil)
}

// ApproveTopic godoc
// @Summary Approve forum topic
// @Description Moderation approval, staff only
// @Tags Forum
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /forum-topics/{id}/approve [post]
func (h *CommunityHandler) ApproveTopic(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	topic, err := h.service.ApproveTopic(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, topic, nil)
}

// DeleteTopic godoc
// @Summary Delete forum topic
// @Tags Forum
// @Param id path string true "Topic ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forum-topics/{id} [delete]
func (h *CommunityHandler) DeleteTopic(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteTopic(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddComment godoc
// @Summary Comment on topic
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param payload body dto.ForumCommentRequest true "Comment"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forum-topics/{id}/add_comment [post]
func (h *CommunityHandler) AddComment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ForumCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, comment)
}

// DeleteComment godoc
// @Summary Delete comment
// @Tags Forum
// @Param id path string true "Comment ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forum-comments/{id} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CreateFAQ godoc
// @Summary Create FAQ entry
// @Tags FAQs
// @Accept json
// @Produce json
// @Param payload body dto.FAQRequest true "FAQ"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /faqs [post]
func (h *CommunityHandler) CreateFAQ(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid FAQ payload"))
		return
	}

	faq, err := h.service.CreateFAQ(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, faq)
}

// ListFAQs godoc
// @Summary List FAQs
// @Tags FAQs
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /faqs [get]
func (h *CommunityHandler) ListFAQs(c *gin.Context) {
	faqs, err := h.service.ListFAQs(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, faqs, nil)
}

// UpdateFAQ godoc
// @Summary Update FAQ entry
// @Tags FAQs
// @Accept json
// @Produce json
// @Param id path string true "FAQ ID"
// @Param payload body dto.FAQRequest true "FAQ fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faqs/{id} [put]
func (h *CommunityHandler) UpdateFAQ(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid FAQ payload"))
		return
	}

	faq, err := h.service.UpdateFAQ(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, faq, nil)
}

// DeleteFAQ godoc
// @Summary Delete FAQ entry
// @Tags FAQs
// @Param id path string true "FAQ ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faqs/{id} [delete]
func (h *CommunityHandler) DeleteFAQ(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteFAQ(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
