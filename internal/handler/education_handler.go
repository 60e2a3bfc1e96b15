package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/response"
)

// EducationHandler wires HTTP endpoints to the education service.
type EducationHandler struct {
	service *service.EducationService
}

// NewEducationHandler creates a new handler.
func NewEducationHandler(education *service.EducationService) *EducationHandler {
	return &EducationHandler{service: education}
}

// CreateContent godoc
// @Summary Publish educational content
// @Tags Education
// @Accept json
// @Produce json
// @Param payload body dto.ContentRequest true "Content"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /educational-content [post]
func (h *EducationHandler) CreateContent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid content payload"))
		return
	}

	content, err := h.service.CreateContent(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, content)
}

// ListContent godoc
// @Summary List educational content
// @Description Published content for residents; staff also see drafts
// @Tags Education
// @Produce json
// @Param content_type query string false "Content type filter"
// @Success 200 {object} response.Envelope
// @Router /educational-content [get]
func (h *EducationHandler) ListContent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	contents, err := h.service.ListContent(c.Request.Context(), claims, c.Query("content_type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, contents, nil)
}

// GetContent godoc
// @Summary Get educational content
// @Tags Education
// @Produce json
// @Param id path string true "Content ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /educational-content/{id} [get]
func (h *EducationHandler) GetContent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	content, err := h.service.GetContent(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, content, nil)
}

// UpdateContent godoc
// @Summary Update educational content
// @Tags Education
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param payload body dto.ContentRequest true "Content fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /educational-content/{id} [put]
func (h *EducationHandler) UpdateContent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid content payload"))
		return
	}

	content, err := h.service.UpdateContent(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, content, nil)
}

// DeleteContent godoc
// @Summary Delete educational content
// @Tags Education
// @Param id path string true "Content ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /educational-content/{id} [delete]
func (h *EducationHandler) DeleteContent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteContent(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CreateQuiz godoc
// @Summary Create quiz
// @Tags Education
// @Accept json
// @Produce json
// @Param payload body dto.QuizRequest true "Quiz"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /quizzes [post]
func (h *EducationHandler) CreateQuiz(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid quiz payload"))
		return
	}

	quiz, err := h.service.CreateQuiz(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, quiz)
}

// ListQuizzes godoc
// @Summary List quizzes
// @Tags Education
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /quizzes [get]
func (h *EducationHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.service.ListQuizzes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, quizzes, nil)
}

// GetQuiz godoc
// @Summary Get quiz
// @Description Quiz with questions; correct answers are never serialized
// @Tags Education
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quizzes/{id} [get]
func (h *EducationHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.service.GetQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, quiz, nil)
}

// UpdateQuiz godoc
// @Summary Update quiz
// @Tags Education
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param payload body dto.QuizRequest true "Quiz"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quizzes/{id} [put]
func (h *EducationHandler) UpdateQuiz(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid quiz payload"))
		return
	}

	quiz, err := h.service.UpdateQuiz(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, quiz, nil)
}

// DeleteQuiz godoc
// @Summary Delete quiz
// @Tags Education
// @Param id path string true "Quiz ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quizzes/{id} [delete]
func (h *EducationHandler) DeleteQuiz(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteQuiz(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SubmitAttempt godoc
// @Summary Submit quiz attempt
// @Description Grade the caller's answers and record the attempt
// @Tags Education
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param payload body dto.QuizSubmitRequest true "Answers"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quizzes/{id}/submit_attempt [post]
func (h *EducationHandler) SubmitAttempt(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.QuizSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid answers payload"))
		return
	}

	result, err := h.service.SubmitAttempt(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// ListAttempts godoc
// @Summary List own quiz attempts
// @Tags Education
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /quiz-attempts [get]
func (h *EducationHandler) ListAttempts(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	attempts, err := h.service.ListAttempts(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, attempts, nil)
}
