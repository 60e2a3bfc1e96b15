package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/response"
)

// TeamHandler wires HTTP endpoints to the cleanup team service.
type TeamHandler struct {
	service *service.TeamService
}

// NewTeamHandler creates a new handler.
func NewTeamHandler(teams *service.TeamService) *TeamHandler {
	return &TeamHandler{service: teams}
}

// Create godoc
// @Summary Create cleanup team
// @Tags CleanupTeams
// @Accept json
// @Produce json
// @Param payload body dto.CleanupTeamRequest true "Team"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /cleanup-teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CleanupTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team payload"))
		return
	}

	team, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, team)
}

// List godoc
// @Summary List cleanup teams
// @Tags CleanupTeams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cleanup-teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, teams, nil)
}

// Get godoc
// @Summary Get cleanup team
// @Tags CleanupTeams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cleanup-teams/{id} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, team, nil)
}

// Update godoc
// @Summary Update cleanup team
// @Tags CleanupTeams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param payload body dto.CleanupTeamRequest true "Team fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cleanup-teams/{id} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CleanupTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team payload"))
		return
	}

	team, err := h.service.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, team, nil)
}

// Delete godoc
// @Summary Delete cleanup team
// @Tags CleanupTeams
// @Param id path string true "Team ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cleanup-teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
