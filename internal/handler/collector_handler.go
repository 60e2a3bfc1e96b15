package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/response"
)

// CollectorHandler wires HTTP endpoints to the waste collector service.
type CollectorHandler struct {
	service *service.CollectorService
}

// NewCollectorHandler creates a new handler.
func NewCollectorHandler(collectors *service.CollectorService) *CollectorHandler {
	return &CollectorHandler{service: collectors}
}

// Create godoc
// @Summary Register waste collector
// @Tags WasteCollectors
// @Accept json
// @Produce json
// @Param payload body dto.WasteCollectorRequest true "Collector"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /waste-collectors [post]
func (h *CollectorHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.WasteCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid collector payload"))
		return
	}

	collector, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, collector)
}

// List godoc
// @Summary List waste collectors
// @Tags WasteCollectors
// @Produce json
// @Param available query bool false "Only collectors currently available"
// @Success 200 {object} response.Envelope
// @Router /waste-collectors [get]
func (h *CollectorHandler) List(c *gin.Context) {
	availableOnly := c.Query("available") == "true"

	collectors, err := h.service.List(c.Request.Context(), availableOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, collectors, nil)
}

// Get godoc
// @Summary Get waste collector
// @Tags WasteCollectors
// @Produce json
// @Param id path string true "Collector ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-collectors/{id} [get]
func (h *CollectorHandler) Get(c *gin.Context) {
	collector, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, collector, nil)
}

// Update godoc
// @Summary Update waste collector
// @Tags WasteCollectors
// @Accept json
// @Produce json
// @Param id path string true "Collector ID"
// @Param payload body dto.WasteCollectorRequest true "Collector fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-collectors/{id} [put]
func (h *CollectorHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.WasteCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid collector payload"))
		return
	}

	collector, err := h.service.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, collector, nil)
}

// UpdateLocation godoc
// @Summary Update collector location
// @Description Record the collector's latest reported coordinates
// @Tags WasteCollectors
// @Accept json
// @Produce json
// @Param id path string true "Collector ID"
// @Param payload body dto.UpdateLocationRequest true "Coordinates"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-collectors/{id}/update_location [post]
func (h *CollectorHandler) UpdateLocation(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid location payload"))
		return
	}

	if err := h.service.UpdateLocation(c.Request.Context(), claims, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": "Location updated"}, nil)
}

// Delete godoc
// @Summary Delete waste collector
// @Tags WasteCollectors
// @Param id path string true "Collector ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-collectors/{id} [delete]
func (h *CollectorHandler) Delete(c *gin.Context) {
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
