package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/response"
)

// PickupHandler wires HTTP endpoints to the pickup services.
type PickupHandler struct {
	pickups   *service.PickupService
	analytics *service.AnalyticsService
	exports   *service.ExportService
	metrics   *service.MetricsService
}

// NewPickupHandler creates a new handler. metrics may be nil.
func NewPickupHandler(pickups *service.PickupService, analytics *service.AnalyticsService, exports *service.ExportService, metrics *service.MetricsService) *PickupHandler {
	return &PickupHandler{pickups: pickups, analytics: analytics, exports: exports, metrics: metrics}
}

// CreateRequest godoc
// @Summary Request waste pickup
// @Description Request a pickup; the date must be today or later
// @Tags PickupRequests
// @Accept json
// @Produce json
// @Param payload body dto.CreatePickupRequestRequest true "Pickup request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pickup-requests [post]
func (h *PickupHandler) CreateRequest(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreatePickupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pickup request payload"))
		return
	}

	request, err := h.pickups.CreateRequest(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// ListRequests godoc
// @Summary List pickup requests
// @Tags PickupRequests
// @Produce json
// @Param status query string false "Status filter"
// @Param waste_type query string false "Waste type filter"
// @Param date_from query string false "Earliest pickup date (YYYY-MM-DD)"
// @Param date_to query string false "Latest pickup date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /pickup-requests [get]
func (h *PickupHandler) ListRequests(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.PickupRequestFilter{
		Status:    models.PickupRequestStatus(c.Query("status")),
		WasteType: models.WasteType(c.Query("waste_type")),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
	}
	if raw := c.Query("date_from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			filter.DateTo = &parsed
		}
	}

	requests, pagination, err := h.pickups.ListRequests(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, pagination)
}

// GetRequest godoc
// @Summary Get pickup request
// @Tags PickupRequests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickup-requests/{id} [get]
func (h *PickupHandler) GetRequest(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	request, err := h.pickups.GetRequest(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, request, nil)
}

// UpdateRequest godoc
// @Summary Update pickup request
// @Tags PickupRequests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.UpdatePickupRequestRequest true "Request fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickup-requests/{id} [put]
func (h *PickupHandler) UpdateRequest(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdatePickupRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pickup request payload"))
		return
	}

	request, err := h.pickups.UpdateRequest(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, request, nil)
}

// DeleteRequest godoc
// @Summary Delete pickup request
// @Tags PickupRequests
// @Param id path string true "Request ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickup-requests/{id} [delete]
func (h *PickupHandler) DeleteRequest(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.pickups.DeleteRequest(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AssignCollector godoc
// @Summary Assign collector
// @Description Staff-only transition scheduling a pickup request
// @Tags PickupRequests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.AssignCollectorRequest true "Collector selection"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickup-requests/{id}/assign_collector [post]
func (h *PickupHandler) AssignCollector(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AssignCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	if err := h.pickups.AssignCollector(c.Request.Context(), claims, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordWorkflowTransition("pickup_request")
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "Collector assigned successfully"}, nil)
}

// Analytics godoc
// @Summary Pickup analytics
// @Description System-wide all-time pickup request aggregates (staff only)
// @Tags PickupRequests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /pickup-requests/analytics [get]
func (h *PickupHandler) Analytics(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.analytics.PickupAnalytics(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp, nil)
}

// Export godoc
// @Summary Export pickup requests
// @Description Staff-only CSV or PDF export of all pickup requests
// @Tags PickupRequests
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /pickup-requests/export [get]
func (h *PickupHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.exports.ExportPickupRequests(c.Request.Context(), claims, service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// CreatePickup godoc
// @Summary Schedule pickup
// @Description Schedule collection for an existing waste report
// @Tags Pickups
// @Accept json
// @Produce json
// @Param payload body dto.CreatePickupRequest true "Pickup"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickups [post]
func (h *PickupHandler) CreatePickup(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pickup payload"))
		return
	}

	pickup, err := h.pickups.CreatePickup(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, pickup)
}

// ListPickups godoc
// @Summary List pickups
// @Tags Pickups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pickups [get]
func (h *PickupHandler) ListPickups(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	pickups, err := h.pickups.ListPickups(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, pickups, nil)
}

// GetPickup godoc
// @Summary Get pickup
// @Tags Pickups
// @Produce json
// @Param id path string true "Pickup ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickups/{id} [get]
func (h *PickupHandler) GetPickup(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	pickup, err := h.pickups.GetPickup(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, pickup, nil)
}

// UpdatePickup godoc
// @Summary Update pickup
// @Tags Pickups
// @Accept json
// @Produce json
// @Param id path string true "Pickup ID"
// @Param payload body dto.UpdatePickupRequest true "Pickup fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickups/{id} [put]
func (h *PickupHandler) UpdatePickup(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pickup payload"))
		return
	}

	pickup, err := h.pickups.UpdatePickup(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, pickup, nil)
}

// DeletePickup godoc
// @Summary Delete pickup
// @Tags Pickups
// @Param id path string true "Pickup ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pickups/{id} [delete]
func (h *PickupHandler) DeletePickup(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.pickups.DeletePickup(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
