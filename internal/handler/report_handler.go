package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/response"
)

// maxUploadBytes caps a single attachment read.
const maxUploadBytes = 10 << 20

// ReportHandler wires HTTP endpoints to the waste report services.
type ReportHandler struct {
	reports       *service.ReportService
	analytics     *service.AnalyticsService
	exports       *service.ExportService
	notifications *service.NotificationService
	metrics       *service.MetricsService
}

// NewReportHandler creates a new handler. metrics may be nil.
func NewReportHandler(reports *service.ReportService, analytics *service.AnalyticsService, exports *service.ExportService, notifications *service.NotificationService, metrics *service.MetricsService) *ReportHandler {
	return &ReportHandler{reports: reports, analytics: analytics, exports: exports, notifications: notifications, metrics: metrics}
}

// Create godoc
// @Summary Submit waste report
// @Description Submit a waste report with optional photo/video attachments
// @Tags WasteReports
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /waste-reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}

	var files []dto.UploadedFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["media"] {
			src, err := fh.Open()
			if err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read attachment"))
				return
			}
			data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
			src.Close()
			if err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read attachment"))
				return
			}
			files = append(files, dto.UploadedFile{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	report, err := h.reports.Create(c.Request.Context(), claims, req, files)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, report)
}

// List godoc
// @Summary List waste reports
// @Description List reports visible to the caller with optional filters
// @Tags WasteReports
// @Produce json
// @Param status query string false "Status filter"
// @Param waste_type query string false "Waste type filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /waste-reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.ReportFilter{
		Status:    models.ReportStatus(c.Query("status")),
		WasteType: models.WasteType(c.Query("waste_type")),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
	}

	reports, pagination, err := h.reports.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, reports, pagination)
}

// Get godoc
// @Summary Get waste report
// @Tags WasteReports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	report, err := h.reports.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Update godoc
// @Summary Update waste report
// @Tags WasteReports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.UpdateReportRequest true "Report fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-reports/{id} [put]
func (h *ReportHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}

	report, err := h.reports.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Delete godoc
// @Summary Delete waste report
// @Tags WasteReports
// @Param id path string true "Report ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.reports.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AssignTeam godoc
// @Summary Assign cleanup team
// @Description Staff-only transition moving a report to in_progress
// @Tags WasteReports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.AssignTeamRequest true "Team selection"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-reports/{id}/assign_team [post]
func (h *ReportHandler) AssignTeam(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	if err := h.reports.AssignTeam(c.Request.Context(), claims, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordWorkflowTransition("waste_report")
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "Team assigned successfully"}, nil)
}

// TrackingHistory godoc
// @Summary Report tracking history
// @Description Owner-facing lifecycle timeline for a report
// @Tags WasteReports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-reports/{id}/tracking_history [get]
func (h *ReportHandler) TrackingHistory(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	events, err := h.notifications.HistoryFor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	history, err := h.reports.TrackingHistory(c.Request.Context(), claims, id, events)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, history, nil)
}

// Analytics godoc
// @Summary Report analytics
// @Description System-wide report distributions for the trailing 30 days (staff only)
// @Tags WasteReports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /waste-reports/analytics [get]
func (h *ReportHandler) Analytics(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.analytics.ReportAnalytics(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp, nil)
}

// Export godoc
// @Summary Export waste reports
// @Description Staff-only CSV or PDF export of all reports
// @Tags WasteReports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /waste-reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.exports.ExportReports(c.Request.Context(), claims, service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
