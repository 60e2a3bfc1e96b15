package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/export"
)

type exportReportLister interface {
	ListAll(ctx context.Context, filter models.ReportFilter) ([]models.WasteReport, error)
}

type exportPickupLister interface {
	ListAllRequests(ctx context.Context, filter models.PickupRequestFilter) ([]models.PickupRequest, error)
}

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered export payload.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders staff data exports. Exports run synchronously on
// the request.
type ExportService struct {
	enabled bool

	reportLister exportReportLister
	pickupLister exportPickupLister
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(reportLister exportReportLister, pickupLister exportPickupLister, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reportLister: reportLister,
		pickupLister: pickupLister,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		enabled:      enabled,
		logger:       logger,
	}
}

// ExportReports renders all waste reports. Staff only.
func (s *ExportService) ExportReports(ctx context.Context, actor *models.JWTClaims, format ExportFormat) (*ExportResult, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may export reports")
	}
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled")
	}

	reports, err := s.reportLister.ListAll(ctx, models.ReportFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}

	data := export.Dataset{
		Headers: []string{"ID", "User", "Title", "Waste Type", "Quantity", "Address", "Status", "Created"},
	}
	for _, r := range reports {
		data.Rows = append(data.Rows, []string{
			r.ID, r.UserID, r.Title, string(r.WasteType),
			fmt.Sprintf("%.2f", r.Quantity), r.Address, string(r.Status),
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.render(data, "waste_reports", "Waste Reports", format)
}

// ExportPickupRequests renders all pickup requests. Staff only.
func (s *ExportService) ExportPickupRequests(ctx context.Context, actor *models.JWTClaims, format ExportFormat) (*ExportResult, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may export pickup requests")
	}
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled")
	}

	requests, err := s.pickupLister.ListAllRequests(ctx, models.PickupRequestFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pickup requests")
	}

	data := export.Dataset{
		Headers: []string{"ID", "User", "Waste Type", "Pickup Date", "Pickup Time", "Address", "Status", "Collector"},
	}
	for _, r := range requests {
		collector := ""
		if r.CollectorID != nil {
			collector = *r.CollectorID
		}
		data.Rows = append(data.Rows, []string{
			r.ID, r.UserID, string(r.WasteType),
			r.PickupDate.Format("2006-01-02"), r.PickupTime,
			r.Address, string(r.Status), collector,
		})
	}
	return s.render(data, "pickup_requests", "Pickup Requests", format)
}

func (s *ExportService) render(data export.Dataset, name, title string, format ExportFormat) (*ExportResult, error) {
	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case FormatPDF:
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s_%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        payload,
		}, nil
	case FormatCSV, "":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s_%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
