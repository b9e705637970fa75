package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/pkg/export"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
)

// ExportFormat selects the rendered output.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type exportStore interface {
	ListActions() []models.DisciplinaryAction
	ListAppeals() []models.Appeal
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered document.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders the case register and appeal list for download.
type ExportService struct {
	store  exportStore
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(st exportStore, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{store: st, csv: csv, pdf: pdf, logger: logger}
}

// Cases renders the full case register, display status included.
func (s *ExportService) Cases(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	actions := s.store.ListActions()
	appeals := appealIndex(s.store.ListAppeals())

	rows := make([]map[string]string, 0, len(actions))
	for _, a := range actions {
		view := caseView(a, appeals)
		rows = append(rows, map[string]string{
			"Case ID":      a.ID,
			"Student":      a.StudentName,
			"Student ID":   a.StudentID,
			"Date":         a.Date,
			"Reason":       a.Reason,
			"Action Taken": a.ActionTaken,
			"Status":       view.DisplayStatus,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Case ID", "Student", "Student ID", "Date", "Reason", "Action Taken", "Status"},
		Rows:    rows,
	}
	return s.render(dataset, "Disciplinary Cases", "cases", format)
}

// Appeals renders the appeal list.
func (s *ExportService) Appeals(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	appeals := s.store.ListAppeals()

	rows := make([]map[string]string, 0, len(appeals))
	for _, a := range appeals {
		rows = append(rows, map[string]string{
			"Appeal ID":  a.ID,
			"Case ID":    a.DisciplinaryActionID,
			"Student ID": a.StudentID,
			"Reason":     a.AppealReason,
			"Evidence":   a.EvidenceLink,
			"Date":       a.AppealDate,
			"Status":     string(a.Status),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Appeal ID", "Case ID", "Student ID", "Reason", "Evidence", "Date", "Status"},
		Rows:    rows,
	}
	return s.render(dataset, "Appeals", "appeals", format)
}

func (s *ExportService) render(dataset export.Dataset, title, prefix string, format ExportFormat) (*ExportResult, error) {
	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", prefix, time.Now().UTC().Format("20060102_150405"), format)
	s.logger.Info("export rendered", zap.String("filename", filename), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{Payload: payload, ContentType: contentType, Filename: filename}, nil
}
