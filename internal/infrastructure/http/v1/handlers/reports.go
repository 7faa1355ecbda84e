package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/infrastructure/export"
	"ledgerpos/internal/infrastructure/http/v1/dto"
	"ledgerpos/pkg/logger"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ReportsService is implemented by reports.Service.
type ReportsService interface {
	ParseCutoff(value string) (time.Time, error)
	AgingReport(ctx context.Context, companyID id.ID, cutoff time.Time) (*reports.AgingReport, error)
}

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service ReportsService
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportsService) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// GetAging handles GET /reports/aging
func (h *ReportsHandler) GetAging(c *gin.Context) {
	report, ok := h.load(c)
	if !ok {
		return
	}
	h.OK(c, report)
}

// ExportXLSX handles GET /reports/aging/export.xlsx
func (h *ReportsHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", contentTypeXLSX, export.WriteSpreadsheet)
}

// ExportPDF handles GET /reports/aging/export.pdf
func (h *ReportsHandler) ExportPDF(c *gin.Context) {
	h.export(c, "pdf", contentTypePDF, export.WritePDF)
}

func (h *ReportsHandler) load(c *gin.Context) (*reports.AgingReport, bool) {
	var req dto.AgingReportRequest
	if !h.BindQuery(c, &req) {
		return nil, false
	}
	cutoff, err := h.service.ParseCutoff(req.Cutoff)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	report, err := h.service.AgingReport(c.Request.Context(), h.CompanyID(c), cutoff)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return report, true
}

// export renders into memory first so a failed render still gets the
// error envelope instead of a truncated file.
func (h *ReportsHandler) export(c *gin.Context, ext, contentType string, write func(io.Writer, *reports.AgingReport) error) {
	report, ok := h.load(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, report); err != nil {
		logger.Error(c.Request.Context(), "report export failed", "format", ext, "error", err)
		h.Error(c, apperror.NewInternal(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+reports.Filename(report.Cutoff, ext)+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
