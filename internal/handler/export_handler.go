package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-discipline-api/internal/service"
	"github.com/noah-isme/sma-discipline-api/pkg/response"
)

// ExportHandler serves rendered CSV/PDF downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Cases godoc
// @Summary Export case register
// @Description Download the case register as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /export/cases [get]
func (h *ExportHandler) Cases(c *gin.Context) {
	result, err := h.service.Cases(c.Request.Context(), service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

// Appeals godoc
// @Summary Export appeal list
// @Description Download the appeal list as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /export/appeals [get]
func (h *ExportHandler) Appeals(c *gin.Context) {
	result, err := h.service.Appeals(c.Request.Context(), service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

func serveDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Payload)
}
