package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	response "fieldledger/internal/adapter/http/dto/response"
	"fieldledger/internal/usecase"
	"fieldledger/pkg"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	usecase usecase.IReportUseCase
}

func NewReportHandler(uc usecase.IReportUseCase) *ReportHandler {
	return &ReportHandler{usecase: uc}
}

// InvoiceSummary godoc
// @Summary      Billing summary over every invoice
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.SummaryResponse
// @Router       /reports/summary [get]
func (h *ReportHandler) InvoiceSummary(c *gin.Context) {
	summary, err := h.usecase.Summary(c.Request.Context())
	if err != nil {
		log.Printf("[report][handler] summary failed err=%v", err)
		writeError(c, mapReportError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromSummary(summary))
}

// ExportInvoices godoc
// @Summary      Download every invoice as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /reports/invoices.xlsx [get]
func (h *ReportHandler) ExportInvoices(c *gin.Context) {
	data, contentType, err := h.usecase.ExportInvoices(c.Request.Context())
	if err != nil {
		log.Printf("[report][handler] export failed err=%v", err)
		writeError(c, mapReportError(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoices.xlsx"))
	c.Data(http.StatusOK, contentType, data)
}

func mapReportError(err error) *pkg.AppError {
	if errors.Is(err, usecase.ErrExporterNotConfigured) {
		return pkg.NewDomainError("EXPORT_NOT_CONFIGURED", "Invoice export is not available", err, http.StatusServiceUnavailable)
	}
	return internalError(err)
}
