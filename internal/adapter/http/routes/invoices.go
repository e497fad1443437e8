package routes

import (
	"fieldledger/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathInvoices = "/invoices"
	PathPayments = "/payments"
	PathReports  = "/reports"
)

func addInvoiceRoutes(rg *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler, paymentHandler *handlers.BillingPaymentHandler) {
	invoices := rg.Group(PathInvoices)
	{
		invoices.POST("", invoiceHandler.CreateInvoice)
		invoices.GET("", invoiceHandler.ListInvoices)
		invoices.GET("/:id", invoiceHandler.GetInvoice)
		invoices.PATCH("/:id/send", invoiceHandler.SendInvoice)
		invoices.PATCH("/:id/view", invoiceHandler.MarkInvoiceViewed)
		invoices.POST("/:id/payments", invoiceHandler.RecordPayment)
	}

	// Online payments go through Mercado Pago.
	payments := rg.Group(PathPayments)
	{
		payments.POST("/:invoice_id", paymentHandler.CreatePaymentByInvoiceID)
		payments.GET("/:invoice_id", paymentHandler.GetPaymentByInvoiceID)
	}
}

func addReportRoutes(rg *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reports := rg.Group(PathReports)
	{
		reports.GET("/summary", reportHandler.InvoiceSummary)
		reports.GET("/invoices.xlsx", reportHandler.ExportInvoices)
	}
}
