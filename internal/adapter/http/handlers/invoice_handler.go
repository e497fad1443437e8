package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	request "fieldledger/internal/adapter/http/dto/request"
	response "fieldledger/internal/adapter/http/dto/response"
	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase"
	"fieldledger/pkg"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles HTTP requests for invoices. Overdue status is
// resolved by the use case whenever an invoice is read.
type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc}
}

// CreateInvoice godoc
// @Summary      Draft an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        invoice  body      request.InvoiceRequest  true  "Invoice"
// @Success      201      {object}  response.InvoiceResponse
// @Failure      400      {object}  pkg.HTTPError
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var payload request.InvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	inv, err := h.usecase.Create(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[invoice][handler] create failed err=%v", err)
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromInvoice(inv))
}

// ListInvoices godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Success      200  {array}  response.InvoiceResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(list))
}

// GetInvoice godoc
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.InvoiceResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv))
}

// SendInvoice godoc
// @Summary      Send a draft invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.InvoiceResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /invoices/{id}/send [patch]
func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	h.patchInvoiceStatus(c, h.usecase.Send)
}

// @Router       /invoices/{id}/view [patch]
func (h *InvoiceHandler) MarkInvoiceViewed(c *gin.Context) {
	h.patchInvoiceStatus(c, h.usecase.MarkViewed)
}

func (h *InvoiceHandler) patchInvoiceStatus(
	c *gin.Context,
	updater func(ctx context.Context, id string) (entities.Invoice, error),
) {
	inv, err := updater(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[invoice][handler] status change failed id=%s path=%s err=%v", c.Param("id"), c.FullPath(), err)
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv))
}

// RecordPayment godoc
// @Summary      Record an offline payment against an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payment  body      request.PaymentRecordRequest  true  "Amount"
// @Success      200      {object}  response.InvoiceResponse
// @Failure      409      {object}  pkg.HTTPError
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var payload request.PaymentRecordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	inv, err := h.usecase.RecordPayment(c.Request.Context(), c.Param("id"), payload.Amount)
	if err != nil {
		log.Printf("[invoice][handler] record payment failed id=%s amount=%.2f err=%v", c.Param("id"), payload.Amount, err)
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv))
}

func mapInvoiceError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInvoiceID), errors.Is(err, usecase.ErrInvalidInvoiceOwner):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrInvalidPaymentAmount):
		return pkg.NewDomainErrorSimple("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrOverpayment):
		return pkg.NewDomainErrorSimple("OVERPAYMENT", "Payment exceeds outstanding balance", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvoiceNotPayable):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_PAYABLE", "Invoice does not accept payments in its current status", http.StatusConflict)
	default:
		return ledgerOrInternal(err)
	}
}
