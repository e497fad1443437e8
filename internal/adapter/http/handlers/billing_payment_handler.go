package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	request "fieldledger/internal/adapter/http/dto/request"
	response "fieldledger/internal/adapter/http/dto/response"
	"fieldledger/internal/usecase"
	"fieldledger/pkg"

	"github.com/gin-gonic/gin"
)

// BillingPaymentHandler handles online (Mercado Pago) payments of invoices.
type BillingPaymentHandler struct {
	usecase  usecase.IBillingPaymentUseCase
	mockMode bool
}

func NewBillingPaymentHandler(uc usecase.IBillingPaymentUseCase, mockMode bool) *BillingPaymentHandler {
	return &BillingPaymentHandler{usecase: uc, mockMode: mockMode}
}

// CreatePaymentByInvoiceID godoc
// @Summary      Pay the outstanding balance of an invoice
// @Description  The body is the Mercado Pago payment payload, optionally wrapped in {"mp_payload": ...}. The amount always comes from the invoice balance.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        invoice_id  path      string  true  "Invoice ID"
// @Success      200         {object}  response.BillingPaymentResponse
// @Failure      400         {object}  pkg.HTTPError
// @Failure      404         {object}  pkg.HTTPError
// @Failure      409         {object}  pkg.HTTPError
// @Router       /payments/{invoice_id} [post]
func (h *BillingPaymentHandler) CreatePaymentByInvoiceID(c *gin.Context) {
	invoiceID := c.Param("invoice_id")
	log.Printf("[payment][handler] create start invoice_id=%s", invoiceID)
	mpPayload, err := readMPPayload(c)
	if err != nil {
		if h.mockMode {
			log.Printf("[payment][handler] payload invalid in mock mode; fallback to empty payload invoice_id=%s err=%v", invoiceID, err)
			mpPayload = json.RawMessage("{}")
		} else {
			log.Printf("[payment][handler] invalid payload invoice_id=%s err=%v", invoiceID, err)
			writeError(c, errInvalidRequest)
			return
		}
	}

	created, err := h.usecase.CreateAndApprove(c.Request.Context(), invoiceID, mpPayload)
	if err != nil {
		log.Printf("[payment][handler] create failed invoice_id=%s err=%v", invoiceID, err)
		writeError(c, mapBillingPaymentError(err))
		return
	}
	log.Printf("[payment][handler] create success invoice_id=%s payment_id=%s status=%s", invoiceID, created.ID, created.Status)

	c.JSON(http.StatusOK, response.FromBillingPayment(created))
}

// GetPaymentByInvoiceID godoc
// @Summary      Latest online payment of an invoice
// @Tags         payments
// @Produce      json
// @Param        invoice_id  path      string  true  "Invoice ID"
// @Success      200         {object}  response.BillingPaymentResponse
// @Failure      404         {object}  pkg.HTTPError
// @Router       /payments/{invoice_id} [get]
func (h *BillingPaymentHandler) GetPaymentByInvoiceID(c *gin.Context) {
	invoiceID := c.Param("invoice_id")
	log.Printf("[payment][handler] get-by-invoice start invoice_id=%s", invoiceID)

	payments, err := h.usecase.ListByInvoiceID(c.Request.Context(), invoiceID)
	if err != nil {
		log.Printf("[payment][handler] get-by-invoice failed invoice_id=%s err=%v", invoiceID, err)
		writeError(c, mapBillingPaymentError(err))
		return
	}

	if len(payments) == 0 {
		log.Printf("[payment][handler] get-by-invoice not-found invoice_id=%s", invoiceID)
		writeError(c, pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound))
		return
	}

	latest := payments[0]
	for _, p := range payments[1:] {
		if p.Date.After(latest.Date) {
			latest = p
		}
	}
	log.Printf("[payment][handler] get-by-invoice success invoice_id=%s payment_id=%s status=%s", invoiceID, latest.ID, latest.Status)

	c.JSON(http.StatusOK, response.FromBillingPayment(latest))
}

func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if _, ok := envelope["mp_payload"]; ok {
			var wrapped request.BillingPaymentCreateRequest
			if err := json.Unmarshal(raw, &wrapped); err != nil {
				return nil, err
			}
			trimmed := strings.TrimSpace(string(wrapped.MPPayload))
			if trimmed == "" || trimmed == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return wrapped.MPPayload, nil
		}
	}

	return json.RawMessage(raw), nil
}

func mapBillingPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentInvoiceID), errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainError("PAYMENT_PROVIDER_NOT_CONFIGURED", "Payment provider not configured", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoiceNotPayable):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_PAYABLE", "Invoice does not accept payments in its current status", http.StatusConflict)
	case errors.Is(err, usecase.ErrBillingPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return ledgerOrInternal(err)
	}
}
