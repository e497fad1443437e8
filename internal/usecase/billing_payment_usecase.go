package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase/interfaces"
)

var (
	ErrBillingPaymentNotFound         = errors.New("billing payment not found")
	ErrInvalidPaymentID               = errors.New("invalid payment id")
	ErrInvalidPaymentInvoiceID        = errors.New("invalid invoice_id")
	ErrInvalidMPPayload               = errors.New("invalid mercado pago payload")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// IBillingPaymentUseCase encapsulates the "collect an invoice online" behavior.
//
// Requested behavior:
//   - Charge the outstanding balance of a payable invoice through the provider.
//   - Persist the provider outcome and, when approved, apply it to the invoice.

type IBillingPaymentUseCase interface {
	CreateAndApprove(ctx context.Context, invoiceID string, mpPayload json.RawMessage) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.BillingPayment, error)
}

type BillingPaymentUseCase struct {
	repo        interfaces.IBillingPaymentRepository
	invoiceRepo interfaces.IInvoiceRepository
	gateway     interfaces.IPaymentGateway
	mockMode    bool
	Now         func() time.Time
}

var _ IBillingPaymentUseCase = (*BillingPaymentUseCase)(nil)

func NewBillingPaymentUseCase(repo interfaces.IBillingPaymentRepository, invoiceRepo interfaces.IInvoiceRepository, gateway interfaces.IPaymentGateway, mockMode bool) *BillingPaymentUseCase {
	return &BillingPaymentUseCase{repo: repo, invoiceRepo: invoiceRepo, gateway: gateway, mockMode: mockMode, Now: utcNow}
}

func (u *BillingPaymentUseCase) CreateAndApprove(ctx context.Context, invoiceID string, mpPayload json.RawMessage) (entities.BillingPayment, error) {
	log.Printf("[payment][usecase] create-and-approve start raw_invoice_id=%q payload_len=%d", invoiceID, len(mpPayload))
	mockMode := u.mockMode
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		log.Printf("[payment][usecase] invalid invoice_id (empty)")
		return entities.BillingPayment{}, ErrInvalidPaymentInvoiceID
	}
	if len(mpPayload) == 0 || !json.Valid(mpPayload) {
		if mockMode {
			mpPayload = json.RawMessage("{}")
		} else {
			log.Printf("[payment][usecase] invalid payload invoice_id=%s", invoiceID)
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
	}
	if u.gateway == nil && !mockMode {
		log.Printf("[payment][usecase] gateway not configured invoice_id=%s", invoiceID)
		return entities.BillingPayment{}, ErrPaymentGatewayNotConfigured
	}

	log.Printf("[payment][usecase] loading invoice invoice_id=%s", invoiceID)
	inv, err := u.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		log.Printf("[payment][usecase] failed loading invoice invoice_id=%s err=%v", invoiceID, err)
		return entities.BillingPayment{}, err
	}
	if inv.ID == "" {
		log.Printf("[payment][usecase] invoice not found invoice_id=%s", invoiceID)
		return entities.BillingPayment{}, ErrInvoiceNotFound
	}
	balance := ledger.RoundCurrency(inv.Balance())
	if !payable(inv.Status) || balance <= 0 {
		log.Printf("[payment][usecase] invoice not payable invoice_id=%s status=%s balance=%.2f", invoiceID, inv.Status, balance)
		return entities.BillingPayment{}, ErrInvoiceNotPayable
	}
	log.Printf("[payment][usecase] invoice loaded invoice_id=%s number=%s status=%s balance=%.2f", invoiceID, inv.Number, inv.Status, balance)

	// Mercado Pago uses external_reference to help reconcile events.
	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err == nil && reqMap != nil {
		if !mockMode && !hasNonEmptyString(reqMap, "payment_method_id") {
			log.Printf("[payment][usecase] missing payment_method_id invoice_id=%s", invoiceID)
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		if !mockMode {
			normalizeSandboxPayerFromUserID(reqMap)
			ensurePayerDefaults(reqMap)
		}
		if !mockMode && !hasPayer(reqMap) {
			log.Printf("[payment][usecase] missing/invalid payer invoice_id=%s", invoiceID)
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}

		reqMap["external_reference"] = inv.ID
		if _, ok := reqMap["description"]; !ok {
			reqMap["description"] = fmt.Sprintf("Invoice %s", inv.Number)
		}
		// The source of truth for amount is the invoice balance in DB.
		reqMap["transaction_amount"] = balance
		if b, err := json.Marshal(reqMap); err == nil {
			mpPayload = b
		}
	} else if !mockMode {
		log.Printf("[payment][usecase] payload is not an object invoice_id=%s", invoiceID)
		return entities.BillingPayment{}, ErrInvalidMPPayload
	}

	var (
		providerPaymentID string
		providerStatus    string
		providerResp      json.RawMessage
	)
	if mockMode {
		log.Printf("[payment][usecase] mock mode enabled; skipping external payment gateway invoice_id=%s", invoiceID)
		providerPaymentID, providerStatus, providerResp, err = mockProviderResponse(mpPayload, inv.ID, balance, u.Now())
		if err != nil {
			return entities.BillingPayment{}, err
		}
	} else {
		log.Printf("[payment][usecase] calling payment gateway invoice_id=%s", invoiceID)
		providerPaymentID, providerStatus, providerResp, err = u.gateway.CreatePayment(ctx, mpPayload)
		if err != nil {
			log.Printf("[payment][usecase] payment gateway failed invoice_id=%s err=%v", invoiceID, err)
			return entities.BillingPayment{}, mapGatewayError(err)
		}
	}
	log.Printf("[payment][usecase] payment gateway success invoice_id=%s provider_payment_id=%s provider_status=%s", invoiceID, providerPaymentID, providerStatus)

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Printf("[payment][usecase] provider response unmarshal failed invoice_id=%s err=%v", invoiceID, err)
	}

	now := u.Now()
	p := entities.BillingPayment{
		ID:           providerPaymentID,
		InvoiceID:    inv.ID,
		Amount:       balance,
		Date:         now,
		Status:       mapProviderStatus(providerStatus),
		MPPayloadRaw: providerResp,
		MPPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.Printf("[payment][usecase] payment repository create failed invoice_id=%s payment_id=%s err=%v", invoiceID, p.ID, err)
		return entities.BillingPayment{}, err
	}

	if created.Status == entities.PaymentStatusAprovado {
		paid, err := applyPayment(inv, created.Amount, now)
		if err != nil {
			log.Printf("[payment][usecase] applying payment failed invoice_id=%s payment_id=%s err=%v", invoiceID, created.ID, err)
			return entities.BillingPayment{}, err
		}
		if _, err := u.invoiceRepo.Update(ctx, paid); err != nil {
			log.Printf("[payment][usecase] invoice update failed invoice_id=%s payment_id=%s err=%v", invoiceID, created.ID, err)
			return entities.BillingPayment{}, err
		}
		log.Printf("[payment][usecase] invoice settled invoice_id=%s status=%s", invoiceID, paid.Status)
	}
	log.Printf("[payment][usecase] create-and-approve success invoice_id=%s payment_id=%s status=%s", invoiceID, created.ID, created.Status)
	return created, nil
}

// mapProviderStatus translates a Mercado Pago payment status.
func mapProviderStatus(s string) entities.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "authorized":
		return entities.PaymentStatusAprovado
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.PaymentStatusNegado
	}
	return entities.PaymentStatusPendente
}

func mockProviderResponse(payload json.RawMessage, invoiceID string, amount float64, now time.Time) (string, string, json.RawMessage, error) {
	id := strconv.FormatInt(now.UnixNano(), 10)
	ts := now.Format(time.RFC3339Nano)
	resp := map[string]any{}
	if len(payload) > 0 && json.Valid(payload) {
		_ = json.Unmarshal(payload, &resp)
	}
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = ts
	resp["date_approved"] = ts
	resp["external_reference"] = invoiceID
	resp["transaction_amount"] = amount
	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	return id, "approved", b, nil
}

func mapGatewayError(err error) error {
	switch {
	case isGatewayCustomerNotFound(err):
		return ErrPaymentGatewayCustomerNotFound
	case isGatewayInvalidUsers(err):
		return ErrPaymentGatewayInvalidUsers
	case isGatewayUnauthorized(err):
		return ErrPaymentGatewayUnauthorized
	case isGatewayBadRequest(err):
		return ErrPaymentGatewayBadRequest
	}
	return err
}

func hasNonEmptyString(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	v, ok := m["payer"]
	if !ok {
		return false
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}

	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// In sandbox, either payer.id or payer.email may be used.
	// Fill email only when both are missing.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if email := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")); email != "" {
			payer["email"] = email
		} else if strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
			// Sandbox-safe fallback recommended by Mercado Pago examples.
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

func normalizeSandboxPayerFromUserID(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		return
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}

	if !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}

	accessToken := strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if !strings.HasPrefix(accessToken, "TEST-") {
		return
	}

	configuredUserID := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID"))
	configuredEmail := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL"))
	if configuredUserID == "" || configuredEmail == "" {
		return
	}

	rawID := strings.TrimSpace(fmt.Sprintf("%v", payer["id"]))
	if rawID == "" || rawID == "<nil>" || rawID != configuredUserID {
		return
	}

	payer["email"] = configuredEmail
	delete(payer, "id")
	log.Printf("[payment][usecase] mapped sandbox payer user_id to payer.email")
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}

func (u *BillingPaymentUseCase) GetByID(ctx context.Context, id string) (entities.BillingPayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.BillingPayment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if p.ID == "" {
		return entities.BillingPayment{}, ErrBillingPaymentNotFound
	}
	return p, nil
}

func (u *BillingPaymentUseCase) ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.BillingPayment, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, ErrInvalidPaymentInvoiceID
	}
	return u.repo.ListByInvoiceID(ctx, invoiceID)
}
