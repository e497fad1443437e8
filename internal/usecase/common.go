package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase/interfaces"
)

var ErrSequenceUnavailable = errors.New("document sequence unavailable")

// paymentTolerance matches the ledger's half-cent settle tolerance.
const paymentTolerance = 0.005

func utcNow() time.Time { return time.Now().UTC() }

// nextDocumentNumber reserves the next sequence value for prefix in the
// month of now and formats it.
func nextDocumentNumber(ctx context.Context, seq interfaces.ISequenceRepository, prefix string, now time.Time) (string, error) {
	if seq == nil {
		return "", ErrSequenceUnavailable
	}
	year, month := now.Year(), int(now.Month())
	n, err := seq.Next(ctx, prefix, year, month)
	if err != nil {
		return "", fmt.Errorf("next %s sequence: %w", prefix, err)
	}
	return ledger.AllocateDocumentNumber(prefix, year, month, n)
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func resolveTaxRate(requested *float64, def float64) float64 {
	if requested == nil {
		return def
	}
	return *requested
}

func invoiceContext(inv entities.Invoice, now time.Time) ledger.InvoiceContext {
	return ledger.InvoiceContext{
		AmountPaid: inv.AmountPaid,
		Total:      inv.Total,
		DueDate:    inv.DueDate,
		Now:        now,
	}
}

func payable(s entities.InvoiceStatus) bool {
	switch s {
	case entities.InvoiceStatusSent, entities.InvoiceStatusViewed, entities.InvoiceStatusPartial, entities.InvoiceStatusOverdue:
		return true
	}
	return false
}

// applyPayment adds amount to the invoice and lets the ledger resolve the
// resulting status. The invoice must be payable and amount must not exceed
// the outstanding balance.
func applyPayment(inv entities.Invoice, amount float64, now time.Time) (entities.Invoice, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return entities.Invoice{}, ErrInvalidPaymentAmount
	}
	if !payable(inv.Status) {
		return entities.Invoice{}, ErrInvoiceNotPayable
	}
	if amount > inv.Balance()+paymentTolerance {
		return entities.Invoice{}, ErrOverpayment
	}

	inv.AmountPaid += amount
	next := ledger.ResolveInvoiceStatus(inv.Status, invoiceContext(inv, now))
	return setInvoiceStatus(inv, next, now), nil
}

// setInvoiceStatus moves inv to next, stamping PaidAt the first time it is paid.
func setInvoiceStatus(inv entities.Invoice, next entities.InvoiceStatus, now time.Time) entities.Invoice {
	if next == entities.InvoiceStatusPaid && inv.PaidAt == nil {
		paidAt := now
		inv.PaidAt = &paidAt
	}
	inv.Status = next
	inv.UpdatedAt = now
	return inv
}
