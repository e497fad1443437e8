package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidInvoiceID     = errors.New("invalid invoice id")
	ErrInvalidInvoiceOwner  = errors.New("invoice requires a customer")
	ErrInvoiceNotPayable    = errors.New("invoice does not accept payments in its current status")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrOverpayment          = errors.New("payment exceeds outstanding balance")
)

// InvoiceInput is the caller-supplied part of a new invoice. A nil TaxRate
// or DueDate takes the configured default.
type InvoiceInput struct {
	CustomerID string
	EstimateID string
	Notes      string
	LineItems  []entities.LineItem
	TaxRate    *float64
	DueDate    *time.Time
}

// InvoiceDefaults are the billing terms applied when the caller leaves one unset.
type InvoiceDefaults struct {
	TaxRate float64
	DueDays int
}

func (d InvoiceDefaults) terms(now time.Time) ledger.InvoiceTerms {
	return ledger.InvoiceTerms{TaxRate: d.TaxRate, DueDate: now.AddDate(0, 0, d.DueDays), IssuedAt: now}
}

// IInvoiceUseCase exposes invoice operations.
//
// Overdue is evaluated lazily: GetByID and List re-resolve the status against
// the current time and persist it when it changed.
type IInvoiceUseCase interface {
	Create(ctx context.Context, in InvoiceInput) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context) ([]entities.Invoice, error)
	Send(ctx context.Context, id string) (entities.Invoice, error)
	MarkViewed(ctx context.Context, id string) (entities.Invoice, error)
	RecordPayment(ctx context.Context, id string, amount float64) (entities.Invoice, error)
}

type InvoiceUseCase struct {
	repo     interfaces.IInvoiceRepository
	seq      interfaces.ISequenceRepository
	defaults InvoiceDefaults
	Now      func() time.Time
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(repo interfaces.IInvoiceRepository, seq interfaces.ISequenceRepository, defaults InvoiceDefaults) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, seq: seq, defaults: defaults, Now: utcNow}
}

func (u *InvoiceUseCase) Create(ctx context.Context, in InvoiceInput) (entities.Invoice, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	if in.CustomerID == "" {
		return entities.Invoice{}, ErrInvalidInvoiceOwner
	}

	taxRate := resolveTaxRate(in.TaxRate, u.defaults.TaxRate)
	items, totals, err := ledger.Recalculate(in.LineItems, taxRate)
	if err != nil {
		return entities.Invoice{}, err
	}

	now := u.Now()
	due := now.AddDate(0, 0, u.defaults.DueDays)
	if in.DueDate != nil {
		due = in.DueDate.UTC()
	}

	inv := entities.Invoice{
		CustomerID: in.CustomerID,
		EstimateID: strings.TrimSpace(in.EstimateID),
		LineItems:  items,
		TaxRate:    taxRate,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		Status:     entities.InvoiceStatusDraft,
		DueDate:    due,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return issueInvoice(ctx, u.repo, u.seq, inv, now)
}

// issueInvoice numbers a draft invoice produced by the caller or the
// conversion pipeline and stores it.
func issueInvoice(ctx context.Context, repo interfaces.IInvoiceRepository, seq interfaces.ISequenceRepository, inv entities.Invoice, now time.Time) (entities.Invoice, error) {
	number, err := nextDocumentNumber(ctx, seq, ledger.PrefixInvoice, now)
	if err != nil {
		log.Printf("[invoice][usecase] number allocation failed customer_id=%s err=%v", inv.CustomerID, err)
		return entities.Invoice{}, err
	}
	inv.ID = uuid.NewString()
	inv.Number = number

	created, err := repo.Create(ctx, inv)
	if err != nil {
		return entities.Invoice{}, err
	}
	log.Printf("[invoice][usecase] issued invoice_id=%s number=%s customer_id=%s total=%.2f", created.ID, created.Number, created.CustomerID, created.Total)
	return created, nil
}

func (u *InvoiceUseCase) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	inv, err := u.load(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	return u.refresh(ctx, inv)
}

func (u *InvoiceUseCase) List(ctx context.Context) ([]entities.Invoice, error) {
	invoices, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, inv := range invoices {
		refreshed, err := u.refresh(ctx, inv)
		if err != nil {
			return nil, err
		}
		invoices[i] = refreshed
	}
	sort.SliceStable(invoices, func(i, j int) bool { return invoices[i].Number > invoices[j].Number })
	return invoices, nil
}

func (u *InvoiceUseCase) Send(ctx context.Context, id string) (entities.Invoice, error) {
	return u.transition(ctx, id, entities.InvoiceStatusSent)
}

func (u *InvoiceUseCase) MarkViewed(ctx context.Context, id string) (entities.Invoice, error) {
	return u.transition(ctx, id, entities.InvoiceStatusViewed)
}

// RecordPayment registers an offline payment (cash, check, transfer).
func (u *InvoiceUseCase) RecordPayment(ctx context.Context, id string, amount float64) (entities.Invoice, error) {
	inv, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}

	paid, err := applyPayment(inv, amount, u.Now())
	if err != nil {
		return entities.Invoice{}, err
	}
	updated, err := u.save(ctx, paid)
	if err != nil {
		return entities.Invoice{}, err
	}
	log.Printf("[invoice][usecase] payment recorded invoice_id=%s amount=%.2f amount_paid=%.2f status=%s", updated.ID, amount, updated.AmountPaid, updated.Status)
	return updated, nil
}

func (u *InvoiceUseCase) transition(ctx context.Context, id string, status entities.InvoiceStatus) (entities.Invoice, error) {
	inv, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}

	now := u.Now()
	next, err := ledger.TransitionInvoice(inv.Status, status, invoiceContext(inv, now))
	if err != nil {
		return entities.Invoice{}, err
	}
	inv.Status = next
	inv.UpdatedAt = now
	return u.save(ctx, inv)
}

func (u *InvoiceUseCase) load(ctx context.Context, id string) (entities.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Invoice{}, ErrInvalidInvoiceID
	}

	inv, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

// refresh persists the status the ledger derives for the current time.
// Drafts and paid invoices only move on explicit actions.
func (u *InvoiceUseCase) refresh(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	if !payable(inv.Status) {
		return inv, nil
	}
	now := u.Now()
	next := ledger.ResolveInvoiceStatus(inv.Status, invoiceContext(inv, now))
	if next == inv.Status {
		return inv, nil
	}
	log.Printf("[invoice][usecase] status refreshed invoice_id=%s from=%s to=%s", inv.ID, inv.Status, next)
	return u.save(ctx, setInvoiceStatus(inv, next, now))
}

func (u *InvoiceUseCase) save(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	updated, err := u.repo.Update(ctx, inv)
	if err != nil {
		return entities.Invoice{}, err
	}
	if updated.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return updated, nil
}
