package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase/interfaces"
)

var ErrExporterNotConfigured = errors.New("invoice exporter not configured")

// InvoiceSummary aggregates the receivables of the ledger. Drafts are
// counted but never billed.
type InvoiceSummary struct {
	InvoiceCount int                            `json:"invoice_count"`
	Billed       float64                        `json:"billed"`
	Collected    float64                        `json:"collected"`
	Outstanding  float64                        `json:"outstanding"`
	OverdueCount int                            `json:"overdue_count"`
	ByStatus     map[entities.InvoiceStatus]int `json:"by_status"`
	GeneratedAt  time.Time                      `json:"generated_at"`
}

type IReportUseCase interface {
	Summary(ctx context.Context) (InvoiceSummary, error)
	ExportInvoices(ctx context.Context) (data []byte, contentType string, err error)
}

type ReportUseCase struct {
	invoiceRepo interfaces.IInvoiceRepository
	exporter    interfaces.IInvoiceExporter
	Now         func() time.Time
}

var _ IReportUseCase = (*ReportUseCase)(nil)

func NewReportUseCase(invoiceRepo interfaces.IInvoiceRepository, exporter interfaces.IInvoiceExporter) *ReportUseCase {
	return &ReportUseCase{invoiceRepo: invoiceRepo, exporter: exporter, Now: utcNow}
}

func (u *ReportUseCase) Summary(ctx context.Context) (InvoiceSummary, error) {
	invoices, err := u.current(ctx)
	if err != nil {
		return InvoiceSummary{}, err
	}

	s := InvoiceSummary{ByStatus: make(map[entities.InvoiceStatus]int), GeneratedAt: u.Now()}
	for _, inv := range invoices {
		s.InvoiceCount++
		s.ByStatus[inv.Status]++
		if inv.Status == entities.InvoiceStatusDraft {
			continue
		}
		s.Billed += inv.Total
		s.Collected += inv.AmountPaid
		s.Outstanding += inv.Balance()
		if inv.Status == entities.InvoiceStatusOverdue {
			s.OverdueCount++
		}
	}
	return s, nil
}

// ExportInvoices renders every invoice, newest number first, with the
// configured exporter.
func (u *ReportUseCase) ExportInvoices(ctx context.Context) ([]byte, string, error) {
	if u.exporter == nil {
		return nil, "", ErrExporterNotConfigured
	}
	invoices, err := u.current(ctx)
	if err != nil {
		return nil, "", err
	}
	sort.SliceStable(invoices, func(i, j int) bool { return invoices[i].Number > invoices[j].Number })

	data, err := u.exporter.ExportInvoices(ctx, invoices)
	if err != nil {
		log.Printf("[report][usecase] export failed invoices=%d err=%v", len(invoices), err)
		return nil, "", err
	}
	log.Printf("[report][usecase] export success invoices=%d bytes=%d", len(invoices), len(data))
	return data, u.exporter.ContentType(), nil
}

// current lists invoices with their status resolved for now. Reports are
// read-only, so the resolved status is not persisted here.
func (u *ReportUseCase) current(ctx context.Context) ([]entities.Invoice, error) {
	invoices, err := u.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := u.Now()
	for i, inv := range invoices {
		if payable(inv.Status) {
			invoices[i].Status = ledger.ResolveInvoiceStatus(inv.Status, invoiceContext(inv, now))
		}
	}
	return invoices, nil
}
