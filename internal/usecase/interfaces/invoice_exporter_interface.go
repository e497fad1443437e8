package interfaces

import (
	"context"

	"fieldledger/internal/domain/entities"
)

// IInvoiceExporter renders invoices into a downloadable document.
type IInvoiceExporter interface {
	ExportInvoices(ctx context.Context, invoices []entities.Invoice) ([]byte, error)
	ContentType() string
}
