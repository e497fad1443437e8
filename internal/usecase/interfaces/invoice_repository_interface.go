package interfaces

import (
	"context"

	"fieldledger/internal/domain/entities"
)

// IInvoiceRepository abstracts DynamoDB persistence for Invoice.
type IInvoiceRepository interface {
	Create(ctx context.Context, i entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context) ([]entities.Invoice, error)
	Update(ctx context.Context, i entities.Invoice) (entities.Invoice, error)
}
