package interfaces

import (
	"context"

	"fieldledger/internal/domain/entities"
)

// IBillingPaymentRepository abstracts DynamoDB persistence for BillingPayment.

type IBillingPaymentRepository interface {
	Create(ctx context.Context, p entities.BillingPayment) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.BillingPayment, error)
}
