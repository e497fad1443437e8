package repository

import (
	"context"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase/interfaces"
)

const defaultInvoicesTableName = "invoices"

type invoiceItem struct {
	ID         string         `dynamodbav:"id"`
	Number     string         `dynamodbav:"number"`
	CustomerID string         `dynamodbav:"customer_id"`
	EstimateID string         `dynamodbav:"estimate_id,omitempty"`
	JobIDs     []string       `dynamodbav:"job_ids,omitempty"`
	LineItems  []lineItemItem `dynamodbav:"line_items"`
	TaxRate    string         `dynamodbav:"tax_rate"`
	Subtotal   string         `dynamodbav:"subtotal"`
	TaxAmount  string         `dynamodbav:"tax_amount"`
	Total      string         `dynamodbav:"total"`
	AmountPaid string         `dynamodbav:"amount_paid"`
	Status     string         `dynamodbav:"status"`
	DueDate    string         `dynamodbav:"due_date,omitempty"`
	Notes      string         `dynamodbav:"notes,omitempty"`
	PaidAt     string         `dynamodbav:"paid_at,omitempty"`
	CreatedAt  string         `dynamodbav:"created_at"`
	UpdatedAt  string         `dynamodbav:"updated_at"`
}

// InvoiceDynamoRepository persists Invoice entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The stored status is the last one persisted; overdue is re-resolved by
// the use case on read.
type InvoiceDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb DynamoAPI, tableName string) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:       ddb,
		tableName: tableOrEnv(tableName, "INVOICES_TABLE", defaultInvoicesTableName),
	}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toInvoiceItem(inv)); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	it, found, err := getItem[invoiceItem](ctx, r.ddb, r.tableName, id)
	if err != nil || !found {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func (r *InvoiceDynamoRepository) List(ctx context.Context) ([]entities.Invoice, error) {
	items, err := scanAll[invoiceItem](ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Invoice, 0, len(items))
	for _, it := range items {
		out = append(out, fromInvoiceItem(it))
	}
	return out, nil
}

func (r *InvoiceDynamoRepository) Update(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	ok, err := putExisting(ctx, r.ddb, r.tableName, toInvoiceItem(inv))
	if err != nil || !ok {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	return invoiceItem{
		ID:         inv.ID,
		Number:     inv.Number,
		CustomerID: inv.CustomerID,
		EstimateID: inv.EstimateID,
		JobIDs:     inv.JobIDs,
		LineItems:  toLineItemItems(inv.LineItems),
		TaxRate:    floatToString(inv.TaxRate),
		Subtotal:   floatToString(inv.Subtotal),
		TaxAmount:  floatToString(inv.TaxAmount),
		Total:      floatToString(inv.Total),
		AmountPaid: floatToString(inv.AmountPaid),
		Status:     string(inv.Status),
		DueDate:    formatTime(inv.DueDate),
		Notes:      inv.Notes,
		PaidAt:     formatTimePtr(inv.PaidAt),
		CreatedAt:  formatTime(inv.CreatedAt),
		UpdatedAt:  formatTime(inv.UpdatedAt),
	}
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	return entities.Invoice{
		ID:         it.ID,
		Number:     it.Number,
		CustomerID: it.CustomerID,
		EstimateID: it.EstimateID,
		JobIDs:     it.JobIDs,
		LineItems:  fromLineItemItems(it.LineItems),
		TaxRate:    parseFloat(it.TaxRate),
		Subtotal:   parseFloat(it.Subtotal),
		TaxAmount:  parseFloat(it.TaxAmount),
		Total:      parseFloat(it.Total),
		AmountPaid: parseFloat(it.AmountPaid),
		Status:     entities.InvoiceStatus(it.Status),
		DueDate:    parseTime(it.DueDate),
		Notes:      it.Notes,
		PaidAt:     parseTimePtr(it.PaidAt),
		CreatedAt:  parseTime(it.CreatedAt),
		UpdatedAt:  parseTime(it.UpdatedAt),
	}
}
