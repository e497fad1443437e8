package repository

import (
	"context"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase/interfaces"
)

const defaultEstimatesTableName = "estimates"

type estimateItem struct {
	ID         string         `dynamodbav:"id"`
	Number     string         `dynamodbav:"number"`
	CustomerID string         `dynamodbav:"customer_id,omitempty"`
	LeadID     string         `dynamodbav:"lead_id,omitempty"`
	JobID      string         `dynamodbav:"job_id,omitempty"`
	Title      string         `dynamodbav:"title,omitempty"`
	LineItems  []lineItemItem `dynamodbav:"line_items"`
	TaxRate    string         `dynamodbav:"tax_rate"`
	Subtotal   string         `dynamodbav:"subtotal"`
	TaxAmount  string         `dynamodbav:"tax_amount"`
	Total      string         `dynamodbav:"total"`
	Status     string         `dynamodbav:"status"`
	Notes      string         `dynamodbav:"notes,omitempty"`
	ValidUntil string         `dynamodbav:"valid_until,omitempty"`
	CreatedAt  string         `dynamodbav:"created_at"`
	UpdatedAt  string         `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists Estimate entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Money is stored as decimal strings so the computed totals survive the
// round trip unchanged.
type EstimateDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb DynamoAPI, tableName string) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{
		ddb:       ddb,
		tableName: tableOrEnv(tableName, "ESTIMATES_TABLE", defaultEstimatesTableName),
	}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toEstimateItem(e)); err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	it, found, err := getItem[estimateItem](ctx, r.ddb, r.tableName, id)
	if err != nil || !found {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

func (r *EstimateDynamoRepository) List(ctx context.Context) ([]entities.Estimate, error) {
	items, err := scanAll[estimateItem](ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Estimate, 0, len(items))
	for _, it := range items {
		out = append(out, fromEstimateItem(it))
	}
	return out, nil
}

// Update replaces the stored estimate. A zero Estimate means it does not exist.
func (r *EstimateDynamoRepository) Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	ok, err := putExisting(ctx, r.ddb, r.tableName, toEstimateItem(e))
	if err != nil || !ok {
		return entities.Estimate{}, err
	}
	return e, nil
}

func toEstimateItem(e entities.Estimate) estimateItem {
	return estimateItem{
		ID:         e.ID,
		Number:     e.Number,
		CustomerID: e.CustomerID,
		LeadID:     e.LeadID,
		JobID:      e.JobID,
		Title:      e.Title,
		LineItems:  toLineItemItems(e.LineItems),
		TaxRate:    floatToString(e.TaxRate),
		Subtotal:   floatToString(e.Subtotal),
		TaxAmount:  floatToString(e.TaxAmount),
		Total:      floatToString(e.Total),
		Status:     string(e.Status),
		Notes:      e.Notes,
		ValidUntil: formatTime(e.ValidUntil),
		CreatedAt:  formatTime(e.CreatedAt),
		UpdatedAt:  formatTime(e.UpdatedAt),
	}
}

func fromEstimateItem(it estimateItem) entities.Estimate {
	return entities.Estimate{
		ID:         it.ID,
		Number:     it.Number,
		CustomerID: it.CustomerID,
		LeadID:     it.LeadID,
		JobID:      it.JobID,
		Title:      it.Title,
		LineItems:  fromLineItemItems(it.LineItems),
		TaxRate:    parseFloat(it.TaxRate),
		Subtotal:   parseFloat(it.Subtotal),
		TaxAmount:  parseFloat(it.TaxAmount),
		Total:      parseFloat(it.Total),
		Status:     entities.EstimateStatus(it.Status),
		Notes:      it.Notes,
		ValidUntil: parseTime(it.ValidUntil),
		CreatedAt:  parseTime(it.CreatedAt),
		UpdatedAt:  parseTime(it.UpdatedAt),
	}
}
