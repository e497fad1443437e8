package repository

import (
	"context"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase/interfaces"
)

const defaultLeadsTableName = "leads"

type leadItem struct {
	ID             string `dynamodbav:"id"`
	Name           string `dynamodbav:"name"`
	Email          string `dynamodbav:"email,omitempty"`
	Phone          string `dynamodbav:"phone,omitempty"`
	Address        string `dynamodbav:"address,omitempty"`
	Source         string `dynamodbav:"source,omitempty"`
	Status         string `dynamodbav:"status"`
	EstimatedValue string `dynamodbav:"estimated_value"`
	Notes          string `dynamodbav:"notes,omitempty"`
	CustomerID     string `dynamodbav:"customer_id,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

// LeadDynamoRepository persists Lead entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type LeadDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ILeadRepository = (*LeadDynamoRepository)(nil)

func NewLeadDynamoRepository(ddb DynamoAPI, tableName string) *LeadDynamoRepository {
	return &LeadDynamoRepository{
		ddb:       ddb,
		tableName: tableOrEnv(tableName, "LEADS_TABLE", defaultLeadsTableName),
	}
}

func (r *LeadDynamoRepository) Create(ctx context.Context, l entities.Lead) (entities.Lead, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toLeadItem(l)); err != nil {
		return entities.Lead{}, err
	}
	return l, nil
}

func (r *LeadDynamoRepository) GetByID(ctx context.Context, id string) (entities.Lead, error) {
	it, found, err := getItem[leadItem](ctx, r.ddb, r.tableName, id)
	if err != nil || !found {
		return entities.Lead{}, err
	}
	return fromLeadItem(it), nil
}

func (r *LeadDynamoRepository) List(ctx context.Context) ([]entities.Lead, error) {
	items, err := scanAll[leadItem](ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Lead, 0, len(items))
	for _, it := range items {
		out = append(out, fromLeadItem(it))
	}
	return out, nil
}

func (r *LeadDynamoRepository) Update(ctx context.Context, l entities.Lead) (entities.Lead, error) {
	ok, err := putExisting(ctx, r.ddb, r.tableName, toLeadItem(l))
	if err != nil || !ok {
		return entities.Lead{}, err
	}
	return l, nil
}

func toLeadItem(l entities.Lead) leadItem {
	return leadItem{
		ID:             l.ID,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Address:        l.Address,
		Source:         l.Source,
		Status:         string(l.Status),
		EstimatedValue: floatToString(l.EstimatedValue),
		Notes:          l.Notes,
		CustomerID:     l.CustomerID,
		CreatedAt:      formatTime(l.CreatedAt),
		UpdatedAt:      formatTime(l.UpdatedAt),
	}
}

func fromLeadItem(it leadItem) entities.Lead {
	return entities.Lead{
		ID:             it.ID,
		Name:           it.Name,
		Email:          it.Email,
		Phone:          it.Phone,
		Address:        it.Address,
		Source:         it.Source,
		Status:         entities.LeadStatus(it.Status),
		EstimatedValue: parseFloat(it.EstimatedValue),
		Notes:          it.Notes,
		CustomerID:     it.CustomerID,
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
}
