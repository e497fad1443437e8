package repository

import (
	"context"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase/interfaces"
)

const defaultCustomersTableName = "customers"

type customerItem struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Email     string `dynamodbav:"email,omitempty"`
	Phone     string `dynamodbav:"phone,omitempty"`
	Address   string `dynamodbav:"address,omitempty"`
	Notes     string `dynamodbav:"notes,omitempty"`
	LeadID    string `dynamodbav:"lead_id,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// CustomerDynamoRepository persists Customer entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type CustomerDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ICustomerRepository = (*CustomerDynamoRepository)(nil)

// NewCustomerDynamoRepository falls back to CUSTOMERS_TABLE when tableName is empty.
func NewCustomerDynamoRepository(ddb DynamoAPI, tableName string) *CustomerDynamoRepository {
	return &CustomerDynamoRepository{
		ddb:       ddb,
		tableName: tableOrEnv(tableName, "CUSTOMERS_TABLE", defaultCustomersTableName),
	}
}

func (r *CustomerDynamoRepository) Create(ctx context.Context, c entities.Customer) (entities.Customer, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toCustomerItem(c)); err != nil {
		return entities.Customer{}, err
	}
	return c, nil
}

func (r *CustomerDynamoRepository) GetByID(ctx context.Context, id string) (entities.Customer, error) {
	it, found, err := getItem[customerItem](ctx, r.ddb, r.tableName, id)
	if err != nil || !found {
		return entities.Customer{}, err
	}
	return fromCustomerItem(it), nil
}

func (r *CustomerDynamoRepository) List(ctx context.Context) ([]entities.Customer, error) {
	items, err := scanAll[customerItem](ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Customer, 0, len(items))
	for _, it := range items {
		out = append(out, fromCustomerItem(it))
	}
	return out, nil
}

func toCustomerItem(c entities.Customer) customerItem {
	return customerItem{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		LeadID:    c.LeadID,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func fromCustomerItem(it customerItem) entities.Customer {
	return entities.Customer{
		ID:        it.ID,
		Name:      it.Name,
		Email:     it.Email,
		Phone:     it.Phone,
		Address:   it.Address,
		Notes:     it.Notes,
		LeadID:    it.LeadID,
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}
