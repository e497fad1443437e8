package interfaces

import (
	"context"

	"fieldledger/internal/domain/entities"
)

// ILeadRepository abstracts DynamoDB persistence for Lead.
//
// Update replaces the whole item and returns a zero Lead when it does not exist.
type ILeadRepository interface {
	Create(ctx context.Context, l entities.Lead) (entities.Lead, error)
	GetByID(ctx context.Context, id string) (entities.Lead, error)
	List(ctx context.Context) ([]entities.Lead, error)
	Update(ctx context.Context, l entities.Lead) (entities.Lead, error)
}
