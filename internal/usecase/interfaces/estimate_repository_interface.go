package interfaces

import (
	"context"

	"fieldledger/internal/domain/entities"
)

// IEstimateRepository abstracts DynamoDB persistence for Estimate.
//
// The ledger must be able to:
//   - create a numbered draft estimate
//   - replace line items while the estimate is a draft
//   - move it through its status machine and mark it converted
type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	List(ctx context.Context) ([]entities.Estimate, error)
	Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
}
