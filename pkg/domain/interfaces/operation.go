package interfaces

import (
	"context"

	"github.com/secmon-lab/ccirating/pkg/domain/model"
)

// OperationRepository stores one document per operation, keyed by operation ID
type OperationRepository interface {
	// Put creates or replaces an operation. CreatedAt is kept from the stored
	// document when it exists and UpdatedAt is always stamped.
	Put(ctx context.Context, op *model.Operation) (*model.Operation, error)

	// Get retrieves an operation by ID
	Get(ctx context.Context, id model.OperationID) (*model.Operation, error)

	// List retrieves operations, most recently updated first
	List(ctx context.Context, opts ...ListOperationOption) ([]*model.Operation, error)

	// Delete deletes an operation by ID
	Delete(ctx context.Context, id model.OperationID) error
}
