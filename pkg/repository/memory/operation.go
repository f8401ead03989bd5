package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
)

type operationRepository struct {
	mu         sync.RWMutex
	operations map[model.OperationID]*model.Operation
}

func newOperationRepository() *operationRepository {
	return &operationRepository{
		operations: make(map[model.OperationID]*model.Operation),
	}
}

func (r *operationRepository) Put(ctx context.Context, op *model.Operation) (*model.Operation, error) {
	if op.ID == "" {
		return nil, goerr.New("operation ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := op.Copy()
	stored.CreatedAt = now
	if existing, ok := r.operations[op.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = now

	r.operations[stored.ID] = stored
	return stored.Copy(), nil
}

func (r *operationRepository) Get(ctx context.Context, id model.OperationID) (*model.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, exists := r.operations[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "operation not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return op.Copy(), nil
}

func (r *operationRepository) List(ctx context.Context, opts ...interfaces.ListOperationOption) ([]*model.Operation, error) {
	cfg := interfaces.BuildListOperationConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]*model.Operation, 0, len(r.operations))
	for _, op := range r.operations {
		if rating := cfg.Rating(); rating != nil && op.Rating() != *rating {
			continue
		}
		ops = append(ops, op.Copy())
	}

	sort.Slice(ops, func(i, j int) bool {
		if !ops[i].UpdatedAt.Equal(ops[j].UpdatedAt) {
			return ops[i].UpdatedAt.After(ops[j].UpdatedAt)
		}
		return ops[i].ID < ops[j].ID
	})

	return ops, nil
}

func (r *operationRepository) Delete(ctx context.Context, id model.OperationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.operations[id]; !exists {
		return goerr.Wrap(ErrNotFound, "operation not found", goerr.V("id", id))
	}

	delete(r.operations, id)
	return nil
}
