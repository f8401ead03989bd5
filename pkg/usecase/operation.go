package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
)

type OperationUseCase struct {
	repo     interfaces.Repository
	defaults model.OperationDefaults
}

func NewOperationUseCase(repo interfaces.Repository, defaults model.OperationDefaults) *OperationUseCase {
	return &OperationUseCase{
		repo:     repo,
		defaults: defaults,
	}
}

// NewOperation returns an unsaved operation prefilled with the configured defaults
func (uc *OperationUseCase) NewOperation() *model.Operation {
	return model.NewOperation(uc.defaults)
}

func (uc *OperationUseCase) CreateOperation(ctx context.Context, op *model.Operation) (*model.Operation, error) {
	if op == nil {
		return nil, invalidInput(goerr.New("operation is nil"), "operation is required")
	}

	op = op.Copy()
	if op.ID == "" {
		op.ID = model.NewOperationID()
	}
	if op.MaturityDate.IsZero() && !op.IssueDate.IsZero() {
		op.MaturityDate = op.IssueDate.AddDate(0, op.TermMonths, 0)
	}
	if err := op.Validate(); err != nil {
		return nil, invalidInput(err, "invalid operation", goerr.V(OperationIDKey, op.ID))
	}

	if _, err := uc.repo.Operation().Get(ctx, op.ID); err == nil {
		return nil, invalidInput(goerr.New("operation already exists"), "duplicate operation ID", goerr.V(OperationIDKey, op.ID))
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to check operation", goerr.V(OperationIDKey, op.ID))
	}

	created, err := uc.repo.Operation().Put(ctx, op)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create operation", goerr.V(OperationIDKey, op.ID))
	}

	logging.From(ctx).Info("operation created", "id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateOperation replaces registration data and risk inputs. A saved analysis
// is kept unless op carries its own.
func (uc *OperationUseCase) UpdateOperation(ctx context.Context, op *model.Operation) (*model.Operation, error) {
	if op == nil {
		return nil, invalidInput(goerr.New("operation is nil"), "operation is required")
	}

	existing, err := uc.GetOperation(ctx, op.ID)
	if err != nil {
		return nil, err
	}

	op = op.Copy()
	if op.Analysis == nil {
		op.Analysis = existing.Analysis
	}
	if err := op.Validate(); err != nil {
		return nil, invalidInput(err, "invalid operation", goerr.V(OperationIDKey, op.ID))
	}

	updated, err := uc.repo.Operation().Put(ctx, op)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update operation", goerr.V(OperationIDKey, op.ID))
	}

	return updated, nil
}

func (uc *OperationUseCase) GetOperation(ctx context.Context, id model.OperationID) (*model.Operation, error) {
	op, err := uc.repo.Operation().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrOperationNotFound, "operation not found", goerr.V(OperationIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get operation", goerr.V(OperationIDKey, id))
	}

	return op, nil
}

func (uc *OperationUseCase) ListOperations(ctx context.Context, opts ...interfaces.ListOperationOption) ([]*model.Operation, error) {
	ops, err := uc.repo.Operation().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list operations")
	}

	return ops, nil
}

func (uc *OperationUseCase) DeleteOperation(ctx context.Context, id model.OperationID) error {
	if err := uc.repo.Operation().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrOperationNotFound, "operation not found", goerr.V(OperationIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete operation", goerr.V(OperationIDKey, id))
	}

	logging.From(ctx).Info("operation deleted", "id", id)
	return nil
}

func getOperation(ctx context.Context, repo interfaces.Repository, id model.OperationID) (*model.Operation, error) {
	return (&OperationUseCase{repo: repo}).GetOperation(ctx, id)
}
