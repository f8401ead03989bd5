package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/service/rating"
	"github.com/secmon-lab/ccirating/pkg/service/transfer"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
)

type TransferUseCase struct {
	repo     interfaces.Repository
	defaults model.OperationDefaults
}

func NewTransferUseCase(repo interfaces.Repository, defaults model.OperationDefaults) *TransferUseCase {
	return &TransferUseCase{
		repo:     repo,
		defaults: defaults,
	}
}

func (uc *TransferUseCase) Export(ctx context.Context, id model.OperationID) (*transfer.Document, error) {
	op, err := getOperation(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	return transfer.FromOperation(op), nil
}

// ImportResult is the outcome of one Import
type ImportResult struct {
	Operation *model.Operation
	// Mismatch is true when the document's stored rating differs from the one recomputed from its inputs
	Mismatch bool
}

// Import stores the operation described by doc. When doc carries a rating,
// it is recomputed from the imported inputs and the recomputed one is kept.
func (uc *TransferUseCase) Import(ctx context.Context, doc *transfer.Document) (*ImportResult, error) {
	if doc == nil {
		return nil, invalidInput(goerr.New("document is nil"), "document is required")
	}

	op, err := doc.ToOperation(uc.defaults)
	if err != nil {
		return nil, invalidInput(err, "invalid document")
	}
	if err := op.Validate(); err != nil {
		return nil, invalidInput(err, "invalid operation in document", goerr.V(OperationIDKey, op.ID))
	}

	result := &ImportResult{}
	if op.Analysis != nil {
		res := rating.Calculate(op.Inputs)
		if res.Scores != op.Analysis.Scores || res.Final != op.Analysis.Result {
			result.Mismatch = true
			logging.From(ctx).Warn("imported rating differs from recomputed rating",
				"id", op.ID,
				"imported", op.Analysis.Result.RatingFinal,
				"recomputed", res.Final.RatingFinal,
			)
		}
		op.Analysis.Inputs = op.Inputs
		op.Analysis.Scores = res.Scores
		op.Analysis.Result = res.Final
	}

	saved, err := uc.repo.Operation().Put(ctx, op)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save imported operation", goerr.V(OperationIDKey, op.ID))
	}
	result.Operation = saved

	logging.From(ctx).Info("operation imported", "id", saved.ID, "rating", saved.Rating())
	return result, nil
}
