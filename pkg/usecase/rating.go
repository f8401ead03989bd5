package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/service/rating"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

type RatingUseCase struct {
	repo        interfaces.Repository
	concurrency int
	now         func() time.Time
}

func NewRatingUseCase(repo interfaces.Repository, concurrency int) *RatingUseCase {
	if concurrency <= 0 {
		concurrency = defaultRecalcConcurrency
	}
	return &RatingUseCase{
		repo:        repo,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Calculate rates in without touching storage
func (uc *RatingUseCase) Calculate(in model.RiskInputs) (*rating.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, invalidInput(err, "invalid risk inputs")
	}

	res := rating.Calculate(in)
	return &res, nil
}

// SaveRequest carries what an analyst submits when saving a rating
type SaveRequest struct {
	// Inputs replaces the stored risk inputs when set
	Inputs        *model.RiskInputs
	Justification string
	Reference     string
}

// CalculateAndSave rates the operation and persists the result together with the inputs it was computed from
func (uc *RatingUseCase) CalculateAndSave(ctx context.Context, id model.OperationID, req SaveRequest) (*model.Operation, error) {
	op, err := getOperation(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if req.Inputs != nil {
		op.Inputs = *req.Inputs
	}
	res, err := uc.Calculate(op.Inputs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to calculate rating", goerr.V(OperationIDKey, id))
	}

	op.Justification = req.Justification
	op.Analysis = &model.Analysis{
		Reference:     req.Reference,
		Inputs:        op.Inputs,
		Scores:        res.Scores,
		Result:        res.Final,
		Justification: req.Justification,
		CalculatedAt:  uc.now(),
	}

	saved, err := uc.repo.Operation().Put(ctx, op)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save rating", goerr.V(OperationIDKey, id))
	}

	logging.From(ctx).Info("rating saved",
		"id", saved.ID,
		"nota_media", res.Final.NotaMedia,
		"rating", res.Final.RatingFinal,
	)
	return saved, nil
}

// RecalcSummary reports the outcome of Recalculate
type RecalcSummary struct {
	Total   int                 `json:"total"`
	Rated   int                 `json:"rated"`
	Changed []model.OperationID `json:"changed"`
}

// Recalculate re-rates every stored operation that already has an analysis,
// using the inputs saved with that analysis. Operations whose result does not
// change are left untouched.
func (uc *RatingUseCase) Recalculate(ctx context.Context) (*RecalcSummary, error) {
	ops, err := uc.repo.Operation().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list operations")
	}

	summary := &RecalcSummary{Total: len(ops), Changed: []model.OperationID{}}
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.concurrency)

	for _, op := range ops {
		if op.Analysis == nil {
			continue
		}
		summary.Rated++

		eg.Go(func() error {
			res := rating.Calculate(op.Analysis.Inputs)
			if res.Scores == op.Analysis.Scores && res.Final == op.Analysis.Result {
				return nil
			}

			logging.From(ctx).Info("rating changed on recalculation",
				"id", op.ID,
				"before", op.Analysis.Result.RatingFinal,
				"after", res.Final.RatingFinal,
			)

			op.Analysis.Scores = res.Scores
			op.Analysis.Result = res.Final
			op.Analysis.CalculatedAt = uc.now()
			if _, err := uc.repo.Operation().Put(ctx, op); err != nil {
				return goerr.Wrap(err, "failed to save recalculated rating", goerr.V(OperationIDKey, op.ID))
			}

			mu.Lock()
			summary.Changed = append(summary.Changed, op.ID)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return summary, nil
}
