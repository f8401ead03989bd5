package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/secmon-lab/ccirating/pkg/repository/memory"
	"github.com/secmon-lab/ccirating/pkg/usecase"
)

func TestRatingUseCase_Calculate(t *testing.T) {
	uc := usecase.New(memory.New())

	t.Run("default inputs", func(t *testing.T) {
		res, err := uc.Rating.Calculate(model.DefaultOperationDefaults().Inputs)
		gt.NoError(t, err).Required()
		gt.Number(t, res.Final.NotaMedia).Equal(8.4)
		gt.Value(t, res.Final.NotaFinal).Equal(types.Grade8)
		gt.Value(t, res.Final.RatingFinal).Equal(types.RatingA)
	})

	t.Run("huge late-payment counts rate as worst", func(t *testing.T) {
		res, err := uc.Rating.Calculate(model.RiskInputs{
			LTV:             10,
			Demanda:         250000,
			Comprometimento: 5,
			Behavior60To90:  1 << 62,
			Inad90Plus:      2_000_000_000_000_000_000,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, res.Scores.Behavior).Equal(types.Grade2)
		gt.Value(t, res.Scores.Inadimplencia).Equal(types.Grade2)
		gt.Number(t, res.Final.NotaMedia).Equal(6.8)
		gt.Value(t, res.Final.NotaFinal).Equal(types.Grade6)
		gt.Value(t, res.Final.RatingFinal).Equal(types.RatingAMinus)
	})

	t.Run("negative input is rejected", func(t *testing.T) {
		_, err := uc.Rating.Calculate(model.RiskInputs{LTV: -1})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})
}

func TestRatingUseCase_CalculateAndSave(t *testing.T) {
	t.Run("rates with submitted inputs", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		op, err := uc.Operation.CreateOperation(ctx, uc.Operation.NewOperation())
		gt.NoError(t, err).Required()

		inputs := model.RiskInputs{LTV: 55, Demanda: 250000, Comprometimento: 12}
		saved, err := uc.Rating.CalculateAndSave(ctx, op.ID, usecase.SaveRequest{
			Inputs:        &inputs,
			Justification: "Risco baixo.",
			Reference:     "comite-01",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, saved.Inputs).Equal(inputs)
		gt.Value(t, saved.Justification).Equal("Risco baixo.")
		gt.Value(t, saved.Analysis).NotNil()
		gt.Value(t, saved.Analysis.Inputs).Equal(inputs)
		gt.Value(t, saved.Analysis.Reference).Equal("comite-01")
		gt.Value(t, saved.Rating()).Equal(types.RatingAPlus)
		gt.Bool(t, saved.Analysis.CalculatedAt.IsZero()).False()

		stored, err := repo.Operation().Get(ctx, op.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Rating()).Equal(types.RatingAPlus)
	})

	t.Run("rates with stored inputs when none submitted", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		op, err := uc.Operation.CreateOperation(ctx, uc.Operation.NewOperation())
		gt.NoError(t, err).Required()

		saved, err := uc.Rating.CalculateAndSave(ctx, op.ID, usecase.SaveRequest{})
		gt.NoError(t, err).Required()
		gt.Value(t, saved.Rating()).Equal(types.RatingA)
	})

	t.Run("unknown operation", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Rating.CalculateAndSave(context.Background(), model.NewOperationID(), usecase.SaveRequest{})
		gt.Error(t, err).Is(usecase.ErrOperationNotFound)
	})

	t.Run("invalid inputs are not saved", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		op, err := uc.Operation.CreateOperation(ctx, uc.Operation.NewOperation())
		gt.NoError(t, err).Required()

		_, err = uc.Rating.CalculateAndSave(ctx, op.ID, usecase.SaveRequest{Inputs: &model.RiskInputs{Demanda: -5}})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)

		stored, err := repo.Operation().Get(ctx, op.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Analysis).Nil()
	})
}

func TestRatingUseCase_Recalculate(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithRecalcConcurrency(3))
	ctx := context.Background()

	var stale []model.OperationID
	for i := 0; i < 10; i++ {
		op := uc.Operation.NewOperation()
		op.Name = fmt.Sprintf("CCI %02d", i)
		created, err := uc.Operation.CreateOperation(ctx, op)
		gt.NoError(t, err).Required()

		saved, err := uc.Rating.CalculateAndSave(ctx, created.ID, usecase.SaveRequest{})
		gt.NoError(t, err).Required()

		// corrupt every third snapshot so recalculation has something to fix
		if i%3 == 0 {
			saved.Analysis.Result.RatingFinal = types.RatingC
			saved.Analysis.Result.NotaFinal = types.Grade2
			_, err := repo.Operation().Put(ctx, saved)
			gt.NoError(t, err).Required()
			stale = append(stale, saved.ID)
		}
	}

	unrated, err := uc.Operation.CreateOperation(ctx, uc.Operation.NewOperation())
	gt.NoError(t, err).Required()

	summary, err := uc.Rating.Recalculate(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, summary.Total).Equal(11)
	gt.Value(t, summary.Rated).Equal(10)
	gt.A(t, summary.Changed).Length(len(stale))

	for _, id := range stale {
		op, err := repo.Operation().Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, op.Rating()).Equal(types.RatingA)
	}

	op, err := repo.Operation().Get(ctx, unrated.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, op.Analysis).Nil()

	again, err := uc.Rating.Recalculate(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, again.Changed).Length(0)
}
