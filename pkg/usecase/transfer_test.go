package usecase_test

import (
	"context"
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/secmon-lab/ccirating/pkg/repository/memory"
	"github.com/secmon-lab/ccirating/pkg/service/transfer"
	"github.com/secmon-lab/ccirating/pkg/usecase"
)

func TestTransferUseCase_ExportImport(t *testing.T) {
	ctx := context.Background()
	src := usecase.New(memory.New())

	op, err := src.Operation.CreateOperation(ctx, src.Operation.NewOperation())
	gt.NoError(t, err).Required()
	rated, err := src.Rating.CalculateAndSave(ctx, op.ID, usecase.SaveRequest{Justification: "ok", Reference: "ref-1"})
	gt.NoError(t, err).Required()

	doc, err := src.Transfer.Export(ctx, op.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, doc.OperationID).Equal(op.ID.String())

	dst := usecase.New(memory.New())
	result, err := dst.Transfer.Import(ctx, doc)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Mismatch).False()

	got := result.Operation
	gt.Value(t, got.ID).Equal(op.ID)
	gt.Value(t, got.Analysis.Scores).Equal(rated.Analysis.Scores)
	gt.Value(t, got.Analysis.Result.RatingFinal).Equal(rated.Analysis.Result.RatingFinal)
	gt.Bool(t, math.Abs(got.Analysis.Result.NotaMedia-rated.Analysis.Result.NotaMedia) < 1e-9).True()
	gt.Value(t, got.Analysis.Reference).Equal("ref-1")
}

func TestTransferUseCase_ImportRecomputes(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())

	ltv := 50.0
	demanda := int64(300000)
	comp := 10.0
	doc := &transfer.Document{
		Name:            "CCI Importada",
		LTV:             &ltv,
		Demanda:         &demanda,
		Comprometimento: &comp,
		Scores:          map[string]int{"ltv": 2, "demanda": 2, "behavior": 2, "comprometimento": 2, "inadimplencia": 2},
		Result:          &transfer.ResultDocument{NotaMedia: 2, NotaFinal: 2, RatingFinal: "C"},
	}

	result, err := uc.Transfer.Import(ctx, doc)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Mismatch).True()
	gt.Value(t, result.Operation.Rating()).Equal(types.RatingAPlus)

	stored, err := uc.Operation.GetOperation(ctx, result.Operation.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Rating()).Equal(types.RatingAPlus)
}

func TestTransferUseCase_ImportWithoutRating(t *testing.T) {
	uc := usecase.New(memory.New())

	result, err := uc.Transfer.Import(context.Background(), &transfer.Document{Name: "Sem rating"})
	gt.NoError(t, err).Required()
	gt.Value(t, result.Operation.Analysis).Nil()
	gt.Value(t, result.Operation.Inputs.LTV).Equal(transfer.MissingLTV)
	gt.Value(t, result.Operation.Rating()).Equal(types.RatingNA)
}

func TestTransferUseCase_Errors(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	_, err := uc.Transfer.Export(ctx, model.NewOperationID())
	gt.Error(t, err).Is(usecase.ErrOperationNotFound)

	_, err = uc.Transfer.Import(ctx, &transfer.Document{Indexer: "SELIC"})
	gt.Error(t, err).Is(usecase.ErrInvalidInput)

	_, err = uc.Transfer.Import(ctx, nil)
	gt.Error(t, err).Is(usecase.ErrInvalidInput)
}
