package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/shopspring/decimal"
)

func TestNewOperation_Defaults(t *testing.T) {
	op := model.NewOperation(model.DefaultOperationDefaults())

	gt.String(t, op.ID.String()).NotEqual("")
	gt.Value(t, op.Name).Equal("Nova Operação")
	gt.Value(t, op.Code).Equal("CCI-NEW")
	gt.Value(t, op.Indexer).Equal(types.IndexerIPCA)
	gt.Value(t, op.Amortization).Equal(types.AmortizationSAC)
	gt.Value(t, op.TermMonths).Equal(120)
	gt.B(t, op.Volume.Equal(decimal.NewFromInt(1_000_000))).True()
	gt.Value(t, op.MaturityDate).Equal(time.Date(2034, time.May, 1, 0, 0, 0, 0, time.UTC))
	gt.Value(t, op.Inputs.LTV).Equal(75.0)
	gt.Value(t, op.Inputs.Demanda).Equal(int64(150000))
	gt.Value(t, op.Rating()).Equal(types.RatingNA)
	gt.NoError(t, op.Validate())
}

func TestNewOperation_UniqueIDs(t *testing.T) {
	a := model.NewOperation(model.DefaultOperationDefaults())
	b := model.NewOperation(model.DefaultOperationDefaults())
	gt.Value(t, a.ID).NotEqual(b.ID)
}

func TestOperation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(op *model.Operation)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(op *model.Operation) {},
		},
		{
			name:    "empty name",
			mutate:  func(op *model.Operation) { op.Name = "" },
			wantErr: model.ErrInvalidOperation,
		},
		{
			name:    "empty ID",
			mutate:  func(op *model.Operation) { op.ID = "" },
			wantErr: model.ErrInvalidOperation,
		},
		{
			name:    "negative volume",
			mutate:  func(op *model.Operation) { op.Volume = decimal.NewFromInt(-1) },
			wantErr: model.ErrInvalidOperation,
		},
		{
			name:    "unknown indexer",
			mutate:  func(op *model.Operation) { op.Indexer = "SELIC +" },
			wantErr: model.ErrInvalidOperation,
		},
		{
			name:    "unknown amortization",
			mutate:  func(op *model.Operation) { op.Amortization = "bullet" },
			wantErr: model.ErrInvalidOperation,
		},
		{
			name: "maturity before issue",
			mutate: func(op *model.Operation) {
				op.MaturityDate = op.IssueDate.AddDate(0, -1, 0)
			},
			wantErr: model.ErrInvalidOperation,
		},
		{
			name:    "negative behavior count",
			mutate:  func(op *model.Operation) { op.Inputs.Behavior60To90 = -1 },
			wantErr: model.ErrInvalidInput,
		},
		{
			name:    "negative demanda",
			mutate:  func(op *model.Operation) { op.Inputs.Demanda = -10 },
			wantErr: model.ErrInvalidInput,
		},
		{
			name:   "ltv far above range is still accepted",
			mutate: func(op *model.Operation) { op.Inputs.LTV = 500 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := model.NewOperation(model.DefaultOperationDefaults())
			tt.mutate(op)
			err := op.Validate()
			if tt.wantErr == nil {
				gt.NoError(t, err)
				return
			}
			gt.Bool(t, errors.Is(err, tt.wantErr)).True()
		})
	}
}

func TestOperation_Copy(t *testing.T) {
	op := model.NewOperation(model.DefaultOperationDefaults())
	op.Analysis = &model.Analysis{
		Result: model.FinalRating{NotaMedia: 8, NotaFinal: types.Grade8, RatingFinal: types.RatingA},
	}

	copied := op.Copy()
	copied.Analysis.Result.RatingFinal = types.RatingC
	copied.Name = "changed"

	gt.Value(t, op.Rating()).Equal(types.RatingA)
	gt.Value(t, op.Name).Equal("Nova Operação")
	gt.Value(t, copied.Rating()).Equal(types.RatingC)
}

func TestAttributeScores_Grades(t *testing.T) {
	s := model.AttributeScores{
		LTV:             types.Grade10,
		Demanda:         types.Grade8,
		Behavior:        types.Grade6,
		Comprometimento: types.Grade4,
		Inadimplencia:   types.Grade2,
	}
	gt.Value(t, s.Grades()).Equal([]types.Grade{10, 8, 6, 4, 2})
	gt.Value(t, s.Grade(types.AttributeComprometimento)).Equal(types.Grade4)
}
