package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/repository/memory"
	"github.com/secmon-lab/ccirating/pkg/service/storage"
	"github.com/secmon-lab/ccirating/pkg/usecase"
)

func TestReportUseCase(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	uc := usecase.New(memory.New(), usecase.WithReportStorage(store), usecase.WithReportTitle("Relatório Interno"))

	op := uc.Operation.NewOperation()
	op.Name = "CCI Residencial Alfa"
	op, err := uc.Operation.CreateOperation(ctx, op)
	gt.NoError(t, err).Required()
	_, err = uc.Rating.CalculateAndSave(ctx, op.ID, usecase.SaveRequest{Justification: "Sólida."})
	gt.NoError(t, err).Required()

	t.Run("render", func(t *testing.T) {
		r, err := uc.Report.Render(ctx, op.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, r.FileName).Equal("Relatorio_CCI_CCI_Residencial_Alfa.pdf")
		gt.Bool(t, bytes.HasPrefix(r.Data, []byte("%PDF-"))).True()
	})

	t.Run("markdown", func(t *testing.T) {
		md, err := uc.Report.Markdown(ctx, op.ID)
		gt.NoError(t, err).Required()
		gt.String(t, md).Contains("**Rating Final:** A")
		gt.String(t, md).Contains("Sólida.")
	})

	t.Run("publish", func(t *testing.T) {
		location, err := uc.Report.Publish(ctx, op.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, location).Equal("memory://" + op.ID.String() + "/Relatorio_CCI_CCI_Residencial_Alfa.pdf")

		obj, ok := store.Get(op.ID.String() + "/Relatorio_CCI_CCI_Residencial_Alfa.pdf")
		gt.Bool(t, ok).True()
		gt.Value(t, obj.ContentType).Equal("application/pdf")
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := uc.Report.Render(ctx, model.NewOperationID())
		gt.Error(t, err).Is(usecase.ErrOperationNotFound)
	})

	t.Run("publish without storage", func(t *testing.T) {
		bare := usecase.New(memory.New())
		_, err := bare.Report.Publish(ctx, op.ID)
		gt.Error(t, err).Is(usecase.ErrReportStorageNotConfigured)
	})
}
