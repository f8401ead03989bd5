package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/secmon-lab/ccirating/pkg/service/rating"
	"github.com/secmon-lab/ccirating/pkg/service/report"
	"github.com/shopspring/decimal"
)

func ratedOperation() *model.Operation {
	op := model.NewOperation(model.DefaultOperationDefaults())
	op.Name = "CCI Residencial Alfa"
	res := rating.Calculate(op.Inputs)
	op.Analysis = &model.Analysis{
		Inputs:        op.Inputs,
		Scores:        res.Scores,
		Result:        res.Final,
		Justification: "Carteira pulverizada e garantia sólida.",
		CalculatedAt:  time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
	return op
}

func TestFormatBRL(t *testing.T) {
	testCases := []struct {
		name   string
		amount string
		want   string
	}{
		{"million", "1000000", "R$ 1.000.000,00"},
		{"cents", "2500000.5", "R$ 2.500.000,50"},
		{"small", "999.99", "R$ 999,99"},
		{"thousand", "1000", "R$ 1.000,00"},
		{"zero", "0", "R$ 0,00"},
		{"rounding", "1234.567", "R$ 1.234,57"},
		{"negative", "-1500", "-R$ 1.500,00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := report.FormatBRL(decimal.RequireFromString(tc.amount))
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestFormatDate(t *testing.T) {
	gt.Value(t, report.FormatDate(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))).Equal("01/05/2024")
	gt.Value(t, report.FormatDate(time.Time{})).Equal("-")
}

func TestFileName(t *testing.T) {
	op := &model.Operation{Name: "CCI Residencial Alfa"}
	gt.Value(t, report.FileName(op)).Equal("Relatorio_CCI_CCI_Residencial_Alfa.pdf")
}

func TestNewScorecard(t *testing.T) {
	t.Run("rated operation", func(t *testing.T) {
		card := report.NewScorecard(ratedOperation())

		gt.A(t, card.Rows).Length(5)
		gt.Value(t, card.Rows[0].Label).Equal("1. LTV")
		gt.Value(t, card.Rows[0].Grade).Equal(types.Grade6)
		gt.Value(t, card.Rows[0].Rating).Equal(types.RatingAMinus)
		gt.Value(t, card.Rows[1].Grade).Equal(types.Grade8)
		gt.Value(t, card.Rows[2].Grade).Equal(types.Grade10)
		gt.Number(t, card.Rows[2].Weighted).Equal(2.0)
		gt.Number(t, card.NotaMedia).Equal(8.4)
		gt.Value(t, card.Rating).Equal(types.RatingA)
	})

	t.Run("operation without analysis", func(t *testing.T) {
		card := report.NewScorecard(model.NewOperation(model.DefaultOperationDefaults()))

		gt.A(t, card.Rows).Length(5)
		for _, row := range card.Rows {
			gt.Value(t, row.Grade).Equal(types.Grade2)
			gt.Value(t, row.Rating).Equal(types.RatingC)
		}
		gt.Number(t, card.NotaMedia).Equal(0.0)
		gt.Value(t, card.Rating).Equal(types.RatingNA)
	})
}

func TestPDF(t *testing.T) {
	t.Run("renders rated operation", func(t *testing.T) {
		data, err := report.PDF(ratedOperation(),
			report.WithTitle("Relatório Interno"),
			report.WithGeneratedAt(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)),
		)
		gt.NoError(t, err).Required()
		gt.Bool(t, bytes.HasPrefix(data, []byte("%PDF-"))).True()
	})

	t.Run("renders operation without analysis", func(t *testing.T) {
		data, err := report.PDF(model.NewOperation(model.DefaultOperationDefaults()))
		gt.NoError(t, err).Required()
		gt.Bool(t, len(data) > 0).True()
	})

	t.Run("nil operation fails", func(t *testing.T) {
		_, err := report.PDF(nil)
		gt.Value(t, err).NotNil()
	})
}

func TestMarkdown(t *testing.T) {
	md := report.Markdown(ratedOperation())

	gt.String(t, md).Contains("# CCI Residencial Alfa")
	gt.String(t, md).Contains("| Volume Emitido | R$ 1.000.000,00 |")
	gt.String(t, md).Contains("| Taxa | IPCA + 10.00% a.a. |")
	gt.String(t, md).Contains("| Data de Emissão | 01/05/2024 |")
	gt.String(t, md).Contains("| Vencimento | 01/05/2034 |")
	gt.String(t, md).Contains("| 1. LTV | 20% | 6 | A- | 1.20 |")
	gt.String(t, md).Contains("**Score Médio Ponderado:** 8.40")
	gt.String(t, md).Contains("**Rating Final:** A")
	gt.String(t, md).Contains("Carteira pulverizada")
}
