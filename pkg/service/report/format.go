package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

// FormatBRL formats an amount as Brazilian currency, e.g. "R$ 1.000.000,00"
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), fracPart)
}

// FormatDate formats t as dd/mm/yyyy, or "-" when unset
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// FormatRate renders the remuneration line, e.g. "IPCA + 10.00% a.a."
func FormatRate(op *model.Operation) string {
	return fmt.Sprintf("%s %.2f%% a.a.", op.Indexer, op.Rate)
}

// FileName is the download name of the PDF report of op
func FileName(op *model.Operation) string {
	return "Relatorio_CCI_" + strings.ReplaceAll(op.Name, " ", "_") + ".pdf"
}
