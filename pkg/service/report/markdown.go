package report

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/ccirating/pkg/domain/model"
)

// Markdown renders the registration data and scorecard of op as Markdown
func Markdown(op *model.Operation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", op.Name)
	fmt.Fprintf(&b, "**ID:** %s\n\n", op.ID)

	b.WriteString("## Dados Cadastrais\n\n")
	b.WriteString("| Campo | Valor |\n|---|---|\n")
	fmt.Fprintf(&b, "| Código/Série | %s |\n", op.Code)
	fmt.Fprintf(&b, "| Emissor | %s |\n", op.Issuer)
	fmt.Fprintf(&b, "| Volume Emitido | %s |\n", FormatBRL(op.Volume))
	fmt.Fprintf(&b, "| Taxa | %s |\n", FormatRate(op))
	fmt.Fprintf(&b, "| Prazo | %d meses |\n", op.TermMonths)
	fmt.Fprintf(&b, "| Sistema Amortização | %s |\n", op.Amortization)
	fmt.Fprintf(&b, "| Data de Emissão | %s |\n", FormatDate(op.IssueDate))
	fmt.Fprintf(&b, "| Vencimento | %s |\n\n", FormatDate(op.MaturityDate))

	card := NewScorecard(op)
	b.WriteString("## Scorecard\n\n")
	b.WriteString("| Atributo | Peso | Nota | Rating | Score Ponderado |\n|---|---|---|---|---|\n")
	for _, row := range card.Rows {
		fmt.Fprintf(&b, "| %s | %.0f%% | %d | %s | %.2f |\n",
			row.Label, row.Weight*100, row.Grade, row.Rating, row.Weighted)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Score Médio Ponderado:** %.2f\n", card.NotaMedia)
	fmt.Fprintf(&b, "**Rating Final:** %s\n\n", card.Rating)

	if j := justification(op); j != "" {
		b.WriteString("## Justificativa\n\n")
		fmt.Fprintf(&b, "%s\n", j)
	}

	return b.String()
}
