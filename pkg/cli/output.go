package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/secmon-lab/ccirating/pkg/service/rating"
)

var tierColors = map[types.RatingTier]*color.Color{
	types.RatingTierInvestment:  color.New(color.FgGreen, color.Bold),
	types.RatingTierWatch:       color.New(color.FgYellow, color.Bold),
	types.RatingTierSpeculative: color.New(color.FgRed, color.Bold),
	types.RatingTierUnrated:     color.New(color.FgHiBlack),
}

func colorRating(r types.Rating) string {
	return tierColors[r.Tier()].Sprint(r.String())
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printScorecard writes the per-attribute grades followed by the final rating
func printScorecard(w io.Writer, scores model.AttributeScores, final model.FinalRating) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ATRIBUTO\tPESO\tNOTA\tSCORE PONDERADO\tRATING")
	for _, attr := range types.AllAttributes() {
		g := scores.Grade(attr)
		fmt.Fprintf(tw, "%s\t%.0f%%\t%d\t%.2f\t%s\n",
			attr.Label(), rating.AttributeWeight*100, int(g), rating.WeightedScore(g), colorRating(g.Rating()))
	}
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write scorecard")
	}

	fmt.Fprintf(w, "\nScore Médio Ponderado: %.2f\n", final.NotaMedia)
	fmt.Fprintf(w, "Rating Final Atribuído: %s\n", colorRating(final.RatingFinal))
	return nil
}

// printOperations writes one line per operation
func printOperations(w io.Writer, ops []*model.Operation) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNOME\tCÓDIGO\tEMISSOR\tATUALIZADO\tRATING")
	for _, op := range ops {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			op.ID, op.Name, op.Code, op.Issuer,
			op.UpdatedAt.Format("2006-01-02 15:04"), colorRating(op.Rating()))
	}
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write operation list")
	}
	return nil
}
