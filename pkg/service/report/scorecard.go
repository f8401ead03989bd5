package report

import (
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/secmon-lab/ccirating/pkg/service/rating"
)

// Row is one attribute line of the scorecard
type Row struct {
	Attribute types.Attribute
	Label     string
	Weight    float64
	Grade     types.Grade
	Rating    types.Rating
	Weighted  float64
}

// Scorecard is the tabular view of an operation's saved analysis
type Scorecard struct {
	Rows      []Row
	NotaMedia float64
	Rating    types.Rating
}

// NewScorecard builds the scorecard of op. An operation without a saved
// analysis shows the worst grade on every attribute and no final rating.
func NewScorecard(op *model.Operation) Scorecard {
	scores := model.AttributeScores{
		LTV:             types.Grade2,
		Demanda:         types.Grade2,
		Behavior:        types.Grade2,
		Comprometimento: types.Grade2,
		Inadimplencia:   types.Grade2,
	}
	card := Scorecard{Rating: types.RatingNA}
	if op.Analysis != nil {
		scores = op.Analysis.Scores
		card.NotaMedia = op.Analysis.Result.NotaMedia
		card.Rating = op.Analysis.Result.RatingFinal
	}

	for _, attr := range types.AllAttributes() {
		g := scores.Grade(attr)
		card.Rows = append(card.Rows, Row{
			Attribute: attr,
			Label:     attr.Label(),
			Weight:    rating.AttributeWeight,
			Grade:     g,
			Rating:    g.Rating(),
			Weighted:  rating.WeightedScore(g),
		})
	}
	return card
}
