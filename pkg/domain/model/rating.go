package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
)

// RiskInputs holds the raw drivers of a rating. Each driver has one canonical numeric type;
// callers convert at the boundary.
type RiskInputs struct {
	LTV             float64 `json:"ltv"`
	Demanda         int64   `json:"demanda"`
	Behavior30To60  int     `json:"behavior_30_60"`
	Behavior60To90  int     `json:"behavior_60_90"`
	Behavior90Plus  int     `json:"behavior_90_plus"`
	Comprometimento float64 `json:"comprometimento"`
	Inad30To60      int     `json:"inad_30_60"`
	Inad60To90      int     `json:"inad_60_90"`
	Inad90Plus      int     `json:"inad_90_plus"`
}

// Validate rejects values a form would never produce. The rating engine itself accepts anything.
func (x RiskInputs) Validate() error {
	counts := []struct {
		key   string
		value int
	}{
		{"behavior_30_60", x.Behavior30To60},
		{"behavior_60_90", x.Behavior60To90},
		{"behavior_90_plus", x.Behavior90Plus},
		{"inad_30_60", x.Inad30To60},
		{"inad_60_90", x.Inad60To90},
		{"inad_90_plus", x.Inad90Plus},
	}
	for _, c := range counts {
		if c.value < 0 {
			return goerr.Wrap(ErrInvalidInput, "occurrence count must not be negative",
				goerr.V(InputKey, c.key), goerr.V(InputValueKey, c.value))
		}
	}
	if x.LTV < 0 {
		return goerr.Wrap(ErrInvalidInput, "ltv must not be negative", goerr.V(InputValueKey, x.LTV))
	}
	if x.Demanda < 0 {
		return goerr.Wrap(ErrInvalidInput, "demanda must not be negative", goerr.V(InputValueKey, x.Demanda))
	}
	if x.Comprometimento < 0 {
		return goerr.Wrap(ErrInvalidInput, "comprometimento must not be negative", goerr.V(InputValueKey, x.Comprometimento))
	}
	return nil
}

// AttributeScores is the per-attribute grade of one calculation plus the two penalty sums kept for audit.
type AttributeScores struct {
	LTV             types.Grade `json:"ltv"`
	Demanda         types.Grade `json:"demanda"`
	Behavior        types.Grade `json:"behavior"`
	Comprometimento types.Grade `json:"comprometimento"`
	Inadimplencia   types.Grade `json:"inadimplencia"`
	SomaBehavior    int         `json:"soma_behavior"`
	SomaInad        int         `json:"soma_inad"`
}

// Grade returns the grade of attribute a. Unknown attributes get the worst grade.
func (s AttributeScores) Grade(a types.Attribute) types.Grade {
	switch a {
	case types.AttributeLTV:
		return s.LTV
	case types.AttributeDemanda:
		return s.Demanda
	case types.AttributeBehavior:
		return s.Behavior
	case types.AttributeComprometimento:
		return s.Comprometimento
	case types.AttributeInadimplencia:
		return s.Inadimplencia
	default:
		return types.Grade2
	}
}

// Grades returns the five grades in scorecard order
func (s AttributeScores) Grades() []types.Grade {
	attrs := types.AllAttributes()
	grades := make([]types.Grade, len(attrs))
	for i, a := range attrs {
		grades[i] = s.Grade(a)
	}
	return grades
}

// FinalRating is the aggregate of AttributeScores
type FinalRating struct {
	NotaMedia   float64      `json:"nota_media"`
	NotaFinal   types.Grade  `json:"nota_final"`
	RatingFinal types.Rating `json:"rating_final"`
}

// Analysis is the snapshot persisted when a rating is saved for an operation
type Analysis struct {
	Reference     string          `json:"reference"`
	Inputs        RiskInputs      `json:"inputs"`
	Scores        AttributeScores `json:"scores"`
	Result        FinalRating     `json:"resultados"`
	Justification string          `json:"justificativa"`
	CalculatedAt  time.Time       `json:"timestamp"`
}
