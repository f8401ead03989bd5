package rating

import "github.com/secmon-lab/ccirating/pkg/domain/types"

// Band describes the input range that earns a grade
type Band struct {
	Grade types.Grade `json:"grade"`
	Range string      `json:"range"`
}

// AttributeMethodology documents how one attribute is graded
type AttributeMethodology struct {
	Attribute types.Attribute `json:"attribute"`
	Label     string          `json:"label"`
	Weight    float64         `json:"weight"`
	Formula   string          `json:"formula,omitempty"`
	Bands     []Band          `json:"bands"`
}

// Methodology is the published description of the rating method
type Methodology struct {
	Attributes []AttributeMethodology       `json:"attributes"`
	Scale      map[types.Grade]types.Rating `json:"scale"`
	TieBreak   string                       `json:"tie_break"`
}

const penaltyFormula = "(qtd 30-60 * 2) + (qtd 60-90 * 4) + (qtd >90 * 6)"

// Describe returns the methodology matching the staircases in this package
func Describe() Methodology {
	attrs := []AttributeMethodology{
		{
			Attribute: types.AttributeLTV,
			Bands: []Band{
				{types.Grade10, "<= 60%"},
				{types.Grade8, "60-70%"},
				{types.Grade6, "70-80%"},
				{types.Grade4, "80-90%"},
				{types.Grade2, "> 90%"},
			},
		},
		{
			Attribute: types.AttributeDemanda,
			Bands: []Band{
				{types.Grade10, "> 200000"},
				{types.Grade8, "100000-200000"},
				{types.Grade6, "50000-100000"},
				{types.Grade4, "30000-50000"},
				{types.Grade2, "< 30000"},
			},
		},
		{
			Attribute: types.AttributeBehavior,
			Formula:   penaltyFormula,
			Bands: []Band{
				{types.Grade10, "soma 0"},
				{types.Grade8, "soma 2"},
				{types.Grade6, "soma 4"},
				{types.Grade4, "soma 6"},
				{types.Grade2, "qualquer outra soma"},
			},
		},
		{
			Attribute: types.AttributeComprometimento,
			Bands: []Band{
				{types.Grade10, "< 15%"},
				{types.Grade8, "15-20%"},
				{types.Grade6, "20-25%"},
				{types.Grade4, "25-30%"},
				{types.Grade2, "> 30%"},
			},
		},
		{
			Attribute: types.AttributeInadimplencia,
			Formula:   penaltyFormula,
			Bands: []Band{
				{types.Grade10, "soma 0"},
				{types.Grade8, "soma 1-4"},
				{types.Grade6, "soma 5-6"},
				{types.Grade4, "soma 7-8"},
				{types.Grade2, "soma > 8"},
			},
		},
	}
	for i := range attrs {
		attrs[i].Label = attrs[i].Attribute.Label()
		attrs[i].Weight = AttributeWeight
	}

	scale := make(map[types.Grade]types.Rating)
	for _, g := range types.AllGrades() {
		scale[g] = g.Rating()
	}

	return Methodology{
		Attributes: attrs,
		Scale:      scale,
		TieBreak:   "mean equidistant from two grades snaps to the lower grade",
	}
}
