// Package rating maps CCI risk inputs to attribute grades, a mean score and a letter rating.
// Every function here is pure and safe for concurrent use.
package rating

import (
	"math"

	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
)

// AttributeWeight is the weight of each of the five attributes in the final score.
// With equal weights the weighted sum is the plain mean, which is how Aggregate computes it.
const AttributeWeight = 0.20

// Penalty points per occurrence in each aging bucket
const (
	Penalty30To60 = 2
	Penalty60To90 = 4
	Penalty90Plus = 6
)

// PenaltySum weighs late-payment occurrences by aging bucket. Behavior and Inadimplência share it.
// The sum saturates at the int bounds so that huge counts never wrap into a good grade.
func PenaltySum(count30To60, count60To90, count90Plus int) int {
	sum := saturatingMul(count30To60, Penalty30To60)
	sum = saturatingAdd(sum, saturatingMul(count60To90, Penalty60To90))
	return saturatingAdd(sum, saturatingMul(count90Plus, Penalty90Plus))
}

func saturatingMul(n, weight int) int {
	switch {
	case n > math.MaxInt/weight:
		return math.MaxInt
	case n < math.MinInt/weight:
		return math.MinInt
	}
	return n * weight
}

func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// ScoreLTV grades a loan-to-value percentage. Boundaries are inclusive.
func ScoreLTV(ltv float64) types.Grade {
	switch {
	case ltv <= 60:
		return types.Grade10
	case ltv <= 70:
		return types.Grade8
	case ltv <= 80:
		return types.Grade6
	case ltv <= 90:
		return types.Grade4
	default:
		return types.Grade2
	}
}

// ScoreDemanda grades a demand amount. Only the top band is exclusive (> 200000).
func ScoreDemanda(demanda int64) types.Grade {
	switch {
	case demanda > 200000:
		return types.Grade10
	case demanda >= 100000:
		return types.Grade8
	case demanda >= 50000:
		return types.Grade6
	case demanda >= 30000:
		return types.Grade4
	default:
		return types.Grade2
	}
}

// behaviorGrades matches the behavior penalty sum exactly. Any other sum is graded 2.
var behaviorGrades = map[int]types.Grade{
	0: types.Grade10,
	2: types.Grade8,
	4: types.Grade6,
	6: types.Grade4,
}

// ScoreBehavior grades a behavior penalty sum
func ScoreBehavior(sum int) types.Grade {
	if g, ok := behaviorGrades[sum]; ok {
		return g
	}
	return types.Grade2
}

// ScoreComprometimento grades an income-commitment percentage. The top band is exclusive (< 15).
func ScoreComprometimento(comprometimento float64) types.Grade {
	switch {
	case comprometimento < 15:
		return types.Grade10
	case comprometimento <= 20:
		return types.Grade8
	case comprometimento <= 25:
		return types.Grade6
	case comprometimento <= 30:
		return types.Grade4
	default:
		return types.Grade2
	}
}

// inadimplenciaBands are upper bounds (inclusive) on the default penalty sum, scanned in order.
// Unlike behavior, sums between the listed values fall into a band.
var inadimplenciaBands = []struct {
	max   int
	grade types.Grade
}{
	{0, types.Grade10},
	{4, types.Grade8},
	{6, types.Grade6},
	{8, types.Grade4},
}

// ScoreInadimplencia grades a default penalty sum
func ScoreInadimplencia(sum int) types.Grade {
	// a negative sum is not a valid count and gets the worst grade, as Behavior does
	if sum < 0 {
		return types.Grade2
	}
	for _, band := range inadimplenciaBands {
		if sum <= band.max {
			return band.grade
		}
	}
	return types.Grade2
}

// ScoreAttribute grades value with the staircase of kind. Integer drivers (demanda and the two
// penalty sums) that receive a non-integral value get the worst grade, as does NaN and an unknown kind.
func ScoreAttribute(kind types.Attribute, value float64) types.Grade {
	switch kind {
	case types.AttributeLTV:
		return ScoreLTV(value)
	case types.AttributeComprometimento:
		return ScoreComprometimento(value)
	}

	n, ok := integral(value)
	if !ok {
		return types.Grade2
	}

	switch kind {
	case types.AttributeDemanda:
		return ScoreDemanda(n)
	case types.AttributeBehavior:
		return ScoreBehavior(int(n))
	case types.AttributeInadimplencia:
		return ScoreInadimplencia(int(n))
	default:
		return types.Grade2
	}
}

func integral(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return int64(v), true
}

// Score computes the five attribute grades and the penalty sums from in
func Score(in model.RiskInputs) model.AttributeScores {
	somaBehavior := PenaltySum(in.Behavior30To60, in.Behavior60To90, in.Behavior90Plus)
	somaInad := PenaltySum(in.Inad30To60, in.Inad60To90, in.Inad90Plus)

	return model.AttributeScores{
		LTV:             ScoreLTV(in.LTV),
		Demanda:         ScoreDemanda(in.Demanda),
		Behavior:        ScoreBehavior(somaBehavior),
		Comprometimento: ScoreComprometimento(in.Comprometimento),
		Inadimplencia:   ScoreInadimplencia(somaInad),
		SomaBehavior:    somaBehavior,
		SomaInad:        somaInad,
	}
}

// Nearest snaps mean to the closest grade. Grades are scanned in ascending order and only a
// strictly smaller distance replaces the current pick, so an exact tie resolves to the lower grade.
func Nearest(mean float64) types.Grade {
	grades := types.AllGrades()
	best := grades[0]
	bestDist := math.Abs(float64(best) - mean)
	for _, g := range grades[1:] {
		if d := math.Abs(float64(g) - mean); d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

// Aggregate computes the mean of the five grades, snaps it to the scale and assigns the letter.
func Aggregate(scores model.AttributeScores) model.FinalRating {
	grades := scores.Grades()

	// Integer sum then one division keeps means such as 7.0 exact, so ties stay ties.
	var sum int
	for _, g := range grades {
		sum += int(g)
	}
	mean := float64(sum) / float64(len(grades))

	final := Nearest(mean)
	return model.FinalRating{
		NotaMedia:   mean,
		NotaFinal:   final,
		RatingFinal: final.Rating(),
	}
}

// Result bundles the output of one calculation
type Result struct {
	Scores model.AttributeScores `json:"scores"`
	Final  model.FinalRating     `json:"resultados"`
}

// Calculate runs Score and Aggregate on in
func Calculate(in model.RiskInputs) Result {
	scores := Score(in)
	return Result{
		Scores: scores,
		Final:  Aggregate(scores),
	}
}

// WeightedScore is the contribution of one grade to the final score
func WeightedScore(g types.Grade) float64 {
	return float64(g) * AttributeWeight
}
