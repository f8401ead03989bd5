package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
)

func TestGrade_Rating(t *testing.T) {
	tests := []struct {
		grade types.Grade
		want  types.Rating
	}{
		{types.Grade10, types.RatingAPlus},
		{types.Grade8, types.RatingA},
		{types.Grade6, types.RatingAMinus},
		{types.Grade4, types.RatingB},
		{types.Grade2, types.RatingC},
		{types.Grade(7), types.RatingNA},
		{types.Grade(0), types.RatingNA},
		{types.Grade(12), types.RatingNA},
	}

	for _, tt := range tests {
		t.Run(tt.grade.String(), func(t *testing.T) {
			gt.Value(t, tt.grade.Rating()).Equal(tt.want)
		})
	}
}

func TestGrade_IsValid(t *testing.T) {
	for _, g := range types.AllGrades() {
		gt.B(t, g.IsValid()).True()
	}
	gt.B(t, types.Grade(3).IsValid()).False()
	gt.B(t, types.Grade(-2).IsValid()).False()
}

func TestAllGrades_Ascending(t *testing.T) {
	grades := types.AllGrades()
	gt.A(t, grades).Length(5)
	for i := 1; i < len(grades); i++ {
		gt.B(t, grades[i-1] < grades[i]).True()
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Rating
		wantErr bool
	}{
		{name: "A+", input: "A+", want: types.RatingAPlus},
		{name: "A-", input: "A-", want: types.RatingAMinus},
		{name: "C", input: "C", want: types.RatingC},
		{name: "N/A is not assignable", input: "N/A", wantErr: true},
		{name: "lowercase", input: "a", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseRating(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestRating_Tier(t *testing.T) {
	gt.Value(t, types.RatingAPlus.Tier()).Equal(types.RatingTierInvestment)
	gt.Value(t, types.RatingAMinus.Tier()).Equal(types.RatingTierInvestment)
	gt.Value(t, types.RatingB.Tier()).Equal(types.RatingTierWatch)
	gt.Value(t, types.RatingC.Tier()).Equal(types.RatingTierSpeculative)
	gt.Value(t, types.RatingNA.Tier()).Equal(types.RatingTierUnrated)
}
