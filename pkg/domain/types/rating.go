package types

import "fmt"

// Rating is the letter grade derived from a final Grade
type Rating string

const (
	RatingAPlus  Rating = "A+"
	RatingA      Rating = "A"
	RatingAMinus Rating = "A-"
	RatingB      Rating = "B"
	RatingC      Rating = "C"
	RatingNA     Rating = "N/A"
)

// AllRatings returns the assignable ratings from best to worst
func AllRatings() []Rating {
	return []Rating{
		RatingAPlus,
		RatingA,
		RatingAMinus,
		RatingB,
		RatingC,
	}
}

// IsValid reports whether the rating is one of the assignable letters. RatingNA is not.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAPlus, RatingA, RatingAMinus, RatingB, RatingC:
		return true
	default:
		return false
	}
}

// Tier groups ratings the way the operations panel colors them
func (r Rating) Tier() RatingTier {
	switch r {
	case RatingAPlus, RatingA, RatingAMinus:
		return RatingTierInvestment
	case RatingB:
		return RatingTierWatch
	case RatingC:
		return RatingTierSpeculative
	default:
		return RatingTierUnrated
	}
}

func (r Rating) String() string {
	return string(r)
}

// ParseRating parses a string into a Rating
func ParseRating(s string) (Rating, error) {
	r := Rating(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid rating: %s", s)
	}
	return r, nil
}

type RatingTier int

const (
	RatingTierUnrated RatingTier = iota
	RatingTierInvestment
	RatingTierWatch
	RatingTierSpeculative
)
