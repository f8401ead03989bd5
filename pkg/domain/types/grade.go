package types

import "fmt"

// Grade is a score on the fixed scale {2,4,6,8,10}; 10 is the best.
type Grade int

const (
	Grade2  Grade = 2
	Grade4  Grade = 4
	Grade6  Grade = 6
	Grade8  Grade = 8
	Grade10 Grade = 10
)

// AllGrades returns the scale in ascending order. Nearest-grade snapping scans it in this order.
func AllGrades() []Grade {
	return []Grade{Grade2, Grade4, Grade6, Grade8, Grade10}
}

// IsValid checks if the grade belongs to the scale
func (g Grade) IsValid() bool {
	switch g {
	case Grade2, Grade4, Grade6, Grade8, Grade10:
		return true
	default:
		return false
	}
}

// Rating returns the letter rating for the grade, or RatingNA if the grade is off the scale
func (g Grade) Rating() Rating {
	switch g {
	case Grade10:
		return RatingAPlus
	case Grade8:
		return RatingA
	case Grade6:
		return RatingAMinus
	case Grade4:
		return RatingB
	case Grade2:
		return RatingC
	default:
		return RatingNA
	}
}

func (g Grade) String() string {
	return fmt.Sprintf("%d", int(g))
}
