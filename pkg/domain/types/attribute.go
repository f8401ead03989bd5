package types

import "fmt"

// Attribute identifies one of the five rated risk attributes
type Attribute string

const (
	AttributeLTV             Attribute = "ltv"
	AttributeDemanda         Attribute = "demanda"
	AttributeBehavior        Attribute = "behavior"
	AttributeComprometimento Attribute = "comprometimento"
	AttributeInadimplencia   Attribute = "inadimplencia"
)

// AllAttributes returns the attributes in scorecard order
func AllAttributes() []Attribute {
	return []Attribute{
		AttributeLTV,
		AttributeDemanda,
		AttributeBehavior,
		AttributeComprometimento,
		AttributeInadimplencia,
	}
}

func (a Attribute) IsValid() bool {
	switch a {
	case AttributeLTV,
		AttributeDemanda,
		AttributeBehavior,
		AttributeComprometimento,
		AttributeInadimplencia:
		return true
	default:
		return false
	}
}

// Label returns the scorecard row label
func (a Attribute) Label() string {
	switch a {
	case AttributeLTV:
		return "1. LTV"
	case AttributeDemanda:
		return "2. Demanda"
	case AttributeBehavior:
		return "3. Behavior"
	case AttributeComprometimento:
		return "4. Comprometimento de Renda"
	case AttributeInadimplencia:
		return "5. Inadimplência"
	default:
		return string(a)
	}
}

func (a Attribute) String() string {
	return string(a)
}

func ParseAttribute(s string) (Attribute, error) {
	a := Attribute(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid attribute: %s", s)
	}
	return a, nil
}
