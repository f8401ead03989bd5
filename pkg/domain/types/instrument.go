package types

import "fmt"

// Indexer is the benchmark a CCI rate is quoted against
type Indexer string

const (
	IndexerIPCA  Indexer = "IPCA +"
	IndexerCDI   Indexer = "CDI +"
	IndexerFixed Indexer = "Pré-fixado"
)

func AllIndexers() []Indexer {
	return []Indexer{IndexerIPCA, IndexerCDI, IndexerFixed}
}

func (i Indexer) IsValid() bool {
	switch i {
	case IndexerIPCA, IndexerCDI, IndexerFixed:
		return true
	default:
		return false
	}
}

func (i Indexer) String() string {
	return string(i)
}

func ParseIndexer(s string) (Indexer, error) {
	i := Indexer(s)
	if !i.IsValid() {
		return "", fmt.Errorf("invalid indexer: %s", s)
	}
	return i, nil
}

// Amortization is the repayment schedule of the underlying loan
type Amortization string

const (
	AmortizationSAC   Amortization = "SAC"
	AmortizationPrice Amortization = "Price"
)

func AllAmortizations() []Amortization {
	return []Amortization{AmortizationSAC, AmortizationPrice}
}

func (a Amortization) IsValid() bool {
	switch a {
	case AmortizationSAC, AmortizationPrice:
		return true
	default:
		return false
	}
}

func (a Amortization) String() string {
	return string(a)
}

func ParseAmortization(s string) (Amortization, error) {
	a := Amortization(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid amortization: %s", s)
	}
	return a, nil
}
