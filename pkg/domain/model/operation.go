package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/shopspring/decimal"
)

// OperationID is a UUID-based identifier for Operation
type OperationID string

// NewOperationID generates a new UUID v4 OperationID
func NewOperationID() OperationID {
	return OperationID(uuid.New().String())
}

func (id OperationID) String() string {
	return string(id)
}

// Operation is a registered CCI together with its current risk inputs and last saved analysis
type Operation struct {
	ID           OperationID
	Name         string
	Code         string
	Issuer       string
	Volume       decimal.Decimal // BRL
	Rate         float64         // percent per year over Indexer
	Indexer      types.Indexer
	TermMonths   int
	Amortization types.Amortization
	IssueDate    time.Time
	MaturityDate time.Time

	Inputs        RiskInputs
	Justification string
	Analysis      *Analysis // nil until a rating has been saved

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rating returns the saved letter rating, or RatingNA when the operation was never rated
func (o *Operation) Rating() types.Rating {
	if o.Analysis == nil {
		return types.RatingNA
	}
	return o.Analysis.Result.RatingFinal
}

// Copy returns a deep copy of o
func (o *Operation) Copy() *Operation {
	if o == nil {
		return nil
	}
	copied := *o
	if o.Analysis != nil {
		analysis := *o.Analysis
		copied.Analysis = &analysis
	}
	return &copied
}

// Validate checks registration fields and risk inputs
func (o *Operation) Validate() error {
	if o.ID == "" {
		return goerr.Wrap(ErrInvalidOperation, "operation ID is required")
	}
	if o.Name == "" {
		return goerr.Wrap(ErrInvalidOperation, "operation name is required",
			goerr.V(OperationIDKey, o.ID), goerr.V(FieldKey, "name"))
	}
	if o.Volume.IsNegative() {
		return goerr.Wrap(ErrInvalidOperation, "volume must not be negative",
			goerr.V(OperationIDKey, o.ID), goerr.V(FieldKey, "volume"))
	}
	if o.TermMonths < 0 {
		return goerr.Wrap(ErrInvalidOperation, "term must not be negative",
			goerr.V(OperationIDKey, o.ID), goerr.V(FieldKey, "term_months"))
	}
	if !o.Indexer.IsValid() {
		return goerr.Wrap(ErrInvalidOperation, "invalid indexer",
			goerr.V(OperationIDKey, o.ID), goerr.V(FieldKey, "indexer"), goerr.V("indexer", o.Indexer))
	}
	if !o.Amortization.IsValid() {
		return goerr.Wrap(ErrInvalidOperation, "invalid amortization",
			goerr.V(OperationIDKey, o.ID), goerr.V(FieldKey, "amortization"), goerr.V("amortization", o.Amortization))
	}
	if !o.IssueDate.IsZero() && !o.MaturityDate.IsZero() && o.MaturityDate.Before(o.IssueDate) {
		return goerr.Wrap(ErrInvalidOperation, "maturity date must not precede issue date",
			goerr.V(OperationIDKey, o.ID), goerr.V("issue_date", o.IssueDate), goerr.V("maturity_date", o.MaturityDate))
	}
	if err := o.Inputs.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk inputs", goerr.V(OperationIDKey, o.ID))
	}
	return nil
}

// OperationDefaults are the values a new operation form starts with
type OperationDefaults struct {
	Name         string
	Code         string
	Issuer       string
	Volume       decimal.Decimal
	Rate         float64
	Indexer      types.Indexer
	TermMonths   int
	Amortization types.Amortization
	IssueDate    time.Time
	Inputs       RiskInputs
}

func DefaultOperationDefaults() OperationDefaults {
	return OperationDefaults{
		Name:         "Nova Operação",
		Code:         "CCI-NEW",
		Issuer:       "Banco Exemplo S.A.",
		Volume:       decimal.NewFromInt(1_000_000),
		Rate:         10.0,
		Indexer:      types.IndexerIPCA,
		TermMonths:   120,
		Amortization: types.AmortizationSAC,
		IssueDate:    time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		Inputs: RiskInputs{
			LTV:             75.0,
			Demanda:         150000,
			Comprometimento: 20.0,
		},
	}
}

// NewOperation returns an unsaved operation filled from d with a fresh ID.
// The maturity date is the issue date plus the term.
func NewOperation(d OperationDefaults) *Operation {
	return &Operation{
		ID:           NewOperationID(),
		Name:         d.Name,
		Code:         d.Code,
		Issuer:       d.Issuer,
		Volume:       d.Volume,
		Rate:         d.Rate,
		Indexer:      d.Indexer,
		TermMonths:   d.TermMonths,
		Amortization: d.Amortization,
		IssueDate:    d.IssueDate,
		MaturityDate: d.IssueDate.AddDate(0, d.TermMonths, 0),
		Inputs:       d.Inputs,
	}
}
