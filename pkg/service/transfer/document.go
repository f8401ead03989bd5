// Package transfer converts operations to and from the flat key-value
// document used for import and export.
package transfer

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Values substituted for risk inputs absent from an imported document.
// LTV and comprometimento fall in the worst band; missing counts mean no incidents.
const (
	MissingLTV             = 999.0
	MissingDemanda         = 0
	MissingComprometimento = 999.0
)

// Document is the flat representation of one operation
type Document struct {
	OperationID  string           `json:"operacao_id,omitempty" yaml:"operacao_id,omitempty"`
	Name         string           `json:"op_nome" yaml:"op_nome"`
	Code         string           `json:"op_codigo" yaml:"op_codigo"`
	Issuer       string           `json:"op_emissor" yaml:"op_emissor"`
	Volume       *decimal.Decimal `json:"op_volume,omitempty" yaml:"op_volume,omitempty"`
	Rate         *float64         `json:"op_taxa,omitempty" yaml:"op_taxa,omitempty"`
	Indexer      string           `json:"op_indexador" yaml:"op_indexador"`
	TermMonths   *int             `json:"op_prazo,omitempty" yaml:"op_prazo,omitempty"`
	Amortization string           `json:"op_amortizacao" yaml:"op_amortizacao"`
	IssueDate    string           `json:"op_data_emissao,omitempty" yaml:"op_data_emissao,omitempty"`
	MaturityDate string           `json:"op_data_vencimento,omitempty" yaml:"op_data_vencimento,omitempty"`

	LTV             *float64 `json:"input_ltv,omitempty" yaml:"input_ltv,omitempty"`
	Demanda         *int64   `json:"input_demanda,omitempty" yaml:"input_demanda,omitempty"`
	Behavior30To60  *int     `json:"input_behavior_30_60,omitempty" yaml:"input_behavior_30_60,omitempty"`
	Behavior60To90  *int     `json:"input_behavior_60_90,omitempty" yaml:"input_behavior_60_90,omitempty"`
	Behavior90Plus  *int     `json:"input_behavior_90_mais,omitempty" yaml:"input_behavior_90_mais,omitempty"`
	Comprometimento *float64 `json:"input_comprometimento,omitempty" yaml:"input_comprometimento,omitempty"`
	Inad30To60      *int     `json:"input_inad_30_60,omitempty" yaml:"input_inad_30_60,omitempty"`
	Inad60To90      *int     `json:"input_inad_60_90,omitempty" yaml:"input_inad_60_90,omitempty"`
	Inad90Plus      *int     `json:"input_inad_90_mais,omitempty" yaml:"input_inad_90_mais,omitempty"`

	Justification string          `json:"justificativa_final,omitempty" yaml:"justificativa_final,omitempty"`
	Scores        map[string]int  `json:"scores_operacao,omitempty" yaml:"scores_operacao,omitempty"`
	Result        *ResultDocument `json:"rating_final_operacao,omitempty" yaml:"rating_final_operacao,omitempty"`
	Reference     string          `json:"referencia_analise,omitempty" yaml:"referencia_analise,omitempty"`
	CalculatedAt  string          `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// ResultDocument is the aggregate rating stored under rating_final_operacao
type ResultDocument struct {
	NotaMedia   float64 `json:"nota_media" yaml:"nota_media"`
	NotaFinal   int     `json:"nota_final" yaml:"nota_final"`
	RatingFinal string  `json:"rating_final" yaml:"rating_final"`
}

const (
	scoreKeySomaBehavior = "soma_behavior"
	scoreKeySomaInad     = "soma_inad"
)

func ptr[T any](v T) *T {
	return &v
}

func orDefault[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// FromOperation flattens op. The analysis part is omitted when op was never rated.
func FromOperation(op *model.Operation) *Document {
	in := op.Inputs
	doc := &Document{
		OperationID:  op.ID.String(),
		Name:         op.Name,
		Code:         op.Code,
		Issuer:       op.Issuer,
		Volume:       ptr(op.Volume),
		Rate:         ptr(op.Rate),
		Indexer:      op.Indexer.String(),
		TermMonths:   ptr(op.TermMonths),
		Amortization: op.Amortization.String(),
		IssueDate:    formatDate(op.IssueDate),
		MaturityDate: formatDate(op.MaturityDate),

		LTV:             ptr(in.LTV),
		Demanda:         ptr(in.Demanda),
		Behavior30To60:  ptr(in.Behavior30To60),
		Behavior60To90:  ptr(in.Behavior60To90),
		Behavior90Plus:  ptr(in.Behavior90Plus),
		Comprometimento: ptr(in.Comprometimento),
		Inad30To60:      ptr(in.Inad30To60),
		Inad60To90:      ptr(in.Inad60To90),
		Inad90Plus:      ptr(in.Inad90Plus),

		Justification: op.Justification,
	}

	if a := op.Analysis; a != nil {
		doc.Scores = map[string]int{
			scoreKeySomaBehavior: a.Scores.SomaBehavior,
			scoreKeySomaInad:     a.Scores.SomaInad,
		}
		for _, attr := range types.AllAttributes() {
			doc.Scores[attr.String()] = int(a.Scores.Grade(attr))
		}
		doc.Result = &ResultDocument{
			NotaMedia:   a.Result.NotaMedia,
			NotaFinal:   int(a.Result.NotaFinal),
			RatingFinal: a.Result.RatingFinal.String(),
		}
		doc.Reference = a.Reference
		if !a.CalculatedAt.IsZero() {
			doc.CalculatedAt = a.CalculatedAt.UTC().Format(time.RFC3339Nano)
		}
		if a.Justification != "" {
			doc.Justification = a.Justification
		}
	}

	return doc
}

// Inputs returns the risk inputs of d with absent values substituted
func (d *Document) Inputs() model.RiskInputs {
	return model.RiskInputs{
		LTV:             orDefault(d.LTV, MissingLTV),
		Demanda:         orDefault(d.Demanda, int64(MissingDemanda)),
		Behavior30To60:  orDefault(d.Behavior30To60, 0),
		Behavior60To90:  orDefault(d.Behavior60To90, 0),
		Behavior90Plus:  orDefault(d.Behavior90Plus, 0),
		Comprometimento: orDefault(d.Comprometimento, MissingComprometimento),
		Inad30To60:      orDefault(d.Inad30To60, 0),
		Inad60To90:      orDefault(d.Inad60To90, 0),
		Inad90Plus:      orDefault(d.Inad90Plus, 0),
	}
}

// ToOperation rebuilds an operation from d. Registration fields absent from d
// are taken from defaults; a missing operacao_id gets a fresh ID. The stored
// analysis is carried over as-is when d has a result.
func (d *Document) ToOperation(defaults model.OperationDefaults) (*model.Operation, error) {
	op := model.NewOperation(defaults)
	if d.OperationID != "" {
		op.ID = model.OperationID(d.OperationID)
	}
	if d.Name != "" {
		op.Name = d.Name
	}
	if d.Code != "" {
		op.Code = d.Code
	}
	if d.Issuer != "" {
		op.Issuer = d.Issuer
	}
	// absent keys take the defaults, explicit zeros are kept
	op.Volume = orDefault(d.Volume, op.Volume)
	op.Rate = orDefault(d.Rate, op.Rate)
	op.TermMonths = orDefault(d.TermMonths, op.TermMonths)

	if d.Indexer != "" {
		idx, err := types.ParseIndexer(d.Indexer)
		if err != nil {
			return nil, goerr.Wrap(model.ErrInvalidOperation, "invalid op_indexador", goerr.V(model.FieldKey, "op_indexador"), goerr.V("value", d.Indexer))
		}
		op.Indexer = idx
	}
	if d.Amortization != "" {
		am, err := types.ParseAmortization(d.Amortization)
		if err != nil {
			return nil, goerr.Wrap(model.ErrInvalidOperation, "invalid op_amortizacao", goerr.V(model.FieldKey, "op_amortizacao"), goerr.V("value", d.Amortization))
		}
		op.Amortization = am
	}

	var err error
	if d.IssueDate != "" {
		if op.IssueDate, err = parseDate("op_data_emissao", d.IssueDate); err != nil {
			return nil, err
		}
	}
	op.MaturityDate = op.IssueDate.AddDate(0, op.TermMonths, 0)
	if d.MaturityDate != "" {
		if op.MaturityDate, err = parseDate("op_data_vencimento", d.MaturityDate); err != nil {
			return nil, err
		}
	}

	op.Inputs = d.Inputs()
	op.Justification = d.Justification

	if d.Result != nil {
		analysis, err := d.analysis(op.Inputs)
		if err != nil {
			return nil, err
		}
		op.Analysis = analysis
	}

	return op, nil
}

func (d *Document) analysis(inputs model.RiskInputs) (*model.Analysis, error) {
	scores := model.AttributeScores{
		LTV:             types.Grade(d.Scores[types.AttributeLTV.String()]),
		Demanda:         types.Grade(d.Scores[types.AttributeDemanda.String()]),
		Behavior:        types.Grade(d.Scores[types.AttributeBehavior.String()]),
		Comprometimento: types.Grade(d.Scores[types.AttributeComprometimento.String()]),
		Inadimplencia:   types.Grade(d.Scores[types.AttributeInadimplencia.String()]),
		SomaBehavior:    d.Scores[scoreKeySomaBehavior],
		SomaInad:        d.Scores[scoreKeySomaInad],
	}

	a := &model.Analysis{
		Reference: d.Reference,
		Inputs:    inputs,
		Scores:    scores,
		Result: model.FinalRating{
			NotaMedia:   d.Result.NotaMedia,
			NotaFinal:   types.Grade(d.Result.NotaFinal),
			RatingFinal: types.Rating(d.Result.RatingFinal),
		},
		Justification: d.Justification,
	}

	if d.CalculatedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, d.CalculatedAt)
		if err != nil {
			return nil, goerr.Wrap(model.ErrInvalidOperation, "invalid timestamp", goerr.V(model.FieldKey, "timestamp"), goerr.V("value", d.CalculatedAt))
		}
		a.CalculatedAt = ts
	}

	return a, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Documents written by other tools may carry a full timestamp
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, goerr.Wrap(model.ErrInvalidOperation, "invalid date", goerr.V(model.FieldKey, field), goerr.V("value", s))
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
