package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// operationBody is the editable part of an operation as exchanged with the form
type operationBody struct {
	Name          string             `json:"name"`
	Code          string             `json:"code"`
	Issuer        string             `json:"issuer"`
	Volume        decimal.Decimal    `json:"volume"`
	Rate          float64            `json:"rate"`
	Indexer       types.Indexer      `json:"indexer"`
	TermMonths    int                `json:"term_months"`
	Amortization  types.Amortization `json:"amortization"`
	IssueDate     string             `json:"issue_date"`
	MaturityDate  string             `json:"maturity_date"`
	Inputs        model.RiskInputs   `json:"inputs"`
	Justification string             `json:"justification"`
}

type operationResponse struct {
	ID model.OperationID `json:"id"`
	operationBody
	Rating    types.Rating    `json:"rating"`
	Analysis  *model.Analysis `json:"analysis,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date", goerr.V("field", field), goerr.V("value", s))
	}
	return t, nil
}

func toBody(op *model.Operation) operationBody {
	return operationBody{
		Name:          op.Name,
		Code:          op.Code,
		Issuer:        op.Issuer,
		Volume:        op.Volume,
		Rate:          op.Rate,
		Indexer:       op.Indexer,
		TermMonths:    op.TermMonths,
		Amortization:  op.Amortization,
		IssueDate:     formatDate(op.IssueDate),
		MaturityDate:  formatDate(op.MaturityDate),
		Inputs:        op.Inputs,
		Justification: op.Justification,
	}
}

// apply copies b onto op
func (b operationBody) apply(op *model.Operation) error {
	issue, err := parseDate("issue_date", b.IssueDate)
	if err != nil {
		return err
	}
	maturity, err := parseDate("maturity_date", b.MaturityDate)
	if err != nil {
		return err
	}

	op.Name = b.Name
	op.Code = b.Code
	op.Issuer = b.Issuer
	op.Volume = b.Volume
	op.Rate = b.Rate
	op.Indexer = b.Indexer
	op.TermMonths = b.TermMonths
	op.Amortization = b.Amortization
	op.IssueDate = issue
	op.MaturityDate = maturity
	op.Inputs = b.Inputs
	op.Justification = b.Justification
	return nil
}

func toResponse(op *model.Operation) operationResponse {
	resp := operationResponse{
		ID:            op.ID,
		operationBody: toBody(op),
		Rating:        op.Rating(),
		Analysis:      op.Analysis,
	}
	if !op.CreatedAt.IsZero() {
		resp.CreatedAt = &op.CreatedAt
	}
	if !op.UpdatedAt.IsZero() {
		resp.UpdatedAt = &op.UpdatedAt
	}
	return resp
}

func operationID(r *http.Request) model.OperationID {
	return model.OperationID(chi.URLParam(r, "id"))
}

func parseRatingFilter(s string) (types.Rating, error) {
	if s == types.RatingNA.String() {
		return types.RatingNA, nil
	}
	return types.ParseRating(s)
}

func (s *Server) newOperation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, toResponse(s.uc.Operation.NewOperation()))
}

func (s *Server) listOperations(w http.ResponseWriter, r *http.Request) {
	var opts []interfaces.ListOperationOption
	if raw := r.URL.Query().Get("rating"); raw != "" {
		rating, err := parseRatingFilter(raw)
		if err != nil {
			handleBadRequest(w, r, goerr.Wrap(err, "invalid rating filter"))
			return
		}
		opts = append(opts, interfaces.WithRating(rating))
	}

	ops, err := s.uc.Operation.ListOperations(r.Context(), opts...)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]operationResponse, len(ops))
	for i, op := range ops {
		resp[i] = toResponse(op)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"operations": resp})
}

func (s *Server) createOperation(w http.ResponseWriter, r *http.Request) {
	op := s.uc.Operation.NewOperation()

	// Fields absent from the request keep their default values
	body := toBody(op)
	if err := decodeJSON(r, &body); err != nil {
		handleBadRequest(w, r, err)
		return
	}
	if err := body.apply(op); err != nil {
		handleBadRequest(w, r, err)
		return
	}

	created, err := s.uc.Operation.CreateOperation(r.Context(), op)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toResponse(created))
}

func (s *Server) getOperation(w http.ResponseWriter, r *http.Request) {
	op, err := s.uc.Operation.GetOperation(r.Context(), operationID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toResponse(op))
}

func (s *Server) updateOperation(w http.ResponseWriter, r *http.Request) {
	op, err := s.uc.Operation.GetOperation(r.Context(), operationID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	body := toBody(op)
	if err := decodeJSON(r, &body); err != nil {
		handleBadRequest(w, r, err)
		return
	}
	if err := body.apply(op); err != nil {
		handleBadRequest(w, r, err)
		return
	}

	updated, err := s.uc.Operation.UpdateOperation(r.Context(), op)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toResponse(updated))
}

func (s *Server) deleteOperation(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Operation.DeleteOperation(r.Context(), operationID(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
