package http

import (
	"net/http"

	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/service/rating"
	"github.com/secmon-lab/ccirating/pkg/usecase"
)

// calculateRating rates the posted inputs without storing anything
func (s *Server) calculateRating(w http.ResponseWriter, r *http.Request) {
	var in model.RiskInputs
	if err := decodeJSON(r, &in); err != nil {
		handleBadRequest(w, r, err)
		return
	}

	res, err := s.uc.Rating.Calculate(in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

type saveRatingRequest struct {
	Inputs        *model.RiskInputs `json:"inputs"`
	Justification string            `json:"justification"`
	Reference     string            `json:"reference"`
}

func (s *Server) saveRating(w http.ResponseWriter, r *http.Request) {
	var req saveRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		handleBadRequest(w, r, err)
		return
	}

	op, err := s.uc.Rating.CalculateAndSave(r.Context(), operationID(r), usecase.SaveRequest{
		Inputs:        req.Inputs,
		Justification: req.Justification,
		Reference:     req.Reference,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toResponse(op))
}

func (s *Server) recalculate(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Rating.Recalculate(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) getMethodology(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, rating.Describe())
}
