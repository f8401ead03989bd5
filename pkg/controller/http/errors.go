package http

import (
	"errors"
	"net/http"

	"github.com/secmon-lab/ccirating/pkg/usecase"
	"github.com/secmon-lab/ccirating/pkg/utils/errutil"
)

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrOperationNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func handleBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
}
