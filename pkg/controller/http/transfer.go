package http

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/service/transfer"
	"github.com/secmon-lab/ccirating/pkg/utils/safe"
)

// requestFormat picks the document format from ?format= or the Content-Type header
func requestFormat(r *http.Request) (transfer.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return transfer.ParseFormat(f)
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil && (mediaType == "application/yaml" || mediaType == "application/x-yaml" || mediaType == "text/yaml") {
			return transfer.FormatYAML, nil
		}
	}
	return transfer.FormatJSON, nil
}

func (s *Server) exportOperation(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		handleBadRequest(w, r, err)
		return
	}

	id := operationID(r)
	doc, err := s.uc.Transfer.Export(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := transfer.Encode(&buf, doc, format); err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", attachment(id.String()+"."+string(format)))
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, buf.Bytes())
}

func (s *Server) importOperation(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		handleBadRequest(w, r, err)
		return
	}

	doc, err := transfer.Decode(r.Body, format)
	if err != nil {
		handleBadRequest(w, r, goerr.Wrap(err, "invalid document"))
		return
	}

	result, err := s.uc.Transfer.Import(r.Context(), doc)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"operation": toResponse(result.Operation),
		"mismatch":  result.Mismatch,
	})
}
