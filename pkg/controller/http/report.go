package http

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/secmon-lab/ccirating/pkg/utils/safe"
)

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func (s *Server) downloadReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.uc.Report.Render(r.Context(), operationID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, report.Data)
}

func (s *Server) publishReport(w http.ResponseWriter, r *http.Request) {
	location, err := s.uc.Report.Publish(r.Context(), operationID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]string{"location": location})
}
