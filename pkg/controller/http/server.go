package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/usecase"
	"github.com/secmon-lab/ccirating/pkg/utils/errutil"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
	"github.com/secmon-lab/ccirating/pkg/utils/safe"
)

const defaultMaxBodySize = 1 << 20

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	maxBodySize int64
}

type Options func(*Server)

// WithMaxBodySize limits the size of request bodies accepted by the API
func WithMaxBodySize(n int64) Options {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(s.maxBodySize))

	r.Route("/api", func(r chi.Router) {
		r.Post("/rating", s.calculateRating)
		r.Get("/methodology", s.getMethodology)
		r.Post("/recalculate", s.recalculate)

		r.Route("/operations", func(r chi.Router) {
			r.Get("/", s.listOperations)
			r.Post("/", s.createOperation)
			r.Get("/new", s.newOperation)
			r.Post("/import", s.importOperation)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getOperation)
				r.Put("/", s.updateOperation)
				r.Delete("/", s.deleteOperation)
				r.Post("/rating", s.saveRating)
				r.Get("/report", s.downloadReport)
				r.Post("/report/publish", s.publishReport)
				r.Get("/export", s.exportOperation)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}
