package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/ccirating/pkg/controller/http"
	"github.com/secmon-lab/ccirating/pkg/repository/memory"
	"github.com/secmon-lab/ccirating/pkg/service/storage"
	"github.com/secmon-lab/ccirating/pkg/usecase"
)

type operationJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Volume       string `json:"volume"`
	Indexer      string `json:"indexer"`
	IssueDate    string `json:"issue_date"`
	MaturityDate string `json:"maturity_date"`
	Rating       string `json:"rating"`
	Inputs       struct {
		LTV float64 `json:"ltv"`
	} `json:"inputs"`
	Analysis *struct {
		Reference  string `json:"reference"`
		Resultados struct {
			NotaMedia   float64 `json:"nota_media"`
			NotaFinal   int     `json:"nota_final"`
			RatingFinal string  `json:"rating_final"`
		} `json:"resultados"`
	} `json:"analysis"`
}

func setupServer(t *testing.T) (*httptest.Server, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	uc := usecase.New(memory.New(), usecase.WithReportStorage(store))
	srv := httptest.NewServer(httpctrl.New(uc))
	t.Cleanup(srv.Close)
	return srv, store
}

func doRequest(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	gt.NoError(t, err).Required()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&v)).Required()
	return v
}

func createOperation(t *testing.T, srv *httptest.Server, body string) operationJSON {
	t.Helper()
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/operations", "application/json", body)
	gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)
	return decode[operationJSON](t, resp)
}

func TestCalculateRating(t *testing.T) {
	srv, _ := setupServer(t)

	t.Run("stateless calculation", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/rating", "application/json",
			`{"ltv": 75, "demanda": 150000, "comprometimento": 20}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		body := decode[struct {
			Scores struct {
				LTV     int `json:"ltv"`
				Demanda int `json:"demanda"`
			} `json:"scores"`
			Resultados struct {
				NotaMedia   float64 `json:"nota_media"`
				RatingFinal string  `json:"rating_final"`
			} `json:"resultados"`
		}](t, resp)
		gt.Value(t, body.Scores.LTV).Equal(6)
		gt.Value(t, body.Scores.Demanda).Equal(8)
		gt.Number(t, body.Resultados.NotaMedia).Equal(8.4)
		gt.Value(t, body.Resultados.RatingFinal).Equal("A")

		list := doRequest(t, http.MethodGet, srv.URL+"/api/operations", "", "")
		ops := decode[struct {
			Operations []operationJSON `json:"operations"`
		}](t, list)
		gt.A(t, ops.Operations).Length(0)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/rating", "application/json", `{"ltv":`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})

	t.Run("negative input", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/rating", "application/json", `{"behavior_30_60": -1}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})
}

func TestOperationLifecycle(t *testing.T) {
	srv, store := setupServer(t)

	defaults := doRequest(t, http.MethodGet, srv.URL+"/api/operations/new", "", "")
	gt.Value(t, defaults.StatusCode).Equal(http.StatusOK)
	tmpl := decode[operationJSON](t, defaults)
	gt.Value(t, tmpl.Name).Equal("Nova Operação")
	gt.Value(t, tmpl.IssueDate).Equal("2024-05-01")
	gt.Value(t, tmpl.MaturityDate).Equal("2034-05-01")

	created := createOperation(t, srv, `{"name": "CCI Residencial Alfa", "volume": 2500000.5}`)
	gt.Value(t, created.Name).Equal("CCI Residencial Alfa")
	gt.Value(t, created.Volume).Equal("2500000.5")
	gt.Value(t, created.Indexer).Equal("IPCA +")
	gt.Value(t, created.Rating).Equal("N/A")
	gt.Value(t, created.Analysis).Nil()

	opURL := srv.URL + "/api/operations/" + created.ID

	t.Run("get", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, opURL, "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.Value(t, decode[operationJSON](t, resp).ID).Equal(created.ID)
	})

	t.Run("calculate and save", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, opURL+"/rating", "application/json",
			`{"inputs": {"ltv": 50, "demanda": 300000, "comprometimento": 10}, "justification": "Risco baixo.", "reference": "comite-01"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		op := decode[operationJSON](t, resp)
		gt.Value(t, op.Rating).Equal("A+")
		gt.Value(t, op.Analysis).NotNil()
		gt.Value(t, op.Analysis.Reference).Equal("comite-01")
		gt.Value(t, op.Analysis.Resultados.NotaFinal).Equal(10)
	})

	t.Run("update keeps analysis", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, opURL, "application/json", `{"name": "CCI Renomeada"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		op := decode[operationJSON](t, resp)
		gt.Value(t, op.Name).Equal("CCI Renomeada")
		gt.Value(t, op.Inputs.LTV).Equal(50.0)
		gt.Value(t, op.Rating).Equal("A+")
	})

	t.Run("invalid update", func(t *testing.T) {
		resp := doRequest(t, http.MethodPut, opURL, "application/json", `{"indexer": "SELIC"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)

		resp = doRequest(t, http.MethodPut, opURL, "application/json", `{"issue_date": "01/05/2024"}`)
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})

	t.Run("list with rating filter", func(t *testing.T) {
		createOperation(t, srv, `{"name": "Sem rating"}`)

		resp := doRequest(t, http.MethodGet, srv.URL+"/api/operations?rating=A%2B", "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		ops := decode[struct {
			Operations []operationJSON `json:"operations"`
		}](t, resp)
		gt.A(t, ops.Operations).Length(1)
		gt.Value(t, ops.Operations[0].ID).Equal(created.ID)

		resp = doRequest(t, http.MethodGet, srv.URL+"/api/operations?rating=N/A", "", "")
		ops = decode[struct {
			Operations []operationJSON `json:"operations"`
		}](t, resp)
		gt.A(t, ops.Operations).Length(1)
		gt.Value(t, ops.Operations[0].Name).Equal("Sem rating")

		resp = doRequest(t, http.MethodGet, srv.URL+"/api/operations?rating=Z", "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})

	t.Run("download report", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, opURL+"/report", "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.Value(t, resp.Header.Get("Content-Type")).Equal("application/pdf")
		gt.String(t, resp.Header.Get("Content-Disposition")).Contains("Relatorio_CCI_CCI_Renomeada.pdf")

		var buf bytes.Buffer
		_, err := buf.ReadFrom(resp.Body)
		gt.NoError(t, err).Required()
		gt.Bool(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-"))).True()
	})

	t.Run("publish report", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, opURL+"/report/publish", "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusCreated)
		_, ok := store.Get(created.ID + "/Relatorio_CCI_CCI_Renomeada.pdf")
		gt.Bool(t, ok).True()
	})

	t.Run("export and import", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, opURL+"/export?format=yaml", "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
		gt.Value(t, resp.Header.Get("Content-Type")).Equal("application/yaml")

		var buf bytes.Buffer
		_, err := buf.ReadFrom(resp.Body)
		gt.NoError(t, err).Required()
		gt.String(t, buf.String()).Contains("op_nome: CCI Renomeada")
		gt.String(t, buf.String()).Contains("rating_final: A+")

		other, _ := setupServer(t)
		imported := doRequest(t, http.MethodPost, other.URL+"/api/operations/import", "application/yaml", buf.String())
		gt.Value(t, imported.StatusCode).Equal(http.StatusCreated)

		result := decode[struct {
			Operation operationJSON `json:"operation"`
			Mismatch  bool          `json:"mismatch"`
		}](t, imported)
		gt.Value(t, result.Operation.ID).Equal(created.ID)
		gt.Value(t, result.Operation.Rating).Equal("A+")
		gt.Bool(t, result.Mismatch).False()
	})

	t.Run("delete", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, opURL, "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusNoContent)

		resp = doRequest(t, http.MethodGet, opURL, "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)

		resp = doRequest(t, http.MethodDelete, opURL, "", "")
		gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)
	})
}

func TestNotFound(t *testing.T) {
	srv, _ := setupServer(t)
	base := srv.URL + "/api/operations/unknown"

	for _, tc := range []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "", ""},
		{http.MethodPost, "/rating", "{}"},
		{http.MethodGet, "/report", ""},
		{http.MethodGet, "/export", ""},
	} {
		t.Run(tc.method+tc.path, func(t *testing.T) {
			resp := doRequest(t, tc.method, base+tc.path, "application/json", tc.body)
			gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)
		})
	}
}

func TestMethodology(t *testing.T) {
	srv, _ := setupServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/methodology", "", "")
	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

	body := decode[struct {
		Attributes []struct {
			Attribute string  `json:"attribute"`
			Weight    float64 `json:"weight"`
		} `json:"attributes"`
		Scale map[string]string `json:"scale"`
	}](t, resp)
	gt.A(t, body.Attributes).Length(5)
	gt.Value(t, body.Attributes[0].Attribute).Equal("ltv")
	gt.Number(t, body.Attributes[0].Weight).Equal(0.2)
	gt.Value(t, body.Scale["10"]).Equal("A+")
	gt.Value(t, body.Scale["4"]).Equal("B")
}

func TestRecalculate(t *testing.T) {
	srv, _ := setupServer(t)
	op := createOperation(t, srv, `{"name": "x"}`)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/operations/"+op.ID+"/rating", "application/json", `{}`)
	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/recalculate", "", "")
	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	summary := decode[struct {
		Total   int      `json:"total"`
		Rated   int      `json:"rated"`
		Changed []string `json:"changed"`
	}](t, resp)
	gt.Value(t, summary.Total).Equal(1)
	gt.Value(t, summary.Rated).Equal(1)
	gt.A(t, summary.Changed).Length(0)
}
