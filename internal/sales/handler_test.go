package sales

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/varejo-erp/varejo/internal/platform/httpx"
	_ "github.com/varejo-erp/varejo/internal/testing/guard"
)

func newTestServer(t *testing.T, repo *fakeRepo) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	handler := NewHandler(logger, NewService(repo, nil))
	r := chi.NewRouter()
	r.Route("/sales", handler.MountRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func decodeProblem(t *testing.T, resp *http.Response) httpx.ProblemDetail {
	t.Helper()
	var problem httpx.ProblemDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	return problem
}

func TestCreateSaleHandlerInsufficientStockMapsToConflict(t *testing.T) {
	srv := newTestServer(t, seededRepo())

	body := `{"customer_id":1,"lines":[{"product_id":11,"qty":50}]}`
	resp, err := http.Post(srv.URL+"/sales", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	problem := decodeProblem(t, resp)
	require.Equal(t, "Insufficient Stock", problem.Title)
	require.Contains(t, problem.Detail, "available 3")
}

func TestCreateSaleHandlerUnknownCustomerMapsToNotFound(t *testing.T) {
	srv := newTestServer(t, seededRepo())

	body := `{"customer_id":77,"lines":[{"product_id":10,"qty":1}]}`
	resp, err := http.Post(srv.URL+"/sales", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateSaleHandlerRejectsEmptyLines(t *testing.T) {
	srv := newTestServer(t, seededRepo())

	resp, err := http.Post(srv.URL+"/sales", "application/json", strings.NewReader(`{"customer_id":1,"lines":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	problem := decodeProblem(t, resp)
	require.Equal(t, "Validation Failed", problem.Title)
}

func TestDeleteSaleHandlerUnknownSale(t *testing.T) {
	srv := newTestServer(t, seededRepo())

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sales/42", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSalesHandlerEnvelope(t *testing.T) {
	repo := seededRepo()
	srv := newTestServer(t, repo)

	body := `{"customer_id":1,"lines":[{"product_id":10,"qty":1}]}`
	resp, err := http.Post(srv.URL+"/sales", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/sales?page=1&page_size=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Sales      []SaleWithCustomer `json:"sales"`
		TotalPages int                `json:"total_pages"`
		TotalCount int                `json:"total_count"`
		Page       int                `json:"page"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Sales, 1)
	require.Equal(t, 1, envelope.TotalPages)
	require.Equal(t, 1, envelope.TotalCount)
	require.Equal(t, 1, envelope.Page)
}
