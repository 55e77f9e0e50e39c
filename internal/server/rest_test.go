package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amityadav/smartsearch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResearcher answers with a canned string or error.
type stubResearcher struct {
	answer   string
	err      error
	gotQuery string
}

func (s *stubResearcher) Answer(ctx context.Context, query string) (string, error) {
	s.gotQuery = query
	return s.answer, s.err
}

func newHandler(r Researcher) http.HandlerFunc {
	return CreateRecoveryHandler(CreateRESTHandler(Services{Researcher: r}, config.Config{}))
}

func postResearch(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/research", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestResearchReturnsAnswer(t *testing.T) {
	stub := &stubResearcher{answer: "The sky is blue because of Rayleigh scattering."}
	rec := postResearch(t, newHandler(stub), `{"query": "  why is the sky blue  "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "why is the sky blue", stub.gotQuery, "query is trimmed before use")

	var resp researchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, stub.answer, resp.Answer)
}

func TestResearchRejectsEmptyQuery(t *testing.T) {
	stub := &stubResearcher{answer: "should not be called"}
	rec := postResearch(t, newHandler(stub), `{"query": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid query.")
	assert.Empty(t, stub.gotQuery)
}

func TestResearchRejectsInvalidJSON(t *testing.T) {
	rec := postResearch(t, newHandler(&stubResearcher{}), `{"query": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResearchRejectsGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/research", nil)
	rec := httptest.NewRecorder()
	newHandler(&stubResearcher{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestResearchInternalFault(t *testing.T) {
	stub := &stubResearcher{err: fmt.Errorf("agent crashed")}
	rec := postResearch(t, newHandler(stub), `{"query": "anything"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestHistoryRequiresAPIKey(t *testing.T) {
	handler := CreateRESTHandler(Services{Researcher: &stubResearcher{}}, config.Config{ResearchAPIKey: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	// Store is nil in this setup, so an authorized request reports the
	// feature as disabled rather than leaking a 500.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	newHandler(&stubResearcher{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestRecoveryHandlerCatchesPanics(t *testing.T) {
	handler := CreateRecoveryHandler(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/research", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
