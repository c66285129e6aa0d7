package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/lookup"
	"github.com/nhath/irfinder/internal/search"
)

func testCatalog() *company.Catalog {
	return company.NewCatalog([]company.Entry{
		{Ticker: "AAPL", Exchange: "NASDAQ", Country: "United States", PrimaryName: "Apple Inc.", Aliases: []string{"Apple"}},
		{Ticker: "TSLA", Exchange: "NASDAQ", Country: "United States", PrimaryName: "Tesla, Inc.", Aliases: []string{"Tesla"}},
		{Ticker: "DAL", Exchange: "NYSE", Country: "United States", PrimaryName: "Delta Air Lines, Inc.", Aliases: []string{"Delta"}},
	})
}

func newTestServer(t *testing.T, cfg config.Server) *Server {
	t.Helper()
	return New(cfg, company.NewResolver(testCatalog()))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(t, s.Handler(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = do(t, s.Handler(), http.MethodHead, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, config.Server{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc123", w.Header().Get(requestIDHeader))
}

func TestResolveCompany(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(t, s.Handler(), http.MethodPost, "/api/resolve-company", `{"query":"aapl"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out lookup.ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "aapl", out.Query)
	require.NotEmpty(t, out.Matches)
	assert.Equal(t, "AAPL", out.Matches[0].Ticker)
	assert.Equal(t, company.MatchExactTicker, out.Matches[0].MatchType)
	assert.Equal(t, len(out.Matches), out.Count)
	assert.False(t, out.IsAmbiguous)
}

func TestResolveCompany_BlankQuery(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(t, s.Handler(), http.MethodPost, "/api/resolve-company", `{"query":"   "}`)
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []interface{}{}, out["matches"])
	assert.Equal(t, float64(0), out["count"])
	assert.Equal(t, false, out["is_ambiguous"])
}

func TestResolveCompany_BadMaxResults(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(t, s.Handler(), http.MethodPost, "/api/resolve-company", `{"query":"apple","max_results":50}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s.Handler(), http.MethodPost, "/api/resolve-company", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveCompany_Cached(t *testing.T) {
	s := newTestServer(t, config.Server{})

	do(t, s.Handler(), http.MethodPost, "/api/resolve-company", `{"query":"Tesla","max_results":3}`)
	_, ok := s.resolutions.Get("tesla|3")
	assert.True(t, ok)

	w := do(t, s.Handler(), http.MethodPost, "/api/resolve-company", `{"query":"TESLA","max_results":3}`)
	var out lookup.ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "TESLA", out.Query)
	require.NotEmpty(t, out.Matches)
	assert.Equal(t, "TSLA", out.Matches[0].Ticker)
}

func TestVerifyCompany(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(t, s.Handler(), http.MethodPost, "/api/verify-company", `{"ticker":"aapl","company_name":"Apple"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var v company.Verification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.True(t, v.IsValid)
	assert.Equal(t, "AAPL", v.Ticker)

	w = do(t, s.Handler(), http.MethodPost, "/api/verify-company", `{"ticker":"AAPL"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCompanies(t *testing.T) {
	s := newTestServer(t, config.Server{})

	w := do(t, s.Handler(), http.MethodGet, "/api/companies", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out lookup.CompaniesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Count)
	assert.Len(t, out.Companies, 3)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, config.Server{RateLimit: 0.001, RateBurst: 1})

	w := do(t, s.Handler(), http.MethodGet, "/api/companies", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s.Handler(), http.MethodGet, "/api/companies", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, config.Server{})
	w := do(t, s.Handler(), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch_NoDiscovery(t *testing.T) {
	s := newTestServer(t, config.Server{})
	w := do(t, s.Handler(), http.MethodPost, "/search", `{"prompt":"annual reports","serper_api_key":"k"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := newTestServer(t, config.Server{DiscoveryURL: "http://127.0.0.1:1"})
	w := do(t, s.Handler(), http.MethodPost, "/search", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_SerperKeyRequired(t *testing.T) {
	s := newTestServer(t, config.Server{DiscoveryURL: "http://127.0.0.1:1"})
	w := do(t, s.Handler(), http.MethodPost, "/search", `{"prompt":"annual reports"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["detail"], "Serper API key is required")
}

func TestSearch_RelaysWithServerKeys(t *testing.T) {
	var got search.Request
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "rid-1", r.Header.Get(requestIDHeader))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"reports":[{"year":2024,"type":"annual","title":"10-K","url":"https://x"}],"count":1}`))
	}))
	defer upstream.Close()

	s := newTestServer(t, config.Server{DiscoveryURL: upstream.URL, OpenAIKey: "sk-server", SerperKey: "serper-server"})

	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"prompt":"annual reports","ticker":"AAPL","openai_provider":"openrouter"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, "rid-1")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sk-server", got.OpenAIKey)
	assert.Equal(t, "serper-server", got.SerperKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", got.OpenAIBaseURL)
	assert.Equal(t, "AAPL", got.Ticker)

	resp := search.DecodeResponse(w.Body.Bytes())
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "10-K", resp.Reports[0].Title)
}

func TestSearch_ClientKeysWinAndErrorsPassThrough(t *testing.T) {
	var got search.Request
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad prompt"}`))
	}))
	defer upstream.Close()

	s := newTestServer(t, config.Server{DiscoveryURL: upstream.URL, SerperKey: "serper-server"})
	w := do(t, s.Handler(), http.MethodPost, "/search", `{"prompt":"x","serper_api_key":"serper-client"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "bad prompt", decode(t, w)["detail"])
	assert.Equal(t, "serper-client", got.SerperKey)
}

func TestClientAgainstServer(t *testing.T) {
	s := newTestServer(t, config.Server{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := lookup.New(ts.URL)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	res, err := c.Resolve(ctx, "delta", 5)
	require.NoError(t, err)
	require.NotEmpty(t, res.Matches)
	assert.Equal(t, "DAL", res.Matches[0].Ticker)

	v, err := c.Verify(ctx, "TSLA", "Tesla")
	require.NoError(t, err)
	assert.True(t, v.IsValid)

	all, err := c.Companies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
