package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/seo-optimizer/metacheck/analyzer"
	"github.com/seo-optimizer/metacheck/logging"
	"github.com/seo-optimizer/metacheck/middleware"
	"github.com/seo-optimizer/metacheck/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html lang="en"><head>
<title>A well sized title for the test page here</title>
<meta name="viewport" content="width=device-width">
<meta property="og:title" content="OG">
<meta property="og:description" content="OG description">
</head><body></body></html>`

func newTestServer(t *testing.T) (*gin.Engine, *stats.Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	monthly, err := stats.NewStorage(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = monthly.Shutdown() })

	s := &server{
		analyzer:    analyzer.New(analyzer.WithStats(monthly)),
		statistics:  logging.NewStatistics(filepath.Join(dir, "statistics.json")),
		monthly:     monthly,
		rateLimiter: middleware.NewRateLimiter(100, 100),
	}
	return s.routes(), monthly
}

func newPageServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(testPage))
	}))
	t.Cleanup(page.Close)
	return page
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)

	w := get(r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnalyzeEndpoint(t *testing.T) {
	r, monthly := newTestServer(t)
	page := newPageServer(t, http.StatusOK)

	w := post(r, "/api/analyze", `{"url":"`+page.URL+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ID     string             `json:"id"`
		Tags   analyzer.TagRecord `json:"tags"`
		Report analyzer.Report    `json:"report"`
		View   struct {
			Score int `json:"score"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "en", resp.Tags.Language)
	// title 15, og 10, viewport 5, language 5
	assert.Equal(t, 35, resp.Report.OverallScore)
	assert.Equal(t, 35, resp.View.Score)
	require.Len(t, resp.Report.Findings, 8)
	assert.Equal(t, analyzer.KindPassed, resp.Report.Findings[0].Kind)
	assert.Equal(t, 30, resp.Report.Categories[analyzer.CategoryBasicSEO].MaxPoints)

	assert.Equal(t, 1, monthly.GetCurrentStats().Analyses)
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	r, _ := newTestServer(t)
	failing := newPageServer(t, http.StatusInternalServerError)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing url", `{}`, http.StatusBadRequest, "Invalid URL provided"},
		{"malformed body", `{"url":`, http.StatusBadRequest, "Invalid URL provided"},
		{"unsupported protocol", `{"url":"ftp://example.com"}`, http.StatusBadRequest, "Invalid URL provided"},
		{"upstream failure", `{"url":"` + failing.URL + `"}`, http.StatusBadGateway, "Unable to analyze the page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, "/api/analyze", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, w.Body.String())
		})
	}
}

func TestReportEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	page := newPageServer(t, http.StatusOK)

	w := get(r, "/report?url="+url.QueryEscape(page.URL))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "35/100")

	w = get(r, "/report?url=notaurl")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid URL provided", w.Body.String())
}

func TestStatisticsEndpoints(t *testing.T) {
	r, _ := newTestServer(t)
	page := newPageServer(t, http.StatusOK)

	post(r, "/api/analyze", `{"url":"`+page.URL+`"}`)
	post(r, "/api/analyze", `{"url":"ftp://example.com"}`)

	w := get(r, "/api/statistics")
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, 2.0, snapshot["totalRequests"])
	assert.Equal(t, 50.0, snapshot["errorRate"])
	assert.NotContains(t, snapshot, "popularUrls")

	w = get(r, "/api/statistics/monthly")
	require.Equal(t, http.StatusOK, w.Code)
	var monthly []monthlyEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &monthly))
	require.Len(t, monthly, 1)
	assert.Equal(t, 1, monthly[0].Stats.Analyses)
	assert.Equal(t, 1, monthly[0].Stats.Failures)
	assert.Equal(t, 35.0, monthly[0].AverageScore)
}
