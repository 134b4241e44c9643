package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// recordingServer starts an httptest server that records the last decoded
// request body and answers with the given status and body.
func recordingServer(t *testing.T, status int, body string) (*httptest.Server, *Request, *int32) {
	t.Helper()

	var got Request
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &got))

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, &got, &calls
}

func TestDefaultEndpoints(t *testing.T) {
	endpoints := DefaultEndpoints()
	assert.Equal(t, "https://api.gemini.com/v1/analyze", endpoints[model.ProviderGemini])
	assert.Equal(t, "https://api.openai.com/v1/completions", endpoints[model.ProviderOpenAI])
}

func TestNew_WithEndpoint(t *testing.T) {
	a := New(nil,
		WithEndpoint(model.ProviderGemini, "http://localhost:9999/analyze"),
		WithEndpoint(model.ProviderOpenAI, ""),
	)

	url, ok := a.Endpoint(model.ProviderGemini)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:9999/analyze", url)

	url, ok = a.Endpoint(model.ProviderOpenAI)
	require.True(t, ok)
	assert.Equal(t, OpenAIEndpoint, url, "empty override keeps the default")
}

// TestAnalyze_Success sends a captured log and returns the trimmed suggestion.
func TestAnalyze_Success(t *testing.T) {
	srv, got, calls := recordingServer(t, http.StatusOK, `{"suggestion": " Install the missing module. "}`)

	a := New(srv.Client(), WithEndpoint(model.ProviderGemini, srv.URL), WithUserAgent("dev-doctor/test"))
	suggestion, err := a.Analyze(context.Background(), "Module not found: Error", model.ProviderGemini, "g-key")
	require.NoError(t, err)

	assert.Equal(t, "Install the missing module.", suggestion)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "Module not found: Error", got.Log)
	assert.Equal(t, "g-key", got.APIKey)
}

// TestAnalyze_Failures covers every AnalysisFailure path.
func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: "overloaded", wantMsg: "status 503: overloaded"},
		{name: "unauthorized without body", status: http.StatusUnauthorized, body: "", wantMsg: "status 401"},
		{name: "malformed body", status: http.StatusOK, body: "<html>oops</html>", wantMsg: "malformed response body"},
		{name: "missing field", status: http.StatusOK, body: `{"choices": []}`, wantMsg: "no suggestion field"},
		{name: "non-string field", status: http.StatusOK, body: `{"suggestion": 42}`, wantMsg: "not a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := recordingServer(t, tt.status, tt.body)

			a := New(srv.Client(), WithEndpoint(model.ProviderOpenAI, srv.URL))
			suggestion, err := a.Analyze(context.Background(), "boom", model.ProviderOpenAI, "sk")
			require.Error(t, err)
			assert.Empty(t, suggestion)
			assert.True(t, errors.Is(err, model.ErrAnalysisFailed))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

// TestAnalyze_NetworkError verifies that a transport failure is an
// AnalysisFailure.
func TestAnalyze_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a := New(http.DefaultClient, WithEndpoint(model.ProviderGemini, url))
	_, err := a.Analyze(context.Background(), "boom", model.ProviderGemini, "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAnalysisFailed))
}

func TestAnalyze_UnknownProvider(t *testing.T) {
	a := New(nil)
	_, err := a.Analyze(context.Background(), "boom", model.Provider("claude"), "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAnalysisFailed))
}

// TestAnalyze_LongErrorBodyIsTruncated keeps error messages readable.
func TestAnalyze_LongErrorBodyIsTruncated(t *testing.T) {
	srv, _, _ := recordingServer(t, http.StatusBadGateway, strings.Repeat("x", 1000))

	a := New(srv.Client(), WithEndpoint(model.ProviderGemini, srv.URL))
	_, err := a.Analyze(context.Background(), "boom", model.ProviderGemini, "k")
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 300)
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}

func TestParseSuggestion(t *testing.T) {
	got, err := parseSuggestion([]byte(`{"suggestion": "\n  Run npm install.\n"}`))
	require.NoError(t, err)
	assert.Equal(t, "Run npm install.", got)
}
