// Package analysis sends captured dev server logs to a language-model
// provider and returns its fix suggestion.
//
// Each provider is a fixed endpoint that accepts
//
//	{"log": "<stderr text>", "api_key": "<key>"}
//
// and answers with {"suggestion": "<text>"}. One request is made per
// analysis; there is no retry and no fallback provider.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

const (
	// GeminiEndpoint is the default analysis endpoint for Gemini.
	GeminiEndpoint = "https://api.gemini.com/v1/analyze"

	// OpenAIEndpoint is the default analysis endpoint for OpenAI.
	OpenAIEndpoint = "https://api.openai.com/v1/completions"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20

	// maxExcerpt caps how much of an error body is echoed back to the user.
	maxExcerpt = 200
)

// DefaultEndpoints returns a fresh provider → URL table.
func DefaultEndpoints() map[model.Provider]string {
	return map[model.Provider]string{
		model.ProviderGemini: GeminiEndpoint,
		model.ProviderOpenAI: OpenAIEndpoint,
	}
}

// Doer sends an HTTP request. *http.Client satisfies it.
//
// Accepting the interface rather than *http.Client lets tests substitute a
// recording client, and lets callers wrap the transport (proxies, custom
// TLS) without the analyzer knowing about it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is the JSON body posted to a provider.
type Request struct {
	Log    string `json:"log"`
	APIKey string `json:"api_key"`
}

// Analyzer posts logs to provider endpoints.
type Analyzer struct {
	client    Doer
	endpoints map[model.Provider]string
	userAgent string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEndpoint overrides the URL used for provider p. Empty URLs are ignored.
func WithEndpoint(p model.Provider, url string) Option {
	return func(a *Analyzer) {
		if url != "" {
			a.endpoints[p] = url
		}
	}
}

// WithUserAgent sets the User-Agent header of analysis requests.
func WithUserAgent(ua string) Option {
	return func(a *Analyzer) {
		a.userAgent = ua
	}
}

// New creates an Analyzer that sends requests through client.
// A nil client uses http.DefaultClient.
func New(client Doer, opts ...Option) *Analyzer {
	if client == nil {
		client = http.DefaultClient
	}

	a := &Analyzer{
		client:    client,
		endpoints: DefaultEndpoints(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Endpoint returns the URL requests for p are sent to.
func (a *Analyzer) Endpoint(p model.Provider) (string, bool) {
	url, ok := a.endpoints[p]
	return url, ok
}

// Analyze posts log to the endpoint of provider p and returns the trimmed
// suggestion. Every failure wraps model.ErrAnalysisFailed.
//
// The log is sent verbatim, whitespace included. The response body is read
// fully (up to maxResponseBytes) before the status is checked so that a
// provider's error message can be echoed back in the failure, which is
// usually the quickest way for the operator to spot a bad key or quota
// problem. No retry is attempted: a failed analysis is reported and the
// run ends, since the dev server would have to be started again anyway to
// produce a fresh log.
func (a *Analyzer) Analyze(ctx context.Context, log string, p model.Provider, apiKey string) (string, error) {
	url, ok := a.Endpoint(p)
	if !ok {
		return "", failure("no endpoint for provider %q", p)
	}

	body, err := json.Marshal(Request{Log: log, APIKey: apiKey})
	if err != nil {
		return "", failure("encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", failure("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", failure("%v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", failure("read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if excerpt := excerpt(data); excerpt != "" {
			return "", failure("status %d: %s", resp.StatusCode, excerpt)
		}
		return "", failure("status %d", resp.StatusCode)
	}

	return parseSuggestion(data)
}

// parseSuggestion extracts the "suggestion" string from a response body.
//
// gjson is used instead of decoding into a struct so that the three ways a
// body can be wrong (not JSON, no field, field of another type) produce
// distinct messages. Extra fields in the response are ignored.
func parseSuggestion(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", failure("malformed response body")
	}

	field := gjson.GetBytes(data, "suggestion")
	if !field.Exists() {
		return "", failure("response has no suggestion field")
	}
	if field.Type != gjson.String {
		return "", failure("suggestion field is %s, not a string", field.Type)
	}

	return strings.TrimSpace(field.String()), nil
}

// excerpt shortens an error body for display. HTML error pages from
// proxies can be large; the first maxExcerpt bytes are enough to tell
// what went wrong.
func excerpt(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxExcerpt {
		s = s[:maxExcerpt] + "..."
	}
	return s
}

func failure(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", model.ErrAnalysisFailed, fmt.Sprintf(format, args...))
}
