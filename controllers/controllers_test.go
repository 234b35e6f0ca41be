package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharad-mishra/bharat-lens/models"
)

const comparisonJSON = `{
  "summary": "Indian brands offer value, global brands offer polish",
  "indianBrands": [
    {"name": "Lava", "description": "d", "pros": ["p"], "cons": ["c"]},
    {"name": "Micromax", "description": "d", "pros": ["p"], "cons": ["c"]},
    {"name": "Jio", "description": "d", "pros": ["p"], "cons": ["c"]}
  ],
  "globalBrands": [
    {"name": "Samsung", "description": "d", "pros": ["p"], "cons": ["c"]},
    {"name": "Apple", "description": "d", "pros": ["p"], "cons": ["c"]},
    {"name": "Sony", "description": "d", "pros": ["p"], "cons": ["c"]}
  ]
}`

// fakeGemini answers every generateContent call with the given text
func fakeGemini(t *testing.T, text string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// newTestController configures provider env for a controller under test.
// The Exa provider is always unreachable so augmentation degrades.
func newTestController(t *testing.T, geminiURL string) *Controller {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("GEMINI_BASE_URL", geminiURL)
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("EXA_API_KEY", "test-exa-key")
	t.Setenv("EXA_BASE_URL", "http://127.0.0.1:1")
	return NewController()
}

func postSearch(t *testing.T, c *Controller, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/search-brands", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.SearchBrandsHandler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	return errResp
}

func TestSearchBrands_Success(t *testing.T) {
	gemini := fakeGemini(t, "```json\n"+comparisonJSON+"\n```")
	c := newTestController(t, gemini.URL)

	rec := postSearch(t, c, `{"query": "budget smartphones"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	require.Len(t, result.IndianBrands, 3)
	require.Len(t, result.GlobalBrands, 3)
	for _, brand := range append(result.IndianBrands, result.GlobalBrands...) {
		assert.NotEmpty(t, brand.Website, "brand %s has no website", brand.Name)
	}
}

func TestSearchBrands_EmptyQuery(t *testing.T) {
	gemini := fakeGemini(t, "unused")
	c := newTestController(t, gemini.URL)

	for _, body := range []string{`{"query": ""}`, `{}`, `not json at all`} {
		rec := postSearch(t, c, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query is required", decodeError(t, rec).Error)
	}
}

func TestSearchBrands_MissingKeys(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer upstream.Close()

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_BASE_URL", upstream.URL)
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("EXA_API_KEY", "")
	t.Setenv("EXA_BASE_URL", upstream.URL)

	c := NewController()
	rec := postSearch(t, c, `{"query": "budget smartphones"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "API keys not configured", decodeError(t, rec).Error)
	assert.Zero(t, atomic.LoadInt32(&calls), "no provider may be called without keys")
}

func TestSearchBrands_UnparseableAIResponse(t *testing.T) {
	gemini := fakeGemini(t, "Sorry, I answer only in prose.")
	c := newTestController(t, gemini.URL)

	rec := postSearch(t, c, `{"query": "budget smartphones"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to parse AI response", decodeError(t, rec).Error)
}

func TestSearchBrands_AIServiceError(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer gemini.Close()

	c := newTestController(t, gemini.URL)
	rec := postSearch(t, c, `{"query": "budget smartphones"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "AI service error", decodeError(t, rec).Error)
}

func TestHealthHandler(t *testing.T) {
	gemini := fakeGemini(t, "unused")
	c := newTestController(t, gemini.URL)

	rec := httptest.NewRecorder()
	c.HealthHandler(rec, httptest.NewRequest("GET", "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "OK", health.Status)

	_, err := time.Parse(time.RFC3339, health.Timestamp)
	assert.NoError(t, err, "timestamp must be ISO-8601")
}

func TestTestHandler(t *testing.T) {
	gemini := fakeGemini(t, "unused")
	c := newTestController(t, gemini.URL)

	rec := httptest.NewRecorder()
	c.TestHandler(rec, httptest.NewRequest("GET", "/api/test", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Env.HasGeminiKey)
	assert.True(t, resp.Env.HasExaKey)
	assert.NotContains(t, rec.Body.String(), "test-gemini-key", "key values must never leak")
}

func TestStatusHandler(t *testing.T) {
	gemini := fakeGemini(t, "unused")
	c := newTestController(t, gemini.URL)

	rec := httptest.NewRecorder()
	c.StatusHandler(rec, httptest.NewRequest("GET", "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "active", status["status"])

	providers, ok := status["providers"].(map[string]interface{})
	require.True(t, ok, "providers section missing")

	geminiStatus, ok := providers["gemini"].(map[string]interface{})
	require.True(t, ok, "gemini section missing")
	assert.Equal(t, "available", geminiStatus["status"])
	assert.Equal(t, "test...-key", geminiStatus["api_key"], "API key must be masked")

	exaStatus, ok := providers["exa"].(map[string]interface{})
	require.True(t, ok, "exa section missing")
	assert.Equal(t, "enabled", exaStatus["status"])

	assert.NotContains(t, rec.Body.String(), "test-gemini-key", "key values must never leak")
	assert.NotContains(t, rec.Body.String(), "test-exa-key", "key values must never leak")
}

func TestTestHandler_MissingKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_BASE_URL", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("EXA_API_KEY", "")
	t.Setenv("EXA_BASE_URL", "")

	c := NewController()
	rec := httptest.NewRecorder()
	c.TestHandler(rec, httptest.NewRequest("GET", "/api/test", nil))

	var resp models.TestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Env.HasGeminiKey)
	assert.False(t, resp.Env.HasExaKey)
}
