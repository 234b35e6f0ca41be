package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExaService(t *testing.T, handler http.HandlerFunc) (*ExaService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("EXA_API_KEY", "test-exa-key")
	t.Setenv("EXA_BASE_URL", server.URL)

	return NewExaService(), server
}

func TestFindBrandWebsites(t *testing.T) {
	var gotRequest ExaSearchRequest
	var gotAPIKey string

	service, _ := newTestExaService(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(ExaSearchResponse{
			Results: []ExaSearchResult{
				{Title: "Samsung Official Store", URL: "https://www.samsung.com/in/page"},
				{Title: "Samsung News Digest", URL: "https://news.example.com/samsung"},
			},
		})
	})

	websites, err := service.FindBrandWebsites("budget smartphones")
	require.NoError(t, err)

	assert.Equal(t, "test-exa-key", gotAPIKey)
	assert.Equal(t, "budget smartphones brands official websites", gotRequest.Query)
	assert.Equal(t, "neural", gotRequest.Type)
	assert.Equal(t, 6, gotRequest.NumResults)

	// Keywords come from title words longer than 3 characters
	assert.Equal(t, "https://www.samsung.com", websites["samsung"])
	assert.Equal(t, "https://www.samsung.com", websites["official"])
	assert.Equal(t, "https://www.samsung.com", websites["store"])

	// First writer wins: the second result does not overwrite "samsung"
	assert.Equal(t, "https://news.example.com", websites["news"])
	assert.NotContains(t, websites, "the")
}

func TestFindBrandWebsites_SkipsShortWordsAndEmptyURLs(t *testing.T) {
	service, _ := newTestExaService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ExaSearchResponse{
			Results: []ExaSearchResult{
				{Title: "top ten of all time", URL: "https://rank.example.com/x"},
				{Title: "Missing URL Brand", URL: ""},
			},
		})
	})

	websites, err := service.FindBrandWebsites("shoes")
	require.NoError(t, err)

	// "top", "ten", "of", "all" are too short; "time" is the only keeper
	assert.Equal(t, map[string]string{"time": "https://rank.example.com"}, websites)
}

func TestFindBrandWebsites_UpstreamError(t *testing.T) {
	service, _ := newTestExaService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := service.FindBrandWebsites("shoes")
	assert.Error(t, err)
}

func TestFindBrandWebsites_Unreachable(t *testing.T) {
	t.Setenv("EXA_API_KEY", "test-exa-key")
	t.Setenv("EXA_BASE_URL", "http://127.0.0.1:1")

	service := NewExaService()
	_, err := service.FindBrandWebsites("shoes")
	assert.Error(t, err)
}

func TestExaService_Availability(t *testing.T) {
	t.Setenv("EXA_API_KEY", "")
	t.Setenv("EXA_BASE_URL", "")
	assert.False(t, NewExaService().IsAvailable())

	t.Setenv("EXA_API_KEY", "k")
	assert.True(t, NewExaService().IsAvailable())
}

func TestBuildKeywordMap_FirstWriterWins(t *testing.T) {
	websites := buildKeywordMap([]ExaSearchResult{
		{Title: "acme widgets", URL: "https://first.example.com/a"},
		{Title: "acme gadgets", URL: "https://second.example.com/b"},
	})

	assert.Equal(t, "https://first.example.com", websites["acme"])
	assert.Equal(t, "https://first.example.com", websites["widgets"])
	assert.Equal(t, "https://second.example.com", websites["gadgets"])
}
