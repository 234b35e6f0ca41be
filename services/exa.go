package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// ExaService handles neural web search via the Exa API, used to harvest
// candidate brand websites for the enrichment pipeline
type ExaService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ExaSearchRequest represents a request to the Exa search API
type ExaSearchRequest struct {
	Query      string `json:"query"`
	Type       string `json:"type"`
	NumResults int    `json:"numResults"`
}

// ExaSearchResponse represents the Exa search API response
type ExaSearchResponse struct {
	Results []ExaSearchResult `json:"results"`
}

// ExaSearchResult represents a single Exa search result
type ExaSearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Scheme-plus-host prefix of a result URL, kept as the candidate domain
var domainPrefixPattern = regexp.MustCompile(`https?://[^/]+`)

// NewExaService creates a new Exa search service instance
func NewExaService() *ExaService {
	apiKey := os.Getenv("EXA_API_KEY")
	baseURL := os.Getenv("EXA_BASE_URL")

	if baseURL == "" {
		baseURL = "https://api.exa.ai"
	}

	return &ExaService{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsAvailable checks if the Exa service is configured
func (s *ExaService) IsAvailable() bool {
	return s.apiKey != ""
}

// FindBrandWebsites searches for "<query> brands official websites" and
// returns a keyword-to-domain map built from the result titles. Every
// lower-cased title word longer than 3 characters maps to that result's
// domain; the first writer wins per keyword.
func (s *ExaService) FindBrandWebsites(query string) (map[string]string, error) {
	request := ExaSearchRequest{
		Query:      fmt.Sprintf("%s brands official websites", query),
		Type:       "neural",
		NumResults: 6,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Exa request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create Exa request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Exa request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Exa API error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Exa response: %w", err)
	}

	var exaResp ExaSearchResponse
	if err := json.Unmarshal(body, &exaResp); err != nil {
		return nil, fmt.Errorf("failed to parse Exa response: %w", err)
	}

	return buildKeywordMap(exaResp.Results), nil
}

// buildKeywordMap extracts brand website candidates from search results,
// keyed by significant title words for matching against brand names later
func buildKeywordMap(results []ExaSearchResult) map[string]string {
	websites := make(map[string]string)

	for _, result := range results {
		if result.URL == "" {
			continue
		}

		domain := domainPrefixPattern.FindString(result.URL)
		if domain == "" {
			continue
		}

		for _, word := range strings.Fields(strings.ToLower(result.Title)) {
			if len(word) > 3 {
				if _, exists := websites[word]; !exists {
					websites[word] = domain
				}
			}
		}
	}

	return websites
}

// GetStatus returns the status of the Exa service
func (s *ExaService) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"base_url": s.baseURL,
		"timeout":  s.httpClient.Timeout.String(),
	}

	if s.IsAvailable() {
		status["status"] = "enabled"
		// Mask API key for security
		if len(s.apiKey) > 8 {
			status["api_key"] = s.apiKey[:4] + "..." + s.apiKey[len(s.apiKey)-4:]
		} else {
			status["api_key"] = "***"
		}
	} else {
		status["status"] = "disabled"
		status["error"] = "EXA_API_KEY not set"
	}

	return status
}
