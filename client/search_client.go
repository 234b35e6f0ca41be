// Package client implements the consumer side of the brand search API:
// cache-aware search invocation, debouncing and user-facing state for a
// frontend to render.
package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sharad-mishra/bharat-lens/models"
	"github.com/sharad-mishra/bharat-lens/utils"
)

// Status represents the state of the current search invocation
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// How long input must stay quiet before a debounced search fires
const debounceDelay = 300 * time.Millisecond

// Notifier receives transient user-facing notices, distinct from the
// persisted error state shown in the result area
type Notifier interface {
	Success(message string)
	Error(message string)
}

// nopNotifier drops all notices
type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// SearchClient coordinates cache lookup, search API calls, debouncing and
// loading/error state for a single search flow
type SearchClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *SearchCache
	notifier   Notifier

	mu      sync.Mutex
	status  Status
	results *models.SearchResult
	lastErr *models.ErrorResponse

	timerMu sync.Mutex
	timer   *time.Timer
}

// NewSearchClient creates a search client for the given API base URL.
// A nil notifier silently drops notices.
func NewSearchClient(baseURL string, notifier Notifier) *SearchClient {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &SearchClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cache:    NewSearchCache(),
		notifier: notifier,
		status:   StatusIdle,
	}
}

// PerformSearch runs one search invocation: cache first, then the API.
// The outcome is available through Status, Results and Error.
func (s *SearchClient) PerformSearch(query string) {
	if strings.TrimSpace(query) == "" {
		s.setError(&models.ErrorResponse{
			Error:   "Please enter a search query",
			Message: "Please enter a search query",
		}, false)
		return
	}

	s.setLoading()

	cacheKey := GenerateCacheKey(query)
	if ShouldCacheQuery(query) {
		if cached := s.cache.Get(cacheKey); cached != nil {
			s.setResults(cached)
			s.notifier.Success("Results loaded from cache")
			return
		}
	}

	payload, err := json.Marshal(models.SearchRequest{Query: query})
	if err != nil {
		s.setError(unexpectedError(), true)
		return
	}

	resp, err := s.httpClient.Post(s.baseURL+"/api/search-brands", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		s.setError(unexpectedError(), true)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Use the server's error message when the body has one
		var errData models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errData)

		message := errData.Error
		if message == "" {
			message = "Failed to fetch results. Please try again."
		}

		s.setError(&models.ErrorResponse{Error: message, Message: message}, true)
		return
	}

	var raw struct {
		models.SearchResult
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		s.setError(unexpectedError(), true)
		return
	}

	// An error-shaped payload counts as a failure even on a 200
	if raw.Error != "" {
		s.setError(&models.ErrorResponse{Error: raw.Error, Message: raw.Error}, true)
		return
	}

	result := sanitizeResult(&raw.SearchResult)
	s.setResults(result)

	if ShouldCacheQuery(query) {
		s.cache.Set(cacheKey, result)
	}
}

// PerformDebouncedSearch schedules a search after the debounce delay.
// Invoking again cancels any pending scheduled search, so only the last
// query in a burst actually fires.
func (s *SearchClient) PerformDebouncedSearch(query string) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(debounceDelay, func() {
		s.PerformSearch(query)
	})
}

// Status returns the state of the current invocation
func (s *SearchClient) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// IsLoading reports whether a search is in flight
func (s *SearchClient) IsLoading() bool {
	return s.Status() == StatusLoading
}

// Results returns the last successful result, or nil
func (s *SearchClient) Results() *models.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Error returns the persisted error of the last invocation, or nil
func (s *SearchClient) Error() *models.ErrorResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// CacheStats reports the size of the underlying result cache
func (s *SearchClient) CacheStats() (size, maxSize int) {
	return s.cache.Stats()
}

func (s *SearchClient) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.results = nil
	s.lastErr = nil
}

func (s *SearchClient) setResults(result *models.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusSuccess
	s.results = result
	s.lastErr = nil
}

func (s *SearchClient) setError(errResp *models.ErrorResponse, notify bool) {
	s.mu.Lock()
	s.status = StatusError
	s.results = nil
	s.lastErr = errResp
	s.mu.Unlock()

	if notify {
		message := errResp.Message
		if message == "" {
			message = errResp.Error
		}
		if message == "" {
			message = "Something went wrong. Please try again."
		}
		s.notifier.Error(message)
	}
}

func unexpectedError() *models.ErrorResponse {
	message := "An unexpected error occurred. Please check your connection and try again."
	return &models.ErrorResponse{Error: message, Message: message}
}

// sanitizeResult cleans every displayable string and link before the
// result is handed to the presentation layer
func sanitizeResult(result *models.SearchResult) *models.SearchResult {
	clean := &models.SearchResult{
		Summary:      utils.SanitizeText(result.Summary),
		IndianBrands: sanitizeBrands(result.IndianBrands),
		GlobalBrands: sanitizeBrands(result.GlobalBrands),
	}
	return clean
}

func sanitizeBrands(brands []models.Brand) []models.Brand {
	clean := make([]models.Brand, 0, len(brands))
	for _, brand := range brands {
		clean = append(clean, models.Brand{
			Name:        utils.SanitizeText(brand.Name),
			Description: utils.SanitizeText(brand.Description),
			Pros:        sanitizeAll(brand.Pros),
			Cons:        sanitizeAll(brand.Cons),
			Website:     utils.SanitizeURL(brand.Website),
		})
	}
	return clean
}

func sanitizeAll(items []string) []string {
	clean := make([]string, 0, len(items))
	for _, item := range items {
		if sanitized := utils.SanitizeText(item); sanitized != "" {
			clean = append(clean, sanitized)
		}
	}
	return clean
}
