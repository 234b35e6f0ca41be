package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/sharad-mishra/bharat-lens/models"
	"github.com/sharad-mishra/bharat-lens/services"
)

// Controller handles the API endpoints and owns the brand service
type Controller struct {
	brandService *services.BrandService
}

// NewController creates a new controller instance
func NewController() *Controller {
	return &Controller{
		brandService: services.NewBrandService(),
	}
}

// SearchBrandsHandler processes brand search requests through the
// enrichment pipeline
func (c *Controller) SearchBrandsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, services.ErrQueryRequired.Error())
		return
	}

	if req.Query == "" {
		c.writeError(w, http.StatusBadRequest, services.ErrQueryRequired.Error())
		return
	}

	start := time.Now()
	result, err := c.brandService.Search(req.Query)
	if err != nil {
		services.RecordSearch(models.StatusError, time.Since(start).Seconds())
		log.Printf("Search error: %v", err)

		status, message := classifySearchError(err)
		c.writeError(w, status, message)
		return
	}

	services.RecordSearch(models.StatusSuccess, time.Since(start).Seconds())
	c.writeJSON(w, http.StatusOK, result)
}

// HealthHandler provides a health check endpoint
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// TestHandler reports whether the provider keys are configured.
// Booleans only, never the key values.
func (c *Controller) TestHandler(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, models.TestResponse{
		Message: "Server is working!",
		Env:     c.brandService.KeyStatus(),
	})
}

// StatusHandler reports the aggregate state of the pipeline providers.
// API keys appear masked, never in full.
func (c *Controller) StatusHandler(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.brandService.GetStatus())
}

// classifySearchError maps a pipeline error to its HTTP status and the
// short user-presentable message; anything unrecognized becomes the
// generic catch-all
func classifySearchError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrQueryRequired):
		return http.StatusBadRequest, services.ErrQueryRequired.Error()
	case errors.Is(err, services.ErrKeysNotConfigured):
		return http.StatusInternalServerError, services.ErrKeysNotConfigured.Error()
	case errors.Is(err, services.ErrAIService):
		return http.StatusInternalServerError, services.ErrAIService.Error()
	case errors.Is(err, services.ErrNoAIResponse):
		return http.StatusInternalServerError, services.ErrNoAIResponse.Error()
	case errors.Is(err, services.ErrParseAIResponse):
		return http.StatusInternalServerError, services.ErrParseAIResponse.Error()
	default:
		return http.StatusInternalServerError, "Search failed"
	}
}

// writeJSON writes a JSON response with the given status code
func (c *Controller) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError writes an ErrorResponse with the given status code
func (c *Controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, models.ErrorResponse{Error: message, Message: message})
}
