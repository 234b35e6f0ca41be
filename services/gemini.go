package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// GeminiService handles communication with Google's Gemini API
type GeminiService struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// GeminiRequest represents a request to the Gemini generateContent API
type GeminiRequest struct {
	Contents         []GeminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig,omitempty"`
}

// GeminiContent represents one content block in a Gemini request
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a single text part
type GeminiPart struct {
	Text string `json:"text"`
}

// GenerationConfig controls Gemini output generation
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GeminiResponse represents a response from the Gemini API
type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []GeminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGeminiService creates a new Gemini service instance
func NewGeminiService() *GeminiService {
	apiKey := os.Getenv("GEMINI_API_KEY")
	baseURL := os.Getenv("GEMINI_BASE_URL")
	model := os.Getenv("GEMINI_MODEL")

	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiService{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsAvailable checks if the Gemini service is configured
func (g *GeminiService) IsAvailable() bool {
	return g.apiKey != ""
}

// GetModel returns the current model
func (g *GeminiService) GetModel() string {
	return g.model
}

// GenerateContent sends a prompt to Gemini and returns the generated text.
// Low temperature and a bounded token budget keep the output predictable
// enough to parse as JSON.
func (g *GeminiService) GenerateContent(prompt string) (string, error) {
	request := GeminiRequest{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:     0.3,
			MaxOutputTokens: 2048,
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Gemini request: %w", err)
	}

	requestURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req, err := http.NewRequest("POST", requestURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrAIService, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Gemini API error %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%w: status %d", ErrAIService, resp.StatusCode)
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrAIService, err)
	}

	if geminiResp.Error != nil {
		log.Printf("Gemini API error: %s", geminiResp.Error.Message)
		return "", fmt.Errorf("%w: %s", ErrAIService, geminiResp.Error.Status)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoAIResponse
	}

	content := geminiResp.Candidates[0].Content.Parts[0].Text
	if content == "" {
		return "", ErrNoAIResponse
	}

	return content, nil
}

// GetStatus returns the status of the Gemini service
func (g *GeminiService) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"base_url": g.baseURL,
		"model":    g.model,
		"timeout":  g.httpClient.Timeout.String(),
	}

	if g.IsAvailable() {
		status["status"] = "available"
		// Mask API key for security
		if len(g.apiKey) > 8 {
			status["api_key"] = g.apiKey[:4] + "..." + g.apiKey[len(g.apiKey)-4:]
		} else {
			status["api_key"] = "***"
		}
	} else {
		status["status"] = "unavailable"
		status["error"] = "GEMINI_API_KEY not set"
	}

	return status
}
