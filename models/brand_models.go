package models

// Brand represents a single brand entry in a comparison result
type Brand struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Website     string   `json:"website,omitempty"` // Brand's official website, always filled by the pipeline
}

// SearchRequest represents an incoming brand search request
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult represents a completed brand comparison
type SearchResult struct {
	Summary      string  `json:"summary"`
	IndianBrands []Brand `json:"indianBrands"`
	GlobalBrands []Brand `json:"globalBrands"`
}

// ErrorResponse represents any failure surfaced to the caller
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SourceLink represents a validated external source shown alongside results
type SourceLink struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Domain        string `json:"domain"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TestResponse represents the diagnostic endpoint payload
type TestResponse struct {
	Message string        `json:"message"`
	Env     TestKeyStatus `json:"env"`
}

// TestKeyStatus reports provider key presence as booleans, never the values
type TestKeyStatus struct {
	HasGeminiKey bool `json:"hasGeminiKey"`
	HasExaKey    bool `json:"hasExaKey"`
}
