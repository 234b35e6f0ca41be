package services

import "errors"

// Pipeline errors, matched by the controllers to pick the HTTP status and
// the user-facing message. The text is exactly what the caller sees.
var (
	// ErrQueryRequired is returned for an empty search query
	ErrQueryRequired = errors.New("Query is required")

	// ErrKeysNotConfigured is returned when a provider API key is missing.
	// Checked before any network call is made.
	ErrKeysNotConfigured = errors.New("API keys not configured")

	// ErrAIService is returned when the AI provider responds with a
	// non-success status
	ErrAIService = errors.New("AI service error")

	// ErrNoAIResponse is returned when the AI provider response carries
	// no generated text
	ErrNoAIResponse = errors.New("No response from AI")

	// ErrParseAIResponse is returned when the generated text is not
	// valid JSON
	ErrParseAIResponse = errors.New("Failed to parse AI response")
)
