package models

// Response status constants
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metadata represents generic metadata
type Metadata map[string]interface{}
