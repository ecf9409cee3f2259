package models

// APIErrorResponse is the error body returned by the gym backend.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	Field      string   `json:"field,omitempty"`
}
