package api

import "fmt"

// ChatRequest represents the request body for POST /chat
type ChatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// ChatResponse represents the response from POST /chat
type ChatResponse struct {
	Response string `json:"response"`
	ThreadID string `json:"threadId,omitempty"` // Absent when the service did not open a thread
}

// ResetResponse represents the response from DELETE /thread/{userId}.
// The client ignores it; the stub service produces it.
type ResetResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// HealthResponse represents the response from GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// StatusError is returned when the service answers with a non-success status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}
