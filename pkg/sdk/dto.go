package sdk

import (
	"encoding/json"
	"net/http"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
)

// ApiResponse represents the standard envelope used by the health endpoint
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

/** Requests */

// ChatRequest is the body of POST /api/chat and POST /api/chat/suggestions
type ChatRequest struct {
	Message string                `json:"message"`
	History transcript.Transcript `json:"history"`
}

/** Responses */

// ChatResponse is the successful body of POST /api/chat
type ChatResponse struct {
	Response string                `json:"response"`
	History  transcript.Transcript `json:"history"`
	Chunks   []string              `json:"chunks"`
}

// AsGinResponse converts the response to a format suitable for Gin framework
func (r ChatResponse) AsGinResponse() (int, any) {
	if r.Chunks == nil {
		r.Chunks = []string{}
	}
	if r.History == nil {
		r.History = transcript.Transcript{}
	}
	return http.StatusOK, r
}

// SuggestionsResponse is the successful body of POST /api/chat/suggestions
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// AsGinResponse converts the response to a format suitable for Gin framework
func (r SuggestionsResponse) AsGinResponse() (int, any) {
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	return http.StatusOK, r
}

// ErrorResponse is the body of every failed chat request
type ErrorResponse struct {
	Code  int    `json:"-"`
	Error string `json:"error"`
}

// NewErrorResponse creates an error response with a status code and public message
func NewErrorResponse(code int, message string) ErrorResponse {
	return ErrorResponse{Code: code, Error: message}
}

// AsGinResponse converts the response to a format suitable for Gin framework
func (r ErrorResponse) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the response to a JSON string
func (r ErrorResponse) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
