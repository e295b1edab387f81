// Package sdk is the HTTP client and wire types for the chat gateway.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
)

// DefaultTimeout bounds every request made by a Client
const DefaultTimeout = 60 * time.Second

// APIError is returned when the gateway answers with a non-2xx status
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[BACKEND]: backend '%s %s' failed: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Client wraps calls to the chat gateway
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the gateway at baseURL. A zero timeout uses DefaultTimeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Chat sends a message with the current history and returns the gateway's reply
func (c *Client) Chat(ctx context.Context, message string, history transcript.Transcript) (*ChatResponse, error) {
	if history == nil {
		history = transcript.Transcript{}
	}

	var out ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", ChatRequest{Message: message, History: history}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Suggestions asks the gateway for follow-up prompts
func (c *Client) Suggestions(ctx context.Context, message string, history transcript.Transcript) ([]string, error) {
	if history == nil {
		history = transcript.Transcript{}
	}

	var out SuggestionsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/suggestions", ChatRequest{Message: message, History: history}, &out); err != nil {
		return nil, err
	}

	return out.Suggestions, nil
}

// Health checks that the gateway is up
func (c *Client) Health(ctx context.Context) error {
	var out ApiResponse[any]
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return err
	}

	// Check for success
	switch out.Status {
	case api_types.StatusFail:
		return fmt.Errorf("health check failed: %s", out.Message)
	case api_types.StatusError:
		return fmt.Errorf("error checking health (%s): %v", out.Message, out.Error)
	}

	return nil
}

// doJSON is a helper to perform JSON requests to the gateway
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	// Create the request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Perform the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// On error, surface the gateway's error message when present
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(b))}

		var errBody ErrorResponse
		if json.Unmarshal(b, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	// If no output expected, return early
	if out == nil {
		return nil
	}

	// Decode the response body into the output struct
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
