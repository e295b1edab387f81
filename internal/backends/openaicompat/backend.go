// Package openaicompat calls Gemini (or any other provider) through an OpenAI-compatible chat
// completions endpoint using openai-go.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/ethanbaker/chatwidget/internal/gateway"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-1.5-flash"
)

// Config configures the OpenAI-compatible backend
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Stream  bool
}

// Backend is a gateway.Backend speaking the OpenAI role/content vocabulary
type Backend struct {
	client openai.Client
	model  string
	stream bool
}

// New creates an OpenAI-compatible backend. The client never retries
func New(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)

	return &Backend{client: client, model: model, stream: cfg.Stream}, nil
}

// Name returns the backend name with its model
func (b *Backend) Name() string {
	return "openai/" + b.model
}

// Generate invokes the chat completions endpoint once and yields content deltas in order
func (b *Backend) Generate(ctx context.Context, prompt gateway.Prompt) iter.Seq2[string, error] {
	history := append(prompt.History.Clone(), transcript.NewTurn(transcript.User, prompt.Message))
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.model),
		Messages: toParams(ToForeign(prompt.Instruction, history)),
	}

	return func(yield func(string, error) bool) {
		if !b.stream {
			completion, err := b.client.Chat.Completions.New(ctx, params)
			if err != nil {
				yield("", fmt.Errorf("failed to create chat completion: %w", err))
				return
			}
			if len(completion.Choices) > 0 && completion.Choices[0].Message.Content != "" {
				yield(completion.Choices[0].Message.Content, nil)
			}
			return
		}

		stream := b.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("failed to stream chat completion: %w", err))
		}
	}
}
