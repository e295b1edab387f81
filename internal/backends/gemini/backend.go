// Package gemini calls the Gemini API natively through google.golang.org/genai.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/ethanbaker/chatwidget/internal/gateway"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.0-flash-lite"

// contentGenerator is the subset of *genai.Models the backend uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Config configures the native backend
type Config struct {
	APIKey string
	Model  string
	Stream bool
}

// Backend is a gateway.Backend speaking the native Gemini role/parts vocabulary
type Backend struct {
	models contentGenerator
	model  string
	stream bool
}

// New creates a native Gemini backend
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newBackend(client.Models, cfg), nil
}

func newBackend(models contentGenerator, cfg Config) *Backend {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Backend{models: models, model: model, stream: cfg.Stream}
}

// Name returns the backend name with its model
func (b *Backend) Name() string {
	return "gemini/" + b.model
}

// Generate invokes the model once and yields the text of every candidate part
func (b *Backend) Generate(ctx context.Context, prompt gateway.Prompt) iter.Seq2[string, error] {
	history := append(prompt.History.Clone(), transcript.NewTurn(transcript.User, prompt.Message))
	contents := ToNative(history)
	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(prompt.Instruction),
	}

	return func(yield func(string, error) bool) {
		if !b.stream {
			res, err := b.models.GenerateContent(ctx, b.model, contents, config)
			if err != nil {
				yield("", fmt.Errorf("failed to generate content: %w", err))
				return
			}
			for _, text := range responseTexts(res) {
				if !yield(text, nil) {
					return
				}
			}
			return
		}

		for res, err := range b.models.GenerateContentStream(ctx, b.model, contents, config) {
			if err != nil {
				yield("", fmt.Errorf("failed to stream content: %w", err))
				return
			}
			for _, text := range responseTexts(res) {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

// responseTexts collects non-empty text parts of every candidate in order
func responseTexts(res *genai.GenerateContentResponse) []string {
	if res == nil {
		return nil
	}

	var texts []string
	for _, cand := range res.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			texts = append(texts, part.Text)
		}
	}
	return texts
}
