package gateway

import (
	"context"
	"iter"

	"github.com/ethanbaker/chatwidget/pkg/transcript"
)

// Prompt is everything a backend needs for a single completion call
type Prompt struct {
	// Instruction is the persona system instruction
	Instruction string

	// History is the validated, seeded transcript before the new message
	History transcript.Transcript

	// Message is the new user message
	Message string
}

// Backend is a language model the gateway can invoke once per request
type Backend interface {
	// Name identifies the backend in logs and metrics
	Name() string

	// Generate invokes the model once and yields reply text segments in arrival order.
	// A non-streaming backend yields a single segment. Iteration stops at the first error
	Generate(ctx context.Context, prompt Prompt) iter.Seq2[string, error]
}
