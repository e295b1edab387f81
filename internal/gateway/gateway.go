// Package gateway turns a transcript plus a new user message into a backend call and returns
// the extended transcript. It keeps no state between calls.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/chatwidget/pkg/persona"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrProcessing   = errors.New("failed to process the request")
)

// Result is the outcome of a successful completion
type Result struct {
	Reply   string
	Chunks  []string
	History transcript.Transcript
}

// Gateway maps transcripts to a single backend
type Gateway struct {
	backend Backend
	persona *persona.Persona
	metrics *Metrics
	timeout time.Duration
}

// Option configures a Gateway
type Option func(*Gateway)

// WithMetrics records call outcomes to m
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithTimeout bounds every backend call. Zero leaves the caller's context as the only bound
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// New creates a gateway for the backend and persona. A nil persona uses the default persona
func New(backend Backend, p *persona.Persona, opts ...Option) *Gateway {
	if p == nil {
		p = persona.Default()
	}

	g := &Gateway{
		backend: backend,
		persona: p,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Backend names the backend the gateway calls
func (g *Gateway) Backend() string {
	return g.backend.Name()
}

// Persona returns the persona the gateway seeds transcripts with
func (g *Gateway) Persona() *persona.Persona {
	return g.persona
}

// Complete sends the message with the given history to the backend once and returns the reply
// together with the history extended by the new user and assistant turns
func (g *Gateway) Complete(ctx context.Context, message string, history transcript.Transcript) (*Result, error) {
	id := RequestID(ctx)

	if strings.TrimSpace(message) == "" {
		g.metrics.observe("complete", g.backend.Name(), "invalid", time.Time{})
		return nil, ErrEmptyMessage
	}

	history = g.prepare(id, history)

	started := time.Now()
	chunks, err := g.invoke(ctx, Prompt{
		Instruction: g.persona.SystemInstruction(),
		History:     history,
		Message:     message,
	})
	if err != nil {
		g.metrics.observe("complete", g.backend.Name(), "error", started)
		log.Printf("[GATEWAY]: (%s) Backend %s failed: %v", id, g.backend.Name(), err)
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	g.metrics.observe("complete", g.backend.Name(), "ok", started)
	g.metrics.observeSegments(len(chunks))

	reply := strings.Join(chunks, "")
	if len(chunks) == 0 {
		log.Printf("[GATEWAY]: (%s) Backend %s returned no segments", id, g.backend.Name())
	}

	return &Result{
		Reply:   reply,
		Chunks:  chunks,
		History: transcript.Append(history, message, reply),
	}, nil
}

// prepare returns a seeded, well-formed copy of the history
func (g *Gateway) prepare(id string, history transcript.Transcript) transcript.Transcript {
	if len(history) == 0 {
		return g.persona.Seed()
	}

	if err := transcript.Validate(history); err != nil {
		log.Printf("[GATEWAY]: (%s) Discarding malformed history of %d turns: %v", id, len(history), err)
		return g.persona.Seed()
	}

	return history.Clone()
}

// invoke calls the backend once and drains every segment
func (g *Gateway) invoke(ctx context.Context, prompt Prompt) ([]string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	chunks := make([]string, 0)
	for segment, err := range g.backend.Generate(ctx, prompt) {
		if err != nil {
			return nil, err
		}
		if segment == "" {
			continue
		}
		chunks = append(chunks, segment)
	}

	return chunks, nil
}
