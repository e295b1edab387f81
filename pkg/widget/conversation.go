// Package widget is the client side of the chat: it owns the transcript, guards the single
// in-flight request and renders the transcript for display.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ethanbaker/chatwidget/pkg/persona"
	"github.com/ethanbaker/chatwidget/pkg/sdk"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
)

// Apology is shown in place of a reply when a request fails
const Apology = "Sorry, there was an error processing your request."

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrBusy       = errors.New("a request is already in flight")
)

// Store persists the transcript between runs
type Store interface {
	Restore(ctx context.Context) transcript.Transcript
	Persist(ctx context.Context, t transcript.Transcript) error
	Reset(ctx context.Context) error
}

// Gateway answers a chat request
type Gateway interface {
	Chat(ctx context.Context, message string, history transcript.Transcript) (*sdk.ChatResponse, error)
}

// Reply is the outcome of a successful send
type Reply struct {
	Text   string
	Chunks []string
}

// Submit posts the message and the current transcript to the gateway. On success it returns the
// gateway's transcript, which replaces the caller's. On failure no transcript is returned
func Submit(ctx context.Context, gw Gateway, message string, current transcript.Transcript) (transcript.Transcript, *Reply, error) {
	res, err := gw.Chat(ctx, message, current)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to submit message: %w", err)
	}

	if err := transcript.Validate(res.History); err != nil {
		return nil, nil, fmt.Errorf("gateway returned an invalid transcript: %w", err)
	}
	if len(res.History) == 0 {
		return nil, nil, errors.New("gateway returned an empty transcript")
	}

	return res.History, &Reply{Text: res.Response, Chunks: res.Chunks}, nil
}

// Conversation holds the authoritative transcript for one client profile
type Conversation struct {
	store   Store
	gateway Gateway
	persona *persona.Persona

	mu       sync.Mutex
	history  transcript.Transcript
	inflight bool

	// tail holds display-only messages after the transcript: the pending user message, or the
	// failed one followed by the apology
	tail []Message
}

// NewConversation creates a conversation. Call Load to restore the persisted transcript
func NewConversation(store Store, gw Gateway, p *persona.Persona) *Conversation {
	if p == nil {
		p = persona.Default()
	}
	return &Conversation{
		store:   store,
		gateway: gw,
		persona: p,
		history: transcript.Transcript{},
	}
}

// Persona returns the persona used for display strings
func (c *Conversation) Persona() *persona.Persona {
	return c.persona
}

// Load replaces the in-memory transcript with the persisted one
func (c *Conversation) Load(ctx context.Context) {
	restored := c.store.Restore(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = restored
}

// Outcome is the result of a send started with Start
type Outcome struct {
	Reply *Reply
	Err   error
}

// Send submits a message and waits for the reply. Only one send may be in flight at a time; a
// concurrent call fails with ErrBusy. On failure the transcript is left untouched and the
// apology is shown
func (c *Conversation) Send(ctx context.Context, text string) (*Reply, error) {
	done, err := c.Start(ctx, text)
	if err != nil {
		return nil, err
	}
	outcome := <-done
	return outcome.Reply, outcome.Err
}

// Start marks the conversation busy and submits the message in the background. The returned
// channel receives exactly one outcome
func (c *Conversation) Start(ctx context.Context, text string) (<-chan Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.inflight = true
	c.tail = []Message{{Role: transcript.User, Text: text, Pending: true}}
	current := c.history.Clone()
	c.mu.Unlock()

	done := make(chan Outcome, 1)
	go func() {
		reply, err := c.finish(ctx, text, current)
		done <- Outcome{Reply: reply, Err: err}
	}()
	return done, nil
}

func (c *Conversation) finish(ctx context.Context, text string, current transcript.Transcript) (*Reply, error) {
	history, reply, err := Submit(ctx, c.gateway, text, current)

	c.mu.Lock()
	c.tail = nil
	if err != nil {
		c.inflight = false
		c.tail = []Message{
			{Role: transcript.User, Text: text},
			{Role: transcript.Assistant, Text: Apology},
		}
		c.mu.Unlock()
		log.Printf("[WIDGET]: %v", err)
		return nil, err
	}
	c.history = history
	c.mu.Unlock()

	// The send stays in flight until the blob is written so a Reset cannot be overwritten by it.
	// A persistence failure keeps the in-memory transcript and is only logged
	if err := c.store.Persist(ctx, history); err != nil {
		log.Printf("[WIDGET]: Could not persist transcript: %v", err)
	}

	c.mu.Lock()
	c.inflight = false
	c.mu.Unlock()

	return reply, nil
}

// Reset clears the transcript in memory and in the store
func (c *Conversation) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		return ErrBusy
	}
	c.history = transcript.Transcript{}
	c.tail = nil
	c.mu.Unlock()

	return c.store.Reset(ctx)
}

// History returns a copy of the current transcript
func (c *Conversation) History() transcript.Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Clone()
}

// Busy reports whether a send is in flight
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

// Messages renders the transcript for display
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(Display(c.history, c.persona.Welcome), c.tail...)
}
