// Package frontend wires a widget.Conversation for the terminal clients.
package frontend

import (
	"context"
	"fmt"

	"github.com/ethanbaker/chatwidget/internal/stores/history"
	"github.com/ethanbaker/chatwidget/pkg/persona"
	"github.com/ethanbaker/chatwidget/pkg/sdk"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	"github.com/ethanbaker/chatwidget/pkg/widget"
)

// DefaultAPIURL is the gateway address used when CHAT_API_URL is unset
const DefaultAPIURL = "http://localhost:8080"

// Session is a restored conversation together with the resources backing it
type Session struct {
	Conversation *widget.Conversation
	Client       *sdk.Client

	store *history.Store
}

// Open creates the gateway client and transcript store from configuration and restores the
// persisted transcript
func Open(ctx context.Context, cfg *utils.Config) (*Session, error) {
	store, err := history.OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript store: %w", err)
	}

	client := sdk.NewClient(
		cfg.GetWithDefault("CHAT_API_URL", DefaultAPIURL),
		cfg.GetDurationWithDefault("CHAT_TIMEOUT", sdk.DefaultTimeout),
	)

	conversation := widget.NewConversation(store, client, persona.FromConfig(cfg))
	conversation.Load(ctx)

	return &Session{Conversation: conversation, Client: client, store: store}, nil
}

// Suggest asks the gateway for follow-up prompts based on the latest user message
func (s *Session) Suggest(ctx context.Context) ([]string, error) {
	history := s.Conversation.History()

	var last string
	body := transcript.Body(history)
	for i := len(body) - 1; i >= 0; i-- {
		if body[i].Role == transcript.User {
			last = body[i].Text
			break
		}
	}

	suggestions, err := s.Client.Suggestions(ctx, last, history)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}
	return suggestions, nil
}

// Close releases the transcript store
func (s *Session) Close() error {
	return s.store.Close()
}
