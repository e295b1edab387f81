package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ethanbaker/chatwidget/internal/backends/gemini"
	"github.com/ethanbaker/chatwidget/internal/backends/openaicompat"
	"github.com/ethanbaker/chatwidget/internal/gateway"
	"github.com/ethanbaker/chatwidget/pkg/persona"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Supported values of CHAT_BACKEND
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// DefaultTimeout bounds a single backend call when CHAT_TIMEOUT is unset
const DefaultTimeout = 60 * time.Second

var (
	gw      *gateway.Gateway
	gwMutex sync.RWMutex
)

/** ---- INIT ---- */

// Init builds the gateway the chat routes run off of. Gateway metrics are registered with reg
func Init(cfg *utils.Config, reg prometheus.Registerer) error {
	g, err := NewGateway(context.Background(), cfg, reg)
	if err != nil {
		return err
	}

	SetGateway(g)
	return nil
}

// NewGateway creates a gateway from configuration. reg may be nil to skip metrics
func NewGateway(ctx context.Context, cfg *utils.Config, reg prometheus.Registerer) (*gateway.Gateway, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []gateway.Option{
		gateway.WithTimeout(cfg.GetDurationWithDefault("CHAT_TIMEOUT", DefaultTimeout)),
	}
	if reg != nil {
		opts = append(opts, gateway.WithMetrics(gateway.NewMetrics(reg)))
	}

	log.Printf("[CHAT]: Using backend %s\n", backend.Name())
	return gateway.New(backend, persona.FromConfig(cfg), opts...), nil
}

// NewBackend creates the model backend named by CHAT_BACKEND
func NewBackend(ctx context.Context, cfg *utils.Config) (gateway.Backend, error) {
	apiKey := cfg.Get("GEMINI_API_KEY")
	model := cfg.Get("CHAT_MODEL")
	stream := cfg.GetBool("CHAT_STREAM")

	kind := strings.ToLower(cfg.GetWithDefault("CHAT_BACKEND", BackendGemini))
	switch kind {
	case BackendGemini:
		backend, err := gemini.New(ctx, gemini.Config{APIKey: apiKey, Model: model, Stream: stream})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini backend: %w", err)
		}
		return backend, nil

	case BackendOpenAI:
		backend, err := openaicompat.New(openaicompat.Config{
			APIKey:  cfg.GetWithDefault("OPENAI_API_KEY", apiKey),
			BaseURL: cfg.Get("OPENAI_BASE_URL"),
			Model:   model,
			Stream:  stream,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai backend: %w", err)
		}
		return backend, nil
	}

	return nil, fmt.Errorf("unknown chat backend %q", kind)
}

// GetGateway returns the gateway instance
func GetGateway() *gateway.Gateway {
	gwMutex.RLock()
	defer gwMutex.RUnlock()

	if gw == nil {
		log.Fatal("[CHAT]: Gateway is not initialized")
	}
	return gw
}

// SetGateway replaces the gateway instance
func SetGateway(g *gateway.Gateway) {
	gwMutex.Lock()
	defer gwMutex.Unlock()

	gw = g
}
