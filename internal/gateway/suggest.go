package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/chatwidget/pkg/transcript"
)

// MaxSuggestions caps the number of follow-up prompts returned by Suggest
const MaxSuggestions = 5

const suggestInstruction = `Based on the conversation so far and the last user message, generate a list of short possible user prompts/questions the user might want to ask next.
- Keep each prompt under 10 words and within your domain.
- Respond with a raw JSON array of strings, for example: ["Question 1", "Question 2"].
- The first character of your response must be '[' and the last must be ']'.
- Output must be valid JSON without backticks, code fences, markdown, or commentary.
- If no prompts apply, respond with [].`

// Suggest asks the backend for short follow-up prompts. Output that is not a JSON array of strings
// yields an empty list rather than an error
func (g *Gateway) Suggest(ctx context.Context, message string, history transcript.Transcript) ([]string, error) {
	id := RequestID(ctx)
	history = g.prepare(id, history)

	request := suggestInstruction
	if m := strings.TrimSpace(message); m != "" {
		request += "\n\nLast user message: " + m
	}

	started := time.Now()
	chunks, err := g.invoke(ctx, Prompt{
		Instruction: g.persona.SystemInstruction(),
		History:     history,
		Message:     request,
	})
	if err != nil {
		g.metrics.observe("suggest", g.backend.Name(), "error", started)
		log.Printf("[GATEWAY]: (%s) Backend %s failed to suggest: %v", id, g.backend.Name(), err)
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	g.metrics.observe("suggest", g.backend.Name(), "ok", started)

	suggestions, err := parseSuggestions(strings.Join(chunks, ""))
	if err != nil {
		log.Printf("[GATEWAY]: (%s) Unable to parse suggestions: %v", id, err)
	}
	return suggestions, nil
}

// parseSuggestions reads a JSON array of strings, tolerating surrounding code fences or prose
func parseSuggestions(raw string) ([]string, error) {
	suggestions := make([]string, 0)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return suggestions, nil
	}

	start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return suggestions, fmt.Errorf("no JSON array in %q", raw)
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return suggestions, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	for _, s := range parsed {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		suggestions = append(suggestions, s)
		if len(suggestions) == MaxSuggestions {
			break
		}
	}

	return suggestions, nil
}
