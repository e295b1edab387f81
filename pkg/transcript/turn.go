package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Speaker identifies who authored a turn
type Speaker string

const (
	User      Speaker = "user"
	Assistant Speaker = "assistant"
)

// Valid reports whether the speaker is one of the known roles
func (s Speaker) Valid() bool {
	return s == User || s == Assistant
}

// ParseSpeaker maps a role string to a speaker. The Gemini role "model" is accepted as an alias
// for the assistant so transcripts persisted in the Gemini shape can still be read
func ParseSpeaker(role string) (Speaker, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "user":
		return User, nil
	case "assistant", "model":
		return Assistant, nil
	default:
		return "", fmt.Errorf("unknown speaker %q", role)
	}
}

// Turn is one role-tagged message in a conversation
type Turn struct {
	Role Speaker `json:"role"`
	Text string  `json:"text"`
}

// NewTurn creates a new turn
func NewTurn(role Speaker, text string) Turn {
	return Turn{Role: role, Text: text}
}

// legacyPart is a single text part of a Gemini-shaped turn
type legacyPart struct {
	Text string `json:"text"`
}

// UnmarshalJSON decodes either the canonical {role, text} shape or the Gemini {role, parts[]} shape.
// An unknown role is kept verbatim so Validate can reject the transcript
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role  string       `json:"role"`
		Text  *string      `json:"text"`
		Parts []legacyPart `json:"parts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	role, err := ParseSpeaker(raw.Role)
	if err != nil {
		role = Speaker(raw.Role)
	}

	// Prefer the flat text field, fall back to joined parts
	var text string
	switch {
	case raw.Text != nil:
		text = *raw.Text
	case len(raw.Parts) > 0:
		var sb strings.Builder
		for _, part := range raw.Parts {
			sb.WriteString(part.Text)
		}
		text = sb.String()
	}

	*t = Turn{Role: role, Text: text}
	return nil
}
