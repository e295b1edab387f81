package openaicompat

import (
	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"github.com/openai/openai-go/v2"
)

// Roles used by the OpenAI chat vocabulary
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a flattened OpenAI-style chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToForeign maps a transcript into OpenAI chat messages. The persona instruction becomes a single
// leading system message and the seed turns are dropped since the instruction replaces them
func ToForeign(instruction string, history transcript.Transcript) []Message {
	body := transcript.Body(history)

	messages := make([]Message, 0, len(body)+2)
	if instruction != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: instruction})
	}
	for _, turn := range body {
		role := RoleUser
		if turn.Role == transcript.Assistant {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Content: turn.Text})
	}
	return messages
}

// FromForeign maps OpenAI chat messages back into transcript turns. System messages and unknown
// roles are skipped
func FromForeign(messages []Message) transcript.Transcript {
	out := make(transcript.Transcript, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleUser:
			out = append(out, transcript.NewTurn(transcript.User, m.Content))
		case RoleAssistant:
			out = append(out, transcript.NewTurn(transcript.Assistant, m.Content))
		}
	}
	return out
}

// toParams converts messages into openai-go request parameters
func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}
