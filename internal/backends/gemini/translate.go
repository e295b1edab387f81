package gemini

import (
	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"google.golang.org/genai"
)

// syntheticOpening is sent ahead of a greeting-only seed since Gemini contents must start with a
// user turn
const syntheticOpening = "Hi"

// ToNative maps a transcript into Gemini contents. Seed turns are kept and the assistant speaker
// becomes the "model" role
func ToNative(history transcript.Transcript) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+2)
	if len(history) > 0 && history[0].Role == transcript.Assistant {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: syntheticOpening}},
		})
	}
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  toGenAIRole(turn.Role),
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	return contents
}

// FromNative maps Gemini contents back into a transcript, joining text parts
func FromNative(contents []*genai.Content) transcript.Transcript {
	out := make(transcript.Transcript, 0, len(contents))
	for _, content := range contents {
		if content == nil {
			continue
		}
		speaker, err := transcript.ParseSpeaker(content.Role)
		if err != nil {
			continue
		}
		out = append(out, transcript.NewTurn(speaker, joinParts(content.Parts)))
	}
	return out
}

// systemInstruction wraps the persona instruction for GenerateContentConfig
func systemInstruction(instruction string) *genai.Content {
	if instruction == "" {
		return nil
	}
	return &genai.Content{
		Parts: []*genai.Part{{Text: instruction}},
	}
}

func toGenAIRole(s transcript.Speaker) string {
	if s == transcript.Assistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func joinParts(parts []*genai.Part) string {
	var text string
	for _, part := range parts {
		if part == nil {
			continue
		}
		text += part.Text
	}
	return text
}
