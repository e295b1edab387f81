package widget

import "github.com/ethanbaker/chatwidget/pkg/transcript"

// Message is one line of the rendered chat
type Message struct {
	Role transcript.Speaker
	Text string

	// Pending marks a user message whose reply has not arrived yet
	Pending bool
}

// FromUser reports whether the message was written by the user
func (m Message) FromUser() bool {
	return m.Role == transcript.User
}

// Display renders a transcript as chat messages. Seed turns are hidden and the welcome greeting
// takes their place while the conversation has no body
func Display(t transcript.Transcript, welcome string) []Message {
	body := transcript.Body(t)

	messages := make([]Message, 0, len(body)+1)
	if len(body) == 0 && welcome != "" {
		messages = append(messages, Message{Role: transcript.Assistant, Text: welcome})
	}
	for _, turn := range body {
		messages = append(messages, Message{Role: turn.Role, Text: turn.Text})
	}
	return messages
}
