// Package transcript holds the canonical conversation history shared by the widget and the gateway.
//
// A non-empty transcript always starts with a seed: an assistant greeting, optionally preceded by a
// synthetic opening user turn. Every turn after the seed alternates user, assistant, user, ...
// and the body always ends on an assistant turn.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrMissingSeed = errors.New("transcript does not start with a seed")
	ErrMalformed   = errors.New("transcript is malformed")
)

// Transcript is an ordered sequence of turns
type Transcript []Turn

// Seed builds the fixed opening exchange. An empty opening produces a single greeting turn
func Seed(opening, greeting string) Transcript {
	if opening == "" {
		return Transcript{NewTurn(Assistant, greeting)}
	}
	return Transcript{
		NewTurn(User, opening),
		NewTurn(Assistant, greeting),
	}
}

// SeedLen returns the number of seed turns at the start of the transcript, or 0 if none are found
func SeedLen(t Transcript) int {
	switch {
	case len(t) == 0:
		return 0
	case t[0].Role == Assistant:
		return 1
	case len(t) >= 2 && t[0].Role == User && t[1].Role == Assistant:
		return 2
	default:
		return 0
	}
}

// Body returns the turns after the seed
func Body(t Transcript) Transcript {
	return t[SeedLen(t):]
}

// Validate checks the seed and alternation invariants. An empty transcript is valid
func Validate(t Transcript) error {
	if len(t) == 0 {
		return nil
	}

	for i, turn := range t {
		if !turn.Role.Valid() {
			return fmt.Errorf("%w: turn %d has unknown speaker %q", ErrMalformed, i, turn.Role)
		}
	}

	n := SeedLen(t)
	if n == 0 {
		return ErrMissingSeed
	}

	// After the seed, even offsets are user turns and odd offsets are assistant turns
	body := t[n:]
	for i, turn := range body {
		want := User
		if i%2 == 1 {
			want = Assistant
		}
		if turn.Role != want {
			return fmt.Errorf("%w: turn %d is %s, expected %s", ErrMalformed, n+i, turn.Role, want)
		}
	}

	if len(body)%2 != 0 {
		return fmt.Errorf("%w: user turn %d has no reply", ErrMalformed, len(t)-1)
	}

	return nil
}

// Append returns a new transcript with the user message and the assistant reply added.
// The receiver is never modified
func Append(t Transcript, message, reply string) Transcript {
	out := make(Transcript, 0, len(t)+2)
	out = append(out, t...)
	return append(out, NewTurn(User, message), NewTurn(Assistant, reply))
}

// Clone returns a copy of the transcript
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	return slices.Clone(t)
}

// Equal reports whether two transcripts hold the same turns in the same order
func (t Transcript) Equal(other Transcript) bool {
	return slices.Equal(t, other)
}

// Encode serializes the transcript to JSON. A nil transcript is encoded as an empty array
func Encode(t Transcript) ([]byte, error) {
	if t == nil {
		t = Transcript{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	return data, nil
}

// Decode parses a JSON transcript
func Decode(data []byte) (Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return t, nil
}
