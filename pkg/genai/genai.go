// Package genai abstracts the language-model backend that produces agent
// utterances. The flow executor depends only on the Generator interface;
// the OpenAI implementation is selected by configuration.
package genai

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the backend answers without any
// usable choice.
var ErrEmptyCompletion = errors.New("model returned no completion choices")

// Generator produces one agent utterance from a system instruction and the
// caller's latest input. Implementations must be safe for concurrent use,
// the executor shares one Generator across all sessions.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userInput string) (string, error)
}
