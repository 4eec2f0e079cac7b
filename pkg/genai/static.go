package genai

import "context"

// StaticGenerator returns a fixed reply (or a fixed error) for every turn.
// Used by offline simulation and tests, where deterministic output matters
// more than fluency.
type StaticGenerator struct {
	Reply string
	Err   error
}

func (g *StaticGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}

	return g.Reply, nil
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, systemPrompt, userInput string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt, userInput string) (string, error) {
	return f(ctx, systemPrompt, userInput)
}
