package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/voxline/scriptflow/pkg/log"
)

const defaultModel = openai.ChatModelGPT4oMini

// OpenAIGenerator produces utterances through the OpenAI chat completions
// API.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
	logger *slog.Logger
}

// NewOpenAIGenerator builds a generator for the given API key and model.
// An empty model selects the default.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	chatModel := defaultModel
	if model != "" {
		chatModel = openai.ChatModel(model)
	}

	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  chatModel,
		logger: log.WithModule("genai-openai"),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userInput string) (string, error) {
	started := time.Now()

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userInput),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)

	g.logger.Debug("Generated completion",
		"model", g.model,
		"duration", time.Since(started),
		"reply_length", len(reply))

	return reply, nil
}
