package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/vidqa/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.Completer = (*Completer)(nil)

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config, opts ...openai.Option) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = "none"
	}
	clientOpts := append([]openai.Option{
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(token),
		openai.WithModel(config.CompletionModel),
	}, opts...)
	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends prompt as a single user message.
func (c *Completer) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(temperature))
	if isEmptyResponse(err) || (err == nil && len(response.Choices) < 1) {
		c.logger.Warn("no choices returned from model")
		return "", ai.ErrEmptyResponse
	}
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		c.logger.Warn("model returned blank content")
		return "", ai.ErrEmptyResponse
	}
	c.logger.Debug("generated completion", "prompt_length", len(prompt), "answer_length", len(answer),
		"stop_reason", response.Choices[0].StopReason)
	return answer, nil
}

// clientEmptyResponse is the message of the chat client's unexported
// sentinel, returned when the API answers with no choices.
const clientEmptyResponse = "empty response"

// isEmptyResponse reports whether err means the model produced no choices.
// The chat client's sentinel is internal to langchaingo, so it is matched by
// message anywhere in the chain.
func isEmptyResponse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, openai.ErrEmptyResponse) {
		return true
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if e.Error() == clientEmptyResponse {
			return true
		}
	}
	return false
}
