package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/vidqa/ai"
	"github.com/poiesic/vidqa/core"
	"github.com/tmc/langchaingo/prompts"
)

// DefaultTemperature is the sampling temperature used for answers.
const DefaultTemperature = 0.2

// Generator renders the answer prompt and sends it to a completer.
type Generator struct {
	completer   ai.Completer
	prompt      prompts.PromptTemplate
	temperature float64
	timestamps  bool
	logger      *slog.Logger
}

// NewGenerator creates a Generator. With timestamps set, the prompt asks for
// [HH:MM:SS] citations and labels each context block with its time range.
func NewGenerator(completer ai.Completer, temperature float64, timestamps bool, logger *slog.Logger) (*Generator, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		completer:   completer,
		prompt:      newAnswerPrompt(),
		temperature: temperature,
		timestamps:  timestamps,
		logger:      logger,
	}, nil
}

// Prompt renders the prompt for question over results.
func (g *Generator) Prompt(question string, results []*core.SearchResult) (string, error) {
	return g.prompt.Format(map[string]any{
		"context":    FormatContext(results, g.timestamps),
		"question":   question,
		"timestamps": g.timestamps,
	})
}

// Generate answers question from results. Every failure wraps
// core.ErrAnswerGeneration.
func (g *Generator) Generate(ctx context.Context, question string, results []*core.SearchResult) (string, error) {
	prompt, err := g.Prompt(question, results)
	if err != nil {
		return "", fmt.Errorf("%w: render prompt: %w", core.ErrAnswerGeneration, err)
	}

	answer, err := g.completer.Complete(ctx, prompt, g.temperature)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyResponse) {
			g.logger.Warn("model returned no answer")
		} else {
			g.logger.Error("error generating answer", "err", err)
		}
		return "", fmt.Errorf("%w: %w", core.ErrAnswerGeneration, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: %w", core.ErrAnswerGeneration, ai.ErrEmptyResponse)
	}
	return answer, nil
}
