// Package summarizer asks a language model for a progress analysis of a task.
package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
)

// analysisTemperature is the sampling temperature for every provider.
const analysisTemperature = 0.5

// ErrMissingAPIKey is returned when a provider is selected without a key.
var ErrMissingAPIKey = errors.New("summarizer api key is not configured")

const promptTemplate = `Task: %s
Here is the developer's code diff or commit changes:

%s

Please:
1. Summarize what was done in simple terms.
2. Estimate the task completion progress in percentage.
3. Be honest if it looks partial or complete.

Format response as:
Summary: ...
Progress: ...%%`

// BuildPrompt renders the analysis prompt for a task and its commit messages.
func BuildPrompt(taskName, diffText string) string {
	return fmt.Sprintf(promptTemplate, taskName, diffText)
}

// New returns the summarizer for the configured provider, or nil when
// summarization is disabled.
func New(ctx context.Context, cfg *contract.Config) (contract.Summarizer, error) {
	switch cfg.SummarizerProvider {
	case schema.NoProvider, "":
		return nil, nil
	case schema.OpenAIProvider:
		return NewOpenAI(cfg.SummarizerAPIKey, cfg.SummarizerModel, "")
	case schema.GeminiProvider:
		return NewGemini(ctx, cfg.SummarizerAPIKey, cfg.SummarizerModel, "")
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.SummarizerProvider)
	}
}
