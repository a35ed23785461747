package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAI summarizes through the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
	log    logrus.FieldLogger
}

var _ contract.Summarizer = &OpenAI{} // Compile-time check

// NewOpenAI returns an OpenAI summarizer. An empty baseURL uses the public API.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = contract.DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    contract.ComponentLogger("summarizer").WithField("provider", "openai"),
	}, nil
}

// Summarize implements contract.Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, diffText string, taskName string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(taskName, diffText),
			},
		},
		Temperature: analysisTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	o.log.WithFields(logrus.Fields{
		"model":       o.model,
		"tokens_used": resp.Usage.TotalTokens,
	}).Debug("openai completion")
	return text, nil
}
