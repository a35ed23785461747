package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// Gemini summarizes through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	log    logrus.FieldLogger
}

var _ contract.Summarizer = &Gemini{} // Compile-time check

// NewGemini returns a Gemini summarizer. An empty baseURL uses the public API.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = contract.DefaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  model,
		log:    contract.ComponentLogger("summarizer").WithField("provider", "gemini"),
	}, nil
}

// Summarize implements contract.Summarizer.
func (g *Gemini) Summarize(ctx context.Context, diffText string, taskName string) (string, error) {
	temperature := float32(analysisTemperature)
	genConfig := &genai.GenerateContentConfig{Temperature: &temperature}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(taskName, diffText)), genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New("gemini returned no content parts")
	}

	text := parts[0].Text
	g.log.WithField("response_length", len(text)).Debug("gemini completion")
	return text, nil
}
