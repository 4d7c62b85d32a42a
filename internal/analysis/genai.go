package analysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// genAIClient is the Gemini-backed TextGenerator.
type genAIClient struct {
	client *genai.Client
}

// newGenAIClient builds the production TextGenerator for one run's API key.
func newGenAIClient(ctx context.Context, apiKey string) (TextGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &genAIClient{client: client}, nil
}

// Generate runs a single bounded text-generation call.
func (c *genAIClient) Generate(ctx context.Context, modelID, prompt string, maxOutputTokens int) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, modelID,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(maxOutputTokens),
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text in model response")
	}
	return text, nil
}
