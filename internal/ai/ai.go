// Package ai generates short deck summaries with Gemini. Summarization is an
// optional enrichment: callers log failures and carry on.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Client struct {
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{genai: gc, model: model}, nil
}

func (c *Client) Close() error {
	return c.genai.Close()
}

// SummarizeDeck returns a short high-level summary of the deck's text.
func (c *Client) SummarizeDeck(ctx context.Context, deckText string) (string, error) {
	if strings.TrimSpace(deckText) == "" {
		return "", nil
	}

	model := c.genai.GenerativeModel(c.model)
	prompt := "This is the text content of a slide presentation. Provide a high-level summary of the entire deck in 2-3 sentences:\n" + deckText
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty summary response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}
