// Package openai implements coach.Generator against the OpenAI
// chat-completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response shaping constants carried over from the coaching prompts' tuning.
const (
	temperature = 0.7
	maxTokens   = 500
)

// Provider calls the OpenAI chat-completions endpoint. The API key is read
// from OPENAI_API_KEY; a missing key surfaces as an error from Generate, not
// at construction time.

type Provider struct {
	client *resty.Client
	model  string
}

// New creates a Provider for baseURL (e.g. https://api.openai.com) and
// model.
func New(baseURL, model string, timeout time.Duration) *Provider {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Provider{client: c, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends the system and user prompts and returns the first choice's
// content.
func (p *Provider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}

	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetBody(&reqBody).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode(), resp.String())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("openai error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}
