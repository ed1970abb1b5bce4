package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Client generates answer text through an OpenAI-compatible chat
// completion endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// Config configures the generation client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{client: openai.NewClientWithConfig(clientCfg), model: cfg.Model}, nil
}

func (c *Client) Name() string { return "openai/" + c.model }

// Generate runs one chat completion over the rendered prompt. maxLength
// bounds the completion tokens.
func (c *Client) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = 512
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxLength,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
