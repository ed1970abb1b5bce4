package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Client embeds text through an OpenAI-compatible embeddings endpoint.
type Client struct {
	client *openai.Client
	model  string
	dim    int
}

// Config configures the embeddings client. APIKeyEnv names the environment
// variable holding the key; BaseURL may point at any compatible server.
// Dimension overrides the model's vector size for models the client does
// not know.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Dimension int
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
		cfg.Model = string(openai.SmallEmbedding3)
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	// dim is fixed here; Embed must not mutate it, EmbedBatch calls
	// Embed concurrently.
	dim := cfg.Dimension
	if dim == 0 {
		dim = 1536
		if cfg.Model == string(openai.LargeEmbedding3) {
			dim = 3072
		}
	}
	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		dim:    dim,
	}, nil
}

func (c *Client) Name() string { return "openai/" + c.model }

// Prepare is a no-op; remote models need no corpus pass.
func (c *Client) Prepare(corpus []string) error { return nil }

func (c *Client) Dimension() int { return c.dim }

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("cannot embed empty text")
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	v32 := resp.Data[0].Embedding
	v := make([]float64, len(v32))
	for i := range v32 {
		v[i] = float64(v32[i])
	}
	if len(v) != c.dim {
		return nil, fmt.Errorf("model returned dimension %d, client configured for %d", len(v), c.dim)
	}
	return v, nil
}

// EmbedBatch embeds many texts with a bounded number of concurrent calls.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	errCh := make(chan error, len(texts))
	sem := make(chan struct{}, 8)
	for i := range texts {
		sem <- struct{}{}
		go func(idx int) {
			defer func() { <-sem }()
			v, err := c.Embed(ctx, texts[idx])
			if err != nil {
				errCh <- fmt.Errorf("embedding text %d: %w", idx, err)
				return
			}
			vectors[idx] = v
			errCh <- nil
		}(i)
	}
	for range texts {
		if err := <-errCh; err != nil {
			return nil, err
		}
	}
	return vectors, nil
}
