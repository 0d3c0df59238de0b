// Package openai implements ai.Client against any OpenAI-compatible chat
// completion endpoint using structured (json_schema) output.
package openai

import (
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/lattice-hq/lattice/backend/pkg/ai"
)

type Client struct {
	chatModel string
	chatURL   string
	chatKey   string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewClientParams defines the configuration for creating a Client.
// ChatURL may point at any OpenAI-compatible endpoint; when empty the
// official API is used.
type NewClientParams struct {
	ChatModel string
	ChatURL   string
	ChatKey   string
}

// NewClient creates a structured-output client for the configured endpoint.
func NewClient(params NewClientParams) *Client {
	options := []option.RequestOption{
		option.WithAPIKey(params.ChatKey),
	}
	if params.ChatURL != "" {
		options = append(options, option.WithBaseURL(params.ChatURL))
	}
	chatClient := openai.NewClient(options...)

	return &Client{
		chatModel:  params.ChatModel,
		chatURL:    params.ChatURL,
		chatKey:    params.ChatKey,
		ChatClient: &chatClient,
	}
}

func (c *Client) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}

// ResetMetrics clears the accumulated request metrics.
func (c *Client) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the metrics accumulated since the last reset.
func (c *Client) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
