package ai

import "context"

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model       string  // Model identifier to use for generation
	Temperature float64 // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Lower values (e.g., 0.1) make outputs more focused and deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// ModelMetrics contains accumulated performance metrics from AI requests.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// Client is the interface the suggestion engine depends on: a single
// structured-output call plus request metrics. The provider receives a JSON
// schema generated from out's type and must return JSON conforming to it,
// which is unmarshaled into out.
//
// Transport failures are returned as domain errors classified by cause
// (authentication, rate limit, server, network); schema-level failures as
// response-validation errors.
type Client interface {
	GetStructuredResponse(
		ctx context.Context,
		name string,
		description string,
		systemPrompt string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	ResetMetrics()
	GetMetrics() ModelMetrics
}
