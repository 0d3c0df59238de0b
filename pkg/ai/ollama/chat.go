package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/ollama/ollama/api"

	"github.com/lattice-hq/lattice/backend/pkg/ai"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// GetStructuredResponse sends a prompt with a schema-constrained format and
// unmarshals the reply into out. Requests above the concurrency cap wait on
// the semaphore rather than piling onto the Ollama server.
func (c *Client) GetStructuredResponse(
	ctx context.Context,
	name string,
	description string,
	systemPrompt string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if out == nil {
		return errors.New("out must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}

	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	schemaObj := ai.GenerateSchema(out)
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return err
	}
	var format json.RawMessage = formatBytes

	msgs := make([]api.Message, 0, 2)
	if systemPrompt != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: systemPrompt})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Format:   format,
		Options:  map[string]any{"temperature": options.Temperature},
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return ai.ClassifyTransportError(0, err)
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return ai.ClassifyTransportError(statusErr.StatusCode, err)
		}
		return ai.ClassifyTransportError(0, err)
	}

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	if final.Message.Content == "" {
		return common.ResponseValidation("empty response from model")
	}
	if err := ai.UnmarshalFlexible(final.Message.Content, out); err != nil {
		return common.WrapError(common.KindResponseValidation, "model output did not match the requested schema", err)
	}
	return nil
}
