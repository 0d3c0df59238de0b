package openai

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"

	"github.com/lattice-hq/lattice/backend/pkg/ai"
	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// GetStructuredResponse sends a prompt to the chat model and unmarshals the
// response into out, using a JSON schema generated from out's type to
// enforce structure. Provider failures are classified onto the domain error
// taxonomy; a response that cannot be parsed against the schema fails with
// a response-validation error.
func (c *Client) GetStructuredResponse(
	ctx context.Context,
	name string,
	description string,
	systemPrompt string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	options := ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	schema := ai.GenerateSchema(out)
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	msgs := []openai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(systemPrompt))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return ai.ClassifyTransportError(apiErr.StatusCode, err)
		}
		return ai.ClassifyTransportError(0, err)
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	})

	if len(response.Choices) == 0 {
		return common.ResponseValidation("no choices in response from model")
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return common.ResponseValidation("empty response from model")
	}
	if err := ai.UnmarshalFlexible(message, out); err != nil {
		return common.WrapError(common.KindResponseValidation, "model output did not match the requested schema", err)
	}
	return nil
}
