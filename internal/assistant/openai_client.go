package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

var gatewayTracer = otel.Tracer("realty.internal.assistant.gateway")

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient is the completion gateway. It owns error mapping for the one
// upstream completion dependency. Failed calls are never retried: a retry
// would double the cost of the model call for a response the user may no
// longer be waiting on.
type OpenAIClient struct {
	client chatCompleter
	model  string
	logger *logging.Logger
}

// NewOpenAIClient builds the gateway. An absent API key is a configuration
// error surfaced before any network call is attempted.
func NewOpenAIClient(apiKey, model string, logger *logging.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

// Complete sends a fully built message list upstream and returns the reply
// text plus token usage.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	ctx, span := gatewayTracer.Start(ctx, "assistant.complete")
	defer span.End()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		span.RecordError(err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Error("completion provider returned error",
				"status", apiErr.HTTPStatusCode,
				"body", apiErr.Message,
			)
			return CompletionResponse{}, &UpstreamError{
				StatusCode: apiErr.HTTPStatusCode,
				Body:       apiErr.Message,
				Err:        err,
			}
		}
		return CompletionResponse{}, &UpstreamError{Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		span.RecordError(ErrEmptyCompletion)
		return CompletionResponse{}, ErrEmptyCompletion
	}

	return CompletionResponse{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
