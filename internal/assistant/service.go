package assistant

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aivahomes/realty-ai-platform/internal/conversation"
	"github.com/aivahomes/realty-ai-platform/internal/observability/metrics"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

var serviceTracer = otel.Tracer("realty.internal.assistant")

// HistoryStore is the conversation persistence the chat turn needs.
type HistoryStore interface {
	Append(ctx context.Context, sessionID string, messages []conversation.Message) error
	Read(ctx context.Context, sessionID string, limit int) ([]conversation.Message, error)
}

// Params are the generation parameters per request kind.
type Params struct {
	ChatTemperature float32
	ChatMaxTokens   int
	DocTemperature  float32
	DocMaxTokens    int
}

// DefaultParams mirror the production configuration defaults.
func DefaultParams() Params {
	return Params{
		ChatTemperature: 0.7,
		ChatMaxTokens:   500,
		DocTemperature:  0.3,
		DocMaxTokens:    1500,
	}
}

// Service routes inbound chat messages: cheap deterministic replies for
// simple intents, the completion provider for complex ones.
type Service struct {
	gateway CompletionClient
	history HistoryStore
	params  Params
	logger  *logging.Logger
	metrics *metrics.AssistantMetrics
}

// NewService wires the chat service. gateway may be nil when the provider is
// unconfigured; complex messages then fail with ErrNotConfigured.
func NewService(gateway CompletionClient, history HistoryStore, params Params, m *metrics.AssistantMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if params.ChatMaxTokens == 0 {
		params = DefaultParams()
	}
	return &Service{
		gateway: gateway,
		history: history,
		params:  params,
		logger:  logger,
		metrics: m,
	}
}

// ChatResult is one completed chat turn.
type ChatResult struct {
	Reply   string
	Complex bool
	Usage   TokenUsage
}

// Chat handles one inbound message for a session. The reply is computed
// first; persisting it to history is best-effort and never fails the turn.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := serviceTracer.Start(ctx, "assistant.chat")
	defer span.End()
	span.SetAttributes(attribute.String("realty.session_id", sessionID))

	complex := IsComplexQuestion(message)
	span.SetAttributes(attribute.Bool("realty.complex", complex))

	var result *ChatResult
	if complex {
		reply, usage, err := s.completeChat(ctx, sessionID, message)
		if err != nil {
			span.RecordError(err)
			s.metrics.ObserveChat("complex", "error")
			return nil, err
		}
		result = &ChatResult{Reply: reply, Complex: true, Usage: usage}
		s.metrics.ObserveChat("complex", "ok")
	} else {
		result = &ChatResult{Reply: localReply(message), Complex: false}
		s.metrics.ObserveChat("simple", "ok")
	}

	s.saveTurn(ctx, sessionID, message, result.Reply)
	return result, nil
}

func (s *Service) completeChat(ctx context.Context, sessionID, message string) (string, TokenUsage, error) {
	if s.gateway == nil {
		return "", TokenUsage{}, ErrNotConfigured
	}

	var history []conversation.Message
	if s.history != nil && sessionID != "" {
		var err error
		history, err = s.history.Read(ctx, sessionID, historyWindow)
		if err != nil {
			// Context is an enhancement; answer without it rather than fail.
			s.logger.Error("failed to read conversation history", "error", err, "session_id", sessionID)
			history = nil
		}
	}

	start := time.Now()
	resp, err := s.gateway.Complete(ctx, CompletionRequest{
		Messages:    BuildChatMessages(history, message),
		Temperature: s.params.ChatTemperature,
		MaxTokens:   s.params.ChatMaxTokens,
	})
	s.metrics.ObserveCompletionLatency("chat", time.Since(start).Seconds())
	if err != nil {
		return "", TokenUsage{}, err
	}
	return resp.Text, resp.Usage, nil
}

// saveTurn appends the user and assistant messages. A persistence failure is
// logged, never surfaced: the reply is already computed and must reach the
// caller.
func (s *Service) saveTurn(ctx context.Context, sessionID, userMessage, reply string) {
	if s.history == nil || sessionID == "" {
		return
	}
	now := time.Now().UTC()
	err := s.history.Append(ctx, sessionID, []conversation.Message{
		{Role: conversation.RoleUser, Content: userMessage, CreatedAt: now},
		{Role: conversation.RoleAssistant, Content: reply, CreatedAt: now},
	})
	if err != nil {
		s.logger.Error("failed to save conversation turn", "error", err, "session_id", sessionID)
	}
}

// DocumentResult is a completed document analysis.
type DocumentResult struct {
	Analysis string
	Usage    TokenUsage
}

// AnalyzeDocument runs the document-analysis prompt path. Lower temperature
// and a higher token ceiling than chat.
func (s *Service) AnalyzeDocument(ctx context.Context, docType DocumentType, text string) (*DocumentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if s.gateway == nil {
		return nil, ErrNotConfigured
	}

	ctx, span := serviceTracer.Start(ctx, "assistant.analyze_document")
	defer span.End()
	span.SetAttributes(attribute.String("realty.document_type", string(docType)))

	start := time.Now()
	resp, err := s.gateway.Complete(ctx, CompletionRequest{
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: BuildDocumentPrompt(docType, text)}},
		Temperature: s.params.DocTemperature,
		MaxTokens:   s.params.DocMaxTokens,
	})
	s.metrics.ObserveCompletionLatency("document", time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &DocumentResult{Analysis: resp.Text, Usage: resp.Usage}, nil
}

// localReply is the deterministic flow for simple intents. These never reach
// the completion provider.
func localReply(message string) string {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "hello") || strings.Contains(m, "hi ") || m == "hi" || strings.Contains(m, "hey"):
		return "Hi! I'm AIVA, the assistant for our brokerage. I can answer questions about listings, neighborhoods, and financing, or arrange a call with one of our agents. What can I help you with?"
	case strings.Contains(m, "address") || strings.Contains(m, "office") || strings.Contains(m, "located"):
		return "Our office is at 120 Harbor Street, Suite 200. You're welcome to stop by, or I can have an agent call you — just say the word."
	case strings.Contains(m, "hours") || strings.Contains(m, "open"):
		return "We're available Monday through Saturday, 9am to 6pm. Outside those hours I'm still here — ask me anything, or request a callback and an agent will ring you."
	case strings.Contains(m, "thank"):
		return "You're very welcome! If anything else comes up — listings, financing, or scheduling a showing — I'm right here."
	default:
		return "Happy to help with that. I can look into listings, talk through neighborhoods and financing, or set up a call with one of our agents. Would you like to schedule a callback?"
	}
}
