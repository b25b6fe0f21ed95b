package assistant

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivahomes/realty-ai-platform/internal/conversation"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

type stubGateway struct {
	response CompletionResponse
	err      error
	requests []CompletionRequest
}

func (s *stubGateway) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return CompletionResponse{}, s.err
	}
	return s.response, nil
}

func newServiceForTest(t *testing.T, gateway CompletionClient) (*Service, *conversation.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := conversation.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewService(gateway, store, DefaultParams(), nil, logging.Default()), store
}

func TestChat_ComplexMessageUsesGateway(t *testing.T) {
	gateway := &stubGateway{response: CompletionResponse{
		Text:  "A duplex can be a strong first investment...",
		Usage: TokenUsage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
	}}
	service, store := newServiceForTest(t, gateway)

	result, err := service.Chat(context.Background(), "sess-1", "What's a good investment property strategy in this market?")
	require.NoError(t, err)

	assert.True(t, result.Complex)
	assert.Equal(t, "A duplex can be a strong first investment...", result.Reply)
	assert.Equal(t, 200, result.Usage.TotalTokens)

	require.Len(t, gateway.requests, 1)
	req := gateway.requests[0]
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
	assert.Equal(t, 500, req.MaxTokens)
	assert.Equal(t, ChatRoleSystem, req.Messages[0].Role)
	assert.Equal(t, SystemPersona, req.Messages[0].Content)

	// Both sides of the turn were persisted.
	history, err := store.Read(context.Background(), "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, conversation.RoleUser, history[0].Role)
	assert.Equal(t, conversation.RoleAssistant, history[1].Role)
}

func TestChat_SimpleMessageSkipsGateway(t *testing.T) {
	gateway := &stubGateway{}
	service, _ := newServiceForTest(t, gateway)

	result, err := service.Chat(context.Background(), "sess-2", "hello")
	require.NoError(t, err)

	assert.False(t, result.Complex)
	assert.NotEmpty(t, result.Reply)
	assert.Empty(t, gateway.requests, "simple messages must not reach the provider")
}

func TestChat_EmptyMessageIsValidationError(t *testing.T) {
	service, _ := newServiceForTest(t, &stubGateway{})

	_, err := service.Chat(context.Background(), "sess-3", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChat_UpstreamFailureDoesNotPersistTurn(t *testing.T) {
	gateway := &stubGateway{err: &UpstreamError{StatusCode: 500, Body: "internal"}}
	service, store := newServiceForTest(t, gateway)

	_, err := service.Chat(context.Background(), "sess-4", "compare these two listings")
	require.Error(t, err)

	var upstream *UpstreamError
	assert.True(t, errors.As(err, &upstream))

	history, readErr := store.Read(context.Background(), "sess-4", 10)
	require.NoError(t, readErr)
	assert.Empty(t, history, "no assistant entry may be recorded for a failed attempt")
}

func TestChat_NilGatewayFailsFastForComplex(t *testing.T) {
	service, _ := newServiceForTest(t, nil)

	_, err := service.Chat(context.Background(), "sess-5", "explain closing costs")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestChat_HistoryInjectedIntoPrompt(t *testing.T) {
	gateway := &stubGateway{response: CompletionResponse{Text: "Sure."}}
	service, store := newServiceForTest(t, gateway)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-6", []conversation.Message{
		{Role: conversation.RoleUser, Content: "Tell me about 12 Birch Lane"},
		{Role: conversation.RoleAssistant, Content: "It's a 3-bed colonial listed at $415,000."},
	}))

	_, err := service.Chat(ctx, "sess-6", "how would the mortgage look with 10% down?")
	require.NoError(t, err)

	require.Len(t, gateway.requests, 1)
	msgs := gateway.requests[0].Messages
	require.Len(t, msgs, 4) // system + 2 history + current
	assert.Equal(t, "Tell me about 12 Birch Lane", msgs[1].Content)
	assert.Equal(t, ChatRoleAssistant, msgs[2].Role)
}

func TestAnalyzeDocument_UsesDocumentParams(t *testing.T) {
	gateway := &stubGateway{response: CompletionResponse{
		Text:  "1. Summary ...",
		Usage: TokenUsage{TotalTokens: 900},
	}}
	service, _ := newServiceForTest(t, gateway)

	result, err := service.AnalyzeDocument(context.Background(), DocumentLease, "LEASE AGREEMENT ...")
	require.NoError(t, err)
	assert.Equal(t, "1. Summary ...", result.Analysis)

	require.Len(t, gateway.requests, 1)
	req := gateway.requests[0]
	assert.InDelta(t, 0.3, req.Temperature, 0.001)
	assert.Equal(t, 1500, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "Security deposit")
}

func TestAnalyzeDocument_EmptyTextRejected(t *testing.T) {
	service, _ := newServiceForTest(t, &stubGateway{})

	_, err := service.AnalyzeDocument(context.Background(), DocumentLease, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}
