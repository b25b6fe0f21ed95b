package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat session.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptPlaceholder is handed to the voice agent when a callback has no
// usable chat history. The context string must never be empty.
const TranscriptPlaceholder = "No prior conversation available."

type sessionRecord struct {
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists per-session message history in Redis, keyed by the
// caller-supplied session identifier. The full sequence is written on every
// append; sessions are created implicitly on first append and never deleted
// here (retention tooling owns deletion).
type Store struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewStore creates a conversation store backed by the given Redis client.
func NewStore(client *redis.Client) *Store {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &Store{
		redis:  client,
		tracer: otel.Tracer("realty.internal.conversation"),
	}
}

// Append concatenates newMessages onto the session's existing sequence and
// writes the whole sequence back with a fresh modification timestamp.
//
// This is a read-modify-write: two turns for the same session completing
// concurrently can lose the earlier append (last write wins). Accepted —
// sessions are single-visitor browser tokens.
func (s *Store) Append(ctx context.Context, sessionID string, newMessages []Message) error {
	ctx, span := s.tracer.Start(ctx, "conversation.append")
	defer span.End()

	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("conversation: session id required")
	}

	existing, err := s.load(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	record := sessionRecord{
		Messages:  append(existing, newMessages...),
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sessionID), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: persist history: %w", err)
	}
	return nil
}

// Read returns up to the most recent limit messages in chronological order.
// An unknown session yields an empty slice, not an error.
func (s *Store) Read(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.read")
	defer span.End()

	messages, err := s.load(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (s *Store) load(ctx context.Context, sessionID string) ([]Message, error) {
	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: load history: %w", err)
	}
	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("conversation: decode history: %w", err)
	}
	return record.Messages, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("chat_session:%s", id)
}

// Transcript renders messages into the flat hand-off format the voice agent
// expects. Empty history yields the explicit placeholder.
func Transcript(messages []Message) string {
	if len(messages) == 0 {
		return TranscriptPlaceholder
	}
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		speaker := "AIVA"
		if m.Role == RoleUser {
			speaker = "User"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
