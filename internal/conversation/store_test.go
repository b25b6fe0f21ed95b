package conversation

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client)
}

func msg(role, content string) Message {
	return Message{Role: role, Content: content, CreatedAt: time.Now().UTC()}
}

func TestAppendThenReadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	appended := []Message{
		msg(RoleUser, "Hi, I'm looking at 12 Birch Lane"),
		msg(RoleAssistant, "Happy to help! What would you like to know?"),
	}
	require.NoError(t, store.Append(ctx, "sess-1", appended))

	got, err := store.Read(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Hi, I'm looking at 12 Birch Lane", got[0].Content)
	assert.Equal(t, RoleAssistant, got[1].Role)
}

func TestAppendCreatesSessionImplicitly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "fresh", []Message{msg(RoleUser, "hello")}))
	got, err := store.Read(ctx, "fresh", 6)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestReadUnknownSessionReturnsEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Read(context.Background(), "nope", 6)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadLimitReturnsMostRecentInOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := []Message{
		msg(RoleUser, "m1"), msg(RoleAssistant, "m2"),
		msg(RoleUser, "m3"), msg(RoleAssistant, "m4"),
	}
	second := []Message{
		msg(RoleUser, "m5"), msg(RoleAssistant, "m6"),
		msg(RoleUser, "m7"), msg(RoleAssistant, "m8"),
	}
	require.NoError(t, store.Append(ctx, "sess", first))
	require.NoError(t, store.Append(ctx, "sess", second))

	got, err := store.Read(ctx, "sess", 6)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, "m3", got[0].Content)
	assert.Equal(t, "m8", got[5].Content)

	all, err := store.Read(ctx, "sess", 100)
	require.NoError(t, err)
	assert.Len(t, all, 8)
	assert.Equal(t, "m1", all[0].Content)
}

func TestAppendRequiresSessionID(t *testing.T) {
	store := newTestStore(t)
	err := store.Append(context.Background(), "  ", []Message{msg(RoleUser, "x")})
	assert.Error(t, err)
}

func TestTranscript(t *testing.T) {
	messages := []Message{
		msg(RoleUser, "Is 44 Elm still available?"),
		msg(RoleAssistant, "Yes, it is! Want to book a showing?"),
	}
	want := "User: Is 44 Elm still available?\nAIVA: Yes, it is! Want to book a showing?"
	assert.Equal(t, want, Transcript(messages))
}

func TestTranscriptEmptyHistoryUsesPlaceholder(t *testing.T) {
	assert.Equal(t, TranscriptPlaceholder, Transcript(nil))
	assert.Equal(t, TranscriptPlaceholder, Transcript([]Message{}))
}
