package callbacks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCallbackNotFound is returned when no callback matches the identifier.
var ErrCallbackNotFound = errors.New("callbacks: callback not found")

// Store persists scheduled callbacks through their dispatch lifecycle.
type Store interface {
	Create(ctx context.Context, cb *Callback) error
	GetByID(ctx context.Context, id uuid.UUID) (*Callback, error)
	// ListDue returns pending callbacks whose scheduled time is at or before
	// asOf, oldest first, capped at limit.
	ListDue(ctx context.Context, asOf time.Time, limit int) ([]*Callback, error)
	// ClaimProcessing moves a callback from pending to processing. It returns
	// false when the row was no longer pending, so concurrent sweeps cannot
	// both dispatch the same callback.
	ClaimProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID, providerCallID string) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
	Cancel(ctx context.Context, id uuid.UUID) error
	// List returns recent callbacks newest first, optionally filtered by
	// status ("" means all).
	List(ctx context.Context, status Status, limit int) ([]*Callback, error)
}

// InMemoryStore is a Store backed by a map, used in tests and local
// development without a database.
type InMemoryStore struct {
	mu        sync.RWMutex
	callbacks map[uuid.UUID]*Callback
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{callbacks: make(map[uuid.UUID]*Callback)}
}

func (s *InMemoryStore) Create(ctx context.Context, cb *Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *cb
	s.callbacks[cb.ID] = &clone
	return nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Callback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cb, ok := s.callbacks[id]
	if !ok {
		return nil, ErrCallbackNotFound
	}
	clone := *cb
	return &clone, nil
}

func (s *InMemoryStore) ListDue(ctx context.Context, asOf time.Time, limit int) ([]*Callback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*Callback
	for _, cb := range s.callbacks {
		if cb.Status == StatusPending && !cb.ScheduledFor.After(asOf) {
			clone := *cb
			due = append(due, &clone)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ScheduledFor.Before(due[j].ScheduledFor) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *InMemoryStore) ClaimProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cb, ok := s.callbacks[id]
	if !ok || cb.Status != StatusPending {
		return false, nil
	}
	cb.Status = StatusProcessing
	return true, nil
}

func (s *InMemoryStore) Complete(ctx context.Context, id uuid.UUID, providerCallID string) error {
	return s.finish(id, StatusCompleted, providerCallID, "")
}

func (s *InMemoryStore) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	return s.finish(id, StatusFailed, "", reason)
}

func (s *InMemoryStore) finish(id uuid.UUID, status Status, providerCallID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Same contract as the conditional UPDATE in PostgresStore: only a
	// processing record can reach a terminal state, and terminal states
	// never change again.
	cb, ok := s.callbacks[id]
	if !ok || cb.Status != StatusProcessing {
		return ErrCallbackNotFound
	}
	now := time.Now().UTC()
	cb.Status = status
	cb.ProviderCallID = providerCallID
	cb.LastError = reason
	cb.ProcessedAt = &now
	return nil
}

func (s *InMemoryStore) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cb, ok := s.callbacks[id]
	if !ok || cb.Status.Terminal() {
		return ErrCallbackNotFound
	}
	cb.Status = StatusCancelled
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, status Status, limit int) ([]*Callback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Callback
	for _, cb := range s.callbacks {
		if status != "" && cb.Status != status {
			continue
		}
		clone := *cb
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
