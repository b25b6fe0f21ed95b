package leads

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	List(ctx context.Context, limit, offset int) ([]*Lead, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	order []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Create creates a new lead in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Message:          req.Message,
		Source:           req.Source,
		PreferredContact: req.PreferredContact,
		Status:           StatusNew,
		CreatedAt:        time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.order = append(r.order, lead.ID)
	r.mu.Unlock()

	return lead, nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// GetByEmail retrieves the most recent lead with the given email.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		lead := r.leads[r.order[i]]
		if strings.EqualFold(lead.Email, email) {
			return lead, nil
		}
	}
	return nil, ErrLeadNotFound
}

// List returns leads newest first.
func (r *InMemoryRepository) List(ctx context.Context, limit, offset int) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*Lead, 0, limit)
	for i := len(r.order) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.leads[r.order[i]])
	}
	return out, nil
}
