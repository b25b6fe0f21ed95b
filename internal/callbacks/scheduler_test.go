package callbacks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aivahomes/realty-ai-platform/internal/leads"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

type failingLeadRepo struct {
	leads.Repository
}

func (failingLeadRepo) Create(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	return nil, errors.New("database down")
}

func newTestScheduler(store Store, repo leads.Repository) *Scheduler {
	s := NewScheduler(store, repo, logging.Default())
	s.now = func() time.Time { return time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC) }
	return s
}

func TestSchedule_DefaultDelay(t *testing.T) {
	store := NewInMemoryStore()
	s := newTestScheduler(store, nil)

	cb, err := s.Schedule(context.Background(), ScheduleRequest{Phone: "555-123-4567"})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if cb.Phone != "+15551234567" {
		t.Errorf("expected normalized phone, got %s", cb.Phone)
	}
	want := time.Date(2026, 8, 28, 15, 5, 0, 0, time.UTC)
	if !cb.ScheduledFor.Equal(want) {
		t.Errorf("expected default 5 minute delay, got %s", cb.ScheduledFor)
	}
	if cb.Status != StatusPending {
		t.Errorf("expected pending, got %s", cb.Status)
	}

	stored, err := store.GetByID(context.Background(), cb.ID)
	if err != nil {
		t.Fatalf("stored callback missing: %v", err)
	}
	if stored.Phone != cb.Phone {
		t.Error("stored callback does not match response")
	}
}

func TestSchedule_DelayClamping(t *testing.T) {
	tests := []struct {
		name  string
		delay int
		want  int
	}{
		{"below minimum", 0, 1},
		{"negative", -10, 1},
		{"above maximum", 90, 60},
		{"within range", 15, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(NewInMemoryStore(), nil)
			cb, err := s.Schedule(context.Background(), ScheduleRequest{
				Phone:        "5551234567",
				DelayMinutes: &tt.delay,
			})
			if err != nil {
				t.Fatalf("schedule: %v", err)
			}
			got := int(cb.ScheduledFor.Sub(cb.CreatedAt).Minutes())
			if got != tt.want {
				t.Errorf("delay %d: expected %d minutes, got %d", tt.delay, tt.want, got)
			}
		})
	}
}

func TestSchedule_InvalidPhone(t *testing.T) {
	s := newTestScheduler(NewInMemoryStore(), nil)
	if _, err := s.Schedule(context.Background(), ScheduleRequest{Phone: "555-1234"}); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestSchedule_CapturesLead(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	s := newTestScheduler(NewInMemoryStore(), repo)

	cb, err := s.Schedule(context.Background(), ScheduleRequest{
		Phone:     "555-123-4567",
		SessionID: "sess-1",
		Notes:     "wants valuation for 12 Birch Lane",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if cb.LeadID == "" {
		t.Fatal("expected lead to be captured")
	}
	lead, err := repo.GetByID(context.Background(), cb.LeadID)
	if err != nil {
		t.Fatalf("lead missing: %v", err)
	}
	if lead.Source != leads.SourceCallback {
		t.Errorf("expected callback source, got %s", lead.Source)
	}
	if lead.Phone != "+15551234567" {
		t.Errorf("expected normalized phone on lead, got %s", lead.Phone)
	}
	if lead.Name == "" {
		t.Error("expected placeholder name when none was provided")
	}
	if lead.Email == "" {
		t.Error("expected placeholder email when none was provided")
	}

	// The placeholder identity is deterministic for a given creation time,
	// so the lead stays reachable by email lookup.
	byEmail, err := repo.GetByEmail(context.Background(), lead.Email)
	if err != nil {
		t.Fatalf("lookup by placeholder email: %v", err)
	}
	if byEmail.ID != lead.ID {
		t.Errorf("expected lead %s from email lookup, got %s", lead.ID, byEmail.ID)
	}
}

func TestSchedule_UsesProvidedIdentity(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	s := newTestScheduler(NewInMemoryStore(), repo)

	cb, err := s.Schedule(context.Background(), ScheduleRequest{
		Phone: "555-123-4567",
		Name:  "Jordan Ellis",
		Email: "jordan@example.com",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	lead, err := repo.GetByID(context.Background(), cb.LeadID)
	if err != nil {
		t.Fatalf("lead missing: %v", err)
	}
	if lead.Name != "Jordan Ellis" || lead.Email != "jordan@example.com" {
		t.Errorf("expected provided identity on lead, got %s / %s", lead.Name, lead.Email)
	}
}

func TestSchedule_LeadFailureDoesNotBlock(t *testing.T) {
	s := newTestScheduler(NewInMemoryStore(), failingLeadRepo{})

	cb, err := s.Schedule(context.Background(), ScheduleRequest{Phone: "5551234567"})
	if err != nil {
		t.Fatalf("schedule should succeed despite lead failure: %v", err)
	}
	if cb.LeadID != "" {
		t.Errorf("expected empty lead id, got %s", cb.LeadID)
	}
}
