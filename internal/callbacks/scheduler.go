package callbacks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aivahomes/realty-ai-platform/internal/leads"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

const (
	defaultDelayMinutes = 5
	minDelayMinutes     = 1
	maxDelayMinutes     = 60
)

// ScheduleRequest is the payload for requesting a callback. Name and Email
// only feed lead capture; the call itself needs nothing but the phone number.
type ScheduleRequest struct {
	Phone        string `json:"phone_number"`
	DelayMinutes *int   `json:"delay_minutes,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Scheduler validates callback requests, records them as pending, and
// captures the caller as a lead so the team sees them even if the call
// never connects.
type Scheduler struct {
	store Store
	leads leads.Repository
	log   *logging.Logger
	now   func() time.Time
}

// NewScheduler creates a Scheduler. leadRepo may be nil; lead capture is
// skipped in that case.
func NewScheduler(store Store, leadRepo leads.Repository, logger *logging.Logger) *Scheduler {
	if store == nil {
		panic("callbacks: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		store: store,
		leads: leadRepo,
		log:   logger,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Schedule normalizes the phone number, clamps the requested delay, and
// persists a pending callback. The fire time is fixed at creation; later
// sweeps dispatch whatever has come due.
func (s *Scheduler) Schedule(ctx context.Context, req ScheduleRequest) (*Callback, error) {
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	delay := defaultDelayMinutes
	if req.DelayMinutes != nil {
		delay = *req.DelayMinutes
	}
	if delay < minDelayMinutes {
		delay = minDelayMinutes
	}
	if delay > maxDelayMinutes {
		delay = maxDelayMinutes
	}

	now := s.now()
	cb := &Callback{
		ID:           uuid.New(),
		Phone:        phone,
		ScheduledFor: now.Add(time.Duration(delay) * time.Minute),
		SessionID:    req.SessionID,
		Notes:        req.Notes,
		Status:       StatusPending,
		CreatedAt:    now,
	}

	cb.LeadID = s.captureLead(ctx, cb, req.Name, req.Email)

	if err := s.store.Create(ctx, cb); err != nil {
		return nil, err
	}

	s.log.Info("callback scheduled",
		"callback_id", cb.ID.String(),
		"scheduled_for", cb.ScheduledFor,
		"delay_minutes", delay,
	)
	return cb, nil
}

// captureLead records the requester in the lead funnel. Failures are logged
// and swallowed; a broken lead pipeline must not block the callback itself.
func (s *Scheduler) captureLead(ctx context.Context, cb *Callback, name, email string) string {
	if s.leads == nil {
		return ""
	}
	if name == "" {
		// Placeholder identity keeps the funnel row visible until the call
		// fills in real details.
		name = fmt.Sprintf("Callback %s", cb.CreatedAt.Format("Jan 2 15:04"))
	}
	if email == "" {
		email = fmt.Sprintf("callback-%d@leads.aivahomes.com", cb.CreatedAt.Unix())
	}
	message := "Requested a phone callback from AIVA."
	if cb.Notes != "" {
		message = fmt.Sprintf("%s Notes: %s", message, cb.Notes)
	}
	lead, err := s.leads.Create(ctx, &leads.CreateLeadRequest{
		Name:             name,
		Email:            email,
		Phone:            cb.Phone,
		Message:          message,
		Source:           leads.SourceCallback,
		PreferredContact: "phone",
	})
	if err != nil {
		s.log.Warn("failed to capture callback lead", "error", err)
		return ""
	}
	return lead.ID
}
