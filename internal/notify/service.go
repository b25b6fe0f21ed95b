package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aivahomes/realty-ai-platform/internal/leads"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

// Service emails the brokerage team when new leads come in. It satisfies
// leads.Notifier.
type Service struct {
	email      EmailSender
	recipients []string
	brandName  string
	logger     *logging.Logger
}

// NewService creates a notification service. A nil sender or empty recipient
// list turns every notification into a logged no-op.
func NewService(email EmailSender, recipients []string, brandName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if brandName == "" {
		brandName = "AIVA Homes"
	}
	return &Service{
		email:      email,
		recipients: recipients,
		brandName:  brandName,
		logger:     logger,
	}
}

// NotifyNewLead emails every configured recipient about a freshly captured
// lead. Per-recipient failures are collected so one bad address does not
// hide the others.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: email not configured, skipping lead notification")
		return nil
	}

	subject := fmt.Sprintf("New %s lead: %s", lead.Source, lead.Name)
	body := s.leadBody(lead)

	var errs []error
	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send lead email", "error", err, "to", recipient)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("notify: lead email sent", "to", recipient, "lead_id", lead.ID)
	}
	return errors.Join(errs...)
}

func (s *Service) leadBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s just came in through the %s channel.\n\n", lead.Name, lead.Source)
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	if lead.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	}
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	}
	if lead.PreferredContact != "" {
		fmt.Fprintf(&b, "Preferred contact: %s\n", lead.PreferredContact)
	}
	if lead.Message != "" {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", lead.Message)
	}
	fmt.Fprintf(&b, "\nReceived: %s\n\n— %s", lead.CreatedAt.Format("January 2, 2006 at 3:04 PM"), s.brandName)
	return b.String()
}
