package leads

import "time"

// Source identifies the channel a lead came in through.
type Source string

const (
	SourceWebsite   Source = "website"
	SourceChat      Source = "chat"
	SourceCallback  Source = "callback"
	SourceValuation Source = "valuation"
)

// Status is the funnel stage of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusClosed    Status = "closed"
)

// Lead represents a prospective client captured from a form, chat, or
// callback request.
type Lead struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Message          string    `json:"message"`
	Source           Source    `json:"source"`
	PreferredContact string    `json:"preferred_contact"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Message          string `json:"message"`
	Source           Source `json:"source"`
	PreferredContact string `json:"preferred_contact"`
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	if r.Source == "" {
		r.Source = SourceWebsite
	}
	return nil
}
