package leads

import "errors"

var (
	ErrInvalidName    = errors.New("leads: name is required")
	ErrMissingContact = errors.New("leads: email or phone is required")
	ErrLeadNotFound   = errors.New("leads: lead not found")
)
