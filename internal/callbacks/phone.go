package callbacks

import (
	"errors"
	"strings"
)

// ErrInvalidPhone means the input did not contain enough digits to dial.
var ErrInvalidPhone = errors.New("callbacks: phone number must have at least 10 digits")

// NormalizePhone converts free-form phone input into E.164-style digits with
// a leading plus. Ten digits are assumed to be US/Canada numbers and get a
// +1 prefix; longer inputs are assumed to already carry a country code.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) < 10:
		return "", ErrInvalidPhone
	case len(digits) == 10:
		return "+1" + digits, nil
	default:
		return "+" + digits, nil
	}
}
