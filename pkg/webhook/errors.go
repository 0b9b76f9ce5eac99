package webhook

import "errors"

// Domain errors for webhook verification, designed for error wrapping and
// classification. Handlers map these onto HTTP statuses: configuration errors
// are 500s, signature and payload errors are 401/400s, duplicates are 200s
// with no side effects.
var (
	ErrInvalidConfiguration = errors.New("invalid webhook configuration")
	ErrInvalidPayload       = errors.New("invalid webhook payload")
	ErrSignatureMismatch    = errors.New("webhook signature mismatch")
	ErrSignatureExpired     = errors.New("webhook signature expired")
	ErrDuplicateEvent       = errors.New("duplicate webhook event")
)

// IsDuplicateEvent checks if an error indicates an already-processed event.
func IsDuplicateEvent(err error) bool {
	return errors.Is(err, ErrDuplicateEvent)
}
