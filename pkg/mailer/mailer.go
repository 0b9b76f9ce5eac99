package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// Provider is the uniform contract implemented by every email transport
// adapter. Send performs exactly one outbound call to the provider's
// transactional endpoint; provider-side rejections (bad address, quota) come
// back as a failed DeliveryResult, never as a panic, and transport faults are
// caught at the adapter boundary and converted the same way.
type Provider interface {
	// Name returns the provider identifier, e.g. "brevo".
	Name() string

	// Send delivers one message to the full recipient list. Callers must not
	// pass an empty recipient list; the notification router short-circuits
	// before reaching the adapter.
	Send(ctx context.Context, msg Message) DeliveryResult

	// TestConnection probes authentication and network reachability without
	// delivering real mail. Adapters without a dedicated account endpoint
	// simulate the probe and classify the rejection reason.
	TestConnection(ctx context.Context) ConnectivityResult
}

// Message represents a single transactional email.
type Message struct {
	Subject    string
	BodyHTML   string
	Recipients []string
	IsTest     bool // marks throwaway messages sent by connectivity probes
}

// Validate checks the message before any network call is attempted.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(m.BodyHTML) == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	if len(m.Recipients) == 0 {
		return fmt.Errorf("%w: Recipients must not be empty", ErrInvalidParams)
	}
	for _, r := range m.Recipients {
		if !ValidEmail(r) {
			return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidParams, r)
		}
	}
	return nil
}

// ValidEmail reports whether the value is a plain, syntactically valid email
// address suitable for a recipient list.
func ValidEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	// mail.ParseAddress accepts bare hostnames; require a dotted domain for
	// typical web use.
	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}
