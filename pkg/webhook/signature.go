package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SignatureHeaders carries the signature material of an incoming webhook.
type SignatureHeaders struct {
	Signature string
	Timestamp int64
	ID        string
}

// Headers returns the signature headers as a map for outbound test deliveries.
func (s SignatureHeaders) Headers() map[string]string {
	return map[string]string{
		"X-Webhook-Signature": s.Signature,
		"X-Webhook-Timestamp": strconv.FormatInt(s.Timestamp, 10),
		"X-Webhook-ID":        s.ID,
	}
}

// SignPayload creates an HMAC-SHA256 signature over timestamp + "." + payload.
// Timestamp binding prevents replay attacks.
func SignPayload(secret string, payload []byte) (SignatureHeaders, error) {
	if secret == "" {
		return SignatureHeaders{}, fmt.Errorf("%w: secret is required", ErrInvalidConfiguration)
	}
	if len(payload) == 0 {
		return SignatureHeaders{}, fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}

	timestamp := time.Now().Unix()
	return SignatureHeaders{
		Signature: computeSignature(secret, timestamp, payload),
		Timestamp: timestamp,
		ID:        uuid.New().String(),
	}, nil
}

// VerifySignature validates webhook authenticity. Uses constant-time
// comparison and rejects signatures outside the maxAge window or more than a
// minute in the future.
func VerifySignature(secret string, payload []byte, headers SignatureHeaders, maxAge time.Duration) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrInvalidConfiguration)
	}
	if len(payload) == 0 {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}
	if headers.Signature == "" {
		return fmt.Errorf("%w: signature is missing", ErrSignatureMismatch)
	}

	if maxAge > 0 {
		age := time.Since(time.Unix(headers.Timestamp, 0))
		if age > maxAge {
			return fmt.Errorf("%w: signature is %v old", ErrSignatureExpired, age.Round(time.Second))
		}
		if age < -1*time.Minute {
			return fmt.Errorf("%w: signature timestamp is in the future", ErrSignatureExpired)
		}
	}

	expected := computeSignature(secret, headers.Timestamp, payload)
	if !hmac.Equal([]byte(expected), []byte(headers.Signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

func computeSignature(secret string, timestamp int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", timestamp, payload)
	return hex.EncodeToString(h.Sum(nil))
}

// ExtractSignatureHeaders reads the signature material from an incoming
// request. http.Header lookups are already case-insensitive.
func ExtractSignatureHeaders(h http.Header) (SignatureHeaders, error) {
	sig := SignatureHeaders{
		Signature: h.Get("X-Webhook-Signature"),
		ID:        h.Get("X-Webhook-ID"),
	}

	if ts := h.Get("X-Webhook-Timestamp"); ts != "" {
		parsed, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return SignatureHeaders{}, fmt.Errorf("%w: invalid timestamp format", ErrInvalidPayload)
		}
		sig.Timestamp = parsed
	}

	if sig.Signature == "" || sig.Timestamp == 0 {
		return SignatureHeaders{}, fmt.Errorf("%w: missing required signature headers", ErrInvalidPayload)
	}
	return sig, nil
}
