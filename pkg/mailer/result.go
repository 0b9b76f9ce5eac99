package mailer

// DeliveryResult is the outcome of a single send attempt. It has the same
// shape regardless of which provider performed the send, so callers can treat
// all providers uniformly. Results are ephemeral; persistence and alerting
// happen in the caller's logging, not here.
type DeliveryResult struct {
	Success       bool   `json:"success"`
	Provider      string `json:"provider"`
	MessageID     string `json:"message_id,omitempty"`
	StatusCode    int    `json:"status_code,omitempty"`
	Err           string `json:"error,omitempty"`
	QuotaExceeded bool   `json:"quota_exceeded,omitempty"`
}

// ConnectivityResult is the outcome of a TestConnection probe.
type ConnectivityResult struct {
	OK       bool   `json:"ok"`
	Provider string `json:"provider"`
	Detail   string `json:"detail,omitempty"`
}

func successResult(provider, messageID string, statusCode int) DeliveryResult {
	return DeliveryResult{
		Success:    true,
		Provider:   provider,
		MessageID:  messageID,
		StatusCode: statusCode,
	}
}

// transportFailure converts a transport-level fault (DNS, TLS, timeout) into
// a failed result so it never propagates past the adapter boundary.
func transportFailure(provider string, err error) DeliveryResult {
	return DeliveryResult{
		Success:  false,
		Provider: provider,
		Err:      err.Error(),
	}
}
