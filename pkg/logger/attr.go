package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider records the email provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// NotificationType records the notification type under the key "notification_type".
func NotificationType(t string) slog.Attr {
	return slog.String("notification_type", t)
}

// RecipientCount records the resolved recipient count under the key "recipient_count".
func RecipientCount(n int) slog.Attr {
	return slog.Int("recipient_count", n)
}

// OrderID records the order identifier under the key "order_id".
// If id is nil, it returns an empty Attr.
func OrderID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("order_id", id)
}

// RunID records the pipeline run identifier under the key "run_id".
// If id is nil, it returns an empty Attr.
func RunID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("run_id", id)
}

// StatusCode records an HTTP-like status code under the key "status_code".
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// MessageID records the provider-assigned message identifier under the key "message_id".
// If id is nil, it returns an empty Attr.
func MessageID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("message_id", id)
}
