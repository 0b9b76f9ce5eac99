// Package webhook provides inbound webhook authentication and replay
// protection: HMAC-SHA256 signature verification bound to a timestamp window,
// and redis-backed event deduplication.
package webhook
