// Package notify routes integration events to email notifications.
//
// The catalog of notification types is closed: every type is a compile-time
// constant and MapType deterministically maps an event's channel, trigger
// source and outcome onto one of them. Recipient lists behind each type are
// runtime-mutable through the recipients package; the type set itself is not.
//
// Routing is best-effort by contract. Operations return a SendResult rather
// than an error, and a provider failure or disabled configuration never
// affects the business operation that produced the event. When notifications
// are disabled every operation is a no-op that reports success.
package notify
