// Package mailer provides a provider-agnostic layer for sending transactional
// email through one of a sealed set of adapters: Brevo, Gmail, Amazon SES and
// Postmark.
//
// Every adapter implements the same contract: Send delivers one message to
// the full recipient list and returns a DeliveryResult of identical shape
// regardless of provider, and TestConnection probes credentials and network
// reachability without delivering real mail.
//
// # Failure model
//
// Adapters never return Go errors from Send. Provider-side rejections
// (invalid address, quota exceeded, auth failure) and transport faults (DNS,
// TLS, timeout) are both converted to a DeliveryResult with Success=false;
// the classified QuotaExceeded flag is derived by one per-adapter predicate
// over status code and error text. The predicates are best-effort signal
// extraction: providers can change their wording without notice, which is why
// each heuristic lives in a single function per adapter.
//
// # Provider selection
//
// The Factory reads the provider name from configuration and instantiates
// exactly one adapter; an unknown name is a fatal configuration error.
// Selection is fixed at construction. Factory.TestAll builds and probes every
// adapter independently for operator diagnostics.
//
// # Success codes
//
// Each provider signals success differently, and the exact criterion is
// hard-coded per adapter: Brevo answers HTTP 201, Gmail answers HTTP 200/202,
// SES succeeds when the SDK call returns a message id, and Postmark returns
// HTTP 200 with a body-level error code of zero. Using the wrong code would
// silently misclassify every send from that provider.
package mailer
