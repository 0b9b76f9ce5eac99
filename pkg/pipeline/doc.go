// Package pipeline implements the integration flows between 3DCart, HubSpot
// and NetSuite. Each flow emits outcome notifications through a Notifier but
// treats delivery as best-effort: a failed email never fails the sync.
package pipeline
