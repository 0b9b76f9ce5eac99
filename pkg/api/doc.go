// Package api exposes the integration over HTTP: authenticated webhook
// ingestion for 3DCart and HubSpot, an operator API for recipient and
// provider management, and health probes.
package api
