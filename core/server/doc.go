// Package server exposes the bootstrap outcome over HTTP.
//
// The readiness endpoint is one of the supported completion signals: an
// orchestrating launcher (compose healthcheck, Kubernetes probe) polls
// /healthz and holds application traffic until it flips from 503 to 200.
//
// # Endpoints
//
//   - GET /healthz : public; 503 while initializing or failed, 200 once Done.
//   - GET /status  : API-key protected; full state machine and run result.
package server
