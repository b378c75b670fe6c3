// Package bootstrap sequences the one-time setup an object-storage backend
// needs before the consuming application can serve traffic.
//
// The Orchestrator runs the state machine
//
//	Start -> WaitingReady -> EnsuringBucket -> ApplyingPolicy -> Done
//
// with Failed(reason) as the alternative terminal state at any step.
// Configuration errors fail fast at Start without any network call; readiness
// is delegated to core/readiness; bucket creation is idempotent
// (already-exists is success); policy application is best effort and only
// downgrades to a warning on failure, since the bucket is already usable
// without it.
//
// # Completion signal
//
// The application launcher must observe Done before accepting external
// traffic. Three equivalent signals are offered: the Done channel (in
// process), an optional sentinel file written via Result.WriteSignal, and
// the /healthz flip served by core/server.
package bootstrap
