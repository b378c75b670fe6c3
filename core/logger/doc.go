// Package logger provides a structured logging facility based on Zap.
//
// It returns a configured logger instance for either development (console,
// colored levels) or production (json) use, and integrates with the Fiber
// status server through the WithRayID helper, which attaches the per-request
// ray_id so that all logs for one request can be correlated.
//
// Credential values never pass through the logger: configuration structs are
// logged field-by-field, not wholesale.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("bootstrap started")
package logger
