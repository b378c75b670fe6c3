package storage

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid or incomplete storage configuration.
// It is fatal: configuration does not become valid by retrying.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("storage config: %s: %s", e.Field, e.Reason)
}

// ConnectKind classifies connection failures.
type ConnectKind int

const (
	// ConnectUnreachable means the server did not answer; transient, worth retrying.
	ConnectUnreachable ConnectKind = iota
	// ConnectUnauthorized means the server rejected the credentials; fatal.
	ConnectUnauthorized
)

func (k ConnectKind) String() string {
	if k == ConnectUnauthorized {
		return "unauthorized"
	}
	return "unreachable"
}

// ConnectError reports a failed connectivity probe against the backend.
type ConnectError struct {
	Kind    ConnectKind
	Backend Provider
	Cause   error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %s: %v", e.Backend, e.Kind, e.Cause)
}

func (e *ConnectError) Unwrap() error { return e.Cause }

// BackendErrorCode classifies bucket-operation failures.
type BackendErrorCode int

const (
	// BackendOther is any unrecoverable backend failure.
	BackendOther BackendErrorCode = iota
	// BackendAlreadyExists means the bucket already exists; callers treat it as success.
	BackendAlreadyExists
)

// BackendError reports a failed bucket operation.
type BackendError struct {
	Code    BackendErrorCode
	Op      string
	Backend Provider
	Cause   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }

// IsAlreadyExists reports whether err is a bucket-already-exists failure.
func IsAlreadyExists(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Code == BackendAlreadyExists
}

// IsUnauthorized reports whether err is a credential rejection.
func IsUnauthorized(err error) bool {
	var ce *ConnectError
	return errors.As(err, &ce) && ce.Kind == ConnectUnauthorized
}
