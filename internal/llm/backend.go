// Package llm produces plan text from a chain of interchangeable generation
// backends, tried in a fixed order until one answers.
package llm

import (
	"context"
	"fmt"
)

// Backend turns a system prompt and a user prompt into text.
type Backend interface {
	Name() string
	Generate(ctx context.Context, system, user string) (string, error)
}

// ConfigurationError means the backend is missing credentials or an endpoint.
// It is not retried; the chain moves to the next backend.
type ConfigurationError struct {
	Backend string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not configured: %s", e.Backend, e.Reason)
}

// ServiceError is a network, status or decoding failure from a configured backend.
type ServiceError struct {
	Backend string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func serviceErr(backend string, format string, args ...any) *ServiceError {
	return &ServiceError{Backend: backend, Err: fmt.Errorf(format, args...)}
}
