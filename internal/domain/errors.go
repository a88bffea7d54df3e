package domain

import "fmt"

// ConfigurationError is returned when the run cannot resolve a usable configuration.
// It is fatal and always happens before any mutation.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// AuthenticationError is returned when no installation token could be obtained.
type AuthenticationError struct {
	Step string
	Err  error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed at %s: %v", e.Step, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// UpstreamError wraps a failed GitHub call. Listing failures abort the run,
// mutation failures are logged and skipped.
type UpstreamError struct {
	Operation  string
	Repository string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Repository == "" {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.Repository, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
