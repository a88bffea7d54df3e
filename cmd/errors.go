package cmd

import (
	"errors"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// ErrorKind classifies a failure for the error line printed on exit.
type ErrorKind string

const (
	KindInternal       ErrorKind = "internal"
	KindConfiguration  ErrorKind = "configuration"
	KindAuthentication ErrorKind = "authentication"
	KindUpstream       ErrorKind = "upstream"
)

const (
	ExitInternal       = 1
	ExitConfiguration  = 2
	ExitAuthentication = 3
	ExitUpstream       = 4
)

// ExitError pairs a failure with the process exit code it maps to.
type ExitError struct {
	Code int
	Kind ErrorKind
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error { return e.Err }

// NormalizeError maps err to its exit code by the typed domain error it wraps.
// Anything unrecognised is internal; a nil error maps to code 0.
func NormalizeError(err error) ExitError {
	if err == nil {
		return ExitError{Code: 0}
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == 0 {
			exitErr.Code = ExitInternal
		}
		return exitErr
	}

	var (
		configErr   *domain.ConfigurationError
		authErr     *domain.AuthenticationError
		upstreamErr *domain.UpstreamError
	)
	switch {
	case errors.As(err, &configErr):
		return ExitError{Code: ExitConfiguration, Kind: KindConfiguration, Err: err}
	case errors.As(err, &authErr):
		return ExitError{Code: ExitAuthentication, Kind: KindAuthentication, Err: err}
	case errors.As(err, &upstreamErr):
		return ExitError{Code: ExitUpstream, Kind: KindUpstream, Err: err}
	default:
		return ExitError{Code: ExitInternal, Kind: KindInternal, Err: err}
	}
}
