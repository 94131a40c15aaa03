package fetcher

import (
	"errors"
	"fmt"

	"aifsfetch/internal/api"
	"aifsfetch/internal/models"
)

// NetworkError wraps a transport failure: connecting, sending the request
// or reading the response body.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IOError wraps a local file system failure while writing an artifact
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s of %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Classify maps a download error onto the failure taxonomy
func Classify(err error) models.FailureKind {
	if err == nil {
		return models.FailureNone
	}

	var (
		statusErr  *api.StatusError
		ioErr      *IOError
		networkErr *NetworkError
	)
	switch {
	case errors.As(err, &statusErr):
		return models.FailureHTTP
	case errors.As(err, &ioErr):
		return models.FailureIO
	case errors.As(err, &networkErr):
		return models.FailureNetwork
	default:
		return models.FailureUnhandled
	}
}
