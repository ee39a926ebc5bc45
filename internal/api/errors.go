package api

import (
	"errors"
	"fmt"
)

// ErrorKind separates transport failures from bad responses.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindParse   ErrorKind = "parse"
)

// FetchError describes a failed call to one backend endpoint.
type FetchError struct {
	Endpoint   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: request failed: status %d", e.Endpoint, e.StatusCode)
	case KindParse:
		return fmt.Sprintf("%s: failed to decode response: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s: failed to request: %v", e.Endpoint, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a FetchError anywhere in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
