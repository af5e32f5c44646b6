package poller

import (
	"errors"
	"fmt"

	"github.com/jpalmerr/discoveryboard/model"
)

var (
	// ErrNetwork classifies failures to obtain a response: transport errors,
	// timeouts and non-2xx statuses.
	ErrNetwork = errors.New("network error")

	// ErrParse classifies responses whose body is not a collection of the
	// expected shape.
	ErrParse = errors.New("parse error")

	// ErrStopped is returned by [Syncer.Refresh] after [Syncer.Stop].
	ErrStopped = errors.New("syncer stopped")
)

// FetchError describes why one resource could not be refreshed.
//
// Use errors.Is with [ErrNetwork] or [ErrParse] to branch on the kind.
type FetchError struct {
	Resource model.Resource

	// Kind is ErrNetwork or ErrParse.
	Kind error

	// StatusCode is set when the API answered with a non-2xx status.
	StatusCode int

	Err error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("%s: %v: unexpected status %d", e.Resource, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v: %v", e.Resource, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the error kind so that errors.Is(err, ErrNetwork) works.
func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}
