package quotation

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "internal"
	}
}

// ServiceError is the only error Engine.Quote returns. Msg is safe to show
// to callers; Err is the cause and is meant for logs.
type ServiceError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// KindOf returns the kind of a ServiceError in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// ErrStoreSkipped marks a store dropped from a quotation because its distance could not be obtained.
var ErrStoreSkipped = errors.New("store skipped")
