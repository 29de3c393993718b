// Package apperr is the single funnel through which every failure passes
// before reaching the UI layer. It converts heterogeneous transport and
// backend error shapes into one stable Normalized value.
package apperr

import (
	"errors"
)

const unknownMessage = "unknown error"

// Normalized is the stable error shape consumed by callers. Code and Status
// are zero when the source carried no machine code / transport status.
// Original keeps the untouched input for diagnostics.
type Normalized struct {
	Message  string
	Code     string
	Status   int
	Original any
}

func (e *Normalized) Error() string { return e.Message }

// Unwrap exposes the wrapped error (if the original was one) so errors.Is
// keeps working through normalization.
func (e *Normalized) Unwrap() error {
	if err, ok := e.Original.(error); ok {
		return err
	}
	return nil
}

// Normalize converts any failure value into a Normalized error. It is
// idempotent, never panics and always returns a value.
func Normalize(v any) *Normalized {
	switch e := v.(type) {
	case nil:
		return &Normalized{Message: unknownMessage}
	case *Normalized:
		return e
	case *APIError:
		return fromAPIError(e)
	case error:
		var n *Normalized
		if errors.As(e, &n) {
			return n
		}
		var api *APIError
		if errors.As(e, &api) {
			return fromAPIError(api)
		}
		msg := e.Error()
		if msg == "" {
			msg = unknownMessage
		}
		return &Normalized{Message: msg, Original: e}
	case string:
		if e == "" {
			return &Normalized{Message: unknownMessage}
		}
		return &Normalized{Message: e, Original: e}
	default:
		return &Normalized{Message: unknownMessage, Original: v}
	}
}

func fromAPIError(e *APIError) *Normalized {
	return &Normalized{
		Message:  e.Message,
		Code:     e.Code,
		Status:   e.Status,
		Original: e,
	}
}
