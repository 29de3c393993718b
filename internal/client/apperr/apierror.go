package apperr

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vkozyrev/sharebox/internal/common"
)

// APIError is the transport-layer response envelope for a non-2xx backend
// reply. It supports errors.Is via Unwrap, mapping well-known statuses to
// the shared sentinels.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return common.ErrorUnauthorized
	case 404:
		return common.ErrorNotFound
	case 409:
		return common.ErrorConflict
	case 502, 503, 504:
		return common.ErrorUnavailable
	default:
		return nil
	}
}

// errorBody covers the error envelope spellings observed across backend
// versions: {"message": ...}, {"error": ...}, {"detail": ...}, with an
// optional machine code under "code" or "errorCode".
type errorBody struct {
	Message   string          `json:"message"`
	Error     json.RawMessage `json:"error"`
	Detail    string          `json:"detail"`
	Code      string          `json:"code"`
	ErrorCode string          `json:"errorCode"`
}

// FromResponse builds an APIError from a status code and a raw response
// body. It never fails: an unparseable body falls back to the raw text.
func FromResponse(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Message != "":
			e.Message = eb.Message
		case eb.Detail != "":
			e.Message = eb.Detail
		case len(eb.Error) > 0:
			// "error" may be a string or a nested {message, code} object.
			var s string
			if json.Unmarshal(eb.Error, &s) == nil {
				e.Message = s
			} else {
				var nested errorBody
				if json.Unmarshal(eb.Error, &nested) == nil {
					e.Message = nested.Message
					if e.Code == "" {
						e.Code = nested.Code
					}
				}
			}
		}
		if eb.Code != "" {
			e.Code = eb.Code
		} else if eb.ErrorCode != "" {
			e.Code = eb.ErrorCode
		}
	}

	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("request failed with status %d", status)
	}
	return e
}
