package personio

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Error is a generic failure raised by this package.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("personio: %s: %v", e.Msg, e.Err)
	}
	return "personio: " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// MissingCredentialsError means the client id or secret was never configured.
type MissingCredentialsError struct {
	Msg string
}

func (e *MissingCredentialsError) Error() string {
	return "personio: missing credentials: " + e.Msg
}

// APIError is an error response of the Personio API.
type APIError struct {
	StatusCode int
	Message    string
	// ErrorCode is the code in the response body, not the HTTP status.
	ErrorCode int
	Errors    any
	Body      []byte
}

type apiErrorBody struct {
	Error struct {
		Code    json.Number `json:"code"`
		Message string      `json:"message"`
		Errors  any         `json:"errors"`
	} `json:"error"`
}

// NewAPIError builds an APIError from a status code and a raw response body.
// Bodies that are not Personio error documents become the message.
func NewAPIError(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode, Body: body}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		e.Message = strings.TrimSpace(string(body))
		return e
	}
	e.Message = parsed.Error.Message
	e.Errors = parsed.Error.Errors
	if parsed.Error.Code != "" {
		if code, err := strconv.Atoi(parsed.Error.Code.String()); err == nil {
			e.ErrorCode = code
		}
	}
	return e
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("request failed with HTTP status code %d: %s", e.StatusCode, e.Message)
	if e.ErrorCode != 0 {
		msg += fmt.Sprintf(" (error code %d)", e.ErrorCode)
	}
	if hasDetails(e.Errors) {
		if !strings.HasSuffix(msg, ".") {
			msg += "."
		}
		msg += fmt.Sprintf(" Details: %v", e.Errors)
	}
	return msg
}

func hasDetails(v any) bool {
	switch d := v.(type) {
	case nil:
		return false
	case map[string]any:
		return len(d) > 0
	case []any:
		return len(d) > 0
	case string:
		return d != ""
	}
	return true
}

// UnsupportedMethodError is returned for operations the Personio API does not
// offer for a resource.
type UnsupportedMethodError struct {
	Method   string
	Resource string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("personio: method '%s' is not available for %s", e.Method, e.Resource)
}
