package speechcortex

import (
	"errors"
	"fmt"
)

type ErrorStatus string

const (
	ErrorStatusInvalidOptions   ErrorStatus = "invalid_options"
	ErrorStatusAPIKeyMissing    ErrorStatus = "api_key_missing"
	ErrorStatusConnectionFailed ErrorStatus = "connection_failed"
	ErrorStatusWebSocketError   ErrorStatus = "websocket_error"
	ErrorStatusSendTimeout      ErrorStatus = "send_timeout"
	ErrorStatusInvalidState     ErrorStatus = "invalid_state"
	ErrorStatusAuthError        ErrorStatus = "auth_error"
	ErrorStatusAPIError         ErrorStatus = "api_error"
	ErrorStatusJobNotFound      ErrorStatus = "job_not_found"
	ErrorStatusJobFailed        ErrorStatus = "job_failed"
	ErrorStatusNotReady         ErrorStatus = "not_ready"
	ErrorStatusTimeout          ErrorStatus = "timeout"
)

type Error struct {
	Status  ErrorStatus
	Message string
	Code    *int
	Cause   error
}

func (e *Error) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("speechcortex: %s (code=%d): %s", e.Status, *e.Code, e.Message)
	}
	return fmt.Sprintf("speechcortex: %s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(status ErrorStatus, message string) *Error {
	return &Error{
		Status:  status,
		Message: message,
	}
}

func NewErrorWithCode(status ErrorStatus, message string, code int) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Code:    &code,
	}
}

func NewErrorWithCause(status ErrorStatus, message string, cause error) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

func IsErrorStatus(err error, status ErrorStatus) bool {
	var scErr *Error
	if errors.As(err, &scErr) {
		return scErr.Status == status
	}
	return false
}

var (
	ErrNotConnected   = NewError(ErrorStatusInvalidState, "session is not open")
	ErrAlreadyStarted = NewError(ErrorStatusInvalidState, "session was already started")
	ErrAPIKeyMissing  = NewError(ErrorStatusAPIKeyMissing, "API key is not set")
)

// mapHTTPError maps a batch API response code to a typed *Error.
func mapHTTPError(message string, code int) *Error {
	var status ErrorStatus
	switch code {
	case 401, 403:
		status = ErrorStatusAuthError
	case 404:
		status = ErrorStatusJobNotFound
	default:
		status = ErrorStatusAPIError
	}
	return NewErrorWithCode(status, message, code)
}
