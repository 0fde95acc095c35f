package nperror

import "net/http"

// Public messages rendered to the client.
const (
	MessageNotFound = "Note not found"
	MessageConflict = "Note already exists"
	MessageNoTitle  = "Title can't be empty"
)

// An Error represents an error that can be rendered by notepad server.
type Error struct {
	HTTPCode  int
	Message   string
	Operation string
	cause     error
}

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if nperr, ok := err.(*Error); ok {
		return nperr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new Error with the given code and message.
func New(code int, message string) *Error {
	return &Error{HTTPCode: code, Message: message}
}

// NotFound returns a 404 Error.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict returns a 409 Error.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// BadRequest returns a 400 Error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unavailable returns a 500 Error for a failed document store operation.
// The message is rendered to the client, the cause is only logged.
func Unavailable(operation, message string, cause error) *Error {
	return &Error{
		HTTPCode:  http.StatusInternalServerError,
		Message:   message,
		Operation: operation,
		cause:     cause,
	}
}

// Error implements error interface.
func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Operation + ": " + e.cause.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}
