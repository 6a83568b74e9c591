package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT and tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenNotYetValid     = fmt.Errorf("token is not valid yet")

	// Authorization
	ErrEmptyAuthHeader   = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader = fmt.Errorf("invalid authorization header format")
	ErrUnauthorized      = fmt.Errorf("unauthorized")

	// Context
	ErrIdentityNotFoundInContext = fmt.Errorf("caller identity not found in request context")

	// General
	ErrBadRequest = fmt.Errorf("bad request")
)

// HttpError carries the status code and the message safe to show the caller.
// Err and Context are for logs only.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: ErrBadRequest}
}

// Status maps the sentinel errors above to HTTP codes.
var Status = map[error]int{
	ErrInvalidSigningMethod:      http.StatusUnauthorized,
	ErrInvalidToken:              http.StatusUnauthorized,
	ErrTokenExpired:              http.StatusUnauthorized,
	ErrTokenNotYetValid:          http.StatusUnauthorized,
	ErrEmptyAuthHeader:           http.StatusUnauthorized,
	ErrInvalidAuthHeader:         http.StatusUnauthorized,
	ErrUnauthorized:              http.StatusUnauthorized,
	ErrIdentityNotFoundInContext: http.StatusUnauthorized,
	ErrBadRequest:                http.StatusBadRequest,
}
