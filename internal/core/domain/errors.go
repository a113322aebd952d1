package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the client surfaces to callers.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNetwork    ErrorKind = "network"
	KindServer     ErrorKind = "server"
	KindProtocol   ErrorKind = "protocol"
)

// Kind sentinels. errors.Is(err, ErrServer) matches any *APIError of that kind.
var (
	ErrValidation = errors.New("validation error")
	ErrNetwork    = errors.New("network error")
	ErrServer     = errors.New("server error")
	ErrProtocol   = errors.New("protocol error")
)

var (
	ErrNoSession = errors.New("no session in context")
	ErrNotFound  = errors.New("key not found")
)

// APIError is the single error value returned by the request pipeline and
// the auth flows.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Kind == KindNetwork && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrServer:
		return e.Kind == KindServer
	case ErrProtocol:
		return e.Kind == KindProtocol
	}
	return false
}

func NewValidationError(msg string) *APIError {
	return &APIError{Kind: KindValidation, Message: msg}
}

func NewNetworkError(cause error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "network error", Err: cause}
}

func NewServerError(status int, msg string) *APIError {
	return &APIError{Kind: KindServer, Status: status, Message: msg}
}

func NewProtocolError(status int, msg string) *APIError {
	return &APIError{Kind: KindProtocol, Status: status, Message: msg}
}

// KindOf returns the kind of the first *APIError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
