package solrpc

import (
	"errors"
	"fmt"
)

// Error represents a JSON-RPC 2.0 error object carried in a response
// envelope. The client itself never acts upon it, it's decoded and handed
// to the caller as is.
type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Data == "" {
		return fmt.Sprintf("%s (%d)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%d) - %s", e.Message, e.Code, e.Data)
}

// Is implements the errors.Is interface allowing to check errors by their
// codes (messages can differ between server implementations).
func (e *Error) Is(target error) bool {
	var clTarget *Error
	if errors.As(target, &clTarget) {
		return e.Code == clTarget.Code
	}
	return false
}

var (
	// ErrInvalidEndpoint is returned from client construction when the
	// endpoint is not one of the known cluster RPC endpoints and local
	// mode is not enabled.
	ErrInvalidEndpoint = errors.New("invalid cluster RPC endpoint")

	// ErrMissingTokenFilter is returned from token account lookups when
	// neither a mint nor a program filter is provided.
	ErrMissingTokenFilter = errors.New("either mint or program filter is required")
)
