package response

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is wrapped by every ParseError.
	ErrMalformed = errors.New("malformed XML")
	// ErrNotEnvelope is returned when a well-formed reply is not a SOAP envelope.
	ErrNotEnvelope = errors.New("reply is not a SOAP envelope")
	// ErrPathNotFound is returned by Path when a key is missing.
	ErrPathNotFound = errors.New("path not found")
)

// ParseError reports reply markup that could not be parsed. It is distinct
// from transport failures, which never reach this package.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseError(cause error) error {
	return &ParseError{Err: fmt.Errorf("%w: %v", ErrMalformed, cause)}
}
