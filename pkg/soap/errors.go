package soap

import (
	"errors"
	"fmt"

	"github.com/sirosfoundation/go-soap/pkg/response"
)

var (
	// ErrUnknownOperation is returned when the service lists its operations
	// and the requested one is not among them.
	ErrUnknownOperation = errors.New("soap: unknown operation")
	// ErrNoEndpoint is returned by NewClient when the service has no endpoint.
	ErrNoEndpoint = errors.New("soap: service endpoint is required")
)

// TransportError wraps a failure reported by the transport. The underlying
// error is kept as-is and the call is not retried.
type TransportError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("soap: %s to %s: %v", e.Operation, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FaultError is returned when the reply carries a SOAP Fault.
type FaultError struct {
	Fault    *response.Fault
	Response *Response
}

func (e *FaultError) Error() string { return e.Fault.Error() }

func (e *FaultError) Unwrap() error { return e.Fault }

// HTTPError is returned for an HTTP error status whose body holds no fault.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Response   *Response
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("soap: http error %d", e.StatusCode)
}
