package soap

import (
	"context"

	"github.com/sirosfoundation/go-soap/pkg/markup"
)

// HeaderProvider supplies SOAP header entries for every call, typically
// security tokens built elsewhere.
type HeaderProvider interface {
	SOAPHeader(ctx context.Context) (*markup.Mapping, error)
}

// HeaderFunc adapts a function to HeaderProvider.
type HeaderFunc func(ctx context.Context) (*markup.Mapping, error)

// SOAPHeader calls f.
func (f HeaderFunc) SOAPHeader(ctx context.Context) (*markup.Mapping, error) {
	return f(ctx)
}

// StaticHeader returns the same entries on every call.
type StaticHeader struct {
	Header *markup.Mapping
}

// SOAPHeader returns a copy of the static entries.
func (s StaticHeader) SOAPHeader(context.Context) (*markup.Mapping, error) {
	return s.Header.Clone(), nil
}
