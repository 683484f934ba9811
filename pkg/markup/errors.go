package markup

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOrderKey is returned when an order directive names a key the
	// mapping does not hold.
	ErrUnknownOrderKey = errors.New("order references unknown key")
	// ErrDuplicateOrderKey is returned when an order directive lists a key twice.
	ErrDuplicateOrderKey = errors.New("order lists key more than once")
	// ErrIncompleteOrder is returned when an order directive omits mapping keys.
	ErrIncompleteOrder = errors.New("order is missing keys")
	// ErrUnknownAttributeTarget is returned when attributes are assigned to a
	// child the mapping does not hold.
	ErrUnknownAttributeTarget = errors.New("attributes assigned to unknown key")
	// ErrTagCollision is returned when two keys of one mapping produce the same tag.
	ErrTagCollision = errors.New("keys normalize to the same tag")
	// ErrMaxDepth is returned when nesting exceeds the serializer's limit.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
	// ErrInvalidRaw is returned when a raw scalar is not well-formed XML.
	ErrInvalidRaw = errors.New("raw value is not well-formed XML")
	// ErrUnsupportedValue is returned for values that have no XML form.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// ConstructionError reports a structured value that cannot be serialized.
// Path locates the offending element, e.g. "user.addresses[1]".
type ConstructionError struct {
	Path string
	Err  error
}

func (e *ConstructionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("markup: %v", e.Err)
	}
	return fmt.Sprintf("markup: %s: %v", e.Path, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func constructionError(path string, err error) error {
	return &ConstructionError{Path: path, Err: err}
}
