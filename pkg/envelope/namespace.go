package envelope

import (
	"fmt"
)

// Namespace binds a prefix to a URI.
type Namespace struct {
	Prefix string
	URI    string
}

// NamespaceSet is an ordered set of namespace declarations. Insertion order
// is declaration order.
type NamespaceSet struct {
	entries []Namespace
}

// NewNamespaceSet creates a set holding ns in order.
func NewNamespaceSet(ns ...Namespace) (*NamespaceSet, error) {
	s := &NamespaceSet{}
	for _, n := range ns {
		if err := s.Add(n.Prefix, n.URI); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add declares prefix. Declaring a prefix twice is an error.
func (s *NamespaceSet) Add(prefix, uri string) error {
	if prefix == "" {
		return ErrEmptyPrefix
	}
	if _, ok := s.Lookup(prefix); ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePrefix, prefix)
	}
	s.entries = append(s.entries, Namespace{Prefix: prefix, URI: uri})
	return nil
}

// Set declares prefix, replacing the URI of an existing declaration in place.
func (s *NamespaceSet) Set(prefix, uri string) {
	for i := range s.entries {
		if s.entries[i].Prefix == prefix {
			s.entries[i].URI = uri
			return
		}
	}
	s.entries = append(s.entries, Namespace{Prefix: prefix, URI: uri})
}

// Lookup returns the URI bound to prefix.
func (s *NamespaceSet) Lookup(prefix string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, n := range s.entries {
		if n.Prefix == prefix {
			return n.URI, true
		}
	}
	return "", false
}

// Len returns the number of declarations.
func (s *NamespaceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// All returns a copy of the declarations in order.
func (s *NamespaceSet) All() []Namespace {
	if s == nil {
		return nil
	}
	return append([]Namespace(nil), s.entries...)
}

// Clone returns an independent copy.
func (s *NamespaceSet) Clone() *NamespaceSet {
	return &NamespaceSet{entries: s.All()}
}
