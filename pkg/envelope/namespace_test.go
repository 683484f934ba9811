package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceSet_OrderAndUniqueness(t *testing.T) {
	s, err := NewNamespaceSet(Namespace{"b", "urn:b"}, Namespace{"a", "urn:a"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Add("a", "urn:other"), ErrDuplicatePrefix)
	assert.ErrorIs(t, s.Add("", "urn:x"), ErrEmptyPrefix)
	require.NoError(t, s.Add("c", "urn:c"))

	assert.Equal(t, []Namespace{{"b", "urn:b"}, {"a", "urn:a"}, {"c", "urn:c"}}, s.All())
}

func TestNamespaceSet_SetReplacesInPlace(t *testing.T) {
	s, err := NewNamespaceSet(Namespace{"a", "urn:a"}, Namespace{"b", "urn:b"})
	require.NoError(t, err)

	s.Set("a", "urn:a2")
	s.Set("c", "urn:c")

	uri, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "urn:a2", uri)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "a", s.All()[0].Prefix)
}

func TestNamespaceSet_CloneIndependent(t *testing.T) {
	s, _ := NewNamespaceSet(Namespace{"a", "urn:a"})
	c := s.Clone()
	s.Set("a", "urn:changed")

	uri, _ := c.Lookup("a")
	assert.Equal(t, "urn:a", uri)
}

func TestNamespaceSet_Nil(t *testing.T) {
	var s *NamespaceSet
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.All())
	_, ok := s.Lookup("a")
	assert.False(t, ok)
}
