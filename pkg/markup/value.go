package markup

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirosfoundation/go-soap/pkg/keystyle"
)

// Value is a structured value destined for XML serialization. It is one of
// Scalar, Sequence or *Mapping.
type Value interface {
	isValue()
}

// Scalar is the text content of an element.
type Scalar struct {
	Text string
	// Nil marks a null value, serialized as an empty element with xsi:nil.
	Nil bool
	// Raw marks Text as pre-built XML that is inserted unescaped.
	Raw bool
}

func (Scalar) isValue() {}

func (s Scalar) String() string {
	if s.Nil {
		return "<nil>"
	}
	return s.Text
}

// String returns a text scalar.
func String(s string) Scalar { return Scalar{Text: s} }

// Int returns a scalar holding the decimal form of i.
func Int(i int64) Scalar { return Scalar{Text: strconv.FormatInt(i, 10)} }

// Float returns a scalar holding the shortest decimal form of f.
func Float(f float64) Scalar { return Scalar{Text: strconv.FormatFloat(f, 'f', -1, 64)} }

// Bool returns an xs:boolean scalar.
func Bool(b bool) Scalar { return Scalar{Text: strconv.FormatBool(b)} }

// Time returns an xs:dateTime scalar.
func Time(t time.Time) Scalar { return Scalar{Text: t.Format(time.RFC3339)} }

// Null returns a null scalar.
func Null() Scalar { return Scalar{Nil: true} }

// Raw returns a scalar whose text is inserted as markup.
func Raw(xml string) Scalar { return Scalar{Text: xml, Raw: true} }

// Sequence serializes as repeated sibling elements sharing the parent's tag.
type Sequence []Value

func (Sequence) isValue() {}

// Strings builds a Sequence of text scalars.
func Strings(values ...string) Sequence {
	seq := make(Sequence, len(values))
	for i, v := range values {
		seq[i] = String(v)
	}
	return seq
}

// Attr is an attribute attached to an element's opening tag.
type Attr struct {
	Name  string
	Value string
}

// Directives control how a Mapping is serialized. They live beside the data
// so they can never be mistaken for an element.
type Directives struct {
	// Order lists every key of the mapping in output order. Empty means
	// insertion order.
	Order []keystyle.Key
	// Attributes holds the attributes of the child element named by each key.
	Attributes map[keystyle.Key][]Attr
	// Items holds attributes for individual elements of a Sequence child,
	// indexed like the sequence. A non-nil entry replaces Attributes for
	// that element.
	Items map[keystyle.Key][][]Attr
}

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   keystyle.Key
	Value Value
}

// Mapping is an insertion-ordered set of keyed values.
type Mapping struct {
	entries []Entry
	index   map[keystyle.Key]int

	Directives Directives
}

func (*Mapping) isValue() {}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[keystyle.Key]int)}
}

// Set stores v under k. Setting an existing key keeps its position.
func (m *Mapping) Set(k keystyle.Key, v Value) *Mapping {
	if m.index == nil {
		m.index = make(map[keystyle.Key]int)
	}
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = v
		return m
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: k, Value: v})
	return m
}

// Put is Set with a symbolic key.
func (m *Mapping) Put(name string, v Value) *Mapping {
	return m.Set(keystyle.Sym(name), v)
}

// Get returns the value stored under k.
func (m *Mapping) Get(k keystyle.Key) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Lookup returns the value stored under the symbolic key name.
func (m *Mapping) Lookup(name string) (Value, bool) {
	return m.Get(keystyle.Sym(name))
}

// Has reports whether k is present.
func (m *Mapping) Has(k keystyle.Key) bool {
	_, ok := m.Get(k)
	return ok
}

// Delete removes k together with its directives.
func (m *Mapping) Delete(k keystyle.Key) {
	i, ok := m.index[k]
	if !ok {
		return
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, k)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
	delete(m.Directives.Attributes, k)
	delete(m.Directives.Items, k)
	if len(m.Directives.Order) > 0 {
		order := m.Directives.Order[:0]
		for _, o := range m.Directives.Order {
			if o != k {
				order = append(order, o)
			}
		}
		m.Directives.Order = order
	}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []keystyle.Key {
	if m == nil {
		return nil
	}
	keys := make([]keystyle.Key, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	return append([]Entry(nil), m.entries...)
}

// OrderBy sets the explicit output order.
func (m *Mapping) OrderBy(keys ...keystyle.Key) *Mapping {
	m.Directives.Order = append([]keystyle.Key(nil), keys...)
	return m
}

// SetAttr attaches an attribute to the child element named by k.
func (m *Mapping) SetAttr(k keystyle.Key, name, value string) *Mapping {
	if m.Directives.Attributes == nil {
		m.Directives.Attributes = make(map[keystyle.Key][]Attr)
	}
	attrs := m.Directives.Attributes[k]
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return m
		}
	}
	m.Directives.Attributes[k] = append(attrs, Attr{Name: name, Value: value})
	return m
}

// Attrs returns the attributes recorded for the child named by k.
func (m *Mapping) Attrs(k keystyle.Key) []Attr {
	if m == nil {
		return nil
	}
	return m.Directives.Attributes[k]
}

// SetItemAttrs sets the attributes of element i of the Sequence stored
// under k.
func (m *Mapping) SetItemAttrs(k keystyle.Key, i int, attrs ...Attr) *Mapping {
	if i < 0 {
		return m
	}
	if m.Directives.Items == nil {
		m.Directives.Items = make(map[keystyle.Key][][]Attr)
	}
	items := m.Directives.Items[k]
	for len(items) <= i {
		items = append(items, nil)
	}
	items[i] = append([]Attr{}, attrs...)
	m.Directives.Items[k] = items
	return m
}

// ItemAttrs returns the attributes of element i of the child named by k:
// the per-item entry when one is set, otherwise the shared attributes.
func (m *Mapping) ItemAttrs(k keystyle.Key, i int) []Attr {
	if m == nil {
		return nil
	}
	if items := m.Directives.Items[k]; i >= 0 && i < len(items) && items[i] != nil {
		return items[i]
	}
	return m.Directives.Attributes[k]
}

// Merge copies the entries of other whose keys are absent from m, together
// with their attributes. Existing entries of m win.
func (m *Mapping) Merge(other *Mapping) *Mapping {
	for _, e := range other.Entries() {
		if m.Has(e.Key) {
			continue
		}
		m.Set(e.Key, e.Value)
		for _, a := range other.Attrs(e.Key) {
			m.SetAttr(e.Key, a.Name, a.Value)
		}
		for i, attrs := range other.Directives.Items[e.Key] {
			if attrs != nil {
				m.SetItemAttrs(e.Key, i, attrs...)
			}
		}
		if len(m.Directives.Order) > 0 {
			m.Directives.Order = append(m.Directives.Order, e.Key)
		}
	}
	return m
}

// Clone returns a copy of m. Nested mappings are cloned, scalars and
// sequences are copied by value.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return nil
	}
	c := NewMapping()
	for _, e := range m.entries {
		c.Set(e.Key, cloneValue(e.Value))
	}
	c.Directives.Order = append([]keystyle.Key(nil), m.Directives.Order...)
	if m.Directives.Attributes != nil {
		c.Directives.Attributes = make(map[keystyle.Key][]Attr, len(m.Directives.Attributes))
		for k, attrs := range m.Directives.Attributes {
			c.Directives.Attributes[k] = append([]Attr(nil), attrs...)
		}
	}
	for k, items := range m.Directives.Items {
		for i, attrs := range items {
			if attrs != nil {
				c.SetItemAttrs(k, i, attrs...)
			}
		}
	}
	return c
}

func cloneValue(v Value) Value {
	switch v := v.(type) {
	case *Mapping:
		return v.Clone()
	case Sequence:
		seq := make(Sequence, len(v))
		for i, item := range v {
			seq[i] = cloneValue(item)
		}
		return seq
	default:
		return v
	}
}

// FromMap converts a generic map into a Mapping with symbolic keys. Keys are
// sorted because Go maps carry no order; use Directives.Order when the target
// service cares.
func FromMap(src map[string]any) (*Mapping, error) {
	m := NewMapping()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := valueOf(src[k])
		if err != nil {
			return nil, &ConstructionError{Path: k, Err: err}
		}
		m.Put(k, v)
	}
	return m, nil
}

func valueOf(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Scalar{Text: strconv.FormatUint(uint64(v), 10)}, nil
	case uint64:
		return Scalar{Text: strconv.FormatUint(v, 10)}, nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return Time(v), nil
	case fmt.Stringer:
		return String(v.String()), nil
	case []string:
		return Strings(v...), nil
	case []any:
		seq := make(Sequence, len(v))
		for i, item := range v {
			iv, err := valueOf(item)
			if err != nil {
				return nil, err
			}
			seq[i] = iv
		}
		return seq, nil
	case map[string]any:
		return FromMap(v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
