package markup

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-soap/pkg/keystyle"
)

// DefaultMaxDepth bounds mapping nesting.
const DefaultMaxDepth = 64

// NilAttr is the attribute that marks a null element.
const NilAttr = "xsi:nil"

// Serializer turns structured values into XML elements. A Serializer holds
// only configuration and is safe for concurrent use.
type Serializer struct {
	style    keystyle.Style
	prefix   string
	maxDepth int
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithKeyStyle sets the casing applied to symbolic keys.
func WithKeyStyle(style keystyle.Style) Option {
	return func(s *Serializer) {
		s.style = style
	}
}

// WithElementPrefix qualifies every element produced from a symbolic key
// with prefix. Literal keys are left alone.
func WithElementPrefix(prefix string) Option {
	return func(s *Serializer) {
		s.prefix = prefix
	}
}

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(depth int) Option {
	return func(s *Serializer) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// NewSerializer creates a serializer using lowerCamelCase tags by default.
func NewSerializer(opts ...Option) *Serializer {
	s := &Serializer{
		style:    keystyle.LowerCamelCase,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tag returns the element name the serializer uses for k.
func (s *Serializer) Tag(k keystyle.Key) string {
	name := s.style.Tag(k)
	if s.prefix == "" || k.Literal() || strings.Contains(name, ":") {
		return name
	}
	return s.prefix + ":" + name
}

// AppendTo writes v as the content of parent: a mapping becomes child
// elements, a scalar becomes text. A sequence has no tag of its own and
// cannot be written directly.
func (s *Serializer) AppendTo(parent *etree.Element, v Value) error {
	if seq, ok := v.(Sequence); ok {
		return constructionError("", fmt.Errorf("%w: sequence of %d items has no enclosing tag", ErrUnsupportedValue, len(seq)))
	}
	return s.writeContent(parent, v, "", 0)
}

// Fragment renders m as a standalone XML fragment.
func (s *Serializer) Fragment(m *Mapping) (string, error) {
	doc := etree.NewDocument()
	if err := s.AppendTo(&doc.Element, m); err != nil {
		return "", err
	}
	doc.WriteSettings.CanonicalEndTags = true
	return doc.WriteToString()
}

func (s *Serializer) writeContent(el *etree.Element, v Value, path string, depth int) error {
	if depth > s.maxDepth {
		return constructionError(path, ErrMaxDepth)
	}
	switch v := v.(type) {
	case nil:
		return s.writeScalar(el, Null(), path)
	case Scalar:
		return s.writeScalar(el, v, path)
	case *Mapping:
		if v == nil {
			return nil
		}
		return s.writeMapping(el, v, path, depth)
	default:
		return constructionError(path, fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
}

func (s *Serializer) writeScalar(el *etree.Element, v Scalar, path string) error {
	switch {
	case v.Nil:
		if el.SelectAttr(NilAttr) == nil {
			el.CreateAttr(NilAttr, "true")
		}
	case v.Raw:
		doc := etree.NewDocument()
		if err := doc.ReadFromString("<raw>" + v.Text + "</raw>"); err != nil {
			return constructionError(path, fmt.Errorf("%w: %v", ErrInvalidRaw, err))
		}
		children := append([]etree.Token(nil), doc.Root().Child...)
		for _, tok := range children {
			el.AddChild(tok)
		}
	default:
		el.SetText(v.Text)
	}
	return nil
}

func (s *Serializer) writeMapping(el *etree.Element, m *Mapping, path string, depth int) error {
	keys, err := orderedKeys(m, path)
	if err != nil {
		return err
	}
	for k := range m.Directives.Attributes {
		if !m.Has(k) {
			return constructionError(path, fmt.Errorf("%w: %s", ErrUnknownAttributeTarget, k))
		}
	}
	for k := range m.Directives.Items {
		if !m.Has(k) {
			return constructionError(path, fmt.Errorf("%w: %s", ErrUnknownAttributeTarget, k))
		}
	}

	tags := make(map[string]keystyle.Key, len(keys))
	for _, k := range keys {
		tag := s.Tag(k)
		if other, dup := tags[tag]; dup {
			return constructionError(path, fmt.Errorf("%w: %s and %s both produce <%s>", ErrTagCollision, other, k, tag))
		}
		tags[tag] = k
	}

	for _, k := range keys {
		v, _ := m.Get(k)
		tag, childPath := s.Tag(k), joinPath(path, k.Name())
		seq, ok := v.(Sequence)
		if !ok {
			if err := s.writeElement(el, tag, v, m.Attrs(k), childPath, depth+1); err != nil {
				return err
			}
			continue
		}
		for i, item := range seq {
			if err := s.writeElement(el, tag, item, m.ItemAttrs(k, i), fmt.Sprintf("%s[%d]", childPath, i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeElement emits a single element, or one per item of a nested
// sequence. Each level of sequence nesting counts towards the depth limit.
func (s *Serializer) writeElement(parent *etree.Element, tag string, v Value, attrs []Attr, path string, depth int) error {
	if depth > s.maxDepth {
		return constructionError(path, ErrMaxDepth)
	}
	if seq, ok := v.(Sequence); ok {
		for i, item := range seq {
			if err := s.writeElement(parent, tag, item, attrs, fmt.Sprintf("%s[%d]", path, i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	child := parent.CreateElement(tag)
	for _, a := range attrs {
		child.CreateAttr(a.Name, a.Value)
	}
	return s.writeContent(child, v, path, depth)
}

func orderedKeys(m *Mapping, path string) ([]keystyle.Key, error) {
	if len(m.Directives.Order) == 0 {
		return m.Keys(), nil
	}

	seen := make(map[keystyle.Key]bool, len(m.Directives.Order))
	for _, k := range m.Directives.Order {
		if !m.Has(k) {
			return nil, constructionError(path, fmt.Errorf("%w: %s", ErrUnknownOrderKey, k))
		}
		if seen[k] {
			return nil, constructionError(path, fmt.Errorf("%w: %s", ErrDuplicateOrderKey, k))
		}
		seen[k] = true
	}

	if len(seen) != m.Len() {
		var missing []string
		for _, k := range m.Keys() {
			if !seen[k] {
				missing = append(missing, k.String())
			}
		}
		return nil, constructionError(path, fmt.Errorf("%w: %s", ErrIncompleteOrder, strings.Join(missing, ", ")))
	}
	return m.Directives.Order, nil
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
