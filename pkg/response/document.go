// Package response parses SOAP replies into raw and structured views.
package response

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-soap/pkg/keystyle"
	"github.com/sirosfoundation/go-soap/pkg/markup"
)

// maxDepth bounds element nesting in replies.
const maxDepth = 256

// Document holds reply markup together with its lazily parsed views. Both
// views are computed once and are safe to read from several goroutines.
type Document struct {
	raw []byte

	once    sync.Once
	tree    *etree.Document
	mapping *markup.Mapping
	err     error
}

// New wraps raw reply markup. Parsing happens on first access.
func New(raw []byte) *Document {
	return &Document{raw: append([]byte(nil), raw...)}
}

// Parse wraps raw and parses it immediately.
func Parse(raw []byte) (*Document, error) {
	d := New(raw)
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

// XML returns the reply markup exactly as received.
func (d *Document) XML() string { return string(d.raw) }

// Bytes returns a copy of the reply markup.
func (d *Document) Bytes() []byte { return append([]byte(nil), d.raw...) }

// Tree returns a copy of the parsed DOM.
func (d *Document) Tree() (*etree.Document, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	return d.tree.Copy(), nil
}

// Mapping returns the structured view of the whole reply, keyed by the
// snake_case local names of the elements.
func (d *Document) Mapping() (*markup.Mapping, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	return d.mapping.Clone(), nil
}

// Envelope returns the content of the SOAP Envelope element.
func (d *Document) Envelope() (*markup.Mapping, error) {
	env, err := d.envelope()
	if err != nil {
		return nil, err
	}
	return env.Clone(), nil
}

func (d *Document) envelope() (*markup.Mapping, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	env, ok := mappingAt(d.mapping, "envelope")
	if !ok {
		return nil, ErrNotEnvelope
	}
	return env, nil
}

// Body returns the content of the SOAP Body.
func (d *Document) Body() (*markup.Mapping, error) {
	env, err := d.envelope()
	if err != nil {
		return nil, err
	}
	body, ok := mappingAt(env, "body")
	if !ok {
		if v, present := env.Lookup("body"); present {
			if s, isScalar := v.(markup.Scalar); isScalar && strings.TrimSpace(s.Text) == "" {
				return markup.NewMapping(), nil
			}
		}
		return nil, fmt.Errorf("%w: missing Body", ErrNotEnvelope)
	}
	return body.Clone(), nil
}

// Header returns the content of the SOAP Header, or an empty mapping when
// the reply has none.
func (d *Document) Header() (*markup.Mapping, error) {
	env, err := d.envelope()
	if err != nil {
		return nil, err
	}
	header, ok := mappingAt(env, "header")
	if !ok {
		return markup.NewMapping(), nil
	}
	return header.Clone(), nil
}

// Path walks the body by snake_case keys:
//
//	doc.Path("get_user_response", "return", "name")
func (d *Document) Path(keys ...string) (markup.Value, error) {
	body, err := d.Body()
	if err != nil {
		return nil, err
	}
	var cur markup.Value = body
	for i, k := range keys {
		m, ok := cur.(*markup.Mapping)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a mapping", ErrPathNotFound, strings.Join(keys[:i], "."))
		}
		next, ok := m.Lookup(k)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, strings.Join(keys[:i+1], "."))
		}
		cur = next
	}
	return cur, nil
}

func (d *Document) load() error {
	d.once.Do(func() {
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(d.raw); err != nil {
			d.err = parseError(err)
			return
		}
		if err := checkTopLevel(doc); err != nil {
			d.err = parseError(err)
			return
		}
		m, err := buildMapping([]*etree.Element{doc.Root()}, 0)
		if err != nil {
			d.err = parseError(err)
			return
		}
		d.tree = doc
		d.mapping = m
	})
	return d.err
}

// checkTopLevel requires exactly one root element and no text outside it.
func checkTopLevel(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return fmt.Errorf("text outside the root element: %q", strings.TrimSpace(t.Data))
			}
		}
	}
	switch roots {
	case 0:
		return errors.New("no root element")
	case 1:
		return nil
	default:
		return fmt.Errorf("%d root elements", roots)
	}
}

// buildMapping stores each element under its snake_case name. Repeated
// names collapse into a Sequence. Attributes go to the mapping's
// directives: shared when every repeated element carries the same set,
// per item otherwise.
func buildMapping(elements []*etree.Element, depth int) (*markup.Mapping, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nesting deeper than %d elements", maxDepth)
	}

	m := markup.NewMapping()
	attrs := make(map[keystyle.Key][][]markup.Attr)
	for _, el := range elements {
		key := keystyle.Sym(keystyle.Snake(el.Tag))

		var value markup.Value
		children := el.ChildElements()
		switch {
		case isNil(el):
			value = markup.Null()
		case len(children) > 0:
			child, err := buildMapping(children, depth+1)
			if err != nil {
				return nil, err
			}
			value = child
		default:
			value = markup.String(el.Text())
		}

		if existing, ok := m.Get(key); ok {
			if seq, isSeq := existing.(markup.Sequence); isSeq {
				value = append(seq, value)
			} else {
				value = markup.Sequence{existing, value}
			}
		}
		m.Set(key, value)
		attrs[key] = append(attrs[key], elementAttrs(el))
	}

	for _, key := range m.Keys() {
		sets := attrs[key]
		if sameAttrs(sets) {
			for _, a := range sets[0] {
				m.SetAttr(key, a.Name, a.Value)
			}
			continue
		}
		for i, set := range sets {
			m.SetItemAttrs(key, i, set...)
		}
	}
	return m, nil
}

func elementAttrs(el *etree.Element) []markup.Attr {
	var out []markup.Attr
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		out = append(out, markup.Attr{Name: a.FullKey(), Value: a.Value})
	}
	return out
}

func sameAttrs(sets [][]markup.Attr) bool {
	for _, set := range sets[1:] {
		if len(set) != len(sets[0]) {
			return false
		}
		for i := range set {
			if set[i] != sets[0][i] {
				return false
			}
		}
	}
	return true
}

func isNil(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.Key == "nil" && (a.Space == "xsi" || strings.HasSuffix(a.NamespaceURI(), "XMLSchema-instance")) {
			return a.Value == "true" || a.Value == "1"
		}
	}
	return false
}

func mappingAt(m *markup.Mapping, key string) (*markup.Mapping, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*markup.Mapping)
	return child, ok
}

func scalarText(v markup.Value) string {
	switch v := v.(type) {
	case markup.Scalar:
		return v.Text
	case markup.Sequence:
		if len(v) > 0 {
			return scalarText(v[0])
		}
	}
	return ""
}
