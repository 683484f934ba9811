package envelope

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-soap/pkg/keystyle"
	"github.com/sirosfoundation/go-soap/pkg/markup"
)

// Builder collects the configuration of one envelope. Options mutate it
// before New renders the result.
type Builder struct {
	Version Version
	// EnvPrefix is the prefix bound to the SOAP envelope namespace.
	EnvPrefix string
	// NamespaceIdentifier is the prefix bound to TargetNamespace when no
	// explicit Namespace is given.
	NamespaceIdentifier string
	TargetNamespace     string
	// Namespace replaces the default target prefix and URI and qualifies
	// the body element.
	Namespace *Namespace
	// Extra declarations follow the base ones in insertion order.
	Extra *NamespaceSet

	Header *markup.Mapping
	Body   markup.Value

	KeyStyle keystyle.Style
	// ElementFormQualified prefixes body children with the target prefix.
	ElementFormQualified bool
	// Indent pretty-prints the output with the given number of spaces.
	Indent   int
	MaxDepth int
}

// Option represents a functional option for Builder
type Option func(*Builder)

// WithVersion selects SOAP 1.1 or 1.2.
func WithVersion(v Version) Option {
	return func(b *Builder) {
		b.Version = v
	}
}

// WithTargetNamespace sets the service namespace bound to the default prefix.
func WithTargetNamespace(uri string) Option {
	return func(b *Builder) {
		b.TargetNamespace = uri
	}
}

// WithNamespace replaces the default target prefix and namespace.
func WithNamespace(prefix, uri string) Option {
	return func(b *Builder) {
		b.Namespace = &Namespace{Prefix: prefix, URI: uri}
	}
}

// WithNamespaceIdentifier changes the default target prefix.
func WithNamespaceIdentifier(prefix string) Option {
	return func(b *Builder) {
		b.NamespaceIdentifier = prefix
	}
}

// WithEnvPrefix changes the prefix of the Envelope, Header and Body elements.
func WithEnvPrefix(prefix string) Option {
	return func(b *Builder) {
		b.EnvPrefix = prefix
	}
}

// WithExtraNamespace adds a declaration after the base ones.
func WithExtraNamespace(prefix, uri string) Option {
	return func(b *Builder) {
		if b.Extra == nil {
			b.Extra = &NamespaceSet{}
		}
		b.Extra.entries = append(b.Extra.entries, Namespace{Prefix: prefix, URI: uri})
	}
}

// WithHeader sets the SOAP header content.
func WithHeader(header *markup.Mapping) Option {
	return func(b *Builder) {
		b.Header = header
	}
}

// WithBody sets the content of the operation element.
func WithBody(body markup.Value) Option {
	return func(b *Builder) {
		b.Body = body
	}
}

// WithKeyStyle sets the casing of symbolic keys and operation names.
func WithKeyStyle(style keystyle.Style) Option {
	return func(b *Builder) {
		b.KeyStyle = style
	}
}

// WithElementFormQualified prefixes body children with the target prefix.
func WithElementFormQualified(qualified bool) Option {
	return func(b *Builder) {
		b.ElementFormQualified = qualified
	}
}

// WithIndent pretty-prints the envelope.
func WithIndent(spaces int) Option {
	return func(b *Builder) {
		b.Indent = spaces
	}
}

// Configure applies fn directly to the Builder.
func Configure(fn func(*Builder)) Option {
	return Option(fn)
}

// Envelope is a rendered SOAP envelope. It cannot be changed after New
// returns; accessors hand out copies.
type Envelope struct {
	version    Version
	operation  string
	namespaces *NamespaceSet
	header     *markup.Mapping
	markup     string
}

// New builds the envelope for operation. Construction errors from the
// header or body are returned as *markup.ConstructionError.
func New(operation keystyle.Key, opts ...Option) (*Envelope, error) {
	b := &Builder{
		Version:             SOAP11,
		EnvPrefix:           DefaultEnvPrefix,
		NamespaceIdentifier: DefaultNamespaceIdentifier,
		KeyStyle:            keystyle.LowerCamelCase,
		MaxDepth:            markup.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(operation)
}

func (b *Builder) build(operation keystyle.Key) (*Envelope, error) {
	if operation.IsZero() {
		return nil, ErrNoOperation
	}
	if b.EnvPrefix == "" {
		return nil, fmt.Errorf("%w: envelope", ErrEmptyPrefix)
	}

	target := Namespace{Prefix: b.NamespaceIdentifier, URI: b.TargetNamespace}
	if b.Namespace != nil {
		target = *b.Namespace
	}
	if target.URI == "" {
		return nil, ErrNoTargetNamespace
	}

	namespaces, err := NewNamespaceSet(
		Namespace{Prefix: b.EnvPrefix, URI: b.Version.NamespaceURI()},
		Namespace{Prefix: PrefixXSD, URI: NsXSD},
		Namespace{Prefix: PrefixXSI, URI: NsXSI},
		target,
	)
	if err != nil {
		return nil, err
	}
	for _, n := range b.Extra.All() {
		if err := namespaces.Add(n.Prefix, n.URI); err != nil {
			return nil, err
		}
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(b.EnvPrefix + ":Envelope")
	for _, n := range namespaces.All() {
		root.CreateAttr("xmlns:"+n.Prefix, n.URI)
	}

	if b.Header.Len() > 0 {
		header := root.CreateElement(b.EnvPrefix + ":Header")
		hs := markup.NewSerializer(markup.WithKeyStyle(b.KeyStyle), markup.WithMaxDepth(b.MaxDepth))
		if err := hs.AppendTo(header, b.Header); err != nil {
			return nil, err
		}
	}

	body := root.CreateElement(b.EnvPrefix + ":Body")
	opTag := b.KeyStyle.Tag(operation)
	if !(operation.Literal() && strings.Contains(opTag, ":")) {
		opTag = target.Prefix + ":" + opTag
	}
	op := body.CreateElement(opTag)

	bodyOpts := []markup.Option{markup.WithKeyStyle(b.KeyStyle), markup.WithMaxDepth(b.MaxDepth)}
	if b.ElementFormQualified {
		bodyOpts = append(bodyOpts, markup.WithElementPrefix(target.Prefix))
	}
	if b.Body != nil {
		if err := markup.NewSerializer(bodyOpts...).AppendTo(op, b.Body); err != nil {
			return nil, err
		}
	}

	doc.WriteSettings.CanonicalEndTags = true
	if b.Indent > 0 {
		doc.Indent(b.Indent)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("envelope: rendering: %w", err)
	}

	return &Envelope{
		version:    b.Version,
		operation:  opTag,
		namespaces: namespaces,
		header:     b.Header.Clone(),
		markup:     out,
	}, nil
}

// String returns the envelope markup.
func (e *Envelope) String() string { return e.markup }

// Bytes returns a copy of the envelope markup.
func (e *Envelope) Bytes() []byte { return []byte(e.markup) }

// Version returns the SOAP version of the envelope.
func (e *Envelope) Version() Version { return e.version }

// Operation returns the qualified tag of the body element.
func (e *Envelope) Operation() string { return e.operation }

// Namespaces returns the declarations of the Envelope element in order.
func (e *Envelope) Namespaces() []Namespace { return e.namespaces.All() }

// Header returns a copy of the header content, or nil.
func (e *Envelope) Header() *markup.Mapping { return e.header.Clone() }

// ContentType returns the HTTP Content-Type for sending the envelope.
func (e *Envelope) ContentType(action string) string {
	return e.version.ContentType(action)
}
