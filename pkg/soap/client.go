package soap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sirosfoundation/go-soap/pkg/envelope"
	"github.com/sirosfoundation/go-soap/pkg/keystyle"
	"github.com/sirosfoundation/go-soap/pkg/markup"
	"github.com/sirosfoundation/go-soap/pkg/response"
	"github.com/sirosfoundation/go-soap/pkg/transport"
)

// Service describes the remote service without a WSDL.
type Service struct {
	Endpoint  string
	Namespace string
	// Operations restricts the callable operations. Empty allows any.
	Operations []keystyle.Key
}

// ClientConfig holds client configuration
type ClientConfig struct {
	Service Service
	Version envelope.Version

	// Transport sends the envelopes. When nil an HTTPS client built from
	// HTTPSConfig is used.
	Transport   transport.Transport
	HTTPSConfig *transport.HTTPSConfig

	Credentials HeaderProvider

	KeyStyle             keystyle.Style
	NamespaceIdentifier  string
	EnvPrefix            string
	ElementFormQualified bool

	// Headers are sent with every request.
	Headers http.Header

	Logger *slog.Logger
	// LogFilter lists element names whose text is masked in logs.
	LogFilter   []string
	PrettyPrint bool

	// IgnoreFaults returns faulty replies as responses instead of errors.
	IgnoreFaults bool
}

// Client calls SOAP operations of one service. It is safe for concurrent use.
type Client struct {
	config    ClientConfig
	transport transport.Transport
	logger    *slog.Logger
	filter    *logFilter
}

// NewClient creates a new SOAP client
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Service.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	c := &Client{
		config:    *config,
		transport: config.Transport,
		logger:    config.Logger,
		filter:    newLogFilter(config.LogFilter, config.PrettyPrint),
	}
	c.config.Service.Operations = append([]keystyle.Key(nil), config.Service.Operations...)
	c.config.Headers = config.Headers.Clone()
	if c.transport == nil {
		c.transport = transport.NewHTTPSClient(config.HTTPSConfig)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.config.NamespaceIdentifier == "" {
		c.config.NamespaceIdentifier = envelope.DefaultNamespaceIdentifier
	}
	if c.config.EnvPrefix == "" {
		c.config.EnvPrefix = envelope.DefaultEnvPrefix
	}
	return c, nil
}

// Operations returns the operations the service declares.
func (c *Client) Operations() []keystyle.Key {
	return append([]keystyle.Key(nil), c.config.Service.Operations...)
}

// Request holds the per-call input. Call passes it to each configure
// function before building the envelope.
type Request struct {
	Body   markup.Value
	Header *markup.Mapping

	// Namespace replaces the service namespace and its prefix.
	Namespace  *envelope.Namespace
	Namespaces []envelope.Namespace

	HTTPHeader http.Header
	Cookies    []*http.Cookie
	// SOAPAction defaults to the operation tag.
	SOAPAction string
}

// Response is a reply together with the exchange that produced it.
type Response struct {
	*response.Document
	HTTP     *transport.Metadata
	Request  *envelope.Envelope
	Duration time.Duration
}

// IsFault reports whether the reply carries a SOAP Fault.
func (r *Response) IsFault() bool {
	f, err := r.Fault()
	return err == nil && f != nil
}

// IsHTTPError reports whether the reply has an HTTP error status.
func (r *Response) IsHTTPError() bool {
	return r.HTTP != nil && r.HTTP.StatusCode >= http.StatusBadRequest
}

// Success reports a reply with neither a fault nor an HTTP error status.
func (r *Response) Success() bool {
	return !r.IsFault() && !r.IsHTTPError()
}

// Build renders the envelope Call would send, without sending it.
func (c *Client) Build(ctx context.Context, op keystyle.Key, configure ...func(*Request)) (*envelope.Envelope, *Request, error) {
	if err := c.checkOperation(op); err != nil {
		return nil, nil, err
	}

	req := &Request{}
	for _, fn := range configure {
		fn(req)
	}

	header := req.Header.Clone()
	if header == nil {
		header = markup.NewMapping()
	}
	if c.config.Credentials != nil {
		creds, err := c.config.Credentials.SOAPHeader(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("soap: credentials: %w", err)
		}
		if creds != nil {
			header.Merge(creds)
		}
	}

	opts := []envelope.Option{
		envelope.WithVersion(c.config.Version),
		envelope.WithTargetNamespace(c.config.Service.Namespace),
		envelope.WithNamespaceIdentifier(c.config.NamespaceIdentifier),
		envelope.WithEnvPrefix(c.config.EnvPrefix),
		envelope.WithKeyStyle(c.config.KeyStyle),
		envelope.WithElementFormQualified(c.config.ElementFormQualified),
		envelope.WithHeader(header),
		envelope.WithBody(req.Body),
	}
	if req.Namespace != nil {
		opts = append(opts, envelope.WithNamespace(req.Namespace.Prefix, req.Namespace.URI))
	}
	for _, n := range req.Namespaces {
		opts = append(opts, envelope.WithExtraNamespace(n.Prefix, n.URI))
	}

	env, err := envelope.New(op, opts...)
	if err != nil {
		return nil, nil, err
	}
	if req.SOAPAction == "" {
		req.SOAPAction = c.config.KeyStyle.Tag(op)
	}
	return env, req, nil
}

// Call sends op to the service and returns the reply. Construction errors
// are returned before any I/O; transport failures come back as
// *TransportError. Unless IgnoreFaults is set, a SOAP Fault yields
// *FaultError and an HTTP error status yields *HTTPError.
func (c *Client) Call(ctx context.Context, op keystyle.Key, configure ...func(*Request)) (*Response, error) {
	env, req, err := c.Build(ctx, op, configure...)
	if err != nil {
		return nil, err
	}

	header := c.httpHeader(env, req)
	log := c.logger.With(
		"request_id", uuid.New().String(),
		"operation", env.Operation(),
		"endpoint", c.config.Service.Endpoint,
	)
	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("soap request", "soap_action", req.SOAPAction, "envelope", c.filter.Apply(env.Bytes()))
	}

	start := time.Now()
	body, meta, err := c.transport.RoundTrip(ctx, env.Bytes(), c.config.Service.Endpoint, header)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("soap transport failed", "error", err, "duration", elapsed)
		return nil, &TransportError{
			Operation: env.Operation(),
			Endpoint:  c.config.Service.Endpoint,
			Err:       err,
		}
	}
	if meta == nil {
		meta = &transport.Metadata{StatusCode: http.StatusOK, Header: http.Header{}}
	}

	resp := &Response{
		Document: response.New(body),
		HTTP:     meta,
		Request:  env,
		Duration: elapsed,
	}
	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("soap response", "status", meta.StatusCode, "duration", elapsed, "envelope", c.filter.Apply(body))
	}

	if c.config.IgnoreFaults {
		return resp, nil
	}
	if fault, err := resp.Fault(); err == nil && fault != nil {
		log.Info("soap fault", "code", fault.Code, "reason", fault.Reason)
		return resp, &FaultError{Fault: fault, Response: resp}
	}
	if resp.IsHTTPError() {
		log.Info("soap http error", "status", meta.StatusCode)
		return resp, &HTTPError{StatusCode: meta.StatusCode, Body: body, Response: resp}
	}
	return resp, nil
}

func (c *Client) checkOperation(op keystyle.Key) error {
	if op.IsZero() {
		return envelope.ErrNoOperation
	}
	if len(c.config.Service.Operations) == 0 {
		return nil
	}
	tag := c.config.KeyStyle.Tag(op)
	for _, known := range c.config.Service.Operations {
		if c.config.KeyStyle.Tag(known) == tag {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownOperation, tag)
}

func (c *Client) httpHeader(env *envelope.Envelope, req *Request) http.Header {
	h := c.config.Headers.Clone()
	if h == nil {
		h = make(http.Header)
	}
	for k, values := range req.HTTPHeader {
		h.Del(k)
		for _, v := range values {
			h.Add(k, v)
		}
	}
	for _, cookie := range req.Cookies {
		h.Add("Cookie", cookie.String())
	}
	h.Set("Content-Type", env.ContentType(req.SOAPAction))
	if env.Version().UsesSOAPActionHeader() {
		h.Set("SOAPAction", `"`+req.SOAPAction+`"`)
	}
	return h
}
