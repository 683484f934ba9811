// Package transport implements the HTTP transport collaborator for SOAP calls
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirosfoundation/go-soap/pkg/compression"
)

// TLS version constants
const (
	TLS12 = tls.VersionTLS12
	TLS13 = tls.VersionTLS13
)

// DefaultMaxResponseSize bounds reply bodies read from the network.
const DefaultMaxResponseSize = 32 << 20

// DefaultUserAgent is sent when the caller sets no User-Agent header.
const DefaultUserAgent = "go-soap/1.0"

// Recommended TLS 1.2 cipher suites
var RecommendedTLS12CipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
}

// Metadata describes the HTTP exchange that carried a reply.
type Metadata struct {
	StatusCode int
	Status     string
	Header     http.Header
	Duration   time.Duration
}

// Transport sends a rendered envelope to endpoint and returns the raw reply.
// Non-2xx statuses are not errors: SOAP faults travel with status 500 and the
// caller needs the body to read them.
type Transport interface {
	RoundTrip(ctx context.Context, body []byte, endpoint string, header http.Header) ([]byte, *Metadata, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, body []byte, endpoint string, header http.Header) ([]byte, *Metadata, error)

// RoundTrip calls f.
func (f Func) RoundTrip(ctx context.Context, body []byte, endpoint string, header http.Header) ([]byte, *Metadata, error) {
	return f(ctx, body, endpoint, header)
}

// HTTPSConfig contains HTTP client configuration
type HTTPSConfig struct {
	MinTLSVersion   uint16
	MaxTLSVersion   uint16
	CipherSuites    []uint16
	Certificates    []tls.Certificate
	RootCAs         *x509.CertPool
	Timeout         time.Duration
	IdleConnTimeout time.Duration
	// Compress gzips large request bodies and negotiates gzip replies.
	Compress        bool
	UserAgent       string
	MaxResponseSize int64
}

// DefaultHTTPSConfig returns a default HTTPS configuration
func DefaultHTTPSConfig() *HTTPSConfig {
	return &HTTPSConfig{
		MinTLSVersion:   TLS12,
		MaxTLSVersion:   TLS13,
		CipherSuites:    RecommendedTLS12CipherSuites,
		Timeout:         30 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		UserAgent:       DefaultUserAgent,
		MaxResponseSize: DefaultMaxResponseSize,
	}
}

// HTTPSClient posts envelopes over HTTP(S). It is safe for concurrent use.
type HTTPSClient struct {
	client     *http.Client
	config     *HTTPSConfig
	compressor *compression.Compressor
}

// NewHTTPSClient creates a new HTTPS client
func NewHTTPSClient(config *HTTPSConfig) *HTTPSClient {
	if config == nil {
		config = DefaultHTTPSConfig()
	} else {
		copied := *config
		config = &copied
	}
	if config.MaxResponseSize <= 0 {
		config.MaxResponseSize = DefaultMaxResponseSize
	}

	tlsConfig := &tls.Config{
		MinVersion:   config.MinTLSVersion,
		MaxVersion:   config.MaxTLSVersion,
		CipherSuites: config.CipherSuites,
		Certificates: config.Certificates,
		RootCAs:      config.RootCAs,
	}

	transport := &http.Transport{
		TLSClientConfig:     tlsConfig,
		IdleConnTimeout:     config.IdleConnTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	return &HTTPSClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config:     config,
		compressor: compression.NewCompressor().WithMaxSize(config.MaxResponseSize),
	}
}

// RoundTrip implements Transport.
func (c *HTTPSClient) RoundTrip(ctx context.Context, body []byte, endpoint string, header http.Header) ([]byte, *Metadata, error) {
	start := time.Now()
	host := endpointHost(endpoint)

	h := header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	if h.Get("User-Agent") == "" {
		ua := c.config.UserAgent
		if ua == "" {
			ua = DefaultUserAgent
		}
		h.Set("User-Agent", ua)
	}

	payload := body
	if c.config.Compress {
		h.Set("Accept-Encoding", compression.EncodingGzip)
		if compression.ShouldCompress(h.Get("Content-Type"), len(body)) {
			compressed, err := c.compressor.Compress(body)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to compress request: %w", err)
			}
			payload = compressed
			h.Set("Content-Encoding", compression.EncodingGzip)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = h

	resp, err := c.client.Do(req)
	if err != nil {
		RecordRequest(host, 0, time.Since(start))
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize+1))
	if err != nil {
		RecordRequest(host, resp.StatusCode, time.Since(start))
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(responseBody)) > c.config.MaxResponseSize {
		RecordRequest(host, resp.StatusCode, time.Since(start))
		return nil, nil, fmt.Errorf("response exceeds %d bytes", c.config.MaxResponseSize)
	}

	if compression.IsGzip(resp.Header.Get("Content-Encoding")) {
		responseBody, err = c.compressor.Decompress(responseBody)
		if err != nil {
			RecordRequest(host, resp.StatusCode, time.Since(start))
			return nil, nil, fmt.Errorf("failed to decompress response: %w", err)
		}
	}

	elapsed := time.Since(start)
	RecordRequest(host, resp.StatusCode, elapsed)

	return responseBody, &Metadata{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Duration:   elapsed,
	}, nil
}

func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
