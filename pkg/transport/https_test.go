package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

const testEnvelope = `<?xml version="1.0" encoding="UTF-8"?><env:Envelope xmlns:env="http://schemas.xmlsoap.org/soap/envelope/"><env:Body><wsdl:ping></wsdl:ping></env:Body></env:Envelope>`

func TestDefaultHTTPSConfig(t *testing.T) {
	config := DefaultHTTPSConfig()

	if config == nil {
		t.Fatal("expected non-nil config")
	}

	if config.MinTLSVersion != TLS12 {
		t.Errorf("expected MinTLSVersion TLS12, got %d", config.MinTLSVersion)
	}
	if config.MaxTLSVersion != TLS13 {
		t.Errorf("expected MaxTLSVersion TLS13, got %d", config.MaxTLSVersion)
	}
	if len(config.CipherSuites) == 0 {
		t.Error("expected CipherSuites to be set")
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("expected Timeout 30s, got %v", config.Timeout)
	}
	if config.IdleConnTimeout != 90*time.Second {
		t.Errorf("expected IdleConnTimeout 90s, got %v", config.IdleConnTimeout)
	}
	if config.UserAgent != DefaultUserAgent {
		t.Errorf("expected UserAgent %q, got %q", DefaultUserAgent, config.UserAgent)
	}
	if config.Compress {
		t.Error("expected compression to be off by default")
	}
}

func TestRecommendedTLS12CipherSuites(t *testing.T) {
	if len(RecommendedTLS12CipherSuites) == 0 {
		t.Error("expected recommended cipher suites to be defined")
	}

	for _, suite := range RecommendedTLS12CipherSuites {
		name := tls.CipherSuiteName(suite)
		if name == "" {
			t.Errorf("unknown cipher suite: %d", suite)
		}
	}
}

func TestNewHTTPSClient_NilConfig(t *testing.T) {
	client := NewHTTPSClient(nil)

	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.client == nil {
		t.Error("expected http.Client to be initialized")
	}
	if client.config == nil {
		t.Error("expected config to be set")
	}
	if client.config.MaxResponseSize != DefaultMaxResponseSize {
		t.Errorf("expected MaxResponseSize %d, got %d", DefaultMaxResponseSize, client.config.MaxResponseSize)
	}
}

func TestNewHTTPSClient_DoesNotModifyConfig(t *testing.T) {
	config := &HTTPSConfig{MinTLSVersion: TLS12, Timeout: time.Second}
	client := NewHTTPSClient(config)

	if config.MaxResponseSize != 0 {
		t.Errorf("caller config was modified: MaxResponseSize = %d", config.MaxResponseSize)
	}
	if client.config.MaxResponseSize != DefaultMaxResponseSize {
		t.Errorf("expected MaxResponseSize %d, got %d", DefaultMaxResponseSize, client.config.MaxResponseSize)
	}
}

func TestHTTPSClient_RoundTrip(t *testing.T) {
	var gotMethod, gotBody, gotAction, gotType, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAction = r.Header.Get("SOAPAction")
		gotType = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "text/xml;charset=UTF-8")
		w.Header().Set("X-Trace", "abc")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<reply/>"))
	}))
	defer server.Close()

	client := NewHTTPSClient(nil)
	header := http.Header{}
	header.Set("Content-Type", "text/xml;charset=UTF-8")
	header.Set("SOAPAction", `"urn:ping"`)

	reply, meta, err := client.RoundTrip(context.Background(), []byte(testEnvelope), server.URL, header)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}

	if string(reply) != "<reply/>" {
		t.Errorf("unexpected reply: %s", reply)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotBody != testEnvelope {
		t.Errorf("server received unexpected body: %s", gotBody)
	}
	if gotAction != `"urn:ping"` {
		t.Errorf("unexpected SOAPAction: %s", gotAction)
	}
	if gotType != "text/xml;charset=UTF-8" {
		t.Errorf("unexpected Content-Type: %s", gotType)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("unexpected User-Agent: %s", gotUA)
	}
	if meta.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", meta.StatusCode)
	}
	if meta.Header.Get("X-Trace") != "abc" {
		t.Errorf("expected response headers in metadata, got %v", meta.Header)
	}
	if header.Get("User-Agent") != "" {
		t.Error("caller header must not be modified")
	}
}

func TestHTTPSClient_RoundTripReturnsErrorStatusBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<fault/>"))
	}))
	defer server.Close()

	reply, meta, err := NewHTTPSClient(nil).RoundTrip(context.Background(), []byte(testEnvelope), server.URL, nil)
	if err != nil {
		t.Fatalf("non-2xx status must not be a transport error: %v", err)
	}
	if meta.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", meta.StatusCode)
	}
	if string(reply) != "<fault/>" {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestHTTPSClient_CustomUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("User-Agent", "billing/2.0")
	if _, _, err := NewHTTPSClient(nil).RoundTrip(context.Background(), nil, server.URL, header); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if gotUA != "billing/2.0" {
		t.Errorf("expected caller User-Agent, got %s", gotUA)
	}
}

func TestHTTPSClient_Compression(t *testing.T) {
	large := strings.Repeat("<item>value</item>", 200)
	var gotEncoding, gotAccept, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")
		gotAccept = r.Header.Get("Accept-Encoding")
		gz, err := gzip.NewReader(r.Body)
		if err == nil {
			body, _ := io.ReadAll(gz)
			gotBody = string(body)
		}

		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte("<reply>compressed</reply>"))
		zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	config := DefaultHTTPSConfig()
	config.Compress = true
	header := http.Header{}
	header.Set("Content-Type", "text/xml;charset=UTF-8")

	reply, _, err := NewHTTPSClient(config).RoundTrip(context.Background(), []byte(large), server.URL, header)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if gotEncoding != "gzip" {
		t.Errorf("expected gzip request, got Content-Encoding %q", gotEncoding)
	}
	if gotAccept != "gzip" {
		t.Errorf("expected Accept-Encoding gzip, got %q", gotAccept)
	}
	if gotBody != large {
		t.Error("server did not receive the original body")
	}
	if string(reply) != "<reply>compressed</reply>" {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestHTTPSClient_SmallBodyNotCompressed(t *testing.T) {
	var gotEncoding string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")
	}))
	defer server.Close()

	config := DefaultHTTPSConfig()
	config.Compress = true
	header := http.Header{}
	header.Set("Content-Type", "text/xml;charset=UTF-8")

	if _, _, err := NewHTTPSClient(config).RoundTrip(context.Background(), []byte(testEnvelope), server.URL, header); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if gotEncoding != "" {
		t.Errorf("expected uncompressed request, got Content-Encoding %q", gotEncoding)
	}
}

func TestHTTPSClient_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	config := DefaultHTTPSConfig()
	config.MaxResponseSize = 16

	if _, _, err := NewHTTPSClient(config).RoundTrip(context.Background(), nil, server.URL, nil); err == nil {
		t.Error("expected error for oversized response")
	}
}

func TestHTTPSClient_RoundTripCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, meta, err := NewHTTPSClient(nil).RoundTrip(ctx, nil, server.URL, nil)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if meta != nil {
		t.Error("expected no metadata without a response")
	}
}

func TestHTTPSClient_InvalidEndpoint(t *testing.T) {
	_, _, err := NewHTTPSClient(nil).RoundTrip(context.Background(), nil, "://bad", nil)
	if err == nil {
		t.Error("expected error for invalid endpoint")
	}
}

func TestFunc(t *testing.T) {
	var tr Transport = Func(func(ctx context.Context, body []byte, endpoint string, header http.Header) ([]byte, *Metadata, error) {
		return append([]byte("echo:"), body...), &Metadata{StatusCode: http.StatusOK}, nil
	})

	reply, meta, err := tr.RoundTrip(context.Background(), []byte("hi"), "http://unused", nil)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if string(reply) != "echo:hi" || meta.StatusCode != http.StatusOK {
		t.Errorf("unexpected result: %s %d", reply, meta.StatusCode)
	}
}

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(soapRequests.WithLabelValues("metrics.example.com", "200"))
	RecordRequest("metrics.example.com", http.StatusOK, 10*time.Millisecond)
	RecordRequest("metrics.example.com", http.StatusOK, 20*time.Millisecond)

	after := testutil.ToFloat64(soapRequests.WithLabelValues("metrics.example.com", "200"))
	if after-before != 2 {
		t.Errorf("expected 2 new requests, got %v", after-before)
	}

	errBefore := testutil.ToFloat64(soapRequests.WithLabelValues("metrics.example.com", "error"))
	RecordRequest("metrics.example.com", 0, time.Millisecond)
	if testutil.ToFloat64(soapRequests.WithLabelValues("metrics.example.com", "error"))-errBefore != 1 {
		t.Error("expected failed exchange to be labelled error")
	}
}

func TestEndpointHost(t *testing.T) {
	tests := map[string]string{
		"https://svc.example.com:8443/users": "svc.example.com:8443",
		"http://localhost/soap":              "localhost",
		"not a url":                          "unknown",
	}
	for endpoint, want := range tests {
		if got := endpointHost(endpoint); got != want {
			t.Errorf("endpointHost(%q) = %q, want %q", endpoint, got, want)
		}
	}
}
