// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package transport implements the HTTP transport collaborator for SOAP calls.

The SOAP client only depends on the Transport interface:

	type Transport interface {
	    RoundTrip(ctx context.Context, body []byte, endpoint string, header http.Header) ([]byte, *Metadata, error)
	}

Any function with the same shape can be used through Func, which is how
tests and custom stacks plug in.

# HTTPS Client

HTTPSClient is the default implementation. It posts the envelope, returns
the reply body for every HTTP status and reports status and headers in
Metadata:

	client := transport.NewHTTPSClient(&transport.HTTPSConfig{
	    MinTLSVersion: transport.TLS12,
	    RootCAs:       certPool,
	    Compress:      true,
	})

	reply, meta, err := client.RoundTrip(ctx, envelope, "https://service.example.com/users", header)

TLS 1.3 is preferred with fallback to TLS 1.2 using these suites:
  - TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384
  - TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256
  - TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384
  - TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256

# Metrics

Each exchange is counted in soap_transport_requests_total and timed in
soap_transport_request_duration_seconds, labelled by endpoint host and
HTTP status ("error" when no response arrived).

# References

  - TLS 1.3 RFC 8446: https://datatracker.ietf.org/doc/html/rfc8446
  - TLS 1.2 RFC 5246: https://datatracker.ietf.org/doc/html/rfc5246
*/
package transport
