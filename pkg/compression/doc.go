// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package compression provides gzip content coding for SOAP over HTTP.

The HTTP transport uses it to compress large request envelopes and to
decode gzip replies when it negotiated the encoding itself.

# Compression

	compressor := compression.NewCompressor()
	if compression.ShouldCompress("text/xml;charset=UTF-8", len(body)) {
	    body, err = compressor.Compress(body)
	    // Content-Encoding: gzip
	}

# Decompression

	if compression.IsGzip(resp.Header.Get("Content-Encoding")) {
	    body, err = compressor.Decompress(body)
	}

Decompressed output is capped (64 MiB by default, see WithMaxSize) so a
hostile reply cannot exhaust memory.

# References

  - GZIP RFC 1952: https://datatracker.ietf.org/doc/html/rfc1952
  - HTTP content codings, RFC 9110 section 8.4
*/
package compression
