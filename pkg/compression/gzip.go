// Package compression implements gzip content coding for SOAP HTTP bodies
package compression

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// EncodingGzip is the HTTP content coding token for gzip
	EncodingGzip = "gzip"

	// MinCompressSize is the body size below which compression is skipped;
	// gzip framing makes small envelopes larger.
	MinCompressSize = 1024

	// DefaultMaxDecompressedSize bounds decompressed reply bodies.
	DefaultMaxDecompressedSize = 64 << 20
)

// ErrTooLarge is returned when decompressed data exceeds the limit.
var ErrTooLarge = errors.New("decompressed body exceeds limit")

// Compressor handles body compression
type Compressor struct {
	compressionLevel int
	maxSize          int64
}

// NewCompressor creates a new compressor with default compression level
func NewCompressor() *Compressor {
	return &Compressor{
		compressionLevel: gzip.DefaultCompression,
		maxSize:          DefaultMaxDecompressedSize,
	}
}

// NewCompressorWithLevel creates a new compressor with specified compression level
func NewCompressorWithLevel(level int) *Compressor {
	c := NewCompressor()
	c.compressionLevel = level
	return c
}

// WithMaxSize sets the decompression limit in bytes.
func (c *Compressor) WithMaxSize(n int64) *Compressor {
	c.maxSize = n
	return c
}

// Compress compresses data using GZIP
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, c.compressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses GZIP data
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(reader, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}
	if n > c.maxSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, c.maxSize)
	}

	return buf.Bytes(), nil
}

// ShouldCompress reports whether a request body of the given media type and
// size is worth compressing. Only XML bodies are compressed.
func ShouldCompress(contentType string, size int) bool {
	if size < MinCompressSize {
		return false
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch mediaType {
	case "text/xml", "application/xml", "application/soap+xml":
		return true
	default:
		return false
	}
}

// IsGzip reports whether a Content-Encoding header value names gzip.
func IsGzip(contentEncoding string) bool {
	for _, enc := range strings.Split(contentEncoding, ",") {
		switch strings.ToLower(strings.TrimSpace(enc)) {
		case EncodingGzip, "x-gzip":
			return true
		}
	}
	return false
}
