package compress

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressionType represents the type of compression algorithm
type CompressionType int

const (
	// None represents no compression
	None CompressionType = iota
	// Gzip represents gzip compression
	Gzip
	// Zstd represents zstandard compression
	Zstd
)

// String returns the string representation of the compression type
func (ct CompressionType) String() string {
	switch ct {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Extension is the file suffix used for archives of this type.
func (ct CompressionType) Extension() string {
	switch ct {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// ParseType maps a config value ("gzip", "zstd", "none") to a type.
func ParseType(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	default:
		return None, fmt.Errorf("unknown compression %q", s)
	}
}

// Compressor interface defines methods for data compression
type Compressor interface {
	// Compress compresses the input data and returns compressed data
	Compress(data []byte) ([]byte, error)
	// Decompress decompresses the input data and returns original data
	Decompress(data []byte) ([]byte, error)
	// Type returns the compression type
	Type() CompressionType
}

// gzipCompressor implements Compressor interface using gzip
type gzipCompressor struct {
	level int
}

// NewGzipCompressor creates a new gzip compressor with specified compression level
// level should be between 1 (fastest) and 9 (best compression), or gzip.DefaultCompression
func NewGzipCompressor(level int) Compressor {
	return &gzipCompressor{level: level}
}

// Compress compresses data using gzip
func (gc *gzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, gc.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data to gzip writer: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses gzip data
func (gc *gzipCompressor) Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from gzip reader: %w", err)
	}

	return result, nil
}

func (gc *gzipCompressor) Type() CompressionType {
	return Gzip
}

// zstdCompressor implements Compressor with stateless zstd encode/decode.
type zstdCompressor struct {
	level zstd.EncoderLevel
}

// NewZstdCompressor creates a zstd compressor at the given encoder level.
func NewZstdCompressor(level zstd.EncoderLevel) Compressor {
	return &zstdCompressor{level: level}
}

func (zc *zstdCompressor) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zc.level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func (zc *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decode zstd data: %w", err)
	}
	return out, nil
}

func (zc *zstdCompressor) Type() CompressionType {
	return Zstd
}

// noneCompressor implements Compressor interface with no compression
type noneCompressor struct{}

// NewNoneCompressor creates a new compressor that performs no compression
func NewNoneCompressor() Compressor {
	return &noneCompressor{}
}

func (nc *noneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (nc *noneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (nc *noneCompressor) Type() CompressionType {
	return None
}

// NewCompressor creates a new compressor based on the specified type
func NewCompressor(cType CompressionType) Compressor {
	switch cType {
	case Gzip:
		return NewGzipCompressor(gzip.DefaultCompression)
	case Zstd:
		return NewZstdCompressor(zstd.SpeedDefault)
	default:
		return NewNoneCompressor()
	}
}

// NewDefaultCompressor creates a new compressor with default settings (gzip with default compression)
func NewDefaultCompressor() Compressor {
	return NewGzipCompressor(gzip.DefaultCompression)
}

// CompressWithType compresses data using the specified compression type
func CompressWithType(data []byte, cType CompressionType) ([]byte, error) {
	return NewCompressor(cType).Compress(data)
}

// DecompressWithType decompresses data using the specified compression type
func DecompressWithType(data []byte, cType CompressionType) ([]byte, error) {
	return NewCompressor(cType).Decompress(data)
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsCompressed checks if the data appears to be compressed by examining magic bytes
func IsCompressed(data []byte) CompressionType {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		return Gzip
	}
	if bytes.HasPrefix(data, zstdMagic) {
		return Zstd
	}
	return None
}

// IsCompressedOrMIME is IsCompressed with a fallback on a detected MIME type.
func IsCompressedOrMIME(data []byte, mime string) CompressionType {
	if ct := IsCompressed(data); ct != None {
		return ct
	}
	switch {
	case strings.HasPrefix(mime, "application/gzip"), strings.HasPrefix(mime, "application/x-gzip"):
		return Gzip
	case strings.HasPrefix(mime, "application/zstd"):
		return Zstd
	default:
		return None
	}
}

// Decode reverses whatever compression IsCompressed detects; plain data is
// returned unchanged.
func Decode(data []byte) ([]byte, error) {
	ct := IsCompressed(data)
	if ct == None {
		return data, nil
	}
	return DecompressWithType(data, ct)
}
