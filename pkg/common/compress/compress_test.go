package compress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// frames is a JSON-lines capture, the payload archives carry.
var frames = []byte(strings.Repeat(`[48,1,{},"com.myapp.echo",["hello"]]`+"\n"+`[50,1,{},["hello"]]`+"\n", 50))

func TestRoundTrip(t *testing.T) {
	compressors := []Compressor{
		NewGzipCompressor(gzip.DefaultCompression),
		NewGzipCompressor(gzip.BestSpeed),
		NewZstdCompressor(zstd.SpeedDefault),
		NewZstdCompressor(zstd.SpeedBestCompression),
		NewNoneCompressor(),
	}
	for _, c := range compressors {
		t.Run(c.Type().String(), func(t *testing.T) {
			compressed, err := c.Compress(frames)
			if err != nil {
				t.Fatalf("Compression failed: %v", err)
			}
			if c.Type() != None && len(compressed) >= len(frames) {
				t.Errorf("expected repeated frames to shrink, %d >= %d", len(compressed), len(frames))
			}
			if got := IsCompressed(compressed); got != c.Type() {
				t.Errorf("IsCompressed = %v, expected %v", got, c.Type())
			}
			decompressed, err := c.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompression failed: %v", err)
			}
			if !bytes.Equal(frames, decompressed) {
				t.Fatalf("Decompressed data doesn't match original")
			}
		})
	}
}

func TestNewCompressor(t *testing.T) {
	tests := []struct {
		cType    CompressionType
		expected CompressionType
	}{
		{Gzip, Gzip},
		{Zstd, Zstd},
		{None, None},
		{CompressionType(999), None}, // Invalid type should default to None
	}

	for _, test := range tests {
		compressor := NewCompressor(test.cType)
		if compressor.Type() != test.expected {
			t.Errorf("NewCompressor(%v) returned type %v, expected %v", test.cType, compressor.Type(), test.expected)
		}
	}
	if NewDefaultCompressor().Type() != Gzip {
		t.Error("expected gzip default")
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]CompressionType{"gzip": Gzip, " GZ ": Gzip, "zstd": Zstd, "none": None, "": None}
	for in, want := range tests {
		got, err := ParseType(in)
		if err != nil || got != want {
			t.Errorf("ParseType(%q) = %v, %v; expected %v", in, got, err, want)
		}
	}
	if _, err := ParseType("brotli"); err == nil {
		t.Error("expected error for unsupported compression")
	}
}

func TestIsCompressed(t *testing.T) {
	if IsCompressed(frames) != None {
		t.Errorf("Expected None for uncompressed data")
	}
	if IsCompressed([]byte{}) != None {
		t.Errorf("Expected None for empty data")
	}
	if IsCompressed([]byte{0x1f}) != None {
		t.Errorf("Expected None for single byte data")
	}
	if IsCompressed([]byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}) != Zstd {
		t.Errorf("Expected Zstd for zstd magic")
	}
	if IsCompressedOrMIME(frames, "application/gzip") != Gzip {
		t.Errorf("Expected Gzip from MIME")
	}
	if IsCompressedOrMIME(frames, "application/json") != None {
		t.Errorf("Expected None for JSON MIME")
	}
}

func TestDecode(t *testing.T) {
	for _, ct := range []CompressionType{None, Gzip, Zstd} {
		data, err := CompressWithType(frames, ct)
		if err != nil {
			t.Fatalf("CompressWithType(%v) failed: %v", ct, err)
		}
		out, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%v) failed: %v", ct, err)
		}
		if !bytes.Equal(frames, out) {
			t.Fatalf("Decode(%v) round trip failed", ct)
		}
	}
	if _, err := DecompressWithType([]byte{0x1f, 0x8b, 0x00}, Gzip); err == nil {
		t.Error("expected error for truncated gzip")
	}
}

func TestCompressionTypes(t *testing.T) {
	tests := []struct {
		cType    CompressionType
		expected string
		ext      string
	}{
		{None, "none", ""},
		{Gzip, "gzip", ".gz"},
		{Zstd, "zstd", ".zst"},
		{CompressionType(999), "unknown", ""},
	}

	for _, test := range tests {
		if test.cType.String() != test.expected {
			t.Errorf("CompressionType(%d).String() = %s, expected %s", int(test.cType), test.cType.String(), test.expected)
		}
		if test.cType.Extension() != test.ext {
			t.Errorf("CompressionType(%d).Extension() = %s, expected %s", int(test.cType), test.cType.Extension(), test.ext)
		}
	}
}

func BenchmarkGzipCompress(b *testing.B) {
	compressor := NewGzipCompressor(gzip.DefaultCompression)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := compressor.Compress(frames); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkZstdCompress(b *testing.B) {
	compressor := NewZstdCompressor(zstd.SpeedDefault)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := compressor.Compress(frames); err != nil {
			b.Fatal(err)
		}
	}
}
