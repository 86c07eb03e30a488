package file

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gabriel-vasile/mimetype"
)

// Kind classifies uploaded capture files.
type Kind string

const (
	KindJSONLines Kind = "jsonl"
	KindJSON      Kind = "json"
	KindGzip      Kind = "gzip"
	KindZstd      Kind = "zstd"
	KindUnknown   Kind = "unknown"
)

// Digest returns the lowercase hex SHA-256 of data, used to spot duplicate
// frames in the capture store.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DetectMIME determines the MIME type from content. Empty input is
// application/octet-stream.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return mimetype.Detect(data).String()
}

// Sniff classifies data as a capture file kind by content.
func Sniff(data []byte) Kind {
	if len(data) == 0 {
		return KindUnknown
	}
	m := mimetype.Detect(data)
	switch {
	case m.Is("application/gzip"):
		return KindGzip
	case m.Is("application/zstd"):
		return KindZstd
	case m.Is("application/x-ndjson"):
		return KindJSONLines
	case m.Is("application/json"):
		// a single line holding one frame is also a valid JSON-lines file
		return KindJSON
	}
	// csv and friends are detected for some captures; any text will do
	for p := m; p != nil; p = p.Parent() {
		if p.Is("text/plain") {
			return KindJSONLines
		}
	}
	return KindUnknown
}
