package wamp

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Marshal encodes m and renders it as a JSON text frame.
func Marshal(m Message) ([]byte, error) {
	frame, err := Encode(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame)
}

// Unmarshal parses a JSON text frame and dispatches it by tag. Numbers are
// kept as json.Number so 64-bit identifiers survive the trip.
func Unmarshal(data []byte) (Message, error) {
	frame, err := ParseFrame(data)
	if err != nil {
		return nil, err
	}
	return DecodeAny(frame)
}

// ParseFrame parses data into its generic element slice without decoding it.
func ParseFrame(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, structural(fmt.Sprintf("invalid json: %v", err))
	}
	if dec.More() {
		return nil, structural("trailing data after frame")
	}
	frame, ok := raw.([]any)
	if !ok {
		return nil, structural(fmt.Sprintf("frame must be a json array, got %T", raw))
	}
	return frame, nil
}
