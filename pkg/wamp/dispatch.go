package wamp

import "fmt"

// DecodeAny routes frame to the decoder selected by its leading tag.
// Frames with a tag outside the known constants are returned unmodified as
// an Extension; only a missing or non-integral tag is an error here.
func DecodeAny(frame []any) (Message, error) {
	if len(frame) == 0 {
		return nil, structural("frame has no message type")
	}
	tag, ok := AsID(frame[0])
	if !ok {
		return nil, structural(fmt.Sprintf("message type must be an unsigned integer, got %T", frame[0]))
	}
	if s, ok := byType[MessageType(tag)]; ok {
		return s.decode(frame)
	}
	return Extension(frame), nil
}

// ID returns the tag of m. For an Extension the tag is re-read from its
// first element and ok is false when that element is not a valid tag.
func ID(m Message) (uint64, bool) {
	switch v := m.(type) {
	case nil:
		return 0, false
	case Extension:
		if len(v) == 0 {
			return 0, false
		}
		return AsID(v[0])
	default:
		return uint64(m.Type()), true
	}
}

// NameOf returns the Go type name used in diagnostics, e.g. "Call".
func NameOf(t MessageType) string {
	if s, ok := byType[t]; ok {
		return s.Name
	}
	return "Extension"
}
