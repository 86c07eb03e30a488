package wamp

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Shape names the constraint a frame element must satisfy.
type Shape int

const (
	ShapeDict Shape = iota
	ShapeArgs
	ShapeKwargs
	ShapeID
	ShapeString
	ShapeRequestType
)

func (s Shape) String() string {
	switch s {
	case ShapeDict:
		return "object"
	case ShapeArgs:
		return "array or null"
	case ShapeKwargs:
		return "object or null"
	case ShapeID:
		return "unsigned integer"
	case ShapeString:
		return "string"
	case ShapeRequestType:
		return "request message type"
	default:
		return "unknown"
	}
}

// IsDict reports whether v is map-shaped.
func IsDict(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsArgs reports whether v is array-shaped or null.
func IsArgs(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.([]any)
	return ok
}

// IsKwargs reports whether v is map-shaped or null.
func IsKwargs(v any) bool {
	return v == nil || IsDict(v)
}

// AsID reads v as an unsigned integer. JSON numbers in integer notation and
// Go integer kinds are accepted; floats are not, even when integral.
func AsID(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case int:
		return signedID(int64(n))
	case int64:
		return signedID(n)
	case int32:
		return signedID(int64(n))
	case int16:
		return signedID(int64(n))
	case int8:
		return signedID(int64(n))
	case MessageType:
		return uint64(n), true
	case json.Number:
		u, err := strconv.ParseUint(string(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return u, true
	default:
		return 0, false
	}
}

func signedID(n int64) (uint64, bool) {
	if n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// check validates v against s and returns the normalized Go value stored in
// the message struct.
func (s Shape) check(v any) (any, bool) {
	switch s {
	case ShapeDict:
		d, ok := v.(map[string]any)
		return d, ok
	case ShapeArgs:
		if v == nil {
			return []any(nil), true
		}
		a, ok := v.([]any)
		return a, ok
	case ShapeKwargs:
		if v == nil {
			return map[string]any(nil), true
		}
		d, ok := v.(map[string]any)
		return d, ok
	case ShapeID:
		id, ok := AsID(v)
		return id, ok
	case ShapeString:
		str, ok := v.(string)
		return str, ok
	case ShapeRequestType:
		id, ok := AsID(v)
		if !ok || !errorRequestTypes[MessageType(id)] {
			return nil, false
		}
		return MessageType(id), true
	default:
		return nil, false
	}
}
