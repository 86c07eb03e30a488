package wamp

import (
	"errors"
	"fmt"
)

var (
	ErrTagMismatch    = errors.New("wamp: tag mismatch")
	ErrMissingField   = errors.New("wamp: missing field")
	ErrShapeViolation = errors.New("wamp: shape violation")
	ErrStructural     = errors.New("wamp: malformed frame")
	ErrRoleViolation  = errors.New("wamp: role violation")
	ErrUnknownType    = errors.New("wamp: unknown message type")
)

// FrameError describes why a frame could not be encoded or decoded.
// Kind is one of the sentinel errors above and is returned by Unwrap.
type FrameError struct {
	Kind     error
	Type     string
	Field    string
	Index    int
	Shape    Shape
	Expected uint64
	Actual   uint64
	Reason   string
}

func (e *FrameError) Error() string {
	switch e.Kind {
	case ErrTagMismatch:
		return fmt.Sprintf("%s: %s has invalid tag %d, the tag for %s must be %d",
			e.Kind, e.Type, e.Actual, e.Type, e.Expected)
	case ErrMissingField:
		return fmt.Sprintf("%s: %s field %q (index %d) must be present", e.Kind, e.Type, e.Field, e.Index)
	case ErrShapeViolation:
		return fmt.Sprintf("%s: %s field %q (index %d) must be %s", e.Kind, e.Type, e.Field, e.Index, e.Shape)
	default:
		if e.Reason != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
		}
		return e.Kind.Error()
	}
}

func (e *FrameError) Unwrap() error { return e.Kind }

func structural(reason string) error {
	return &FrameError{Kind: ErrStructural, Reason: reason}
}

var kindNames = []struct {
	err  error
	name string
}{
	{ErrTagMismatch, "tag_mismatch"},
	{ErrMissingField, "missing_field"},
	{ErrShapeViolation, "shape_violation"},
	{ErrStructural, "structural"},
	{ErrRoleViolation, "role_violation"},
	{ErrUnknownType, "unknown_type"},
}

// KindOf names the sentinel err wraps, or "" when it wraps none of them.
func KindOf(err error) string {
	for _, k := range kindNames {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
