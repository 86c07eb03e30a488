package wamp

import (
	"fmt"
	"reflect"
)

// Encode returns the positional wire form of m: the tag, every required
// field in declared order, then the optional args/kwargs tail.
//
// Tail rules: nothing when both are absent, args alone when only args is
// set, and args followed by kwargs whenever kwargs is set. A missing args
// is replaced by an empty array in the last case so that kwargs never
// occupies the args position.
func Encode(m Message) ([]any, error) {
	if ext, ok := m.(Extension); ok {
		if len(ext) == 0 {
			return nil, structural("extension frame is empty")
		}
		return ext.Elements(), nil
	}
	s, rv, err := lookup(m)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(s.Fields)+3)
	out = append(out, uint64(s.Type))
	for i, f := range s.Fields {
		v := rv.Field(s.index[i]).Interface()
		switch f.Shape {
		case ShapeDict:
			if d, _ := v.(map[string]any); d == nil {
				v = map[string]any{}
			}
		case ShapeRequestType:
			rt, _ := v.(MessageType)
			if !errorRequestTypes[rt] {
				return nil, &FrameError{Kind: ErrShapeViolation, Type: s.Name, Field: f.Name, Index: i + 1, Shape: f.Shape}
			}
			v = uint64(rt)
		}
		out = append(out, v)
	}
	if !s.Payload {
		return out, nil
	}

	args, _ := rv.Field(s.args).Interface().([]any)
	kwargs, _ := rv.Field(s.kwargs).Interface().(map[string]any)
	return appendPayload(out, args, kwargs), nil
}

func appendPayload(out []any, args []any, kwargs map[string]any) []any {
	switch {
	case kwargs != nil:
		if args == nil {
			args = []any{}
		}
		return append(out, args, kwargs)
	case args != nil:
		return append(out, args)
	default:
		return out
	}
}

// DecodeAs decodes frame as a message of type t. The frame's tag must equal
// t; a frame of any other type fails with ErrTagMismatch.
func DecodeAs(t MessageType, frame []any) (Message, error) {
	s, ok := byType[t]
	if !ok {
		return nil, &FrameError{Kind: ErrUnknownType, Reason: fmt.Sprintf("no schema for tag %d", uint64(t))}
	}
	return s.decode(frame)
}

// Decode decodes frame into the concrete message type T, for example
// Decode[*Call](frame).
func Decode[T Message](frame []any) (T, error) {
	var zero T
	s, ok := byGoType[reflect.TypeOf(zero)]
	if !ok {
		return zero, &FrameError{Kind: ErrUnknownType, Reason: fmt.Sprintf("%T is not a framed message", zero)}
	}
	m, err := s.decode(frame)
	if err != nil {
		return zero, err
	}
	return m.(T), nil
}

func (s *schema) decode(frame []any) (Message, error) {
	if len(frame) == 0 {
		return nil, &FrameError{Kind: ErrMissingField, Type: s.Name, Field: "tag", Index: 0}
	}
	tag, ok := AsID(frame[0])
	if !ok {
		return nil, &FrameError{Kind: ErrShapeViolation, Type: s.Name, Field: "tag", Index: 0, Shape: ShapeID}
	}
	if tag != uint64(s.Type) {
		return nil, &FrameError{Kind: ErrTagMismatch, Type: s.Name, Expected: uint64(s.Type), Actual: tag}
	}

	rv := reflect.New(s.goType).Elem()
	for i, f := range s.Fields {
		pos := i + 1
		if pos >= len(frame) {
			return nil, &FrameError{Kind: ErrMissingField, Type: s.Name, Field: f.Name, Index: pos}
		}
		v, ok := f.Shape.check(frame[pos])
		if !ok {
			return nil, &FrameError{Kind: ErrShapeViolation, Type: s.Name, Field: f.Name, Index: pos, Shape: f.Shape}
		}
		set(rv.Field(s.index[i]), v)
	}

	if s.Payload {
		pos := len(s.Fields) + 1
		if pos < len(frame) {
			v, ok := ShapeArgs.check(frame[pos])
			if !ok {
				return nil, &FrameError{Kind: ErrShapeViolation, Type: s.Name, Field: "args", Index: pos, Shape: ShapeArgs}
			}
			set(rv.Field(s.args), v)
		}
		if pos+1 < len(frame) {
			v, ok := ShapeKwargs.check(frame[pos+1])
			if !ok {
				return nil, &FrameError{Kind: ErrShapeViolation, Type: s.Name, Field: "kwargs", Index: pos + 1, Shape: ShapeKwargs}
			}
			set(rv.Field(s.kwargs), v)
		}
	}
	return rv.Addr().Interface().(Message), nil
}

func set(field reflect.Value, v any) {
	field.Set(reflect.ValueOf(v).Convert(field.Type()))
}

func lookup(m Message) (*schema, reflect.Value, error) {
	if m == nil {
		return nil, reflect.Value{}, structural("nil message")
	}
	s, ok := byGoType[reflect.TypeOf(m)]
	if !ok {
		return nil, reflect.Value{}, &FrameError{Kind: ErrUnknownType, Reason: fmt.Sprintf("%T is not a framed message", m)}
	}
	rv := reflect.ValueOf(m)
	if rv.IsNil() {
		return nil, reflect.Value{}, structural(fmt.Sprintf("nil %s", s.Name))
	}
	return s, rv.Elem(), nil
}
