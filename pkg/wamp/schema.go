package wamp

import (
	"fmt"
	"reflect"
)

// FieldSpec declares one required positional element of a frame.
type FieldSpec struct {
	Name  string
	Shape Shape
}

// schema is the wire layout of one message type: the tag, the required
// fields in order and whether the args/kwargs tail may follow them.
type schema struct {
	Type    MessageType
	Name    string
	Fields  []FieldSpec
	Payload bool
	proto   Message

	goType reflect.Type
	index  []int
	args   int
	kwargs int
}

func id(name string) FieldSpec   { return FieldSpec{Name: name, Shape: ShapeID} }
func str(name string) FieldSpec  { return FieldSpec{Name: name, Shape: ShapeString} }
func dict(name string) FieldSpec { return FieldSpec{Name: name, Shape: ShapeDict} }

func fields(specs ...FieldSpec) []FieldSpec { return specs }

// schemas is ordered by tag.
var schemas = []*schema{
	{Type: TypeHello, Name: "Hello", proto: (*Hello)(nil),
		Fields: fields(str("realm"), dict("details"))},
	{Type: TypeWelcome, Name: "Welcome", proto: (*Welcome)(nil),
		Fields: fields(id("session"), dict("details"))},
	{Type: TypeAbort, Name: "Abort", proto: (*Abort)(nil),
		Fields: fields(dict("details"), str("reason"))},
	{Type: TypeChallenge, Name: "Challenge", proto: (*Challenge)(nil),
		Fields: fields(str("authmethod"), dict("extra"))},
	{Type: TypeAuthenticate, Name: "Authenticate", proto: (*Authenticate)(nil),
		Fields: fields(str("signature"), dict("extra"))},
	{Type: TypeGoodbye, Name: "Goodbye", proto: (*Goodbye)(nil),
		Fields: fields(dict("details"), str("reason"))},
	{Type: TypeError, Name: "Error", proto: (*Error)(nil), Payload: true,
		Fields: fields(FieldSpec{Name: "request_type", Shape: ShapeRequestType}, id("request_id"), dict("details"), str("error"))},
	{Type: TypePublish, Name: "Publish", proto: (*Publish)(nil), Payload: true,
		Fields: fields(id("request_id"), dict("options"), str("topic"))},
	{Type: TypePublished, Name: "Published", proto: (*Published)(nil),
		Fields: fields(id("request_id"), id("publication"))},
	{Type: TypeSubscribe, Name: "Subscribe", proto: (*Subscribe)(nil),
		Fields: fields(id("request_id"), dict("options"), str("topic"))},
	{Type: TypeSubscribed, Name: "Subscribed", proto: (*Subscribed)(nil),
		Fields: fields(id("request_id"), id("subscription"))},
	{Type: TypeUnsubscribe, Name: "Unsubscribe", proto: (*Unsubscribe)(nil),
		Fields: fields(id("request_id"), id("subscription"))},
	{Type: TypeUnsubscribed, Name: "Unsubscribed", proto: (*Unsubscribed)(nil),
		Fields: fields(id("request_id"))},
	{Type: TypeEvent, Name: "Event", proto: (*Event)(nil), Payload: true,
		Fields: fields(id("subscription"), id("publication"), dict("details"))},
	{Type: TypeCall, Name: "Call", proto: (*Call)(nil), Payload: true,
		Fields: fields(id("request_id"), dict("options"), str("procedure"))},
	{Type: TypeCancel, Name: "Cancel", proto: (*Cancel)(nil),
		Fields: fields(id("request_id"), dict("options"))},
	{Type: TypeResult, Name: "Result", proto: (*Result)(nil), Payload: true,
		Fields: fields(id("request_id"), dict("details"))},
	{Type: TypeRegister, Name: "Register", proto: (*Register)(nil),
		Fields: fields(id("request_id"), dict("options"), str("procedure"))},
	{Type: TypeRegistered, Name: "Registered", proto: (*Registered)(nil),
		Fields: fields(id("request_id"), id("registration"))},
	{Type: TypeUnregister, Name: "Unregister", proto: (*Unregister)(nil),
		Fields: fields(id("request_id"), id("registration"))},
	{Type: TypeUnregistered, Name: "Unregistered", proto: (*Unregistered)(nil),
		Fields: fields(id("request_id"))},
	{Type: TypeInvocation, Name: "Invocation", proto: (*Invocation)(nil), Payload: true,
		Fields: fields(id("request_id"), id("registration"), dict("details"))},
	{Type: TypeInterrupt, Name: "Interrupt", proto: (*Interrupt)(nil),
		Fields: fields(id("request_id"), dict("options"))},
	{Type: TypeYield, Name: "Yield", proto: (*Yield)(nil), Payload: true,
		Fields: fields(id("request_id"), dict("options"))},
}

// errorRequestTypes are the requests an Error may answer.
var errorRequestTypes = map[MessageType]bool{
	TypeSubscribe:   true,
	TypeUnsubscribe: true,
	TypePublish:     true,
	TypeRegister:    true,
	TypeUnregister:  true,
	TypeInvocation:  true,
	TypeCancel:      true,
	TypeCall:        true,
}

var (
	byType   = make(map[MessageType]*schema, len(schemas))
	byGoType = make(map[reflect.Type]*schema, len(schemas))
)

func init() {
	for _, s := range schemas {
		if err := s.resolve(); err != nil {
			panic(err)
		}
		byType[s.Type] = s
		byGoType[reflect.TypeOf(s.proto)] = s
	}
}

// resolve maps every declared field and the payload tail onto the struct
// fields carrying the matching `wamp` tag.
func (s *schema) resolve() error {
	pt := reflect.TypeOf(s.proto)
	if pt.Kind() != reflect.Ptr || pt.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("wamp: %s prototype must be a struct pointer", s.Name)
	}
	s.goType = pt.Elem()
	tags := make(map[string]int, s.goType.NumField())
	for i := 0; i < s.goType.NumField(); i++ {
		if tag, ok := s.goType.Field(i).Tag.Lookup("wamp"); ok {
			tags[tag] = i
		}
	}
	s.index = make([]int, len(s.Fields))
	for i, f := range s.Fields {
		idx, ok := tags[f.Name]
		if !ok {
			return fmt.Errorf("wamp: %s has no field tagged %q", s.Name, f.Name)
		}
		s.index[i] = idx
	}
	s.args, s.kwargs = -1, -1
	if s.Payload {
		a, okA := tags["args"]
		k, okK := tags["kwargs"]
		if !okA || !okK {
			return fmt.Errorf("wamp: %s declares a payload without args/kwargs fields", s.Name)
		}
		s.args, s.kwargs = a, k
	}
	return nil
}

// Layout returns the declared field specs for t, without the tag and the
// payload tail.
func Layout(t MessageType) ([]FieldSpec, bool) {
	s, ok := byType[t]
	if !ok {
		return nil, false
	}
	out := make([]FieldSpec, len(s.Fields))
	copy(out, s.Fields)
	return out, true
}

// HasPayload reports whether frames of type t may carry args/kwargs.
func HasPayload(t MessageType) bool {
	s, ok := byType[t]
	return ok && s.Payload
}
