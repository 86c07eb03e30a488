package wamp

// Message is any value that can be framed. Known messages are pointers to
// the structs below; unrecognized frames decode to Extension.
type Message interface {
	Type() MessageType
}

// Struct fields carry a `wamp` tag naming their schema position; the codec
// resolves the tags once and never looks at field order in the struct.

type Hello struct {
	Realm   string         `wamp:"realm"`
	Details map[string]any `wamp:"details"`
}

type Welcome struct {
	Session uint64         `wamp:"session"`
	Details map[string]any `wamp:"details"`
}

type Abort struct {
	Details map[string]any `wamp:"details"`
	Reason  string         `wamp:"reason"`
}

type Challenge struct {
	AuthMethod string         `wamp:"authmethod"`
	Extra      map[string]any `wamp:"extra"`
}

type Authenticate struct {
	Signature string         `wamp:"signature"`
	Extra     map[string]any `wamp:"extra"`
}

type Goodbye struct {
	Details map[string]any `wamp:"details"`
	Reason  string         `wamp:"reason"`
}

// Error answers a failed request. RequestType is the tag of the request being
// answered and is limited to the request-carrying types.
type Error struct {
	RequestType MessageType    `wamp:"request_type"`
	RequestID   uint64         `wamp:"request_id"`
	Details     map[string]any `wamp:"details"`
	URI         string         `wamp:"error"`
	Args        []any          `wamp:"args"`
	Kwargs      map[string]any `wamp:"kwargs"`
}

type Publish struct {
	RequestID uint64         `wamp:"request_id"`
	Options   map[string]any `wamp:"options"`
	Topic     string         `wamp:"topic"`
	Args      []any          `wamp:"args"`
	Kwargs    map[string]any `wamp:"kwargs"`
}

type Published struct {
	RequestID   uint64 `wamp:"request_id"`
	Publication uint64 `wamp:"publication"`
}

type Subscribe struct {
	RequestID uint64         `wamp:"request_id"`
	Options   map[string]any `wamp:"options"`
	Topic     string         `wamp:"topic"`
}

type Subscribed struct {
	RequestID    uint64 `wamp:"request_id"`
	Subscription uint64 `wamp:"subscription"`
}

type Unsubscribe struct {
	RequestID    uint64 `wamp:"request_id"`
	Subscription uint64 `wamp:"subscription"`
}

type Unsubscribed struct {
	RequestID uint64 `wamp:"request_id"`
}

type Event struct {
	Subscription uint64         `wamp:"subscription"`
	Publication  uint64         `wamp:"publication"`
	Details      map[string]any `wamp:"details"`
	Args         []any          `wamp:"args"`
	Kwargs       map[string]any `wamp:"kwargs"`
}

type Call struct {
	RequestID uint64         `wamp:"request_id"`
	Options   map[string]any `wamp:"options"`
	Procedure string         `wamp:"procedure"`
	Args      []any          `wamp:"args"`
	Kwargs    map[string]any `wamp:"kwargs"`
}

type Cancel struct {
	RequestID uint64         `wamp:"request_id"`
	Options   map[string]any `wamp:"options"`
}

type Result struct {
	RequestID uint64         `wamp:"request_id"`
	Details   map[string]any `wamp:"details"`
	Args      []any          `wamp:"args"`
	Kwargs    map[string]any `wamp:"kwargs"`
}

type Register struct {
	RequestID uint64         `wamp:"request_id"`
	Options   map[string]any `wamp:"options"`
	Procedure string         `wamp:"procedure"`
}

type Registered struct {
	RequestID    uint64 `wamp:"request_id"`
	Registration uint64 `wamp:"registration"`
}

type Unregister struct {
	RequestID    uint64 `wamp:"request_id"`
	Registration uint64 `wamp:"registration"`
}

type Unregistered struct {
	RequestID uint64 `wamp:"request_id"`
}

type Invocation struct {
	RequestID    uint64         `wamp:"request_id"`
	Registration uint64         `wamp:"registration"`
	Details      map[string]any `wamp:"details"`
	Args         []any          `wamp:"args"`
	Kwargs       map[string]any `wamp:"kwargs"`
}

type Interrupt struct {
	RequestID uint64         `wamp:"request_id"`
	Options   map[string]any `wamp:"options"`
}

type Yield struct {
	RequestID uint64         `wamp:"request_id"`
	Options   map[string]any `wamp:"options"`
	Args      []any          `wamp:"args"`
	Kwargs    map[string]any `wamp:"kwargs"`
}

func (*Hello) Type() MessageType        { return TypeHello }
func (*Welcome) Type() MessageType      { return TypeWelcome }
func (*Abort) Type() MessageType        { return TypeAbort }
func (*Challenge) Type() MessageType    { return TypeChallenge }
func (*Authenticate) Type() MessageType { return TypeAuthenticate }
func (*Goodbye) Type() MessageType      { return TypeGoodbye }
func (*Error) Type() MessageType        { return TypeError }
func (*Publish) Type() MessageType      { return TypePublish }
func (*Published) Type() MessageType    { return TypePublished }
func (*Subscribe) Type() MessageType    { return TypeSubscribe }
func (*Subscribed) Type() MessageType   { return TypeSubscribed }
func (*Unsubscribe) Type() MessageType  { return TypeUnsubscribe }
func (*Unsubscribed) Type() MessageType { return TypeUnsubscribed }
func (*Event) Type() MessageType        { return TypeEvent }
func (*Call) Type() MessageType         { return TypeCall }
func (*Cancel) Type() MessageType       { return TypeCancel }
func (*Result) Type() MessageType       { return TypeResult }
func (*Register) Type() MessageType     { return TypeRegister }
func (*Registered) Type() MessageType   { return TypeRegistered }
func (*Unregister) Type() MessageType   { return TypeUnregister }
func (*Unregistered) Type() MessageType { return TypeUnregistered }
func (*Invocation) Type() MessageType   { return TypeInvocation }
func (*Interrupt) Type() MessageType    { return TypeInterrupt }
func (*Yield) Type() MessageType        { return TypeYield }

// Extension holds a frame whose tag is not a known constant, element for
// element as it was received.
type Extension []any

// Type returns the tag stored in the first element, or 0 if it is missing or
// not an unsigned integer.
func (e Extension) Type() MessageType {
	if len(e) == 0 {
		return 0
	}
	id, _ := AsID(e[0])
	return MessageType(id)
}

// Elements returns a copy of the raw frame.
func (e Extension) Elements() []any {
	out := make([]any, len(e))
	copy(out, e)
	return out
}
