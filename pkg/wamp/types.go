package wamp

import "strconv"

// MessageType is the integer tag carried in element 0 of every frame.
type MessageType uint64

const (
	TypeHello        MessageType = 1
	TypeWelcome      MessageType = 2
	TypeAbort        MessageType = 3
	TypeChallenge    MessageType = 4
	TypeAuthenticate MessageType = 5
	TypeGoodbye      MessageType = 6
	TypeError        MessageType = 8
	TypePublish      MessageType = 16
	TypePublished    MessageType = 17
	TypeSubscribe    MessageType = 32
	TypeSubscribed   MessageType = 33
	TypeUnsubscribe  MessageType = 34
	TypeUnsubscribed MessageType = 35
	TypeEvent        MessageType = 36
	TypeCall         MessageType = 48
	TypeCancel       MessageType = 49
	TypeResult       MessageType = 50
	TypeRegister     MessageType = 64
	TypeRegistered   MessageType = 65
	TypeUnregister   MessageType = 66
	TypeUnregistered MessageType = 67
	TypeInvocation   MessageType = 68
	TypeInterrupt    MessageType = 69
	TypeYield        MessageType = 70
)

var typeNames = map[MessageType]string{
	TypeHello:        "HELLO",
	TypeWelcome:      "WELCOME",
	TypeAbort:        "ABORT",
	TypeChallenge:    "CHALLENGE",
	TypeAuthenticate: "AUTHENTICATE",
	TypeGoodbye:      "GOODBYE",
	TypeError:        "ERROR",
	TypePublish:      "PUBLISH",
	TypePublished:    "PUBLISHED",
	TypeSubscribe:    "SUBSCRIBE",
	TypeSubscribed:   "SUBSCRIBED",
	TypeUnsubscribe:  "UNSUBSCRIBE",
	TypeUnsubscribed: "UNSUBSCRIBED",
	TypeEvent:        "EVENT",
	TypeCall:         "CALL",
	TypeCancel:       "CANCEL",
	TypeResult:       "RESULT",
	TypeRegister:     "REGISTER",
	TypeRegistered:   "REGISTERED",
	TypeUnregister:   "UNREGISTER",
	TypeUnregistered: "UNREGISTERED",
	TypeInvocation:   "INVOCATION",
	TypeInterrupt:    "INTERRUPT",
	TypeYield:        "YIELD",
}

// String returns the protocol name of the type, or EXTENSION(n) for unknown tags.
func (t MessageType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "EXTENSION(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// Known reports whether t is one of the protocol's message constants.
func (t MessageType) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// Types returns every known message type in ascending tag order.
func Types() []MessageType {
	out := make([]MessageType, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, s.Type)
	}
	return out
}
