// Package wamp implements the WAMP message frame codec.
//
// Every message travels as a positional array whose first element is the
// message type tag. Encode and DecodeAs translate between the typed structs
// in this package and that array form using one declarative schema per
// type; DecodeAny picks the schema from the tag and keeps frames with
// unknown tags as Extension values. DirectionOf answers which peer roles
// may send or receive a given message type.
//
// The package does no I/O and keeps no state. Request ids for new messages
// come from an injectable idgen.Generator.
package wamp
