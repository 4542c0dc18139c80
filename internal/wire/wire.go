// Package wire implements the echod wire protocol messages.
//
// Requests and responses are tagged unions encoded in protobuf wire
// format. Every request kind has exactly one paired response kind:
//
//	ClientMessage ::= echo_message(1): EchoMessage | add_request(2): AddRequest
//	ServerMessage ::= echo_message(1): EchoMessage | add_response(2): AddResponse
package wire

import "errors"

// Codec errors
var (
	// ErrMalformed is returned when bytes cannot be parsed as a message
	ErrMalformed = errors.New("wire: malformed message")
	// ErrUnknownKind is returned when a payload carries no known variant
	ErrUnknownKind = errors.New("wire: unknown message kind")
)

// Kind identifies a message variant inside a tagged union.
type Kind int

const (
	// KindNone means no variant is set.
	KindNone Kind = iota
	// KindEcho is an EchoMessage (request or response).
	KindEcho
	// KindAdd is an AddRequest or AddResponse.
	KindAdd
)

// String returns the string representation of the message kind.
func (k Kind) String() string {
	switch k {
	case KindEcho:
		return "echo"
	case KindAdd:
		return "add"
	default:
		return "none"
	}
}

// EchoMessage carries arbitrary text content. It is used both as a
// request and as its own response.
type EchoMessage struct {
	Content string
}

// AddRequest asks the server to compute A + B.
type AddRequest struct {
	A int32
	B int32
}

// AddResponse carries the result of an AddRequest.
type AddResponse struct {
	Result int32
}

// ClientMessage is the request union. Exactly one field is non-nil.
type ClientMessage struct {
	Echo *EchoMessage
	Add  *AddRequest
}

// Kind returns the variant set on the message.
func (m *ClientMessage) Kind() Kind {
	switch {
	case m.Echo != nil:
		return KindEcho
	case m.Add != nil:
		return KindAdd
	default:
		return KindNone
	}
}

// ServerMessage is the response union. Exactly one field is non-nil.
type ServerMessage struct {
	Echo *EchoMessage
	Add  *AddResponse
}

// Kind returns the variant set on the message.
func (m *ServerMessage) Kind() Kind {
	switch {
	case m.Echo != nil:
		return KindEcho
	case m.Add != nil:
		return KindAdd
	default:
		return KindNone
	}
}

// Field numbers of the union members and their payloads.
const (
	fieldUnionEcho = 1
	fieldUnionAdd  = 2

	fieldEchoContent = 1
	fieldAddA        = 1
	fieldAddB        = 2
	fieldAddResult   = 1
)
