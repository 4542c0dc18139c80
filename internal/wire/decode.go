package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// DecodeClientMessage parses a request union from protobuf wire format.
// It returns ErrMalformed for bytes that do not parse, and ErrUnknownKind
// when the payload sets no recognized variant.
func DecodeClientMessage(b []byte) (*ClientMessage, error) {
	msg := &ClientMessage{}
	err := walkFields(b, func(num protowire.Number, payload []byte) error {
		switch num {
		case fieldUnionEcho:
			echo, err := decodeEcho(payload)
			if err != nil {
				return err
			}
			msg.Echo = echo
			msg.Add = nil
		case fieldUnionAdd:
			add, err := decodeAddRequest(payload)
			if err != nil {
				return err
			}
			msg.Add = add
			msg.Echo = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if msg.Kind() == KindNone {
		return nil, ErrUnknownKind
	}
	return msg, nil
}

// DecodeServerMessage parses a response union from protobuf wire format.
func DecodeServerMessage(b []byte) (*ServerMessage, error) {
	msg := &ServerMessage{}
	err := walkFields(b, func(num protowire.Number, payload []byte) error {
		switch num {
		case fieldUnionEcho:
			echo, err := decodeEcho(payload)
			if err != nil {
				return err
			}
			msg.Echo = echo
			msg.Add = nil
		case fieldUnionAdd:
			add, err := decodeAddResponse(payload)
			if err != nil {
				return err
			}
			msg.Add = add
			msg.Echo = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if msg.Kind() == KindNone {
		return nil, ErrUnknownKind
	}
	return msg, nil
}

// walkFields iterates the length-delimited fields of a union payload.
// Unknown fields are skipped; fields with a non-bytes wire type for a
// union member are rejected.
func walkFields(b []byte, visit func(num protowire.Number, payload []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		if (num == fieldUnionEcho || num == fieldUnionAdd) && typ == protowire.BytesType {
			payload, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			if err := visit(num, payload); err != nil {
				return err
			}
			b = b[n:]
			continue
		}

		// Unknown field: skip its value
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func decodeEcho(b []byte) (*EchoMessage, error) {
	msg := &EchoMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		if num == fieldEchoContent && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			msg.Content = v
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return msg, nil
}

func decodeAddRequest(b []byte) (*AddRequest, error) {
	msg := &AddRequest{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		if typ == protowire.VarintType && (num == fieldAddA || num == fieldAddB) {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			if num == fieldAddA {
				msg.A = int32(v)
			} else {
				msg.B = int32(v)
			}
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return msg, nil
}

func decodeAddResponse(b []byte) (*AddResponse, error) {
	msg := &AddResponse{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		if num == fieldAddResult && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			msg.Result = int32(v)
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return msg, nil
}
