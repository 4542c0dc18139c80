package wire

import "google.golang.org/protobuf/encoding/protowire"

// EncodeClientMessage encodes a request union into protobuf wire format.
func EncodeClientMessage(m *ClientMessage) ([]byte, error) {
	switch {
	case m.Echo != nil:
		return appendUnionField(nil, fieldUnionEcho, encodeEcho(m.Echo)), nil
	case m.Add != nil:
		return appendUnionField(nil, fieldUnionAdd, encodeAddRequest(m.Add)), nil
	default:
		return nil, ErrUnknownKind
	}
}

// EncodeServerMessage encodes a response union into protobuf wire format.
func EncodeServerMessage(m *ServerMessage) ([]byte, error) {
	switch {
	case m.Echo != nil:
		return appendUnionField(nil, fieldUnionEcho, encodeEcho(m.Echo)), nil
	case m.Add != nil:
		return appendUnionField(nil, fieldUnionAdd, encodeAddResponse(m.Add)), nil
	default:
		return nil, ErrUnknownKind
	}
}

// appendUnionField writes one length-delimited union member.
func appendUnionField(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

func encodeEcho(m *EchoMessage) []byte {
	var b []byte
	if m.Content != "" {
		b = protowire.AppendTag(b, fieldEchoContent, protowire.BytesType)
		b = protowire.AppendString(b, m.Content)
	}
	return b
}

func encodeAddRequest(m *AddRequest) []byte {
	var b []byte
	if m.A != 0 {
		b = protowire.AppendTag(b, fieldAddA, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.A)))
	}
	if m.B != 0 {
		b = protowire.AppendTag(b, fieldAddB, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.B)))
	}
	return b
}

func encodeAddResponse(m *AddResponse) []byte {
	var b []byte
	if m.Result != 0 {
		b = protowire.AppendTag(b, fieldAddResult, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.Result)))
	}
	return b
}
