package grpcapi

import (
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// rawMessage is the in/out type every handler in this package works with:
// it carries exactly the bytes the wire put on or will put on the stream.
// Decoding those bytes into the request's fields, and encoding the
// response's fields into bytes, is done by the hand-rolled
// marshal*/unmarshal* functions in messages.go — the same protowire-based
// technique internal/wire uses for event payloads.
type rawMessage []byte

// rawCodec is a grpc encoding.Codec that passes bytes through unchanged
// instead of requiring proto.Message/protoreflect conformance, which this
// build cannot produce without running protoc. It is registered under the
// name "proto" so it is selected for requests whose content-type names
// that codec (the default for any protobuf-speaking client). Values that are
// real proto.Message types, such as the reflection service's own messages,
// are encoded and decoded with the standard protobuf codec.
type rawCodec struct{}

func (rawCodec) Name() string { return "proto" }

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case rawMessage:
		return m, nil
	case *rawMessage:
		return *m, nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, errCodecType
	}
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	if pm, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, pm)
	}
	m, ok := v.(*rawMessage)
	if !ok {
		return errCodecType
	}
	*m = append((*m)[:0], data...)
	return nil
}

var errCodecType = codecTypeError{}

type codecTypeError struct{}

func (codecTypeError) Error() string { return "grpcapi: codec given a non-rawMessage value" }

// RegisterCodec installs rawCodec as the process-wide "proto" codec. Call
// once during server bootstrap before grpc.NewServer.
func RegisterCodec() {
	encoding.RegisterCodec(rawCodec{})
}
