// Package grpcapi implements the gRPC adapter (part of C10): the
// QueryCategories and MutateCategories services described in
// proto/categories/v1/categories.proto and spec.md §6, dispatching to
// internal/category.Service.
//
// Request/response messages are hand-encoded against the wire format the
// .proto file describes, the same protowire-based technique internal/wire
// uses for event payloads (see that package's doc comment and DESIGN.md for
// why: no protoc invocation is available to this build).
package grpcapi

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/wire"
)

// EventKind mirrors the UpsertCategoryRequest/DeleteCategoryRequest "event"
// field of categories.proto.
type EventKind int32

const (
	EventKindUnspecified EventKind = 0
	EventKindCreate      EventKind = 1
	EventKindUpdate      EventKind = 2
	EventKindDelete      EventKind = 3
)

// Empty mirrors google.protobuf.Empty: it carries no fields, so it has no
// marshal/unmarshal pair of its own.
type Empty struct{}

// appendStringField/appendBytesField/appendVarintField and their consume
// counterparts are the small hand-rolled field helpers shared by the
// request/response messages in this file.
func appendStringField(b []byte, field protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytesField(b []byte, field protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarintField(b []byte, field protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, field, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func walk(data []byte, fn func(num protowire.Number, typ protowire.Type, raw []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errs.New(errs.Internal, "grpcapi: malformed tag")
		}
		rest := data[n:]
		consumed, err := fn(num, typ, rest)
		if err != nil {
			return err
		}
		data = rest[consumed:]
	}
	return nil
}

func consumeStringField(typ protowire.Type, raw []byte) (string, int, error) {
	if typ != protowire.BytesType {
		return "", 0, errs.New(errs.Internal, "grpcapi: expected bytes field")
	}
	v, n := protowire.ConsumeBytes(raw)
	if n < 0 {
		return "", 0, errs.New(errs.Internal, "grpcapi: malformed bytes field")
	}
	return string(v), n, nil
}

func consumeBytesField(typ protowire.Type, raw []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, errs.New(errs.Internal, "grpcapi: expected bytes field")
	}
	v, n := protowire.ConsumeBytes(raw)
	if n < 0 {
		return nil, 0, errs.New(errs.Internal, "grpcapi: malformed bytes field")
	}
	return v, n, nil
}

func consumeVarintField(typ protowire.Type, raw []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, errs.New(errs.Internal, "grpcapi: expected varint field")
	}
	v, n := protowire.ConsumeVarint(raw)
	if n < 0 {
		return 0, 0, errs.New(errs.Internal, "grpcapi: malformed varint field")
	}
	return v, n, nil
}

func skip(typ protowire.Type, raw []byte) (int, error) {
	n := protowire.ConsumeFieldValue(0, typ, raw)
	if n < 0 {
		return 0, errs.New(errs.Internal, "grpcapi: malformed unknown field")
	}
	return n, nil
}

// --- GetCategoryRequest { string id = 1; } ---

func marshalGetCategoryRequest(id string) []byte {
	return appendStringField(nil, 1, id)
}

func unmarshalGetCategoryRequest(data []byte) (string, error) {
	var id string
	err := walk(data, func(num protowire.Number, typ protowire.Type, raw []byte) (int, error) {
		if num == 1 {
			s, n, err := consumeStringField(typ, raw)
			id = s
			return n, err
		}
		return skip(typ, raw)
	})
	return id, err
}

// --- CategoriesRequest { Pagination pagination = 1; } ---

func marshalCategoriesRequest(p category.Pagination) []byte {
	return appendBytesField(nil, 1, wire.MarshalPagination(p))
}

func unmarshalCategoriesRequest(data []byte) (category.Pagination, error) {
	var p category.Pagination
	err := walk(data, func(num protowire.Number, typ protowire.Type, raw []byte) (int, error) {
		if num == 1 {
			msg, n, err := consumeBytesField(typ, raw)
			if err != nil {
				return n, err
			}
			decoded, err := wire.UnmarshalPagination(msg)
			p = decoded
			return n, err
		}
		return skip(typ, raw)
	})
	return p, err
}

// --- GetSubCategoriesRequest { optional string parent_id = 1; Pagination pagination = 2; } ---

func marshalGetSubCategoriesRequest(parentID *string, p category.Pagination) []byte {
	b := []byte{}
	if parentID != nil {
		b = appendStringField(b, 1, *parentID)
	}
	b = appendBytesField(b, 2, wire.MarshalPagination(p))
	return b
}

func unmarshalGetSubCategoriesRequest(data []byte) (*string, category.Pagination, error) {
	var parentID *string
	var p category.Pagination
	err := walk(data, func(num protowire.Number, typ protowire.Type, raw []byte) (int, error) {
		switch num {
		case 1:
			s, n, err := consumeStringField(typ, raw)
			parentID = &s
			return n, err
		case 2:
			msg, n, err := consumeBytesField(typ, raw)
			if err != nil {
				return n, err
			}
			decoded, err := wire.UnmarshalPagination(msg)
			p = decoded
			return n, err
		default:
			return skip(typ, raw)
		}
	})
	return parentID, p, err
}

// --- UpsertCategoryRequest { Category category = 1; EventKind event = 2; } ---

func marshalUpsertCategoryRequest(c category.Category, evt EventKind) []byte {
	b := appendBytesField(nil, 1, wire.MarshalCategory(c))
	b = appendVarintField(b, 2, uint64(evt))
	return b
}

func unmarshalUpsertCategoryRequest(data []byte) (category.Category, EventKind, error) {
	var c category.Category
	var evt EventKind
	err := walk(data, func(num protowire.Number, typ protowire.Type, raw []byte) (int, error) {
		switch num {
		case 1:
			msg, n, err := consumeBytesField(typ, raw)
			if err != nil {
				return n, err
			}
			decoded, err := wire.UnmarshalCategory(msg)
			c = decoded
			return n, err
		case 2:
			v, n, err := consumeVarintField(typ, raw)
			evt = EventKind(v)
			return n, err
		default:
			return skip(typ, raw)
		}
	})
	return c, evt, err
}

// --- DeleteCategoryRequest { string id = 1; EventKind event = 2; } ---

func marshalDeleteCategoryRequest(id string, evt EventKind) []byte {
	b := appendStringField(nil, 1, id)
	b = appendVarintField(b, 2, uint64(evt))
	return b
}

func unmarshalDeleteCategoryRequest(data []byte) (string, EventKind, error) {
	var id string
	var evt EventKind
	err := walk(data, func(num protowire.Number, typ protowire.Type, raw []byte) (int, error) {
		switch num {
		case 1:
			s, n, err := consumeStringField(typ, raw)
			id = s
			return n, err
		case 2:
			v, n, err := consumeVarintField(typ, raw)
			evt = EventKind(v)
			return n, err
		default:
			return skip(typ, raw)
		}
	})
	return id, evt, err
}
