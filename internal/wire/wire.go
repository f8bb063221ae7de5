// Package wire hand-encodes and hand-decodes the event payload types
// (category.Category, category.ConnectionCacheRequest) directly against the
// low-level protobuf wire format described by proto/categories/v1/categories.proto,
// using google.golang.org/protobuf/encoding/protowire.
//
// This is deliberately not generated code: generating it requires running
// protoc/buf, which this module's build process does not do. protowire's
// reader/writer primitives encode and decode the same wire bytes a
// generated implementation would produce, without requiring compiled
// descriptors or protoreflect.ProtoMessage conformance, so payloads written
// by a real protoc-gen-go client remain readable here and vice versa.
package wire

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/errs"
)

// Field numbers mirror proto/categories/v1/categories.proto exactly.
const (
	fieldCategoryID            = 1
	fieldCategoryName          = 2
	fieldCategorySubCategories = 3
	fieldCategoryImageURL      = 4
	fieldCategoryParentID      = 5
	fieldCategoryCreatedAt     = 6
	fieldCategoryUpdatedAt     = 7

	fieldTimestampSeconds = 1
	fieldTimestampNanos   = 2

	fieldPageInfoHasNext     = 1
	fieldPageInfoHasPrevious = 2

	fieldEdgeCursor = 1
	fieldEdgeNode   = 2

	fieldConnectionEdges    = 1
	fieldConnectionPageInfo = 2

	fieldPaginationFirst  = 1
	fieldPaginationAfter  = 2
	fieldPaginationLast   = 3
	fieldPaginationBefore = 4

	fieldCCRConnection = 1
	fieldCCRPagination = 2
	fieldCCRParentID   = 3
	fieldCCRScoped     = 4
)

// MarshalCategory encodes c to its protobuf wire bytes, suitable as an
// event payload for a SetSingle/UpdateSingle/DeleteSingle event.
func MarshalCategory(c category.Category) []byte {
	var b []byte
	b = appendString(b, fieldCategoryID, c.ID)
	b = appendString(b, fieldCategoryName, c.Name)
	for _, sub := range c.SubCategories {
		b = appendString(b, fieldCategorySubCategories, sub)
	}
	if c.ImageURL != nil {
		b = appendString(b, fieldCategoryImageURL, *c.ImageURL)
	}
	if c.ParentID != nil {
		b = appendString(b, fieldCategoryParentID, *c.ParentID)
	}
	b = appendMessage(b, fieldCategoryCreatedAt, marshalTimestamp(c.CreatedAt))
	b = appendMessage(b, fieldCategoryUpdatedAt, marshalTimestamp(c.UpdatedAt))
	return b
}

// UnmarshalCategory reverses MarshalCategory.
func UnmarshalCategory(data []byte) (category.Category, error) {
	var c category.Category
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v []byte, raw []byte) (int, error) {
		switch num {
		case fieldCategoryID:
			s, n, err := consumeString(typ, raw)
			c.ID = s
			return n, err
		case fieldCategoryName:
			s, n, err := consumeString(typ, raw)
			c.Name = s
			return n, err
		case fieldCategorySubCategories:
			s, n, err := consumeString(typ, raw)
			c.SubCategories = append(c.SubCategories, s)
			return n, err
		case fieldCategoryImageURL:
			s, n, err := consumeString(typ, raw)
			c.ImageURL = &s
			return n, err
		case fieldCategoryParentID:
			s, n, err := consumeString(typ, raw)
			c.ParentID = &s
			return n, err
		case fieldCategoryCreatedAt:
			msg, n, err := consumeBytes(typ, raw)
			if err != nil {
				return n, err
			}
			t, err := unmarshalTimestamp(msg)
			c.CreatedAt = t
			return n, err
		case fieldCategoryUpdatedAt:
			msg, n, err := consumeBytes(typ, raw)
			if err != nil {
				return n, err
			}
			t, err := unmarshalTimestamp(msg)
			c.UpdatedAt = t
			return n, err
		default:
			return skipUnknown(typ, raw)
		}
	})
	return c, err
}

// MarshalConnectionCacheRequest encodes r to its protobuf wire bytes, the
// payload of an UpdateBatch event.
func MarshalConnectionCacheRequest(r category.ConnectionCacheRequest) []byte {
	var b []byte
	b = appendMessage(b, fieldCCRConnection, marshalConnection(r.Connection))
	b = appendMessage(b, fieldCCRPagination, marshalPagination(r.Pagination))
	if r.ParentID != nil {
		b = appendString(b, fieldCCRParentID, *r.ParentID)
	}
	b = appendBool(b, fieldCCRScoped, r.Scoped)
	return b
}

// UnmarshalConnectionCacheRequest reverses MarshalConnectionCacheRequest.
func UnmarshalConnectionCacheRequest(data []byte) (category.ConnectionCacheRequest, error) {
	var r category.ConnectionCacheRequest
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v []byte, raw []byte) (int, error) {
		switch num {
		case fieldCCRConnection:
			msg, n, err := consumeBytes(typ, raw)
			if err != nil {
				return n, err
			}
			conn, err := unmarshalConnection(msg)
			r.Connection = conn
			return n, err
		case fieldCCRPagination:
			msg, n, err := consumeBytes(typ, raw)
			if err != nil {
				return n, err
			}
			p, err := unmarshalPagination(msg)
			r.Pagination = p
			return n, err
		case fieldCCRParentID:
			s, n, err := consumeString(typ, raw)
			r.ParentID = &s
			return n, err
		case fieldCCRScoped:
			b, n, err := consumeBool(typ, raw)
			r.Scoped = b
			return n, err
		default:
			return skipUnknown(typ, raw)
		}
	})
	return r, err
}

// MarshalConnection encodes a Connection on its own, for use as a gRPC
// response body by internal/grpcapi.
func MarshalConnection(c category.Connection) []byte { return marshalConnection(c) }

// UnmarshalConnection reverses MarshalConnection.
func UnmarshalConnection(data []byte) (category.Connection, error) { return unmarshalConnection(data) }

// MarshalPagination encodes a Pagination on its own, for embedding in
// gRPC request messages by internal/grpcapi.
func MarshalPagination(p category.Pagination) []byte { return marshalPagination(p) }

// UnmarshalPagination reverses MarshalPagination.
func UnmarshalPagination(data []byte) (category.Pagination, error) { return unmarshalPagination(data) }

func marshalConnection(c category.Connection) []byte {
	var b []byte
	for _, e := range c.Edges {
		b = appendMessage(b, fieldConnectionEdges, marshalEdge(e))
	}
	b = appendMessage(b, fieldConnectionPageInfo, marshalPageInfo(c.PageInfo))
	return b
}

func unmarshalConnection(data []byte) (category.Connection, error) {
	var c category.Connection
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v []byte, raw []byte) (int, error) {
		switch num {
		case fieldConnectionEdges:
			msg, n, err := consumeBytes(typ, raw)
			if err != nil {
				return n, err
			}
			e, err := unmarshalEdge(msg)
			c.Edges = append(c.Edges, e)
			return n, err
		case fieldConnectionPageInfo:
			msg, n, err := consumeBytes(typ, raw)
			if err != nil {
				return n, err
			}
			pi, err := unmarshalPageInfo(msg)
			c.PageInfo = pi
			return n, err
		default:
			return skipUnknown(typ, raw)
		}
	})
	return c, err
}

func marshalEdge(e category.Edge) []byte {
	var b []byte
	b = appendString(b, fieldEdgeCursor, e.Cursor)
	b = appendMessage(b, fieldEdgeNode, MarshalCategory(e.Node))
	return b
}

func unmarshalEdge(data []byte) (category.Edge, error) {
	var e category.Edge
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v []byte, raw []byte) (int, error) {
		switch num {
		case fieldEdgeCursor:
			s, n, err := consumeString(typ, raw)
			e.Cursor = s
			return n, err
		case fieldEdgeNode:
			msg, n, err := consumeBytes(typ, raw)
			if err != nil {
				return n, err
			}
			node, err := UnmarshalCategory(msg)
			e.Node = node
			return n, err
		default:
			return skipUnknown(typ, raw)
		}
	})
	return e, err
}

func marshalPageInfo(pi category.PageInfo) []byte {
	var b []byte
	b = appendBool(b, fieldPageInfoHasNext, pi.HasNextPage)
	b = appendBool(b, fieldPageInfoHasPrevious, pi.HasPreviousPage)
	return b
}

func unmarshalPageInfo(data []byte) (category.PageInfo, error) {
	var pi category.PageInfo
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v []byte, raw []byte) (int, error) {
		switch num {
		case fieldPageInfoHasNext:
			b, n, err := consumeBool(typ, raw)
			pi.HasNextPage = b
			return n, err
		case fieldPageInfoHasPrevious:
			b, n, err := consumeBool(typ, raw)
			pi.HasPreviousPage = b
			return n, err
		default:
			return skipUnknown(typ, raw)
		}
	})
	return pi, err
}

func marshalPagination(p category.Pagination) []byte {
	var b []byte
	if p.First != nil {
		b = appendInt32(b, fieldPaginationFirst, *p.First)
	}
	if p.After != nil {
		b = appendString(b, fieldPaginationAfter, *p.After)
	}
	if p.Last != nil {
		b = appendInt32(b, fieldPaginationLast, *p.Last)
	}
	if p.Before != nil {
		b = appendString(b, fieldPaginationBefore, *p.Before)
	}
	return b
}

func unmarshalPagination(data []byte) (category.Pagination, error) {
	var p category.Pagination
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v []byte, raw []byte) (int, error) {
		switch num {
		case fieldPaginationFirst:
			i, n, err := consumeInt32(typ, raw)
			p.First = &i
			return n, err
		case fieldPaginationAfter:
			s, n, err := consumeString(typ, raw)
			p.After = &s
			return n, err
		case fieldPaginationLast:
			i, n, err := consumeInt32(typ, raw)
			p.Last = &i
			return n, err
		case fieldPaginationBefore:
			s, n, err := consumeString(typ, raw)
			p.Before = &s
			return n, err
		default:
			return skipUnknown(typ, raw)
		}
	})
	return p, err
}

func marshalTimestamp(t time.Time) []byte {
	var b []byte
	secs := t.Unix()
	nanos := int32(t.Nanosecond())
	if secs != 0 {
		b = protowire.AppendTag(b, fieldTimestampSeconds, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(secs))
	}
	if nanos != 0 {
		b = protowire.AppendTag(b, fieldTimestampNanos, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(nanos))
	}
	return b
}

func unmarshalTimestamp(data []byte) (time.Time, error) {
	var secs int64
	var nanos int32
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v []byte, raw []byte) (int, error) {
		switch num {
		case fieldTimestampSeconds:
			n, m, err := consumeVarint(typ, raw)
			secs = int64(n)
			return m, err
		case fieldTimestampNanos:
			n, m, err := consumeVarint(typ, raw)
			nanos = int32(n)
			return m, err
		default:
			return skipUnknown(typ, raw)
		}
	})
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, int64(nanos)).UTC(), nil
}

// --- low-level append helpers ---

func appendString(b []byte, field protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, field protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendBool(b []byte, field protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, field, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendInt32(b []byte, field protowire.Number, v int32) []byte {
	b = protowire.AppendTag(b, field, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(uint32(v)))
}

// --- low-level consume helpers ---

func consumeString(typ protowire.Type, raw []byte) (string, int, error) {
	b, n, err := consumeBytes(typ, raw)
	if err != nil {
		return "", n, err
	}
	return string(b), n, nil
}

func consumeBytes(typ protowire.Type, raw []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, errs.New(errs.Internal, "wire: expected bytes-typed field")
	}
	v, n := protowire.ConsumeBytes(raw)
	if n < 0 {
		return nil, 0, errs.New(errs.Internal, "wire: malformed bytes field")
	}
	return v, n, nil
}

func consumeBool(typ protowire.Type, raw []byte) (bool, int, error) {
	v, n, err := consumeVarint(typ, raw)
	return v != 0, n, err
}

func consumeInt32(typ protowire.Type, raw []byte) (int32, int, error) {
	v, n, err := consumeVarint(typ, raw)
	return int32(uint32(v)), n, err
}

func consumeVarint(typ protowire.Type, raw []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, errs.New(errs.Internal, "wire: expected varint-typed field")
	}
	v, n := protowire.ConsumeVarint(raw)
	if n < 0 {
		return 0, 0, errs.New(errs.Internal, "wire: malformed varint field")
	}
	return v, n, nil
}

func skipUnknown(typ protowire.Type, raw []byte) (int, error) {
	n := protowire.ConsumeFieldValue(0, typ, raw)
	if n < 0 {
		return 0, errs.New(errs.Internal, "wire: malformed unknown field")
	}
	return n, nil
}

// walkFields iterates the top-level fields of data, invoking fn for each
// with the already-consumed tag stripped and the remaining bytes starting
// at the field value. fn must return the number of bytes of raw it
// consumed for the value.
func walkFields(data []byte, fn func(num protowire.Number, typ protowire.Type, value []byte, raw []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(data)
		if tagLen < 0 {
			return errs.New(errs.Internal, "wire: malformed tag")
		}
		rest := data[tagLen:]
		n, err := fn(num, typ, nil, rest)
		if err != nil {
			return err
		}
		data = rest[n:]
	}
	return nil
}
