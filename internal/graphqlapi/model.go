// Package graphqlapi implements the GraphQL adapter (part of C10): a
// single Resolver satisfying both the query and mutation capability sets
// of proto/categories/v1/schema.graphqls, dispatching to
// internal/category.Service exactly as internal/grpcapi does — modeled as
// one Go struct implementing two capability-set interfaces, not an
// inheritance hierarchy, per spec.md §9's dynamic-dispatch note.
//
// The resolver method bodies here are written against the shape
// `go generate` (gqlgen, see gqlgen.yml) would wire into
// internal/graphqlapi/generated; that generated executable schema is not
// committed (see DESIGN.md).
package graphqlapi

import (
	"time"

	"github.com/sellershut/categories/internal/category"
)

// Category is the GraphQL-facing projection of category.Category.
type Category struct {
	ID            string
	Name          string
	SubCategories []string
	ImageURL      *string
	ParentID      *string
	CreatedAt     string
	UpdatedAt     string
}

func toGraphQL(c category.Category) *Category {
	return &Category{
		ID:            c.ID,
		Name:          c.Name,
		SubCategories: c.SubCategories,
		ImageURL:      c.ImageURL,
		ParentID:      c.ParentID,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// CategoryInput is the GraphQL-facing Create/Update payload.
type CategoryInput struct {
	ID            *string
	Name          string
	SubCategories []string
	ImageURL      *string
	ParentID      *string
}

func (in CategoryInput) toDomain() category.Category {
	c := category.Category{
		Name:          in.Name,
		SubCategories: in.SubCategories,
		ImageURL:      in.ImageURL,
		ParentID:      in.ParentID,
	}
	if in.ID != nil {
		c.ID = *in.ID
	}
	return c
}

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
}

type CategoryEdge struct {
	Cursor string
	Node   *Category
}

type CategoryConnection struct {
	Edges    []*CategoryEdge
	PageInfo *PageInfo
}

func toGraphQLConnection(c category.Connection) *CategoryConnection {
	edges := make([]*CategoryEdge, len(c.Edges))
	for i, e := range c.Edges {
		node := e.Node
		edges[i] = &CategoryEdge{Cursor: e.Cursor, Node: toGraphQL(node)}
	}
	return &CategoryConnection{
		Edges: edges,
		PageInfo: &PageInfo{
			HasNextPage:     c.PageInfo.HasNextPage,
			HasPreviousPage: c.PageInfo.HasPreviousPage,
		},
	}
}

func toPagination(first *int32, after *string, last *int32, before *string) category.Pagination {
	return category.Pagination{First: first, After: after, Last: last, Before: before}
}
