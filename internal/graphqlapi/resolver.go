package graphqlapi

import (
	"context"

	"github.com/sellershut/categories/internal/category"
)

// Service is the subset of category.Service the GraphQL adapter depends
// on; identical in shape to internal/grpcapi.Service, since both adapters
// front the same domain service.
type Service interface {
	Create(ctx context.Context, input category.Category) (category.Category, error)
	Update(ctx context.Context, input category.Category) (category.Category, error)
	Delete(ctx context.Context, id string) error
	CategoryById(ctx context.Context, id string) (category.Category, error)
	Categories(ctx context.Context, p category.Pagination) (category.Connection, error)
	SubCategories(ctx context.Context, parentID *string, p category.Pagination) (category.Connection, error)
}

// Resolver is the single root type gqlgen would bind Query and Mutation
// resolvers to (resolver.go, in gqlgen's follow-schema layout). It
// implements both capability sets by itself.
type Resolver struct {
	svc Service
}

// NewResolver constructs a Resolver over svc.
func NewResolver(svc Service) *Resolver { return &Resolver{svc: svc} }

// Categories implements the `categories` query.
func (r *Resolver) Categories(ctx context.Context, first *int32, after *string, last *int32, before *string) (*CategoryConnection, error) {
	conn, err := r.svc.Categories(ctx, toPagination(first, after, last, before))
	if err != nil {
		return nil, err
	}
	return toGraphQLConnection(conn), nil
}

// SubCategories implements the `subCategories` query.
func (r *Resolver) SubCategories(ctx context.Context, parentID *string, first *int32, after *string, last *int32, before *string) (*CategoryConnection, error) {
	conn, err := r.svc.SubCategories(ctx, parentID, toPagination(first, after, last, before))
	if err != nil {
		return nil, err
	}
	return toGraphQLConnection(conn), nil
}

// CategoryById implements the `categoryById` query.
func (r *Resolver) CategoryById(ctx context.Context, id string) (*Category, error) {
	c, err := r.svc.CategoryById(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGraphQL(c), nil
}

// Create implements the `create` mutation.
func (r *Resolver) Create(ctx context.Context, input CategoryInput) (*Category, error) {
	c, err := r.svc.Create(ctx, input.toDomain())
	if err != nil {
		return nil, err
	}
	return toGraphQL(c), nil
}

// Update implements the `update` mutation.
func (r *Resolver) Update(ctx context.Context, input CategoryInput) (*Category, error) {
	c, err := r.svc.Update(ctx, input.toDomain())
	if err != nil {
		return nil, err
	}
	return toGraphQL(c), nil
}

// Delete implements the `delete` mutation.
func (r *Resolver) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.svc.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
