package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/sellershut/categories/internal/category"
	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/wire"
)

// Service is the subset of category.Service the gRPC adapter depends on.
type Service interface {
	Create(ctx context.Context, input category.Category) (category.Category, error)
	Update(ctx context.Context, input category.Category) (category.Category, error)
	Delete(ctx context.Context, id string) error
	CategoryById(ctx context.Context, id string) (category.Category, error)
	Categories(ctx context.Context, p category.Pagination) (category.Connection, error)
	SubCategories(ctx context.Context, parentID *string, p category.Pagination) (category.Connection, error)
}

type server struct {
	svc Service
}

// Register wires svc's two services (QueryCategories, MutateCategories)
// onto grpcServer and enables reflection. RegisterCodec must have been
// called beforehand (once per process).
func Register(grpcServer *grpc.Server, svc Service) {
	s := &server{svc: svc}
	grpcServer.RegisterService(&queryCategoriesDesc, s)
	grpcServer.RegisterService(&mutateCategoriesDesc, s)
	reflection.Register(grpcServer)
}

// --- QueryCategories ---

func (s *server) categories(ctx context.Context, dec func(any) error) (any, error) {
	in := new(rawMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	p, err := unmarshalCategoriesRequest(*in)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	conn, err := s.svc.Categories(ctx, p)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	return rawMessage(wire.MarshalConnection(conn)), nil
}

func (s *server) subCategories(ctx context.Context, dec func(any) error) (any, error) {
	in := new(rawMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	parentID, p, err := unmarshalGetSubCategoriesRequest(*in)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	conn, err := s.svc.SubCategories(ctx, parentID, p)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	return rawMessage(wire.MarshalConnection(conn)), nil
}

func (s *server) categoryById(ctx context.Context, dec func(any) error) (any, error) {
	in := new(rawMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	id, err := unmarshalGetCategoryRequest(*in)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	c, err := s.svc.CategoryById(ctx, id)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	return rawMessage(wire.MarshalCategory(c)), nil
}

// --- MutateCategories ---

func (s *server) create(ctx context.Context, dec func(any) error) (any, error) {
	in := new(rawMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	input, _, err := unmarshalUpsertCategoryRequest(*in)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	c, err := s.svc.Create(ctx, input)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	return rawMessage(wire.MarshalCategory(c)), nil
}

func (s *server) update(ctx context.Context, dec func(any) error) (any, error) {
	in := new(rawMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	input, _, err := unmarshalUpsertCategoryRequest(*in)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	c, err := s.svc.Update(ctx, input)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	return rawMessage(wire.MarshalCategory(c)), nil
}

func (s *server) delete(ctx context.Context, dec func(any) error) (any, error) {
	in := new(rawMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	id, _, err := unmarshalDeleteCategoryRequest(*in)
	if err != nil {
		return nil, errs.GRPCStatus(err)
	}
	if err := s.svc.Delete(ctx, id); err != nil {
		return nil, errs.GRPCStatus(err)
	}
	return rawMessage(nil), nil
}

// --- service descriptors ---
//
// These are the hand-written equivalent of what protoc-gen-go-grpc would
// emit from proto/categories/v1/categories.proto; see that file for the
// canonical RPC shapes.

var queryCategoriesDesc = grpc.ServiceDesc{
	ServiceName: "categories.v1.QueryCategories",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Categories", Handler: queryCategoriesHandler((*server).categories)},
		{MethodName: "SubCategories", Handler: queryCategoriesHandler((*server).subCategories)},
		{MethodName: "CategoryById", Handler: queryCategoriesHandler((*server).categoryById)},
	},
	Metadata: "categories/v1/categories.proto",
}

var mutateCategoriesDesc = grpc.ServiceDesc{
	ServiceName: "categories.v1.MutateCategories",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: queryCategoriesHandler((*server).create)},
		{MethodName: "Update", Handler: queryCategoriesHandler((*server).update)},
		{MethodName: "Delete", Handler: queryCategoriesHandler((*server).delete)},
	},
	Metadata: "categories/v1/categories.proto",
}

// queryCategoriesHandler adapts one of server's method implementations to
// grpc.MethodHandler's signature, applying any configured unary
// interceptor around the call.
func queryCategoriesHandler(fn func(*server, context.Context, func(any) error) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		s := srv.(*server)
		if interceptor == nil {
			return fn(s, ctx, dec)
		}
		info := &grpc.UnaryServerInfo{Server: s}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(s, ctx, dec)
		}
		return interceptor(ctx, nil, info, handler)
	}
}
