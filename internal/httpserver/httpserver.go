// Package httpserver implements the combined HTTP/gRPC listener: a single
// TCP port multiplexing gRPC (by content-type) and HTTP (health check,
// development playground, GraphQL endpoint), grounded on the teacher's
// router Init()/Run()/Stop() lifecycle shape (forbearing-gst/router).
package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"

	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/graphqlapi"
)

// Config configures the combined listener.
type Config struct {
	Addr        string
	Environment string // "development" enables the playground at GET /
}

// Server is the combined HTTP/gRPC listener.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the combined listener. grpcServer must already have had its
// services registered (see internal/grpcapi.Register). resolver serves the
// GraphQL surface.
func New(cfg Config, grpcServer *grpc.Server, resolver *graphqlapi.Resolver, logger *zap.Logger) *Server {
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	gin.SetMode(ginMode(cfg.Environment))
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	if cfg.Environment == "development" {
		engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, playgroundHTML) })
	}

	engine.POST("/graphql", graphQLHandler(resolver))

	mux := &contentTypeMux{grpc: grpcServer, http: engine}
	h2s := &http2.Server{}

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: h2c.NewHandler(mux, h2s),
		},
		logger: logger,
	}
}

// Run blocks serving until the listener is closed or an unrecoverable
// error occurs.
func (s *Server) Run() error {
	s.logger.Info("http/grpc listener starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errs.Wrap(errs.Internal, err, "http/grpc listener")
	}
	return nil
}

// Stop gracefully shuts down the listener.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// contentTypeMux routes gRPC requests (HTTP/2 with an application/grpc*
// content-type) to the gRPC server and everything else to the HTTP mux,
// per spec.md §6.
type contentTypeMux struct {
	grpc *grpc.Server
	http http.Handler
}

func (m *contentTypeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc") {
		m.grpc.ServeHTTP(w, r)
		return
	}
	m.http.ServeHTTP(w, r)
}

func ginMode(environment string) string {
	if environment == "development" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// graphQLHandler executes incoming GraphQL requests against resolver.
// Until `go generate` produces the gqlgen executable schema (see
// gqlgen.yml, DESIGN.md), this serves the query/mutation fields gqlgen
// would otherwise dispatch, via a minimal hand-rolled JSON contract
// matching the schema's top-level operations.
func graphQLHandler(resolver *graphqlapi.Resolver) gin.HandlerFunc {
	h := newRequestHandler(resolver)
	return func(c *gin.Context) { h.ServeHTTP(c.Writer, c.Request) }
}
